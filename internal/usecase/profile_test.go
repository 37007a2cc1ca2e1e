package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/ErlanBelekov/devconnect/internal/usecase"
)

func TestUpdateProfile_AppliesUpdate(t *testing.T) {
	bio := "Go and Postgres"
	var gotID string
	var gotUpdate domain.ProfileUpdate

	repo := &fakeUserRepo{
		update: func(_ context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
			gotID, gotUpdate = id, update
			return &domain.User{ID: id, Bio: *update.Bio, PasswordHash: "$2a$10$leak"}, nil
		},
	}

	user, err := usecase.NewProfileUsecase(repo).UpdateProfile(context.Background(), "user-1", domain.ProfileUpdate{Bio: &bio})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "user-1" || gotUpdate.Bio == nil || *gotUpdate.Bio != bio {
		t.Errorf("repo got id=%q update=%+v", gotID, gotUpdate)
	}
	if user.Bio != bio {
		t.Errorf("bio = %q, want %q", user.Bio, bio)
	}
	if user.PasswordHash != "" {
		t.Error("updated user must not carry the password hash")
	}
}

func TestUpdateProfile_EmptyUpdate_ReadsCurrent(t *testing.T) {
	repo := &fakeUserRepo{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, FirstName: "Alice"}, nil
		},
		update: func(_ context.Context, _ string, _ domain.ProfileUpdate) (*domain.User, error) {
			t.Fatal("empty update must not write")
			return nil, nil
		},
	}

	user, err := usecase.NewProfileUsecase(repo).UpdateProfile(context.Background(), "user-1", domain.ProfileUpdate{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.FirstName != "Alice" {
		t.Errorf("first name = %q, want Alice", user.FirstName)
	}
}

func TestUpdateProfile_DeletedUser_RequiresAuthentication(t *testing.T) {
	name := "Alicia"
	repo := &fakeUserRepo{
		update: func(_ context.Context, _ string, _ domain.ProfileUpdate) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	_, err := usecase.NewProfileUsecase(repo).UpdateProfile(context.Background(), "user-1", domain.ProfileUpdate{FirstName: &name})
	if !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Errorf("want ErrAuthenticationRequired, got %v", err)
	}
}

func TestUpdateProfile_RepoError_IsInternal(t *testing.T) {
	name := "Alicia"
	repoErr := errors.New("db down")
	repo := &fakeUserRepo{
		update: func(_ context.Context, _ string, _ domain.ProfileUpdate) (*domain.User, error) {
			return nil, repoErr
		},
	}

	_, err := usecase.NewProfileUsecase(repo).UpdateProfile(context.Background(), "user-1", domain.ProfileUpdate{FirstName: &name})
	if !errors.Is(err, domain.ErrInternal) || !errors.Is(err, repoErr) {
		t.Errorf("want ErrInternal wrapping repoErr, got %v", err)
	}
}
