package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/ErlanBelekov/devconnect/internal/repository"
)

type ProfileUsecase struct {
	users repository.UserRepository
}

func NewProfileUsecase(users repository.UserRepository) *ProfileUsecase {
	return &ProfileUsecase{users: users}
}

// UpdateProfile applies the non-nil fields of update to the user's record.
// An empty update returns the stored profile unchanged.
func (u *ProfileUsecase) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (user *domain.User, err error) {
	defer func() { observe("update_profile", err) }()

	if update.IsEmpty() {
		user, err = u.users.FindByID(ctx, userID)
	} else {
		user, err = u.users.Update(ctx, userID, update)
	}
	if err != nil {
		// The account was removed after the gate resolved it.
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %s no longer exists", domain.ErrAuthenticationRequired, userID)
		}
		return nil, fmt.Errorf("%w: update profile: %w", domain.ErrInternal, err)
	}
	return user.Public(), nil
}
