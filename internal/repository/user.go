package repository

import (
	"context"

	"github.com/ErlanBelekov/devconnect/internal/domain"
)

// UserRepository owns persistence of user records, including uniqueness of
// the normalized email. Implementations report a duplicate email as
// domain.ErrUniqueViolation and a missing record as domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail leaves PasswordHash empty unless withPasswordHash is set;
	// only the login path asks for it.
	FindByEmail(ctx context.Context, email string, withPasswordHash bool) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
}
