package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/ErlanBelekov/devconnect/internal/metrics"
	"github.com/ErlanBelekov/devconnect/internal/repository"
)

// passwordHasher and tokenCodec are the parts of password.Hasher and
// token.Codec the core uses.
type passwordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hash string) (bool, error)
}

type tokenCodec interface {
	Issue(subject string) (string, time.Time, error)
	Verify(raw string) (string, error)
}

// dummyPassword is hashed once and verified against on logins for unknown
// emails, so both failure paths pay for one bcrypt comparison.
const dummyPassword = "devconnect-login-timing-placeholder"

type AuthUsecase struct {
	users  repository.UserRepository
	hasher passwordHasher
	tokens tokenCodec

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthUsecase(users repository.UserRepository, hasher passwordHasher, tokens tokenCodec) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register hashes the password and creates the account. The returned user
// never carries the password hash.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (user *domain.User, err error) {
	defer func() { observe("register", err) }()

	hash, err := u.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", domain.ErrInternal, err)
	}

	created, err := u.users.Create(ctx, &domain.User{
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Bio:          domain.DefaultBio,
		Photos:       []domain.Photo{},
	})
	if err != nil {
		if errors.Is(err, domain.ErrUniqueViolation) {
			return nil, domain.ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("%w: create user: %w", domain.ErrInternal, err)
	}
	return created.Public(), nil
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Login checks the credentials and issues a session token. An unknown
// email and a wrong password both return domain.ErrInvalidCredentials
// after the same amount of hashing work.
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (res *LoginResult, err error) {
	defer func() { observe("login", err) }()

	user, err := u.users.FindByEmail(ctx, domain.NormalizeEmail(in.Email), true)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		u.burnVerify(ctx, in.Password)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("%w: find user: %w", domain.ErrInternal, err)
	}

	ok, err := u.hasher.Verify(ctx, in.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: verify password for user %s: %w", domain.ErrInternal, user.ID, err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %w", domain.ErrInternal, err)
	}

	return &LoginResult{User: user.Public(), Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves the user behind a raw session token. Missing,
// invalid and expired tokens, and tokens for users that no longer exist,
// all return domain.ErrAuthenticationRequired.
func (u *AuthUsecase) Authenticate(ctx context.Context, raw string) (user *domain.User, err error) {
	defer func() { observe("authenticate", err) }()

	if raw == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	subject, err := u.tokens.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthenticationRequired, err)
	}

	user, err = u.users.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %s no longer exists", domain.ErrAuthenticationRequired, subject)
		}
		return nil, fmt.Errorf("%w: find user: %w", domain.ErrInternal, err)
	}
	return user.Public(), nil
}

// Logout keeps no server state; the caller clears the client's token.
// Tokens issued before a logout remain valid until they expire.
func (u *AuthUsecase) Logout(_ context.Context) {
	observe("logout", nil)
}

func (u *AuthUsecase) burnVerify(ctx context.Context, plaintext string) {
	u.dummyOnce.Do(func() {
		hash, err := u.hasher.Hash(context.WithoutCancel(ctx), dummyPassword)
		if err == nil {
			u.dummyHash = hash
		}
	})
	if u.dummyHash == "" {
		return
	}
	_, _ = u.hasher.Verify(ctx, plaintext, u.dummyHash)
}

func observe(operation string, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case errors.Is(err, domain.ErrInternal):
		outcome = metrics.OutcomeError
	case err != nil:
		outcome = metrics.OutcomeRejected
	}
	metrics.AuthOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
