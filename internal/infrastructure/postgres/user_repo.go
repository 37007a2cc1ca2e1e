package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by *pgxpool.Pool and pgxmock.PgxPoolIface.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, email, first_name, last_name, birth_date, gender,
	bio, photos, dev, created_at, updated_at`

type UserRepository struct {
	pool querier
}

func NewUserRepository(pool querier) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	photos, err := json.Marshal(nonNilPhotos(user.Photos))
	if err != nil {
		return nil, fmt.Errorf("encode photos: %w", err)
	}

	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, bio, photos)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Bio,
		photos,
	)

	created, err := scanUser(row, false)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrUniqueViolation
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string, withPasswordHash bool) (*domain.User, error) {
	cols := userColumns
	if withPasswordHash {
		cols += ", password_hash"
	}
	query := `SELECT ` + cols + ` FROM users WHERE lower(email) = lower($1)`

	u, err := scanUser(r.pool.QueryRow(ctx, query, email), withPasswordHash)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id), false)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Update writes the non-nil fields of update and returns the stored row.
func (r *UserRepository) Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	var (
		args []any
		sets []string
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if update.FirstName != nil {
		set("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		set("last_name", *update.LastName)
	}
	if update.BirthDate != nil {
		set("birth_date", *update.BirthDate)
	}
	if update.Gender != nil {
		set("gender", string(*update.Gender))
	}
	if update.Bio != nil {
		set("bio", *update.Bio)
	}
	if update.Photos != nil {
		photos, err := json.Marshal(nonNilPhotos(*update.Photos))
		if err != nil {
			return nil, fmt.Errorf("encode photos: %w", err)
		}
		set("photos", photos)
	}
	if update.Dev != nil {
		dev, err := json.Marshal(update.Dev)
		if err != nil {
			return nil, fmt.Errorf("encode dev profile: %w", err)
		}
		set("dev", dev)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users
		SET    %s, updated_at = NOW()
		WHERE  id = $%d
		RETURNING %s`, strings.Join(sets, ", "), len(args), userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...), false)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row, withPasswordHash bool) (*domain.User, error) {
	var (
		u      domain.User
		gender *string
		photos []byte
		dev    []byte
	)
	dest := []any{
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.BirthDate, &gender,
		&u.Bio, &photos, &dev, &u.CreatedAt, &u.UpdatedAt,
	}
	if withPasswordHash {
		dest = append(dest, &u.PasswordHash)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		// A malformed id can't match any row.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if gender != nil {
		g := domain.Gender(*gender)
		u.Gender = &g
	}
	u.Photos = []domain.Photo{}
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &u.Photos); err != nil {
			return nil, fmt.Errorf("decode photos: %w", err)
		}
	}
	if len(dev) > 0 && string(dev) != "null" {
		u.Dev = &domain.DevProfile{}
		if err := json.Unmarshal(dev, u.Dev); err != nil {
			return nil, fmt.Errorf("decode dev profile: %w", err)
		}
	}
	return &u, nil
}

func nonNilPhotos(p []domain.Photo) []domain.Photo {
	if p == nil {
		return []domain.Photo{}
	}
	return p
}
