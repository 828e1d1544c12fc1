package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AyanMustafa/Anevo/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Postgres error code for unique_violation.
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (email, username, name, password_hash, google_id, provider)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, email, username, name, password_hash, google_id, provider, created_at`

	var savedUser model.User
	err := r.db.QueryRow(ctx, query,
		user.Email, user.Username, user.Name, user.PasswordHash, user.GoogleID, user.Provider,
	).Scan(
		&savedUser.ID, &savedUser.Email, &savedUser.Username, &savedUser.Name,
		&savedUser.PasswordHash, &savedUser.GoogleID, &savedUser.Provider, &savedUser.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return savedUser, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	query := `SELECT id, email, username, name, password_hash, google_id, provider, created_at
			  FROM users WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Username, &user.Name,
		&user.PasswordHash, &user.GoogleID, &user.Provider, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	query := `SELECT id, email, username, name, password_hash, google_id, provider, created_at
			  FROM users WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Username, &user.Name,
		&user.PasswordHash, &user.GoogleID, &user.Provider, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	query := `SELECT id, email, username, name, password_hash, google_id, provider, created_at
			  FROM users WHERE username = $1`

	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Email, &user.Username, &user.Name,
		&user.PasswordHash, &user.GoogleID, &user.Provider, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// GetByIdentifier resolves a login identifier that may be either an
// email or a username.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	var user model.User
	query := `SELECT id, email, username, name, password_hash, google_id, provider, created_at
			  FROM users WHERE email = $1 OR username = $1`

	err := r.db.QueryRow(ctx, query, identifier).Scan(
		&user.ID, &user.Email, &user.Username, &user.Name,
		&user.PasswordHash, &user.GoogleID, &user.Provider, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	return user, nil
}

// UpdateGoogleIdentity refreshes the mutable fields asserted by the
// external provider. Email and username are never touched.
func (r *UserRepository) UpdateGoogleIdentity(ctx context.Context, id int64, googleID, name string) (model.User, error) {
	query := `UPDATE users SET google_id = $2, name = $3
			  WHERE id = $1
			  RETURNING id, email, username, name, password_hash, google_id, provider, created_at`

	var user model.User
	err := r.db.QueryRow(ctx, query, id, googleID, name).Scan(
		&user.ID, &user.Email, &user.Username, &user.Name,
		&user.PasswordHash, &user.GoogleID, &user.Provider, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update google identity: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
