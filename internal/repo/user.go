package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/fintrack-app/fintrack/internal/models"
)

const userColumns = `id, public_id, username, email, password_hash, created_at, updated_at`

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.PublicID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (public_id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	return scanUser(r.DB.QueryRowContext(ctx, query, uuid.NewString(), username, email, passwordHash))
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}

// ==========================
// Get By Username Or Email
// ==========================
func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR email = $1`

	return scanUser(r.DB.QueryRowContext(ctx, query, identifier))
}

// ==========================
// Update User (partial)
// ==========================
// Nil fields keep their current value.
func (r *UserRepo) Update(ctx context.Context, id int, username, email, passwordHash *string) (*models.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($1, username),
		    email = COALESCE($2, email),
		    password_hash = COALESCE($3, password_hash),
		    updated_at = now()
		WHERE id = $4
		RETURNING ` + userColumns

	return scanUser(r.DB.QueryRowContext(ctx, query, username, email, passwordHash, id))
}

// ==========================
// Count
// ==========================
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// ==========================
// Delete User
// ==========================
// Returns the deleted row. Owned incomes go with it via the FK cascade.
func (r *UserRepo) Delete(ctx context.Context, id int) (*models.User, error) {
	query := `
		DELETE FROM users
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}
