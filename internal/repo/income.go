package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-app/fintrack/internal/models"
)

const incomeColumns = `id, public_id, user_id, amount, description, income_date, created_at, updated_at`

// ==========================
// IncomeRepo
// ==========================
type IncomeRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewIncomeRepo(db *sql.DB) *IncomeRepo {
	return &IncomeRepo{DB: db}
}

func scanIncome(row *sql.Row) (*models.Income, error) {
	income := &models.Income{}
	err := row.Scan(
		&income.ID,
		&income.PublicID,
		&income.UserID,
		&income.Amount,
		&income.Description,
		&income.IncomeDate,
		&income.CreatedAt,
		&income.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return income, nil
}

// ==========================
// Create Income
// ==========================
func (r *IncomeRepo) Create(ctx context.Context, userID int, amount float64, description string, incomeDate time.Time) (*models.Income, error) {
	query := `
		INSERT INTO incomes (public_id, user_id, amount, description, income_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + incomeColumns

	return scanIncome(r.DB.QueryRowContext(ctx, query, uuid.NewString(), userID, amount, description, incomeDate))
}

// ==========================
// Get By ID
// ==========================
func (r *IncomeRepo) GetByID(ctx context.Context, id int) (*models.Income, error) {
	query := `
		SELECT ` + incomeColumns + `
		FROM incomes
		WHERE id = $1`

	return scanIncome(r.DB.QueryRowContext(ctx, query, id))
}

// ==========================
// List By User ID
// ==========================
func (r *IncomeRepo) ListByUserID(ctx context.Context, userID int) ([]models.Income, error) {
	query := `
		SELECT ` + incomeColumns + `
		FROM incomes
		WHERE user_id = $1
		ORDER BY income_date, id`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := []models.Income{}
	for rows.Next() {
		var in models.Income
		if err := rows.Scan(
			&in.ID,
			&in.PublicID,
			&in.UserID,
			&in.Amount,
			&in.Description,
			&in.IncomeDate,
			&in.CreatedAt,
			&in.UpdatedAt,
		); err != nil {
			return nil, err
		}
		incomes = append(incomes, in)
	}

	return incomes, rows.Err()
}

// ==========================
// Update Income (partial)
// ==========================
// Nil fields keep their current value.
func (r *IncomeRepo) Update(ctx context.Context, id int, amount *float64, description *string, incomeDate *time.Time) (*models.Income, error) {
	query := `
		UPDATE incomes
		SET amount = COALESCE($1, amount),
		    description = COALESCE($2, description),
		    income_date = COALESCE($3, income_date),
		    updated_at = now()
		WHERE id = $4
		RETURNING ` + incomeColumns

	return scanIncome(r.DB.QueryRowContext(ctx, query, amount, description, incomeDate, id))
}

// ==========================
// Delete Income
// ==========================
// Returns the row as it was before deletion.
func (r *IncomeRepo) Delete(ctx context.Context, id int) (*models.Income, error) {
	query := `
		DELETE FROM incomes
		WHERE id = $1
		RETURNING ` + incomeColumns

	return scanIncome(r.DB.QueryRowContext(ctx, query, id))
}

// ==========================
// Count
// ==========================
func (r *IncomeRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM incomes`).Scan(&n)
	return n, err
}
