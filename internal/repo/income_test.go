package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func incomeColumnsRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "public_id", "user_id", "amount", "description", "income_date", "created_at", "updated_at"})
}

func TestIncomeRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO incomes \(public_id, user_id, amount, description, income_date\)`).
		WithArgs(sqlmock.AnyArg(), 1, 1250.50, "march salary", date).
		WillReturnRows(incomeColumnsRows().
			AddRow(10, "e4f5a6b7-0000-1111-2222-333344445555", 1, 1250.50, "march salary", date, now, now))

	repo := NewIncomeRepo(db)
	income, err := repo.Create(context.Background(), 1, 1250.50, "march salary", date)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if income.ID != 10 || income.UserID != 1 || income.Amount != 1250.50 {
		t.Errorf("unexpected income: %+v", income)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestIncomeRepo_ListByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, public_id, user_id`).
		WithArgs(1).
		WillReturnRows(incomeColumnsRows().
			AddRow(1, "aaaa", 1, 100.0, "first", now, now, now).
			AddRow(2, "bbbb", 1, 250.0, "second", now, now, now))

	repo := NewIncomeRepo(db)
	incomes, err := repo.ListByUserID(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(incomes) != 2 || incomes[1].Amount != 250.0 {
		t.Errorf("unexpected incomes: %+v", incomes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestIncomeRepo_ListByUserID_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, public_id, user_id`).
		WithArgs(7).
		WillReturnRows(incomeColumnsRows())

	repo := NewIncomeRepo(db)
	incomes, err := repo.ListByUserID(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	// Empty list, not nil: the API serializes this as [] rather than null
	if incomes == nil || len(incomes) != 0 {
		t.Errorf("unexpected incomes: %#v", incomes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestIncomeRepo_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	amount := 99.0
	mock.ExpectQuery(`UPDATE incomes`).
		WithArgs(amount, nil, nil, 404).
		WillReturnRows(incomeColumnsRows())

	repo := NewIncomeRepo(db)
	_, err = repo.Update(context.Background(), 404, &amount, nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestIncomeRepo_Delete_ReturnsSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`DELETE FROM incomes`).
		WithArgs(10).
		WillReturnRows(incomeColumnsRows().
			AddRow(10, "cccc", 1, 1250.50, "march salary", now, now, now))

	repo := NewIncomeRepo(db)
	income, err := repo.Delete(context.Background(), 10)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if income.ID != 10 || income.Description != "march salary" {
		t.Errorf("unexpected income: %+v", income)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
