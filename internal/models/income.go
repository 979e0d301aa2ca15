package models

import "time"

// Income is a single income record. Every row belongs to exactly one user
// and is removed when that user is deleted (cascade at the schema level).
type Income struct {
	ID          int       `json:"incomeId"`
	PublicID    string    `json:"publicId"`
	UserID      int       `json:"userId"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	IncomeDate  time.Time `json:"incomeDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
