package models

import "time"

type User struct {
	ID           int       `json:"userId"`
	PublicID     string    `json:"publicId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
