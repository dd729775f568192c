package domain

import "time"

// User is the domain model for account holders who create and exchange tickets.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
