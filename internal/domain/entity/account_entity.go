package entity

import "time"

// Account is the credential record of one user.
// Handle is always stored lowercased; PasswordHash is a bcrypt hash.
type Account struct {
	ID           string
	Handle       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
