package models

import "time"

// User is a stored account. PasswordHash is a bcrypt hash, never the
// password itself.
type User struct {
	ID           int64
	UserName     string
	PasswordHash []byte
	IsAdmin      bool
	CreatedAt    time.Time
}
