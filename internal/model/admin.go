package model

import "time"

// Admin is a principal allowed to manage bookings. Admins are provisioned
// from the command line, never over HTTP.
type Admin struct {
	ID           int64     `json:"id"         db:"id"`
	Username     string    `json:"username"   db:"username"`
	PasswordHash string    `json:"-"          db:"password_hash"` // bcrypt, never serialized
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
