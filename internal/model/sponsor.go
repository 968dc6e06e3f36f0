// Package model defines the data structures used throughout the application.
package model

import "time"

// Sponsor is someone who funds a day's meal.
//
// Email is a pointer so that "not given" serializes as null instead of "".
type Sponsor struct {
	ID        int64     `json:"id"         db:"id"`
	FullName  string    `json:"full_name"  db:"full_name"`
	Phone     string    `json:"phone"      db:"phone"`
	Email     *string   `json:"email"      db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
