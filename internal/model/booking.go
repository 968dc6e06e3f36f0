package model

import "time"

// StatusBooked is the status every new booking starts in.
const StatusBooked = "booked"

// Booking reserves exactly one calendar date for one sponsor.
// booking_date is unique across all bookings.
type Booking struct {
	ID          int64     `json:"id"           db:"id"`
	SponsorID   int64     `json:"sponsor_id"   db:"sponsor_id"`
	BookingDate Date      `json:"booking_date" db:"booking_date"`
	FoodNote    *string   `json:"food_note"    db:"food_note"`
	Status      string    `json:"status"       db:"status"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// ScheduleItem is one row of the public monthly schedule.
type ScheduleItem struct {
	BookingDate Date    `json:"booking_date"`
	SponsorName string  `json:"sponsor_name"`
	FoodNote    *string `json:"food_note"`
	Status      string  `json:"status"`
}

// BookingDetail is a booking joined with its sponsor's contact details,
// returned by the admin listing.
type BookingDetail struct {
	Booking
	SponsorName  string  `json:"sponsor_name"`
	SponsorPhone string  `json:"sponsor_phone"`
	SponsorEmail *string `json:"sponsor_email"`
}

// BookingFilter narrows the admin listing to one calendar month.
// A zero Month means no filter.
type BookingFilter struct {
	Month int
	Year  int
}
