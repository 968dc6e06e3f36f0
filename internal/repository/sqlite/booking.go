package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
)

// CreateBooking inserts a booking and fills in ID, CreatedAt and a default
// Status.
//
// The UNIQUE constraint on booking_date is what keeps two concurrent
// requests from both reserving the same day: the loser gets
// apperror.ErrConflict here, whatever it saw in an earlier pre-check.
func (db *DB) CreateBooking(ctx context.Context, booking *model.Booking) error {
	if booking.Status == "" {
		booking.Status = model.StatusBooked
	}
	booking.CreatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO bookings (sponsor_id, booking_date, food_note, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		booking.SponsorID,
		booking.BookingDate.String(),
		booking.FoodNote,
		booking.Status,
		booking.CreatedAt,
	)
	if err != nil {
		switch violated(err) {
		case constraintUnique:
			return apperror.Conflict("Booking date already reserved")
		case constraintForeignKey:
			return apperror.NotFound("Sponsor not found")
		}
		return fmt.Errorf("sqlite: creating booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading booking id: %w", err)
	}
	booking.ID = id

	return nil
}

func (db *DB) GetBookingByDate(ctx context.Context, date model.Date) (*model.Booking, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, sponsor_id, booking_date, food_note, status, created_at
		 FROM bookings
		 WHERE booking_date = ?`,
		date.String(),
	)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Booking not found")
		}
		return nil, fmt.Errorf("sqlite: getting booking for %s: %w", date, err)
	}
	return b, nil
}

// DeleteBooking removes a booking. A missing id returns apperror.ErrNotFound,
// so deleting twice reports not-found the second time.
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM bookings WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting booking %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Booking not found")
	}

	return nil
}

// MonthlySchedule returns the bookings in [first of month, first of next
// month), oldest first, with the sponsor's name.
func (db *DB) MonthlySchedule(ctx context.Context, month, year int) ([]model.ScheduleItem, error) {
	from, to := monthRange(month, year)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT b.booking_date, s.full_name, b.food_note, b.status
		 FROM bookings b
		 JOIN sponsors s ON s.id = b.sponsor_id
		 WHERE b.booking_date >= ? AND b.booking_date < ?
		 ORDER BY b.booking_date ASC`,
		from.String(),
		to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying schedule: %w", err)
	}
	defer rows.Close()

	items := make([]model.ScheduleItem, 0)
	for rows.Next() {
		var (
			item     model.ScheduleItem
			date     string
			foodNote sql.NullString
		)
		if err := rows.Scan(&date, &item.SponsorName, &foodNote, &item.Status); err != nil {
			return nil, fmt.Errorf("sqlite: scanning schedule row: %w", err)
		}
		if item.BookingDate, err = model.ParseDate(date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning schedule row: %w", err)
		}
		item.FoodNote = nullString(foodNote)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating schedule: %w", err)
	}

	return items, nil
}

// ListBookings returns bookings joined with sponsor contact details, oldest
// first. A zero filter month lists everything.
func (db *DB) ListBookings(ctx context.Context, filter model.BookingFilter) ([]model.BookingDetail, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(
		`SELECT b.id, b.sponsor_id, b.booking_date, b.food_note, b.status, b.created_at,
		        s.full_name, s.phone, s.email
		 FROM bookings b
		 JOIN sponsors s ON s.id = b.sponsor_id`)
	if filter.Month != 0 {
		from, to := monthRange(filter.Month, filter.Year)
		query.WriteString(` WHERE b.booking_date >= ? AND b.booking_date < ?`)
		args = append(args, from.String(), to.String())
	}
	query.WriteString(` ORDER BY b.booking_date ASC`)

	rows, err := db.conn.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing bookings: %w", err)
	}
	defer rows.Close()

	details := make([]model.BookingDetail, 0)
	for rows.Next() {
		var (
			d        model.BookingDetail
			date     string
			foodNote sql.NullString
			email    sql.NullString
		)
		if err := rows.Scan(
			&d.ID, &d.SponsorID, &date, &foodNote, &d.Status, &d.CreatedAt,
			&d.SponsorName, &d.SponsorPhone, &email,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning booking row: %w", err)
		}
		if d.BookingDate, err = model.ParseDate(date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning booking row: %w", err)
		}
		d.FoodNote = nullString(foodNote)
		d.SponsorEmail = nullString(email)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating bookings: %w", err)
	}

	return details, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner) (*model.Booking, error) {
	var (
		b        model.Booking
		date     string
		foodNote sql.NullString
	)
	if err := s.Scan(&b.ID, &b.SponsorID, &date, &foodNote, &b.Status, &b.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := model.ParseDate(date)
	if err != nil {
		return nil, err
	}
	b.BookingDate = parsed
	b.FoodNote = nullString(foodNote)
	return &b, nil
}

func monthRange(month, year int) (from, to model.Date) {
	from = model.FirstOfMonth(year, time.Month(month))
	return from, from.AddMonths(1)
}
