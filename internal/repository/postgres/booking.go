package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
)

const bookingColumns = `b.id, b.sponsor_id, b.booking_date, b.food_note, b.status, b.created_at`

// CreateBooking relies on uq_bookings_booking_date to settle races between
// concurrent requests for the same day.
func (s *Store) CreateBooking(ctx context.Context, booking *model.Booking) error {
	if booking.Status == "" {
		booking.Status = model.StatusBooked
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO bookings (sponsor_id, booking_date, food_note, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		booking.SponsorID, booking.BookingDate.Time(), booking.FoodNote, booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return oops.Code("BOOKING_DATE_TAKEN").With("booking_date", booking.BookingDate.String()).
			Wrap(apperror.Conflict("Booking date already reserved"))
	case isForeignKeyViolation(err):
		return oops.Code("SPONSOR_NOT_FOUND").With("sponsor_id", booking.SponsorID).
			Wrap(apperror.NotFound("Sponsor not found"))
	default:
		return oops.Code("BOOKING_CREATE_FAILED").With("booking_date", booking.BookingDate.String()).Wrap(err)
	}
}

func (s *Store) GetBookingByDate(ctx context.Context, date model.Date) (*model.Booking, error) {
	var (
		b   model.Booking
		day time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings b
		 WHERE b.booking_date = $1`,
		date.Time(),
	).Scan(&b.ID, &b.SponsorID, &day, &b.FoodNote, &b.Status, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("BOOKING_NOT_FOUND").With("booking_date", date.String()).Wrap(apperror.NotFound("Booking not found"))
	}
	if err != nil {
		return nil, oops.Code("BOOKING_QUERY_FAILED").With("booking_date", date.String()).Wrap(err)
	}
	b.BookingDate = model.DateOf(day)
	return &b, nil
}

func (s *Store) DeleteBooking(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return oops.Code("BOOKING_DELETE_FAILED").With("booking_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("BOOKING_NOT_FOUND").With("booking_id", id).Wrap(apperror.NotFound("Booking not found"))
	}
	return nil
}

func (s *Store) MonthlySchedule(ctx context.Context, month, year int) ([]model.ScheduleItem, error) {
	from := model.FirstOfMonth(year, time.Month(month))
	to := from.AddMonths(1)

	rows, err := s.pool.Query(ctx,
		`SELECT b.booking_date, s.full_name, b.food_note, b.status
		 FROM bookings b
		 JOIN sponsors s ON s.id = b.sponsor_id
		 WHERE b.booking_date >= $1 AND b.booking_date < $2
		 ORDER BY b.booking_date ASC`,
		from.Time(), to.Time(),
	)
	if err != nil {
		return nil, oops.Code("SCHEDULE_QUERY_FAILED").With("month", month).With("year", year).Wrap(err)
	}
	defer rows.Close()

	items := make([]model.ScheduleItem, 0)
	for rows.Next() {
		var (
			item model.ScheduleItem
			day  time.Time
		)
		if err := rows.Scan(&day, &item.SponsorName, &item.FoodNote, &item.Status); err != nil {
			return nil, oops.Code("SCHEDULE_SCAN_FAILED").Wrap(err)
		}
		item.BookingDate = model.DateOf(day)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("SCHEDULE_QUERY_FAILED").With("month", month).With("year", year).Wrap(err)
	}
	return items, nil
}

func (s *Store) ListBookings(ctx context.Context, filter model.BookingFilter) ([]model.BookingDetail, error) {
	query := `SELECT ` + bookingColumns + `, s.full_name, s.phone, s.email
		 FROM bookings b
		 JOIN sponsors s ON s.id = b.sponsor_id`
	var args []any
	if filter.Month != 0 {
		from := model.FirstOfMonth(filter.Year, time.Month(filter.Month))
		query += ` WHERE b.booking_date >= $1 AND b.booking_date < $2`
		args = append(args, from.Time(), from.AddMonths(1).Time())
	}
	query += ` ORDER BY b.booking_date ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("BOOKING_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	details := make([]model.BookingDetail, 0)
	for rows.Next() {
		var (
			d   model.BookingDetail
			day time.Time
		)
		if err := rows.Scan(
			&d.ID, &d.SponsorID, &day, &d.FoodNote, &d.Status, &d.CreatedAt,
			&d.SponsorName, &d.SponsorPhone, &d.SponsorEmail,
		); err != nil {
			return nil, oops.Code("BOOKING_SCAN_FAILED").Wrap(err)
		}
		d.BookingDate = model.DateOf(day)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("BOOKING_LIST_FAILED").Wrap(err)
	}
	return details, nil
}
