package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/errutil"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/repository"
)

const (
	MinScheduleYear = 1900
	MaxScheduleYear = 2100
)

// User-facing messages. Handlers pass these through unchanged.
const (
	MsgDateNotFuture    = "Booking date must be in the future"
	MsgSponsorNotFound  = "Sponsor not found"
	MsgDateReserved     = "Booking date already reserved"
	MsgBookingNotFound  = "Booking not found"
	MsgBookingCancelled = "Booking cancelled successfully"
)

// BookingOption configures a BookingService.
type BookingOption func(*BookingService)

// WithClock replaces time.Now. "Today" is the calendar date of the returned
// time in its own location.
func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) { s.now = now }
}

type BookingService struct {
	bookings repository.BookingRepository
	sponsors repository.SponsorRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	sponsors repository.SponsorRepository,
	logger *slog.Logger,
	opts ...BookingOption,
) *BookingService {
	s := &BookingService{
		bookings: bookings,
		sponsors: sponsors,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create reserves date for a sponsor. Checks run in this order:
//
//  1. date must be strictly after today          → apperror.ErrRejected
//  2. the sponsor must exist                      → apperror.ErrNotFound
//  3. the date must not already be booked         → apperror.ErrConflict
//  4. insert; a unique violation from the store   → apperror.ErrConflict
//
// Step 3 exists only for a friendly error. Step 4 is the real guard when two
// requests race for the same day. Conflicts are never retried.
func (s *BookingService) Create(ctx context.Context, sponsorID int64, date model.Date, foodNote *string) (*model.Booking, error) {
	today := model.DateOf(s.now())
	if !date.After(today) {
		return nil, apperror.Rejected(MsgDateNotFuture)
	}
	if sponsorID <= 0 {
		return nil, apperror.ValidationFailed("sponsor_id", "sponsor_id must be a positive integer")
	}

	if _, err := s.sponsors.GetSponsorByID(ctx, sponsorID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound(MsgSponsorNotFound)
		}
		errutil.LogError(s.logger, "failed to look up sponsor", err)
		return nil, fmt.Errorf("looking up sponsor %d: %w", sponsorID, err)
	}

	_, err := s.bookings.GetBookingByDate(ctx, date)
	switch {
	case err == nil:
		s.logger.Info("booking rejected: date reserved", slog.String("booking_date", date.String()))
		return nil, apperror.Conflict(MsgDateReserved)
	case !errors.Is(err, apperror.ErrNotFound):
		errutil.LogError(s.logger, "failed to check booking date", err)
		return nil, fmt.Errorf("checking booking date %s: %w", date, err)
	}

	booking := &model.Booking{
		SponsorID:   sponsorID,
		BookingDate: date,
		FoodNote:    normalizeNote(foodNote),
		Status:      model.StatusBooked,
	}

	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		switch {
		case errors.Is(err, apperror.ErrConflict):
			s.logger.Info("booking rejected: date reserved",
				slog.String("booking_date", date.String()),
				slog.Bool("race", true),
			)
			return nil, apperror.Conflict(MsgDateReserved)
		case errors.Is(err, apperror.ErrNotFound):
			return nil, apperror.NotFound(MsgSponsorNotFound)
		}
		errutil.LogError(s.logger, "failed to create booking", err)
		return nil, fmt.Errorf("creating booking: %w", err)
	}

	s.logger.Info("booking created",
		slog.Int64("id", booking.ID),
		slog.Int64("sponsor_id", booking.SponsorID),
		slog.String("booking_date", booking.BookingDate.String()),
	)

	return booking, nil
}

// Schedule returns the public schedule for one month, oldest date first.
func (s *BookingService) Schedule(ctx context.Context, month, year int) ([]model.ScheduleItem, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, err
	}

	items, err := s.bookings.MonthlySchedule(ctx, month, year)
	if err != nil {
		errutil.LogError(s.logger, "failed to load schedule", err)
		return nil, fmt.Errorf("loading schedule %d/%d: %w", month, year, err)
	}
	return items, nil
}

// List returns bookings with sponsor details. month and year must be given
// together or not at all.
func (s *BookingService) List(ctx context.Context, month, year *int) ([]model.BookingDetail, error) {
	var filter model.BookingFilter
	switch {
	case month == nil && year == nil:
	case month == nil:
		return nil, apperror.ValidationFailed("month", "month is required when year is given")
	case year == nil:
		return nil, apperror.ValidationFailed("year", "year is required when month is given")
	default:
		if err := validateMonth(*month, *year); err != nil {
			return nil, err
		}
		filter = model.BookingFilter{Month: *month, Year: *year}
	}

	details, err := s.bookings.ListBookings(ctx, filter)
	if err != nil {
		errutil.LogError(s.logger, "failed to list bookings", err)
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	return details, nil
}

// Cancel deletes a booking. Cancelling an id that does not exist, including
// one already cancelled, returns apperror.ErrNotFound.
func (s *BookingService) Cancel(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NotFound(MsgBookingNotFound)
	}

	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound(MsgBookingNotFound)
		}
		errutil.LogError(s.logger, "failed to cancel booking", err)
		return fmt.Errorf("cancelling booking %d: %w", id, err)
	}

	s.logger.Info("booking cancelled", slog.Int64("id", id))
	return nil
}

func validateMonth(month, year int) error {
	if month < 1 || month > 12 {
		return apperror.ValidationFailed("month", "month must be between 1 and 12")
	}
	if year < MinScheduleYear || year > MaxScheduleYear {
		return apperror.ValidationFailed("year",
			fmt.Sprintf("year must be between %d and %d", MinScheduleYear, MaxScheduleYear))
	}
	return nil
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
