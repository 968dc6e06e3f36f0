// Package repository declares the storage contracts the services depend on.
//
// Implementations translate driver errors into apperror sentinels:
// missing rows become apperror.ErrNotFound and unique violations become
// apperror.ErrConflict. Anything else is a storage fault.
package repository

import (
	"context"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
)

type SponsorRepository interface {
	CreateSponsor(ctx context.Context, sponsor *model.Sponsor) error
	GetSponsorByID(ctx context.Context, id int64) (*model.Sponsor, error)
}

type BookingRepository interface {
	// CreateBooking returns apperror.ErrConflict when the date is taken and
	// apperror.ErrNotFound when the sponsor does not exist.
	CreateBooking(ctx context.Context, booking *model.Booking) error
	GetBookingByDate(ctx context.Context, date model.Date) (*model.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	// MonthlySchedule is ordered by booking date ascending.
	MonthlySchedule(ctx context.Context, month, year int) ([]model.ScheduleItem, error)
	ListBookings(ctx context.Context, filter model.BookingFilter) ([]model.BookingDetail, error)
}

type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
}

// Store is everything the application needs from one database.
type Store interface {
	SponsorRepository
	BookingRepository
	AdminRepository
	Close() error
}
