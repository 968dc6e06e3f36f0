package service

import (
	"context"
	"sync"
	"time"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
)

// fakeStore is an in-memory repository.Store. Each *Err field, when set, is
// returned by the matching method instead of doing any work.
type fakeStore struct {
	mu       sync.Mutex
	sponsors map[int64]*model.Sponsor
	bookings map[int64]*model.Booking
	admins   map[string]*model.Admin
	nextID   int64

	createSponsorErr error
	getSponsorErr    error
	getByDateErr     error
	createBookingErr error
	deleteBookingErr error
	scheduleErr      error
	getAdminErr      error
	createAdminErr   error

	// skipDateIndex makes GetBookingByDate always miss, simulating a race
	// where another request inserts between the pre-check and the insert.
	skipDateIndex bool

	lastFilter model.BookingFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sponsors: make(map[int64]*model.Sponsor),
		bookings: make(map[int64]*model.Booking),
		admins:   make(map[string]*model.Admin),
		nextID:   1,
	}
}

func (f *fakeStore) CreateSponsor(_ context.Context, s *model.Sponsor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createSponsorErr != nil {
		return f.createSponsorErr
	}
	s.ID = f.nextID
	f.nextID++
	s.CreatedAt = time.Now()
	copied := *s
	f.sponsors[s.ID] = &copied
	return nil
}

func (f *fakeStore) GetSponsorByID(_ context.Context, id int64) (*model.Sponsor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getSponsorErr != nil {
		return nil, f.getSponsorErr
	}
	s, ok := f.sponsors[id]
	if !ok {
		return nil, apperror.NotFound("Sponsor not found")
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStore) CreateBooking(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createBookingErr != nil {
		return f.createBookingErr
	}
	for _, existing := range f.bookings {
		if existing.BookingDate == b.BookingDate {
			return apperror.Conflict("Booking date already reserved")
		}
	}
	if _, ok := f.sponsors[b.SponsorID]; !ok {
		return apperror.NotFound("Sponsor not found")
	}
	b.ID = f.nextID
	f.nextID++
	b.CreatedAt = time.Now()
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeStore) GetBookingByDate(_ context.Context, date model.Date) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByDateErr != nil {
		return nil, f.getByDateErr
	}
	if !f.skipDateIndex {
		for _, b := range f.bookings {
			if b.BookingDate == date {
				copied := *b
				return &copied, nil
			}
		}
	}
	return nil, apperror.NotFound("Booking not found")
}

func (f *fakeStore) DeleteBooking(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteBookingErr != nil {
		return f.deleteBookingErr
	}
	if _, ok := f.bookings[id]; !ok {
		return apperror.NotFound("Booking not found")
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeStore) MonthlySchedule(_ context.Context, month, year int) ([]model.ScheduleItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scheduleErr != nil {
		return nil, f.scheduleErr
	}
	items := make([]model.ScheduleItem, 0)
	for _, b := range f.bookings {
		if int(b.BookingDate.Month) == month && b.BookingDate.Year == year {
			items = append(items, model.ScheduleItem{
				BookingDate: b.BookingDate,
				SponsorName: f.sponsors[b.SponsorID].FullName,
				FoodNote:    b.FoodNote,
				Status:      b.Status,
			})
		}
	}
	return items, nil
}

func (f *fakeStore) ListBookings(_ context.Context, filter model.BookingFilter) ([]model.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	if f.scheduleErr != nil {
		return nil, f.scheduleErr
	}
	details := make([]model.BookingDetail, 0, len(f.bookings))
	for _, b := range f.bookings {
		details = append(details, model.BookingDetail{Booking: *b})
	}
	return details, nil
}

func (f *fakeStore) CreateAdmin(_ context.Context, a *model.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAdminErr != nil {
		return f.createAdminErr
	}
	if _, ok := f.admins[a.Username]; ok {
		return apperror.Conflict("Admin already exists")
	}
	a.ID = f.nextID
	f.nextID++
	copied := *a
	f.admins[a.Username] = &copied
	return nil
}

func (f *fakeStore) GetAdminByUsername(_ context.Context, username string) (*model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getAdminErr != nil {
		return nil, f.getAdminErr
	}
	a, ok := f.admins[username]
	if !ok {
		return nil, apperror.NotFound("Admin not found")
	}
	copied := *a
	return &copied, nil
}

func (f *fakeStore) Close() error { return nil }
