package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/apperror"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/model"
)

// fixedNow is 1 March 2030, late in the evening.
var fixedNow = time.Date(2030, time.March, 1, 23, 30, 0, 0, time.UTC)

var today = model.DateOf(fixedNow)

func newTestBookingService(t *testing.T) (*BookingService, *fakeStore, *model.Sponsor) {
	t.Helper()
	store := newFakeStore()
	sponsor := &model.Sponsor{FullName: "Amina Rahman", Phone: "5551234"}
	require.NoError(t, store.CreateSponsor(context.Background(), sponsor))

	svc := NewBookingService(store, store, newTestLogger(), WithClock(func() time.Time { return fixedNow }))
	return svc, store, sponsor
}

// =========================================================================
// CREATE
// =========================================================================

func TestBookingService_Create(t *testing.T) {
	svc, _, sponsor := newTestBookingService(t)

	got, err := svc.Create(context.Background(), sponsor.ID, today.AddDays(10), strPtr(" Biryani "))
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, model.StatusBooked, got.Status)
	assert.Equal(t, today.AddDays(10), got.BookingDate)
	require.NotNil(t, got.FoodNote)
	assert.Equal(t, "Biryani", *got.FoodNote)
}

func TestBookingService_Create_TomorrowIsAllowed(t *testing.T) {
	svc, _, sponsor := newTestBookingService(t)

	_, err := svc.Create(context.Background(), sponsor.ID, today.AddDays(1), nil)
	assert.NoError(t, err)
}

func TestBookingService_Create_DateNotFuture(t *testing.T) {
	for _, tc := range []struct {
		name      string
		date      model.Date
		sponsorID int64
	}{
		{"today", today, 1},
		{"yesterday", today.AddDays(-1), 1},
		{"last year", today.AddDays(-365), 1},
		{"zero date", model.Date{}, 1},
		{"today with unknown sponsor", today, 999},
		{"past with invalid sponsor id", today.AddDays(-1), 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newTestBookingService(t)
			_, err := svc.Create(context.Background(), tc.sponsorID, tc.date, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrRejected))
			assert.Equal(t, MsgDateNotFuture, err.Error())
		})
	}
}

func TestBookingService_Create_SponsorNotFound(t *testing.T) {
	svc, _, _ := newTestBookingService(t)

	_, err := svc.Create(context.Background(), 999, today.AddDays(3), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Equal(t, MsgSponsorNotFound, err.Error())
}

func TestBookingService_Create_InvalidSponsorID(t *testing.T) {
	svc, _, _ := newTestBookingService(t)

	_, err := svc.Create(context.Background(), 0, today.AddDays(3), nil)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestBookingService_Create_DateAlreadyReserved(t *testing.T) {
	svc, store, sponsor := newTestBookingService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, sponsor.ID, today.AddDays(10), strPtr("Biryani"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, sponsor.ID, today.AddDays(10), strPtr("Pulao"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
	assert.Equal(t, MsgDateReserved, err.Error())

	kept, err := store.GetBookingByDate(ctx, today.AddDays(10))
	require.NoError(t, err)
	assert.Equal(t, first.ID, kept.ID)
	assert.Equal(t, "Biryani", *kept.FoodNote)
}

func TestBookingService_Create_StoreConflictMapsToReserved(t *testing.T) {
	svc, store, sponsor := newTestBookingService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, sponsor.ID, today.AddDays(10), nil)
	require.NoError(t, err)

	// pre-check misses, the unique constraint catches it
	store.skipDateIndex = true
	_, err = svc.Create(ctx, sponsor.ID, today.AddDays(10), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
	assert.Equal(t, MsgDateReserved, err.Error())
}

func TestBookingService_Create_StorageFaults(t *testing.T) {
	boom := errors.New("database is locked")

	tests := []struct {
		name  string
		setup func(*fakeStore)
	}{
		{"sponsor lookup", func(f *fakeStore) { f.getSponsorErr = boom }},
		{"date pre-check", func(f *fakeStore) { f.getByDateErr = boom }},
		{"insert", func(f *fakeStore) { f.createBookingErr = boom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, sponsor := newTestBookingService(t)
			tt.setup(store)

			_, err := svc.Create(context.Background(), sponsor.ID, today.AddDays(2), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, boom))

			var appErr *apperror.AppError
			assert.False(t, errors.As(err, &appErr))
		})
	}
}

func TestBookingService_Create_ConcurrentSameDate(t *testing.T) {
	svc, _, sponsor := newTestBookingService(t)

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), sponsor.ID, today.AddDays(5), nil)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, apperror.ErrConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

// =========================================================================
// SCHEDULE
// =========================================================================

func TestBookingService_Schedule_Validation(t *testing.T) {
	svc, _, _ := newTestBookingService(t)

	tests := []struct {
		month, year int
		wantField   string
	}{
		{0, 2030, "month"},
		{13, 2030, "month"},
		{-1, 2030, "month"},
		{6, 1899, "year"},
		{6, 2101, "year"},
	}
	for _, tt := range tests {
		_, err := svc.Schedule(context.Background(), tt.month, tt.year)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr), "month=%d year=%d", tt.month, tt.year)
		assert.True(t, errors.Is(err, apperror.ErrValidation))
		assert.Equal(t, tt.wantField, appErr.Field)
	}
}

func TestBookingService_Schedule_Bounds(t *testing.T) {
	svc, _, _ := newTestBookingService(t)

	for _, tt := range []struct{ month, year int }{{1, 1900}, {12, 2100}} {
		items, err := svc.Schedule(context.Background(), tt.month, tt.year)
		require.NoError(t, err)
		assert.Empty(t, items)
	}
}

func TestBookingService_Schedule(t *testing.T) {
	svc, _, sponsor := newTestBookingService(t)
	ctx := context.Background()
	date := today.AddDays(10)
	_, err := svc.Create(ctx, sponsor.ID, date, strPtr("Biryani"))
	require.NoError(t, err)

	items, err := svc.Schedule(ctx, int(date.Month), date.Year)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.ScheduleItem{
		BookingDate: date,
		SponsorName: "Amina Rahman",
		FoodNote:    strPtr("Biryani"),
		Status:      model.StatusBooked,
	}, items[0])
}

// =========================================================================
// LIST
// =========================================================================

func TestBookingService_List(t *testing.T) {
	month, year := 3, 2030

	t.Run("no filter", func(t *testing.T) {
		svc, store, _ := newTestBookingService(t)
		_, err := svc.List(context.Background(), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, model.BookingFilter{}, store.lastFilter)
	})

	t.Run("month filter", func(t *testing.T) {
		svc, store, _ := newTestBookingService(t)
		_, err := svc.List(context.Background(), &month, &year)
		require.NoError(t, err)
		assert.Equal(t, model.BookingFilter{Month: 3, Year: 2030}, store.lastFilter)
	})

	t.Run("month without year", func(t *testing.T) {
		svc, _, _ := newTestBookingService(t)
		_, err := svc.List(context.Background(), &month, nil)
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})

	t.Run("year without month", func(t *testing.T) {
		svc, _, _ := newTestBookingService(t)
		_, err := svc.List(context.Background(), nil, &year)
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})

	t.Run("out of range", func(t *testing.T) {
		svc, _, _ := newTestBookingService(t)
		bad := 13
		_, err := svc.List(context.Background(), &bad, &year)
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})
}

// =========================================================================
// CANCEL
// =========================================================================

func TestBookingService_Cancel(t *testing.T) {
	svc, _, sponsor := newTestBookingService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, sponsor.ID, today.AddDays(4), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, b.ID))

	for i := 0; i < 2; i++ {
		err = svc.Cancel(ctx, b.ID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
		assert.Equal(t, MsgBookingNotFound, err.Error())
	}
}

func TestBookingService_Cancel_StorageFault(t *testing.T) {
	svc, store, _ := newTestBookingService(t)
	store.deleteBookingErr = errors.New("disk full")

	err := svc.Cancel(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperror.ErrNotFound))
}
