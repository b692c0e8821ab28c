package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/staybnb/staybnb-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every session on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Property{}, &models.Booking{}))
	return db
}

func newTestService(t *testing.T) (*BookingService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)

	user := models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	property := models.Property{Name: "Sea View Loft", SmartLocation: "Lisbon, Portugal", Price: 120}
	require.NoError(t, db.Create(&property).Error)

	return NewBookingService(db), db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateBooking_InvalidDateRange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, 1, date(2025, 6, 5), date(2025, 6, 5), 2)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.Create(ctx, 1, 1, date(2025, 6, 7), date(2025, 6, 5), 2)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	var count int64
	svc.db.Model(&models.Booking{}).Count(&count)
	assert.EqualValues(t, 0, count, "no record may be left behind by a failed create")
}

func TestCreateBooking_Success(t *testing.T) {
	svc, _ := newTestService(t)

	booking, err := svc.Create(context.Background(), 1, 1, date(2025, 6, 1), date(2025, 6, 5), 2)
	require.NoError(t, err)

	assert.NotZero(t, booking.ID)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, date(2025, 6, 1), booking.CheckIn)
	assert.Equal(t, date(2025, 6, 5), booking.CheckOut)
}

func TestCreateBooking_Overlap(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, 1, date(2025, 6, 1), date(2025, 6, 5), 2)
	require.NoError(t, err)

	// overlapping interval is rejected
	_, err = svc.Create(ctx, 1, 1, date(2025, 6, 3), date(2025, 6, 7), 2)
	assert.ErrorIs(t, err, ErrBookingConflict)

	// half-open intervals: checkout day and a new check-in do not conflict
	_, err = svc.Create(ctx, 1, 1, date(2025, 6, 5), date(2025, 6, 10), 2)
	assert.NoError(t, err)
}

func TestCreateBooking_PendingHoldsSlot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	pending, err := svc.Create(ctx, 1, 1, date(2025, 6, 1), date(2025, 6, 5), 2)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPending, pending.Status)

	// a pending booking blocks the property while payment is in flight
	_, err = svc.Create(ctx, 2, 1, date(2025, 6, 2), date(2025, 6, 4), 1)
	assert.ErrorIs(t, err, ErrBookingConflict)
}

func TestCreateBooking_DifferentPropertiesIndependent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	other := models.Property{Name: "City Studio", SmartLocation: "Porto, Portugal", Price: 80}
	require.NoError(t, db.Create(&other).Error)

	_, err := svc.Create(ctx, 1, 1, date(2025, 6, 1), date(2025, 6, 5), 2)
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, other.ID, date(2025, 6, 1), date(2025, 6, 5), 2)
	assert.NoError(t, err)
}

func TestConfirmBooking(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, 1, 1, date(2025, 6, 1), date(2025, 6, 5), 2)
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, booking.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)

	// re-confirming is a no-op success
	again, err := svc.Confirm(ctx, booking.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, again.Status)
}

func TestConfirmBooking_OwnershipMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, 1, 1, date(2025, 6, 1), date(2025, 6, 5), 2)
	require.NoError(t, err)

	// another user's booking looks exactly like a missing one
	_, err = svc.Confirm(ctx, booking.ID, 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.Confirm(ctx, 12345, 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelBooking_BeforeCheckIn(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, 1, 1, date(2025, 6, 10), date(2025, 6, 15), 2)
	require.NoError(t, err)

	svc.now = func() time.Time { return date(2025, 6, 9) }
	require.NoError(t, svc.Cancel(ctx, booking.ID, 1))

	// the record is gone, not soft-deleted, so the dates are free again
	var count int64
	svc.db.Unscoped().Model(&models.Booking{}).Count(&count)
	assert.EqualValues(t, 0, count)

	_, err = svc.Create(ctx, 2, 1, date(2025, 6, 10), date(2025, 6, 15), 2)
	assert.NoError(t, err)
}

func TestCancelBooking_WindowClosed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, 1, 1, date(2025, 6, 10), date(2025, 6, 15), 2)
	require.NoError(t, err)

	// on the check-in day itself cancellation is no longer allowed
	svc.now = func() time.Time { return date(2025, 6, 10).Add(8 * time.Hour) }
	err = svc.Cancel(ctx, booking.ID, 1)
	assert.ErrorIs(t, err, ErrCancellationWindowClosed)

	svc.now = func() time.Time { return date(2025, 7, 1) }
	err = svc.Cancel(ctx, booking.ID, 1)
	assert.ErrorIs(t, err, ErrCancellationWindowClosed)

	// the booking is unchanged
	kept, err := svc.Confirm(ctx, booking.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, kept.ID)
}

func TestCancelBooking_OwnershipMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, 1, 1, date(2025, 6, 10), date(2025, 6, 15), 2)
	require.NoError(t, err)

	svc.now = func() time.Time { return date(2025, 6, 1) }
	assert.ErrorIs(t, svc.Cancel(ctx, booking.ID, 99), ErrBookingNotFound)
}

func TestListConfirmed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, 1, date(2025, 7, 10), date(2025, 7, 12), 2)
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, 1, date(2025, 6, 1), date(2025, 6, 5), 2)
	require.NoError(t, err)

	// only the second one gets confirmed, the first stays pending
	_, err = svc.Confirm(ctx, second.ID, 1)
	require.NoError(t, err)

	bookings, err := svc.ListConfirmed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, second.ID, bookings[0].ID)
	assert.Equal(t, "Sea View Loft", bookings[0].Property.Name)
	assert.Equal(t, "Lisbon, Portugal", bookings[0].Property.SmartLocation)

	// confirming the other one too: results come back check-in ascending
	_, err = svc.Confirm(ctx, first.ID, 1)
	require.NoError(t, err)

	bookings, err = svc.ListConfirmed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, second.ID, bookings[0].ID)
	assert.Equal(t, first.ID, bookings[1].ID)
}

func TestListConfirmed_Empty(t *testing.T) {
	svc, _ := newTestService(t)

	bookings, err := svc.ListConfirmed(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestCreateBooking_ConcurrentSameInterval(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := make(chan struct{})

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Create(ctx, uint(i+1), 1, date(2025, 6, 1), date(2025, 6, 5), 2)
		}(i)
	}
	close(start)
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case err == ErrBookingConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one concurrent create may win")
	assert.Equal(t, 1, conflicts)
}
