package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/staybnb/staybnb-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidDateRange         = errors.New("check-in date must be before check-out date")
	ErrBookingConflict          = errors.New("property is already booked for these dates")
	ErrBookingNotFound          = errors.New("booking not found")
	ErrCancellationWindowClosed = errors.New("booking can no longer be cancelled")
)

// BookingService owns booking creation, overlap detection, confirmation,
// cancellation and per-user history. Both pending and confirmed bookings
// hold their slot: a pending booking blocks the property while its payment
// is in flight.
type BookingService struct {
	db  *gorm.DB
	now func() time.Time

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{
		db:    db,
		now:   time.Now,
		locks: make(map[uint]*sync.Mutex),
	}
}

// propertyLock returns the mutex serialising check-then-write for one
// property. Keeps concurrent creates for different properties independent.
func (s *BookingService) propertyLock(propertyID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[propertyID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[propertyID] = l
	}
	return l
}

// TruncateToDate drops the time-of-day component. Bookings have date-only
// semantics, so everything is normalised to UTC midnight before it is
// compared or stored.
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Create validates the requested interval, checks it against every existing
// booking for the property and persists a new pending booking. Two
// concurrent calls for the same property with overlapping intervals cannot
// both succeed: the property lock is held across the overlap check and the
// insert.
func (s *BookingService) Create(ctx context.Context, userID, propertyID uint, checkIn, checkOut time.Time, guests int) (*models.Booking, error) {
	checkIn = TruncateToDate(checkIn)
	checkOut = TruncateToDate(checkOut)

	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidDateRange
	}

	lock := s.propertyLock(propertyID)
	lock.Lock()
	defer lock.Unlock()

	booking := &models.Booking{
		UserID:     userID,
		PropertyID: propertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		Status:     models.BookingStatusPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var overlapping int64
		// two half-open intervals [a,b) and [c,d) intersect iff a < d and c < b
		err := tx.Model(&models.Booking{}).
			Where("property_id = ? AND check_in < ? AND check_out > ?", propertyID, checkOut, checkIn).
			Count(&overlapping).Error
		if err != nil {
			return fmt.Errorf("checking availability: %w", err)
		}
		if overlapping > 0 {
			return ErrBookingConflict
		}
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("creating booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// findOwned looks a booking up by id scoped to its owner. A booking that
// exists but belongs to someone else is reported exactly like a missing
// one, so callers cannot probe for other users' bookings.
func (s *BookingService) findOwned(ctx context.Context, bookingID, userID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", bookingID, userID).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching booking: %w", err)
	}
	return &booking, nil
}

// Confirm marks a pending booking as confirmed. Confirming an already
// confirmed booking is a no-op success.
func (s *BookingService) Confirm(ctx context.Context, bookingID, userID uint) (*models.Booking, error) {
	booking, err := s.findOwned(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingStatusConfirmed {
		return booking, nil
	}

	booking.Status = models.BookingStatusConfirmed
	if err := s.db.WithContext(ctx).Save(booking).Error; err != nil {
		return nil, fmt.Errorf("confirming booking: %w", err)
	}
	return booking, nil
}

// Cancel permanently deletes a booking. Allowed only while today is still
// strictly before the check-in date.
func (s *BookingService) Cancel(ctx context.Context, bookingID, userID uint) error {
	booking, err := s.findOwned(ctx, bookingID, userID)
	if err != nil {
		return err
	}

	today := TruncateToDate(s.now())
	if !today.Before(booking.CheckIn) {
		return ErrCancellationWindowClosed
	}

	// hard delete so the dates are released immediately
	if err := s.db.WithContext(ctx).Unscoped().Delete(booking).Error; err != nil {
		return fmt.Errorf("cancelling booking: %w", err)
	}
	return nil
}

// ListConfirmed returns the user's confirmed bookings with their property
// preloaded, earliest check-in first. Pending bookings are excluded.
func (s *BookingService) ListConfirmed(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.BookingStatusConfirmed).
		Preload("Property").
		Order("check_in ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("fetching bookings: %w", err)
	}
	return bookings, nil
}
