package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// Booking reserves a property for the half-open date interval
// [CheckIn, CheckOut). A checkout on day N and a new check-in on
// day N do not conflict.
type Booking struct {
	gorm.Model
	UserID     uint          `json:"userId" gorm:"not null;index"`
	User       User          `json:"-"`
	PropertyID uint          `json:"propertyId" gorm:"not null;index"`
	Property   Property      `json:"property"`
	CheckIn    time.Time     `json:"checkIn" gorm:"column:check_in;not null"`
	CheckOut   time.Time     `json:"checkOut" gorm:"column:check_out;not null"`
	Guests     int           `json:"guests" gorm:"not null"`
	Status     BookingStatus `json:"status" gorm:"not null;default:'pending'"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}
