package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staybnb/staybnb-backend/internal/models"
	"github.com/staybnb/staybnb-backend/internal/services"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type CreateBookingInput struct {
	PropertyID uint   `json:"propertyId" binding:"required"`
	CheckIn    string `json:"checkIn" binding:"required"`
	CheckOut   string `json:"checkOut" binding:"required"`
	Guests     int    `json:"guests" binding:"required,min=1"`
}

type ConfirmBookingInput struct {
	CardNumber string `json:"cardNumber" binding:"required"`
	Expiry     string `json:"expiry" binding:"required"`
	CVC        string `json:"cvc" binding:"required"`
}

// CreateBooking handles the creation of a new booking
func CreateBooking(db *gorm.DB, bookings *services.BookingService, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		checkIn, err := time.Parse(dateLayout, input.CheckIn)
		if err != nil {
			c.JSON(400, gin.H{"error": "checkIn must be a date in YYYY-MM-DD format"})
			return
		}
		checkOut, err := time.Parse(dateLayout, input.CheckOut)
		if err != nil {
			c.JSON(400, gin.H{"error": "checkOut must be a date in YYYY-MM-DD format"})
			return
		}

		var property models.Property
		if err := db.First(&property, input.PropertyID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Property not found"})
			return
		}

		booking, err := bookings.Create(c.Request.Context(), userId, input.PropertyID, checkIn, checkOut, input.Guests)
		if err != nil {
			status, msg := bookingErrorResponse(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}

		hub.SendBookingEvent(userId, "booking_created", services.BookingEvent{
			BookingID:  booking.ID,
			PropertyID: booking.PropertyID,
			Status:     booking.Status,
		})

		c.JSON(201, booking)
	}
}

// ConfirmBooking finalizes a pending booking after the payment step. The
// payment itself is simulated: card details are only shape-checked and a
// reference is generated, no gateway is involved.
func ConfirmBooking(bookings *services.BookingService, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		bookingId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		var input ConfirmBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := bookings.Confirm(c.Request.Context(), uint(bookingId), userId)
		if err != nil {
			status, msg := bookingErrorResponse(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}

		hub.SendBookingEvent(userId, "booking_confirmed", services.BookingEvent{
			BookingID:  booking.ID,
			PropertyID: booking.PropertyID,
			Status:     booking.Status,
		})

		c.JSON(200, gin.H{
			"booking":          booking,
			"paymentReference": uuid.NewString(),
		})
	}
}

// CancelBooking permanently deletes a booking before its check-in date
func CancelBooking(bookings *services.BookingService, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		bookingId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		if err := bookings.Cancel(c.Request.Context(), uint(bookingId), userId); err != nil {
			status, msg := bookingErrorResponse(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}

		hub.SendBookingEvent(userId, "booking_cancelled", services.BookingEvent{
			BookingID: uint(bookingId),
		})

		c.JSON(200, gin.H{"message": "Booking cancelled successfully"})
	}
}

// GetUserBookings retrieves the caller's confirmed bookings with the
// property name and location resolved
func GetUserBookings(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		confirmed, err := bookings.ListConfirmed(c.Request.Context(), userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		response := make([]gin.H, 0, len(confirmed))
		for _, b := range confirmed {
			response = append(response, gin.H{
				"id":             b.ID,
				"propertyId":     b.PropertyID,
				"name":           b.Property.Name,
				"smart_location": b.Property.SmartLocation,
				"checkIn":        b.CheckIn.Format(dateLayout),
				"checkOut":       b.CheckOut.Format(dateLayout),
				"guests":         b.Guests,
				"status":         b.Status,
			})
		}

		c.JSON(200, response)
	}
}

// bookingErrorResponse maps booking service errors onto HTTP responses.
// Storage failures come back as a generic 500 without internal detail.
func bookingErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidDateRange):
		return 400, services.ErrInvalidDateRange.Error()
	case errors.Is(err, services.ErrBookingConflict):
		return 409, services.ErrBookingConflict.Error()
	case errors.Is(err, services.ErrBookingNotFound):
		return 404, services.ErrBookingNotFound.Error()
	case errors.Is(err, services.ErrCancellationWindowClosed):
		return 400, services.ErrCancellationWindowClosed.Error()
	default:
		return 500, "Something went wrong"
	}
}
