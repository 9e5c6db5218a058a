package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/urbix/urbix-backend/internal/services"
	"github.com/urbix/urbix-backend/pkg/utils"
)

type requestSeatInput struct {
	SeatsRequested      *int `json:"seatsRequested"`
	SeatsRequestedSnake *int `json:"seats_requested"`
}

func (in *requestSeatInput) seats() int {
	switch {
	case in.SeatsRequested != nil:
		return *in.SeatsRequested
	case in.SeatsRequestedSnake != nil:
		return *in.SeatsRequestedSnake
	default:
		return 1
	}
}

// RequestSeat creates a PENDING booking on a ride and notifies its driver.
func RequestSeat(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		passenger, err := services.GetUser(db, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		rideID, err := parseUintParam(c.Param("id"))
		if err != nil {
			utils.Fail(c, 404, "Ride not found")
			return
		}

		var input requestSeatInput
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&input); err != nil {
				utils.Fail(c, 400, "Invalid request body")
				return
			}
		}

		booking, ride, err := services.RequestSeat(db, rideID, passenger, input.seats())
		if err != nil {
			respondError(c, err)
			return
		}

		notifier.Notify(newRequestNotification(booking, ride))

		utils.OK(c, 201, booking.ToDict())
	}
}

// ListRideRequests shows the driver every booking on their ride.
func ListRideRequests(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		rideID, err := parseUintParam(c.Param("id"))
		if err != nil {
			utils.Fail(c, 404, "Ride not found")
			return
		}

		bookings, err := services.ListRequestsForRide(db, rideID, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		payload := make([]map[string]any, 0, len(bookings))
		for i := range bookings {
			payload = append(payload, bookings[i].ToDict())
		}
		utils.OK(c, 200, payload)
	}
}

// ApproveRequest accepts a pending booking and notifies the passenger.
func ApproveRequest(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		bookingID, err := parseUintParam(c.Param("id"))
		if err != nil {
			utils.Fail(c, 404, "Request not found")
			return
		}

		booking, ride, err := services.ApproveBooking(db, bookingID, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		notifier.Notify(approvedNotification(booking, ride))

		utils.OK(c, 200, gin.H{
			"booking": booking.ToDict(),
			"ride":    ride.ToDict(),
		})
	}
}

// RejectRequest declines a pending booking and notifies the passenger.
func RejectRequest(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		bookingID, err := parseUintParam(c.Param("id"))
		if err != nil {
			utils.Fail(c, 404, "Request not found")
			return
		}

		booking, ride, err := services.RejectBooking(db, bookingID, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		notifier.Notify(rejectedNotification(booking, ride))

		utils.OK(c, 200, booking.ToDict())
	}
}

// CancelRequest lets the passenger withdraw a booking and notifies the
// driver. Seats held by an accepted booking return to the ride.
func CancelRequest(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		bookingID, err := parseUintParam(c.Param("id"))
		if err != nil {
			utils.Fail(c, 404, "Request not found")
			return
		}

		booking, ride, err := services.CancelBooking(db, bookingID, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		notifier.Notify(cancelledNotification(booking, ride))

		utils.OK(c, 200, gin.H{
			"cancelled": true,
			"booking":   booking.ToDict(),
			"ride":      ride.ToDict(),
		})
	}
}

// MyBookings lists the requester's bookings, newest first.
func MyBookings(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		bookings, err := services.MyBookings(db, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		payload := make([]map[string]any, 0, len(bookings))
		for i := range bookings {
			payload = append(payload, bookings[i].ToDict())
		}
		utils.OK(c, 200, payload)
	}
}

// MyRequestedRides lists the requester's bookings paired with their rides.
func MyRequestedRides(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		bookings, err := services.MyRequestedRides(db, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		payload := make([]map[string]any, 0, len(bookings))
		for i := range bookings {
			payload = append(payload, map[string]any{
				"booking": bookings[i].ToDict(),
				"ride":    bookings[i].RidePost.ToDict(),
			})
		}
		utils.OK(c, 200, payload)
	}
}
