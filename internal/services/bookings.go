package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/urbix/urbix-backend/internal/models"
)

// RequestSeat creates a PENDING booking for the passenger on an OPEN ride.
func RequestSeat(db *gorm.DB, rideID uint, passenger *models.User, seats int) (*models.Booking, *models.RidePost, error) {
	var ride models.RidePost
	if err := db.Preload("Creator").First(&ride, rideID).Error; err != nil {
		return nil, nil, notFoundf("Ride not found")
	}

	if ride.CreatorUserID == passenger.ID {
		return nil, nil, permissionf("You cannot request your own ride")
	}

	var existing int64
	if err := db.Model(&models.Booking{}).
		Where("ride_post_id = ? AND passenger_user_id = ? AND status IN ?",
			ride.ID, passenger.ID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusAccepted}).
		Count(&existing).Error; err != nil {
		return nil, nil, err
	}
	if existing > 0 {
		return nil, nil, conflictf("You already have a booking for this ride").WithCode("DUPLICATE_BOOKING")
	}

	if ride.Status != models.RideStatusOpen {
		return nil, nil, validationf("Ride is not open for requests")
	}
	if seats < 1 {
		return nil, nil, validationf("seatsRequested must be >= 1")
	}
	if seats > ride.SeatsAvailable {
		return nil, nil, validationf("Not enough seats available")
	}

	booking := &models.Booking{
		RidePostID:      ride.ID,
		Passenger:       *passenger,
		PassengerUserID: passenger.ID,
		SeatsRequested:  seats,
		Status:          models.BookingStatusPending,
		StatusUpdatedAt: time.Now().UTC(),
	}
	if err := db.Create(booking).Error; err != nil {
		return nil, nil, err
	}
	return booking, &ride, nil
}

func loadBooking(db *gorm.DB, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := db.Preload("RidePost").Preload("RidePost.Creator").Preload("Passenger").
		First(&booking, bookingID).Error
	if err != nil {
		return nil, notFoundf("Request not found")
	}
	return &booking, nil
}

// ApproveBooking accepts a pending request and takes its seats off the ride.
// Seat availability is re-validated here because it may have shrunk since the
// request was made.
func ApproveBooking(db *gorm.DB, bookingID, requesterID uint) (*models.Booking, *models.RidePost, error) {
	booking, err := loadBooking(db, bookingID)
	if err != nil {
		return nil, nil, err
	}
	ride := booking.RidePost

	if ride.CreatorUserID != requesterID {
		return nil, nil, permissionf("Not allowed")
	}
	if booking.Status != models.BookingStatusPending {
		return nil, nil, statef("Request is not pending")
	}
	if booking.SeatsRequested > ride.SeatsAvailable {
		return nil, nil, validationf("Not enough seats available")
	}

	// Known race: the seat decrement is a read-modify-write with no row lock,
	// so two concurrent approvals against the same ride can oversell.
	booking.Status = models.BookingStatusAccepted
	booking.StatusUpdatedAt = time.Now().UTC()
	ride.SeatsAvailable -= booking.SeatsRequested
	if ride.SeatsAvailable < 0 {
		ride.SeatsAvailable = 0
	}
	ride.RecomputeStatus()

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(booking).Error; err != nil {
			return err
		}
		return tx.Save(&ride).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return booking, &ride, nil
}

// RejectBooking declines a pending request. Seats are untouched.
func RejectBooking(db *gorm.DB, bookingID, requesterID uint) (*models.Booking, *models.RidePost, error) {
	booking, err := loadBooking(db, bookingID)
	if err != nil {
		return nil, nil, err
	}
	ride := booking.RidePost

	if ride.CreatorUserID != requesterID {
		return nil, nil, permissionf("Not allowed")
	}
	if booking.Status != models.BookingStatusPending {
		return nil, nil, statef("Request is not pending")
	}

	booking.Status = models.BookingStatusRejected
	booking.StatusUpdatedAt = time.Now().UTC()
	if err := db.Save(booking).Error; err != nil {
		return nil, nil, err
	}
	return booking, &ride, nil
}

// CancelBooking lets the passenger withdraw a PENDING or ACCEPTED booking.
// Seats taken by an ACCEPTED booking are refunded and a FULL ride reopens.
func CancelBooking(db *gorm.DB, bookingID, passengerID uint) (*models.Booking, *models.RidePost, error) {
	booking, err := loadBooking(db, bookingID)
	if err != nil {
		return nil, nil, err
	}
	ride := booking.RidePost

	if booking.PassengerUserID != passengerID {
		return nil, nil, permissionf("Not allowed")
	}
	if !booking.Status.Active() {
		return nil, nil, statef("Cannot cancel this request")
	}

	refund := booking.Status == models.BookingStatusAccepted
	if refund {
		ride.SeatsAvailable += booking.SeatsRequested
		ride.RecomputeStatus()
	}

	booking.Status = models.BookingStatusCancelled
	booking.StatusUpdatedAt = time.Now().UTC()

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(booking).Error; err != nil {
			return err
		}
		if refund {
			return tx.Save(&ride).Error
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return booking, &ride, nil
}

// ListRequestsForRide returns all bookings on the ride, newest first. Only
// the ride's creator may see them.
func ListRequestsForRide(db *gorm.DB, rideID, requesterID uint) ([]models.Booking, error) {
	var ride models.RidePost
	if err := db.First(&ride, rideID).Error; err != nil {
		return nil, notFoundf("Ride not found")
	}
	if ride.CreatorUserID != requesterID {
		return nil, permissionf("Not allowed")
	}

	var bookings []models.Booking
	if err := db.Preload("Passenger").
		Where("ride_post_id = ?", ride.ID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// MyBookings returns the passenger's bookings, newest first.
func MyBookings(db *gorm.DB, passengerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := db.Preload("Passenger").
		Where("passenger_user_id = ?", passengerID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// MyRequestedRides returns the passenger's bookings with their rides, newest
// first.
func MyRequestedRides(db *gorm.DB, passengerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := db.Preload("Passenger").
		Preload("RidePost").Preload("RidePost.Creator").
		Where("passenger_user_id = ?", passengerID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
