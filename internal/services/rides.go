package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/urbix/urbix-backend/internal/models"
)

const (
	// DepartureLayout is the wire format for ride date + time fields.
	DepartureLayout = "2006-01-02 15:04"
	// DateLayout is the wire format for the listing date filter.
	DateLayout = "2006-01-02"

	// MaxSeats is the seat capacity ceiling for a ride offer.
	MaxSeats = 8
	// ListLimit caps the public listing; there is no pagination beyond it.
	ListLimit = 50
)

// CreateRideInput is the canonical shape for a new ride offer. Key-spelling
// normalization happens at the handler boundary.
type CreateRideInput struct {
	Departure   string
	Destination string
	Date        string
	Time        string
	Seats       int
}

// CreateRide validates and persists a new OPEN ride offer.
func CreateRide(db *gorm.DB, creator *models.User, in CreateRideInput) (*models.RidePost, error) {
	departure := strings.TrimSpace(in.Departure)
	destination := strings.TrimSpace(in.Destination)
	date := strings.TrimSpace(in.Date)
	timeOfDay := strings.TrimSpace(in.Time)

	if departure == "" || destination == "" || date == "" || timeOfDay == "" {
		return nil, validationf("Missing required fields: departure, destination, date, time")
	}

	dt, err := time.ParseInLocation(DepartureLayout, date+" "+timeOfDay, time.UTC)
	if err != nil {
		return nil, validationf("Invalid date/time format")
	}
	if dt.Before(time.Now().UTC()) {
		return nil, validationf("You cannot offer a ride in the past")
	}

	if in.Seats < 1 || in.Seats > MaxSeats {
		return nil, validationf("seatsAvailable must be between 1 and %d", MaxSeats)
	}

	ride := &models.RidePost{
		CreatorUserID:     creator.ID,
		Creator:           *creator,
		Departure:         departure,
		Destination:       destination,
		DepartureDatetime: dt,
		SeatsAvailable:    in.Seats,
		Status:            models.RideStatusOpen,
	}
	if err := db.Create(ride).Error; err != nil {
		return nil, err
	}
	return ride, nil
}

// RidePatch carries the optional fields of a ride update. Date and Time must
// both be present for the departure timestamp to change.
type RidePatch struct {
	Departure   *string
	Destination *string
	Date        *string
	Time        *string
	Seats       *int
}

// UpdateRide applies the patch and unconditionally recomputes the derived
// status afterwards, so setting seats to 0 forces FULL and raising them above
// 0 reopens a FULL ride even without any booking change.
func UpdateRide(db *gorm.DB, rideID, requesterID uint, patch RidePatch) (*models.RidePost, error) {
	var ride models.RidePost
	if err := db.Preload("Creator").First(&ride, rideID).Error; err != nil {
		return nil, notFoundf("Ride not found")
	}
	if ride.CreatorUserID != requesterID {
		return nil, permissionf("Not allowed")
	}

	if patch.Departure != nil {
		ride.Departure = strings.TrimSpace(*patch.Departure)
	}
	if patch.Destination != nil {
		ride.Destination = strings.TrimSpace(*patch.Destination)
	}

	if patch.Date != nil && patch.Time != nil {
		dt, err := time.ParseInLocation(DepartureLayout, *patch.Date+" "+*patch.Time, time.UTC)
		if err != nil {
			return nil, validationf("Invalid date/time format")
		}
		if dt.Before(time.Now().UTC()) {
			return nil, validationf("You cannot set a ride in the past")
		}
		ride.DepartureDatetime = dt
	}

	if patch.Seats != nil {
		// Unlike create, an update may set seats to 0; the recompute below
		// then marks the ride FULL.
		if *patch.Seats < 0 || *patch.Seats > MaxSeats {
			return nil, validationf("seatsAvailable must be between 0 and %d", MaxSeats)
		}
		ride.SeatsAvailable = *patch.Seats
	}

	ride.RecomputeStatus()

	if err := db.Save(&ride).Error; err != nil {
		return nil, err
	}
	return &ride, nil
}

// DeleteRide removes the ride and all of its bookings in one transaction.
// The returned bookings are the PENDING/ACCEPTED ones whose passengers should
// be notified of the cancellation.
func DeleteRide(db *gorm.DB, rideID, requesterID uint) (*models.RidePost, []models.Booking, error) {
	var ride models.RidePost
	if err := db.Preload("Creator").First(&ride, rideID).Error; err != nil {
		return nil, nil, notFoundf("Ride not found")
	}
	if ride.CreatorUserID != requesterID {
		return nil, nil, permissionf("Not allowed")
	}

	var bookings []models.Booking
	if err := db.Preload("Passenger").Where("ride_post_id = ?", ride.ID).Find(&bookings).Error; err != nil {
		return nil, nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ride_post_id = ?", ride.ID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ride).Error
	})
	if err != nil {
		return nil, nil, err
	}

	var active []models.Booking
	for _, b := range bookings {
		if b.Status.Active() {
			active = append(active, b)
		}
	}
	return &ride, active, nil
}

// RideListFilters are the optional public listing filters.
type RideListFilters struct {
	Departure   string
	Destination string
	Date        string // YYYY-MM-DD, matches the calendar date of departure
}

// ListRides returns up to ListLimit rides ordered by departure ascending.
// Text filters are case-insensitive substring matches; the date filter is an
// exact calendar-date match regardless of time-of-day.
func ListRides(db *gorm.DB, f RideListFilters) ([]models.RidePost, error) {
	q := db.Preload("Creator")

	if departure := strings.TrimSpace(f.Departure); departure != "" {
		q = q.Where("LOWER(departure) LIKE ?", "%"+strings.ToLower(departure)+"%")
	}
	if destination := strings.TrimSpace(f.Destination); destination != "" {
		q = q.Where("LOWER(destination) LIKE ?", "%"+strings.ToLower(destination)+"%")
	}
	if date := strings.TrimSpace(f.Date); date != "" {
		day, err := time.ParseInLocation(DateLayout, date, time.UTC)
		if err != nil {
			return nil, validationf("Invalid date format. Use YYYY-MM-DD.")
		}
		q = q.Where("departure_datetime >= ? AND departure_datetime < ?", day, day.AddDate(0, 0, 1))
	}

	var rides []models.RidePost
	if err := q.Order("departure_datetime ASC").Limit(ListLimit).Find(&rides).Error; err != nil {
		return nil, err
	}
	return rides, nil
}

// MyOfferedRides returns the user's ride offers newest-departure first, with
// the number of requests each has received.
func MyOfferedRides(db *gorm.DB, userID uint) ([]models.RidePost, []int64, error) {
	var rides []models.RidePost
	if err := db.Where("creator_user_id = ?", userID).
		Order("departure_datetime DESC").
		Find(&rides).Error; err != nil {
		return nil, nil, err
	}

	counts := make([]int64, len(rides))
	for i := range rides {
		if err := db.Model(&models.Booking{}).
			Where("ride_post_id = ?", rides[i].ID).
			Count(&counts[i]).Error; err != nil {
			return nil, nil, err
		}
	}
	return rides, counts, nil
}
