package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/urbix/urbix-backend/internal/services"
	"github.com/urbix/urbix-backend/pkg/utils"
)

// ListRides is the public listing with optional departure/destination/date
// filters, backed by a short-TTL cache when Redis is available.
func ListRides(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		filters := services.RideListFilters{
			Departure:   c.Query("departure"),
			Destination: c.Query("destination"),
			Date:        c.Query("date"),
		}

		cacheKey := services.RideListCacheKey(filters.Departure, filters.Destination, filters.Date)
		if payload, ok := services.CachedRideList(c.Request.Context(), cacheKey); ok {
			utils.OK(c, 200, payload)
			return
		}

		rides, err := services.ListRides(db, filters)
		if err != nil {
			respondError(c, err)
			return
		}

		payload := make([]map[string]any, 0, len(rides))
		for i := range rides {
			payload = append(payload, rides[i].ToDict())
		}
		services.StoreRideList(c.Request.Context(), cacheKey, payload)

		utils.OK(c, 200, payload)
	}
}

type createRideInput struct {
	Departure   string `json:"departure"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Time        string `json:"time"`

	// Accepted spellings for the seat count; normalized below.
	SeatsAvailable      *int `json:"seatsAvailable"`
	SeatsAvailableSnake *int `json:"seats_available"`
	SeatsLegacy         *int `json:"seats"`
}

func (in *createRideInput) seats() int {
	switch {
	case in.SeatsAvailable != nil:
		return *in.SeatsAvailable
	case in.SeatsAvailableSnake != nil:
		return *in.SeatsAvailableSnake
	case in.SeatsLegacy != nil:
		return *in.SeatsLegacy
	default:
		return 1
	}
}

// CreateRide posts a new ride offer for the authenticated user.
func CreateRide(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		user, err := services.GetUser(db, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		var input createRideInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, 400, "Invalid request body")
			return
		}

		ride, err := services.CreateRide(db, user, services.CreateRideInput{
			Departure:   input.Departure,
			Destination: input.Destination,
			Date:        input.Date,
			Time:        input.Time,
			Seats:       input.seats(),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		utils.OK(c, 201, ride.ToDict())
	}
}

type updateRideInput struct {
	Departure   *string `json:"departure"`
	Destination *string `json:"destination"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`

	SeatsAvailable      *int `json:"seatsAvailable"`
	SeatsAvailableSnake *int `json:"seats_available"`
}

// UpdateRide applies a per-field patch to a ride owned by the requester.
func UpdateRide(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		rideID, err := parseUintParam(c.Param("id"))
		if err != nil {
			utils.Fail(c, 404, "Ride not found")
			return
		}

		var input updateRideInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, 400, "Invalid request body")
			return
		}

		seats := input.SeatsAvailable
		if seats == nil {
			seats = input.SeatsAvailableSnake
		}

		ride, err := services.UpdateRide(db, rideID, c.GetUint("userId"), services.RidePatch{
			Departure:   input.Departure,
			Destination: input.Destination,
			Date:        input.Date,
			Time:        input.Time,
			Seats:       seats,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		utils.OK(c, 200, ride.ToDict())
	}
}

// DeleteRide removes a ride owned by the requester and notifies every
// passenger with an active booking.
func DeleteRide(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		rideID, err := parseUintParam(c.Param("id"))
		if err != nil {
			utils.Fail(c, 404, "Ride not found")
			return
		}

		ride, activeBookings, err := services.DeleteRide(db, rideID, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		for i := range activeBookings {
			notifier.Notify(rideCancelledNotification(&activeBookings[i], ride))
		}

		utils.OK(c, 200, gin.H{"deleted": true})
	}
}

// MyOfferedRides lists the requester's ride offers with request counts.
func MyOfferedRides(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		runSweep(db, notifier)

		rides, counts, err := services.MyOfferedRides(db, c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		payload := make([]map[string]any, 0, len(rides))
		for i := range rides {
			d := rides[i].ToDict()
			d["requests_count"] = counts[i]
			payload = append(payload, d)
		}
		utils.OK(c, 200, payload)
	}
}
