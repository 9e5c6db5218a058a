package handlers

import (
	"fmt"
	"time"

	"github.com/urbix/urbix-backend/internal/models"
	"github.com/urbix/urbix-backend/internal/services"
)

func bookingEventData(b *models.Booking, ride *models.RidePost) map[string]any {
	return map[string]any{
		"bookingId":  b.ID,
		"ridePostId": ride.ID,
		"status":     b.Status,
	}
}

// newRequestNotification goes to the ride's creator when a passenger
// requests seats.
func newRequestNotification(b *models.Booking, ride *models.RidePost) services.Notification {
	return services.Notification{
		RecipientID:    ride.CreatorUserID,
		RecipientEmail: ride.Creator.Email,
		Subject:        "UrbiX: New ride request",
		Text: fmt.Sprintf(
			"A user requested your ride %s to %s at %s.\n\nSeats requested: %d\nOpen UrbiX, My Rides, to approve or reject.",
			ride.Departure, ride.Destination, ride.DepartureDatetime.Format(time.RFC3339), b.SeatsRequested),
		Title:     "New ride request",
		Subtitle:  "Someone requested a seat on your ride. Review it in My Rides.",
		Badge:     "ACTION NEEDED",
		Rows:      services.RideRows(ride, b.SeatsRequested, "Pending"),
		CTAText:   "Review requests",
		Event:     "booking_requested",
		EventData: bookingEventData(b, ride),
	}
}

// approvedNotification goes to the passenger when the driver accepts.
func approvedNotification(b *models.Booking, ride *models.RidePost) services.Notification {
	return services.Notification{
		RecipientID:    b.PassengerUserID,
		RecipientEmail: b.Passenger.Email,
		Subject:        "UrbiX: Ride request approved",
		Text: fmt.Sprintf("Your request was approved for %s to %s at %s.",
			ride.Departure, ride.Destination, ride.DepartureDatetime.Format(time.RFC3339)),
		Title:     "Request approved",
		Subtitle:  "The driver approved your request.",
		Badge:     "APPROVED",
		Rows:      services.RideRows(ride, b.SeatsRequested, "Accepted"),
		CTAText:   "Open My Rides",
		Event:     "booking_approved",
		EventData: bookingEventData(b, ride),
	}
}

// rejectedNotification goes to the passenger when the driver declines.
func rejectedNotification(b *models.Booking, ride *models.RidePost) services.Notification {
	return services.Notification{
		RecipientID:    b.PassengerUserID,
		RecipientEmail: b.Passenger.Email,
		Subject:        "UrbiX: Ride request rejected",
		Text: fmt.Sprintf("Your request was rejected for %s to %s at %s.",
			ride.Departure, ride.Destination, ride.DepartureDatetime.Format(time.RFC3339)),
		Title:     "Request rejected",
		Subtitle:  "The driver was not able to accept this request.",
		Badge:     "REJECTED",
		Rows:      services.RideRows(ride, b.SeatsRequested, "Rejected"),
		CTAText:   "Browse rides",
		Event:     "booking_rejected",
		EventData: bookingEventData(b, ride),
	}
}

// cancelledNotification goes to the ride's creator when the passenger
// withdraws a booking.
func cancelledNotification(b *models.Booking, ride *models.RidePost) services.Notification {
	return services.Notification{
		RecipientID:    ride.CreatorUserID,
		RecipientEmail: ride.Creator.Email,
		Subject:        "UrbiX: Ride request cancelled",
		Text: fmt.Sprintf("A passenger cancelled their request for your ride %s to %s at %s.",
			ride.Departure, ride.Destination, ride.DepartureDatetime.Format(time.RFC3339)),
		Title:     "Request cancelled",
		Subtitle:  "A passenger cancelled their ride request.",
		Badge:     "CANCELLED",
		Rows:      services.RideRows(ride, b.SeatsRequested, "Cancelled"),
		CTAText:   "Open My Rides",
		Event:     "booking_cancelled",
		EventData: bookingEventData(b, ride),
	}
}

// rideCancelledNotification goes to each PENDING/ACCEPTED passenger when the
// driver deletes the ride.
func rideCancelledNotification(b *models.Booking, ride *models.RidePost) services.Notification {
	return services.Notification{
		RecipientID:    b.PassengerUserID,
		RecipientEmail: b.Passenger.Email,
		Subject:        "UrbiX: Ride cancelled",
		Text: fmt.Sprintf("The ride %s to %s at %s was cancelled by the driver.",
			ride.Departure, ride.Destination, ride.DepartureDatetime.Format(time.RFC3339)),
		Title:    "Ride cancelled",
		Subtitle: "The driver cancelled this ride offer.",
		Badge:    "CANCELLED",
		Rows:     services.RideRows(ride, b.SeatsRequested, "Cancelled"),
		CTAText:  "Open My Rides",
		Event:    "ride_cancelled",
		EventData: map[string]any{
			"ridePostId": ride.ID,
			"bookingId":  b.ID,
		},
	}
}

// autoRejectedNotification goes to the passenger when the sweep expires a
// request the driver never answered.
func autoRejectedNotification(b *models.Booking) services.Notification {
	ride := &b.RidePost
	return services.Notification{
		RecipientID:    b.PassengerUserID,
		RecipientEmail: b.Passenger.Email,
		Subject:        "UrbiX: Ride request auto-rejected (no response)",
		Text: fmt.Sprintf(
			"Your request for %s to %s at %s was auto-rejected because the driver did not respond within 24 hours.",
			ride.Departure, ride.Destination, ride.DepartureDatetime.Format(time.RFC3339)),
		Title:     "Request auto-rejected",
		Subtitle:  "The driver did not respond within 24 hours.",
		Badge:     "EXPIRED",
		Rows:      services.RideRows(ride, b.SeatsRequested, "Rejected"),
		CTAText:   "Open My Rides",
		Event:     "booking_rejected",
		EventData: bookingEventData(b, ride),
	}
}
