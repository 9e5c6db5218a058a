package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusAccepted  BookingStatus = "ACCEPTED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Active reports whether the status still holds (or may hold) seats on a
// ride. REJECTED and CANCELLED are absorbing.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusAccepted
}

// Booking is a passenger's seat request on a ride post, moving through the
// PENDING -> ACCEPTED/REJECTED/CANCELLED approval workflow.
type Booking struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	RidePostID uint     `gorm:"index;not null" json:"ridePostId"`
	RidePost   RidePost `gorm:"foreignKey:RidePostID" json:"-"`

	PassengerUserID uint `gorm:"index;not null" json:"passengerUserId"`
	Passenger       User `gorm:"foreignKey:PassengerUserID" json:"-"`

	SeatsRequested int           `gorm:"not null;default:1" json:"seatsRequested"`
	Status         BookingStatus `gorm:"size:30;not null;default:'PENDING'" json:"status"`

	StatusUpdatedAt time.Time `gorm:"not null" json:"statusUpdatedAt"`

	// Reserved for the matching engine; never written by current logic.
	MatchedScore *float64 `json:"matchedScore"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Booking) TableName() string {
	return "carpool_bookings"
}

func (b *Booking) ToDict() map[string]any {
	var passenger map[string]any
	if b.Passenger.ID != 0 {
		passenger = b.Passenger.SafeDict()
	}
	return map[string]any{
		"id":              b.ID,
		"ride_post_id":    b.RidePostID,
		"passenger":       passenger,
		"seats_requested": b.SeatsRequested,
		"status":          b.Status,
		"matched_score":   b.MatchedScore,
		"created_at":      b.CreatedAt.Format(time.RFC3339),
	}
}
