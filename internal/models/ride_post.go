package models

import (
	"time"
)

type RideStatus string

const (
	RideStatusOpen      RideStatus = "OPEN"
	RideStatusFull      RideStatus = "FULL"
	RideStatusCancelled RideStatus = "CANCELLED"
	RideStatusCompleted RideStatus = "COMPLETED"
)

// RidePost is a driver's posted trip with a seat capacity.
type RidePost struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	CreatorUserID uint `gorm:"index;not null" json:"creatorUserId"`
	Creator       User `gorm:"foreignKey:CreatorUserID" json:"-"`

	Departure         string    `gorm:"size:255;not null" json:"departure"`
	Destination       string    `gorm:"size:255;not null" json:"destination"`
	DepartureDatetime time.Time `gorm:"not null" json:"departureDatetime"`

	SeatsAvailable int        `gorm:"not null;default:1" json:"seatsAvailable"`
	Status         RideStatus `gorm:"size:30;not null;default:'OPEN'" json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`

	Bookings []Booking `gorm:"foreignKey:RidePostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RidePost) TableName() string {
	return "ride_posts"
}

// RecomputeStatus applies the derived-status rule: FULL iff no seats remain.
// Invoked after every mutation that may touch SeatsAvailable or Status so the
// two fields never diverge.
func (r *RidePost) RecomputeStatus() {
	if r.SeatsAvailable <= 0 {
		r.Status = RideStatusFull
	} else if r.Status == RideStatusFull {
		r.Status = RideStatusOpen
	}
}

func (r *RidePost) ToDict() map[string]any {
	var creator map[string]any
	if r.Creator.ID != 0 {
		creator = r.Creator.SafeDict()
	}
	return map[string]any{
		"id":                 r.ID,
		"departure":          r.Departure,
		"destination":        r.Destination,
		"departure_datetime": r.DepartureDatetime.Format(time.RFC3339),
		"seats_available":    r.SeatsAvailable,
		"status":             r.Status,
		"creator":            creator,
	}
}
