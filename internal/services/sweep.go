package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/urbix/urbix-backend/internal/models"
)

// AutoRejectAfter is how long a request may stay PENDING before the system
// rejects it on the driver's behalf.
const AutoRejectAfter = 24 * time.Hour

// SweepExpired rejects PENDING bookings older than AutoRejectAfter and
// returns them (with passenger and ride loaded) so the caller can notify the
// passengers. It is idempotent: the filter requires PENDING, so an already
// swept booking is never touched again. The entry-point layer runs it before
// every ride/booking read or write as the freshness guarantee.
func SweepExpired(db *gorm.DB, now time.Time) ([]models.Booking, error) {
	cutoff := now.Add(-AutoRejectAfter)

	var expired []models.Booking
	if err := db.Preload("Passenger").
		Preload("RidePost").Preload("RidePost.Creator").
		Where("status = ? AND created_at < ?", models.BookingStatusPending, cutoff).
		Find(&expired).Error; err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := range expired {
			expired[i].Status = models.BookingStatusRejected
			expired[i].StatusUpdatedAt = now
			if err := tx.Save(&expired[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}
