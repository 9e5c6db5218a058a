package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/urbix/urbix-backend/internal/services"
	"github.com/urbix/urbix-backend/pkg/utils"
)

var log = logrus.StandardLogger()

// SetLogger swaps the package logger; called once from main.
func SetLogger(l *logrus.Logger) {
	log = l
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.ErrValidation, services.ErrState:
		return 400
	case services.ErrAuth:
		return 401
	case services.ErrPermission:
		return 403
	case services.ErrNotFound:
		return 404
	case services.ErrConflict:
		return 409
	default:
		return 500
	}
}

// respondError translates a domain error into the failure envelope.
// Unexpected errors are logged in full and leak no detail to the client.
func respondError(c *gin.Context, err error) {
	var derr *services.Error
	if errors.As(err, &derr) {
		if derr.Code != "" {
			utils.FailCode(c, statusFor(derr.Kind), derr.Message, derr.Code)
			return
		}
		utils.Fail(c, statusFor(derr.Kind), derr.Message)
		return
	}
	log.WithError(err).Error("unexpected server error")
	utils.Fail(c, 500, "Unexpected server error")
}

// runSweep enforces the freshness guarantee: stale PENDING requests are
// auto-rejected before the endpoint reads or writes ride/booking state.
// Passengers of swept bookings are notified best-effort.
func runSweep(db *gorm.DB, notifier *services.Notifier) {
	expired, err := services.SweepExpired(db, time.Now().UTC())
	if err != nil {
		log.WithError(err).Warn("expiry sweep failed")
		return
	}
	for i := range expired {
		notifier.Notify(autoRejectedNotification(&expired[i]))
	}
}

func parseUintParam(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
