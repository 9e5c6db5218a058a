package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/urbix/urbix-backend/internal/config"
	"github.com/urbix/urbix-backend/internal/database"
	"github.com/urbix/urbix-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    ":memory:",
	})
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user, _, err := RegisterUser(db, name, email, "password123", "")
	require.NoError(t, err)
	return user
}

func createTestRide(t *testing.T, db *gorm.DB, creator *models.User, seats int) *models.RidePost {
	t.Helper()
	departure := time.Now().UTC().Add(48 * time.Hour)
	ride, err := CreateRide(db, creator, CreateRideInput{
		Departure:   "Tunis",
		Destination: "Sousse",
		Date:        departure.Format(DateLayout),
		Time:        departure.Format("15:04"),
		Seats:       seats,
	})
	require.NoError(t, err)
	return ride
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	derr, ok := err.(*Error)
	require.True(t, ok, "expected a domain error, got %T: %v", err, err)
	require.Equal(t, kind, derr.Kind, "unexpected error kind for %q", derr.Message)
}
