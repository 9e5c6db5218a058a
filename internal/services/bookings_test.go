package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbix/urbix-backend/internal/models"
)

func TestRequestSeat(t *testing.T) {
	db := newTestDB(t)
	driver := createTestUser(t, db, "Driver", "driver@example.com")
	passenger := createTestUser(t, db, "Passenger", "pax@example.com")
	ride := createTestRide(t, db, driver, 2)

	t.Run("unknown ride", func(t *testing.T) {
		_, _, err := RequestSeat(db, 9999, passenger, 1)
		requireKind(t, err, ErrNotFound)
	})

	t.Run("cannot request own ride", func(t *testing.T) {
		_, _, err := RequestSeat(db, ride.ID, driver, 1)
		requireKind(t, err, ErrPermission)
	})

	t.Run("seats below one", func(t *testing.T) {
		_, _, err := RequestSeat(db, ride.ID, passenger, 0)
		requireKind(t, err, ErrValidation)
	})

	t.Run("seats above availability", func(t *testing.T) {
		_, _, err := RequestSeat(db, ride.ID, passenger, 3)
		requireKind(t, err, ErrValidation)
	})

	t.Run("creates a pending booking", func(t *testing.T) {
		booking, got, err := RequestSeat(db, ride.ID, passenger, 2)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusPending, booking.Status)
		assert.Equal(t, 2, booking.SeatsRequested)
		// Requesting never holds seats; only approval does.
		assert.Equal(t, 2, got.SeatsAvailable)
	})

	t.Run("second active request conflicts", func(t *testing.T) {
		_, _, err := RequestSeat(db, ride.ID, passenger, 1)
		requireKind(t, err, ErrConflict)
		assert.Equal(t, "DUPLICATE_BOOKING", err.(*Error).Code)
	})
}

func TestRequestSeatAfterTerminalBooking(t *testing.T) {
	db := newTestDB(t)
	driver := createTestUser(t, db, "Driver", "driver@example.com")
	passenger := createTestUser(t, db, "Passenger", "pax@example.com")
	ride := createTestRide(t, db, driver, 2)

	booking, _, err := RequestSeat(db, ride.ID, passenger, 1)
	require.NoError(t, err)
	_, _, err = RejectBooking(db, booking.ID, driver.ID)
	require.NoError(t, err)

	// A rejected booking is terminal, so the passenger may ask again.
	_, _, err = RequestSeat(db, ride.ID, passenger, 1)
	require.NoError(t, err)
}

func TestApproveBooking(t *testing.T) {
	db := newTestDB(t)
	driver := createTestUser(t, db, "Driver", "driver@example.com")
	passenger := createTestUser(t, db, "Passenger", "pax@example.com")
	ride := createTestRide(t, db, driver, 2)

	booking, _, err := RequestSeat(db, ride.ID, passenger, 2)
	require.NoError(t, err)

	t.Run("only the driver may approve", func(t *testing.T) {
		_, _, err := ApproveBooking(db, booking.ID, passenger.ID)
		requireKind(t, err, ErrPermission)
	})

	t.Run("approval takes seats and fills the ride", func(t *testing.T) {
		approved, got, err := ApproveBooking(db, booking.ID, driver.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusAccepted, approved.Status)
		assert.Equal(t, 0, got.SeatsAvailable)
		assert.Equal(t, models.RideStatusFull, got.Status)
	})

	t.Run("approving twice is a state error", func(t *testing.T) {
		_, _, err := ApproveBooking(db, booking.ID, driver.ID)
		requireKind(t, err, ErrState)
	})
}

func TestApproveBookingSeatsShrank(t *testing.T) {
	db := newTestDB(t)
	driver := createTestUser(t, db, "Driver", "driver@example.com")
	first := createTestUser(t, db, "First", "first@example.com")
	second := createTestUser(t, db, "Second", "second@example.com")
	ride := createTestRide(t, db, driver, 2)

	b1, _, err := RequestSeat(db, ride.ID, first, 2)
	require.NoError(t, err)
	b2, _, err := RequestSeat(db, ride.ID, second, 1)
	require.NoError(t, err)

	_, _, err = ApproveBooking(db, b1.ID, driver.ID)
	require.NoError(t, err)

	// The second request was valid when made but no longer fits.
	_, _, err = ApproveBooking(db, b2.ID, driver.ID)
	requireKind(t, err, ErrValidation)
}

func TestRejectBooking(t *testing.T) {
	db := newTestDB(t)
	driver := createTestUser(t, db, "Driver", "driver@example.com")
	passenger := createTestUser(t, db, "Passenger", "pax@example.com")
	ride := createTestRide(t, db, driver, 2)

	booking, _, err := RequestSeat(db, ride.ID, passenger, 1)
	require.NoError(t, err)

	rejectedBooking, got, err := RejectBooking(db, booking.ID, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusRejected, rejectedBooking.Status)
	assert.Equal(t, 2, got.SeatsAvailable)

	_, _, err = RejectBooking(db, booking.ID, driver.ID)
	requireKind(t, err, ErrState)
}

func TestCancelBooking(t *testing.T) {
	db := newTestDB(t)
	driver := createTestUser(t, db, "Driver", "driver@example.com")
	passenger := createTestUser(t, db, "Passenger", "pax@example.com")

	t.Run("cancel pending leaves seats alone", func(t *testing.T) {
		ride := createTestRide(t, db, driver, 2)
		booking, _, err := RequestSeat(db, ride.ID, passenger, 1)
		require.NoError(t, err)

		cancelled, got, err := CancelBooking(db, booking.ID, passenger.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
		assert.Equal(t, 2, got.SeatsAvailable)
	})

	t.Run("cancel accepted refunds seats and reopens", func(t *testing.T) {
		ride := createTestRide(t, db, driver, 1)
		booking, _, err := RequestSeat(db, ride.ID, passenger, 1)
		require.NoError(t, err)

		_, full, err := ApproveBooking(db, booking.ID, driver.ID)
		require.NoError(t, err)
		require.Equal(t, models.RideStatusFull, full.Status)

		_, reopened, err := CancelBooking(db, booking.ID, passenger.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, reopened.SeatsAvailable)
		assert.Equal(t, models.RideStatusOpen, reopened.Status)
	})

	t.Run("only the passenger may cancel", func(t *testing.T) {
		ride := createTestRide(t, db, driver, 2)
		booking, _, err := RequestSeat(db, ride.ID, passenger, 1)
		require.NoError(t, err)

		_, _, err = CancelBooking(db, booking.ID, driver.ID)
		requireKind(t, err, ErrPermission)
	})

	t.Run("terminal booking cannot be cancelled", func(t *testing.T) {
		ride := createTestRide(t, db, driver, 2)
		booking, _, err := RequestSeat(db, ride.ID, passenger, 1)
		require.NoError(t, err)
		_, _, err = RejectBooking(db, booking.ID, driver.ID)
		require.NoError(t, err)

		_, _, err = CancelBooking(db, booking.ID, passenger.ID)
		requireKind(t, err, ErrState)
	})
}

func TestListRequestsForRide(t *testing.T) {
	db := newTestDB(t)
	driver := createTestUser(t, db, "Driver", "driver@example.com")
	passenger := createTestUser(t, db, "Passenger", "pax@example.com")
	ride := createTestRide(t, db, driver, 2)

	_, _, err := RequestSeat(db, ride.ID, passenger, 1)
	require.NoError(t, err)

	t.Run("owner sees the requests", func(t *testing.T) {
		bookings, err := ListRequestsForRide(db, ride.ID, driver.ID)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, passenger.ID, bookings[0].PassengerUserID)
		assert.NotZero(t, bookings[0].Passenger.ID)
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		_, err := ListRequestsForRide(db, ride.ID, passenger.ID)
		requireKind(t, err, ErrPermission)
	})
}

func TestMyBookingsAndRequestedRides(t *testing.T) {
	db := newTestDB(t)
	driver := createTestUser(t, db, "Driver", "driver@example.com")
	passenger := createTestUser(t, db, "Passenger", "pax@example.com")
	ride := createTestRide(t, db, driver, 2)

	_, _, err := RequestSeat(db, ride.ID, passenger, 1)
	require.NoError(t, err)

	bookings, err := MyBookings(db, passenger.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	withRides, err := MyRequestedRides(db, passenger.ID)
	require.NoError(t, err)
	require.Len(t, withRides, 1)
	assert.Equal(t, ride.ID, withRides[0].RidePost.ID)
	assert.Equal(t, driver.ID, withRides[0].RidePost.Creator.ID)
}

// Full seat-conservation cycle on a one-seat ride: request, approve (FULL),
// cancel (OPEN again with the seat back).
func TestSeatConservationCycle(t *testing.T) {
	db := newTestDB(t)
	driver := createTestUser(t, db, "Driver", "driver@example.com")
	passenger := createTestUser(t, db, "Passenger", "pax@example.com")
	ride := createTestRide(t, db, driver, 1)

	booking, _, err := RequestSeat(db, ride.ID, passenger, 1)
	require.NoError(t, err)

	_, afterApprove, err := ApproveBooking(db, booking.ID, driver.ID)
	require.NoError(t, err)
	require.Equal(t, 0, afterApprove.SeatsAvailable)
	require.Equal(t, models.RideStatusFull, afterApprove.Status)

	_, afterCancel, err := CancelBooking(db, booking.ID, passenger.ID)
	require.NoError(t, err)
	require.Equal(t, 1, afterCancel.SeatsAvailable)
	require.Equal(t, models.RideStatusOpen, afterCancel.Status)
}
