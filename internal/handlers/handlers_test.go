package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/urbix/urbix-backend/internal/config"
	"github.com/urbix/urbix-backend/internal/database"
	"github.com/urbix/urbix-backend/internal/middleware"
	"github.com/urbix/urbix-backend/internal/services"
	"github.com/urbix/urbix-backend/pkg/utils"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	jwtm   *utils.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.InitDB(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)

	log := logrus.New()
	notifier := services.NewNotifier(nil, nil, log)
	jwtm := utils.NewJWTManager("test-secret", 1)
	admin := config.AdminConfig{Email: "admin@urbix.com", Password: "Admin123!"}

	r := gin.New()
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", Register(db, jwtm))
			auth.POST("/login", Login(db, jwtm))
			auth.POST("/admin/login", AdminLogin(admin, jwtm))
			auth.GET("/me", middleware.AuthMiddleware(jwtm), Me(db))
		}

		users := api.Group("/users", middleware.AuthMiddleware(jwtm))
		{
			users.GET("/me", GetMe(db))
			users.GET("/me/preferences", GetMyPreferences(db))
			users.PUT("/me/preferences", UpdateMyPreferences(db))
		}

		rides := api.Group("/rides")
		{
			rides.GET("", ListRides(db, notifier))

			authed := rides.Group("", middleware.AuthMiddleware(jwtm))
			{
				authed.POST("", CreateRide(db, notifier))
				authed.PUT("/:id", UpdateRide(db, notifier))
				authed.DELETE("/:id", DeleteRide(db, notifier))
				authed.GET("/mine/offered", MyOfferedRides(db, notifier))
				authed.GET("/mine/requested", MyRequestedRides(db, notifier))

				authed.POST("/:id/request", RequestSeat(db, notifier))
				authed.GET("/:id/requests", ListRideRequests(db, notifier))
				authed.POST("/requests/:id/approve", ApproveRequest(db, notifier))
				authed.POST("/requests/:id/reject", RejectRequest(db, notifier))
				authed.DELETE("/requests/:id", CancelRequest(db, notifier))
				authed.GET("/bookings/me", MyBookings(db, notifier))
			}
		}
	}

	return &testServer{router: r, db: db, jwtm: jwtm}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func (s *testServer) register(t *testing.T, name, email string) string {
	t.Helper()
	w, env := s.do(t, "POST", "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, 201, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("register returns token, user and preferences", func(t *testing.T) {
		w, env := s.do(t, "POST", "/api/auth/register", "", gin.H{
			"name":     "Amira",
			"email":    "amira@example.com",
			"password": "password123",
			"phone":    "+21612345678",
		})
		require.Equal(t, 201, w.Code)
		assert.True(t, env.Success)

		var data struct {
			Token string         `json:"token"`
			User  map[string]any `json:"user"`
			Prefs map[string]any `json:"preferences"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.NotEmpty(t, data.Token)
		assert.Equal(t, "amira@example.com", data.User["email"])
		assert.NotNil(t, data.Prefs["preferredModes"])
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		w, env := s.do(t, "POST", "/api/auth/register", "", gin.H{
			"name":     "Clone",
			"email":    "AMIRA@example.com",
			"password": "password123",
		})
		assert.Equal(t, 409, w.Code)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Email already in use", env.Error.Message)
		assert.Equal(t, "EMAIL_IN_USE", env.Error.Code)
	})

	t.Run("login succeeds with the right password", func(t *testing.T) {
		w, env := s.do(t, "POST", "/api/auth/login", "", gin.H{
			"email":    "amira@example.com",
			"password": "password123",
		})
		assert.Equal(t, 200, w.Code)
		assert.True(t, env.Success)
	})

	t.Run("login fails with the wrong password", func(t *testing.T) {
		w, env := s.do(t, "POST", "/api/auth/login", "", gin.H{
			"email":    "amira@example.com",
			"password": "wrong",
		})
		assert.Equal(t, 401, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Invalid email or password", env.Error.Message)
	})
}

func TestAdminLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("valid credentials", func(t *testing.T) {
		w, env := s.do(t, "POST", "/api/auth/admin/login", "", gin.H{
			"email":    "admin@urbix.com",
			"password": "Admin123!",
		})
		require.Equal(t, 200, w.Code)

		var data struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))

		id, role, err := s.jwtm.Verify(data.Token)
		require.NoError(t, err)
		assert.Equal(t, utils.AdminSubjectID, id)
		assert.Equal(t, utils.RoleAdmin, role)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		w, _ := s.do(t, "POST", "/api/auth/admin/login", "", gin.H{
			"email":    "admin@urbix.com",
			"password": "nope",
		})
		assert.Equal(t, 401, w.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, "GET", "/api/rides/mine/offered", "", nil)
	assert.Equal(t, 401, w.Code)
	assert.False(t, env.Success)

	w, _ = s.do(t, "GET", "/api/rides/mine/offered", "garbage-token", nil)
	assert.Equal(t, 401, w.Code)
}

func TestListingIsPublic(t *testing.T) {
	s := newTestServer(t)
	driverToken := s.register(t, "Driver", "driver@example.com")

	departure := time.Now().UTC().Add(72 * time.Hour)
	w, _ := s.do(t, "POST", "/api/rides", driverToken, gin.H{
		"departure":   "Tunis",
		"destination": "Sousse",
		"date":        departure.Format("2006-01-02"),
		"time":        departure.Format("15:04"),
		"seats":       2,
	})
	require.Equal(t, 201, w.Code)

	w, env := s.do(t, "GET", "/api/rides", "", nil)
	require.Equal(t, 200, w.Code)
	assert.True(t, env.Success)

	var rides []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &rides))
	require.Len(t, rides, 1)
	assert.Equal(t, "Tunis", rides[0]["departure"])
}

func TestRideLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	driverToken := s.register(t, "Driver", "driver@example.com")
	paxToken := s.register(t, "Passenger", "pax@example.com")

	var rideID float64
	departure := time.Now().UTC().Add(72 * time.Hour)

	t.Run("create ride accepts camelCase seat spelling", func(t *testing.T) {
		w, env := s.do(t, "POST", "/api/rides", driverToken, gin.H{
			"departure":      "Tunis",
			"destination":    "Sousse",
			"date":           departure.Format("2006-01-02"),
			"time":           departure.Format("15:04"),
			"seatsAvailable": 1,
		})
		require.Equal(t, 201, w.Code, "body: %s", w.Body.String())

		var ride map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &ride))
		assert.Equal(t, "OPEN", ride["status"])
		rideID = ride["id"].(float64)
	})

	t.Run("create ride in the past is rejected", func(t *testing.T) {
		w, env := s.do(t, "POST", "/api/rides", driverToken, gin.H{
			"departure":   "Tunis",
			"destination": "Sousse",
			"date":        "2020-01-01",
			"time":        "09:30",
			"seats":       1,
		})
		assert.Equal(t, 400, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "You cannot offer a ride in the past", env.Error.Message)
	})

	var bookingID float64

	t.Run("passenger requests a seat", func(t *testing.T) {
		w, env := s.do(t, "POST", fmt.Sprintf("/api/rides/%.0f/request", rideID), paxToken, gin.H{
			"seatsRequested": 1,
		})
		require.Equal(t, 201, w.Code, "body: %s", w.Body.String())

		var booking map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &booking))
		assert.Equal(t, "PENDING", booking["status"])
		bookingID = booking["id"].(float64)
	})

	t.Run("driver cannot request own ride", func(t *testing.T) {
		w, _ := s.do(t, "POST", fmt.Sprintf("/api/rides/%.0f/request", rideID), driverToken, nil)
		assert.Equal(t, 403, w.Code)
	})

	t.Run("driver lists requests", func(t *testing.T) {
		w, env := s.do(t, "GET", fmt.Sprintf("/api/rides/%.0f/requests", rideID), driverToken, nil)
		require.Equal(t, 200, w.Code)

		var bookings []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &bookings))
		assert.Len(t, bookings, 1)
	})

	t.Run("approve fills the ride", func(t *testing.T) {
		w, env := s.do(t, "POST", fmt.Sprintf("/api/rides/requests/%.0f/approve", bookingID), driverToken, nil)
		require.Equal(t, 200, w.Code, "body: %s", w.Body.String())

		var data struct {
			Booking map[string]any `json:"booking"`
			Ride    map[string]any `json:"ride"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "ACCEPTED", data.Booking["status"])
		assert.Equal(t, "FULL", data.Ride["status"])
		assert.Equal(t, float64(0), data.Ride["seats_available"])
	})

	t.Run("cancel refunds the seat", func(t *testing.T) {
		w, env := s.do(t, "DELETE", fmt.Sprintf("/api/rides/requests/%.0f", bookingID), paxToken, nil)
		require.Equal(t, 200, w.Code)

		var data struct {
			Cancelled bool           `json:"cancelled"`
			Ride      map[string]any `json:"ride"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.True(t, data.Cancelled)
		assert.Equal(t, "OPEN", data.Ride["status"])
		assert.Equal(t, float64(1), data.Ride["seats_available"])
	})

	t.Run("listing shows the reopened ride", func(t *testing.T) {
		w, env := s.do(t, "GET", "/api/rides?departure=tun", paxToken, nil)
		require.Equal(t, 200, w.Code)

		var rides []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &rides))
		require.Len(t, rides, 1)
		assert.Equal(t, "Tunis", rides[0]["departure"])
	})

	t.Run("offered rides carry request counts", func(t *testing.T) {
		w, env := s.do(t, "GET", "/api/rides/mine/offered", driverToken, nil)
		require.Equal(t, 200, w.Code)

		var rides []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &rides))
		require.Len(t, rides, 1)
		assert.Equal(t, float64(1), rides[0]["requests_count"])
	})

	t.Run("requested rides pair booking with ride", func(t *testing.T) {
		w, env := s.do(t, "GET", "/api/rides/mine/requested", paxToken, nil)
		require.Equal(t, 200, w.Code)

		var pairs []struct {
			Booking map[string]any `json:"booking"`
			Ride    map[string]any `json:"ride"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &pairs))
		require.Len(t, pairs, 1)
		assert.Equal(t, "CANCELLED", pairs[0].Booking["status"])
		assert.Equal(t, rideID, pairs[0].Ride["id"])
	})
}

func TestPreferencesOverHTTP(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Amira", "amira@example.com")

	t.Run("get returns nested shape", func(t *testing.T) {
		w, env := s.do(t, "GET", "/api/users/me/preferences", token, nil)
		require.Equal(t, 200, w.Code)

		var prefs map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &prefs))
		assert.Equal(t, float64(15), prefs["maxWalkingTime"])
		modes := prefs["preferredModes"].(map[string]any)
		assert.Equal(t, true, modes["transit"])
	})

	t.Run("partial update", func(t *testing.T) {
		w, env := s.do(t, "PUT", "/api/users/me/preferences", token, gin.H{
			"maxWalkingTime": 25,
			"preferredModes": gin.H{"carpool": true},
		})
		require.Equal(t, 200, w.Code)

		var prefs map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &prefs))
		assert.Equal(t, float64(25), prefs["maxWalkingTime"])
		modes := prefs["preferredModes"].(map[string]any)
		assert.Equal(t, true, modes["carpool"])
		assert.Equal(t, true, modes["bike"])
	})
}

func TestUnknownResourceOverHTTP(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "Amira", "amira@example.com")

	w, env := s.do(t, "PUT", "/api/rides/9999", token, gin.H{"destination": "Bizerte"})
	assert.Equal(t, 404, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Ride not found", env.Error.Message)

	w, _ = s.do(t, "POST", "/api/rides/requests/9999/approve", token, nil)
	assert.Equal(t, 404, w.Code)
}
