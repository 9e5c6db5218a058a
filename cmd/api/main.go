package main

import (
	stdlog "log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/urbix/urbix-backend/internal/config"
	"github.com/urbix/urbix-backend/internal/database"
	"github.com/urbix/urbix-backend/internal/handlers"
	"github.com/urbix/urbix-backend/internal/logger"
	"github.com/urbix/urbix-backend/internal/middleware"
	"github.com/urbix/urbix-backend/internal/services"
	"github.com/urbix/urbix-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Logging)
	if err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	handlers.SetLogger(log)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	log.Info("Database connected and migrated")

	if cfg.Redis.URL != "" {
		if err := services.InitRedis(cfg.Redis.URL); err != nil {
			log.WithError(err).Warn("Redis unavailable, ride list caching disabled")
		} else {
			log.Info("Redis connected")
		}
	}

	hub := services.NewHub(log)
	go hub.Run()

	mailer := utils.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	notifier := services.NewNotifier(mailer, hub, log)

	jwtm := utils.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.TokenLifetimeHours)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORS.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RateLimitMiddleware(10, 20))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			utils.OK(c, 200, gin.H{"ok": true, "service": "urbix-backend"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db, jwtm))
			auth.POST("/login", handlers.Login(db, jwtm))
			auth.POST("/admin/login", handlers.AdminLogin(cfg.Admin, jwtm))
			auth.GET("/me", middleware.AuthMiddleware(jwtm), handlers.Me(db))
		}

		users := api.Group("/users", middleware.AuthMiddleware(jwtm))
		{
			users.GET("/me", handlers.GetMe(db))
			users.GET("/me/preferences", handlers.GetMyPreferences(db))
			users.PUT("/me/preferences", handlers.UpdateMyPreferences(db))
		}

		rides := api.Group("/rides")
		{
			// The listing is the one public ride route; everything that
			// mutates or reveals per-user state requires a token.
			rides.GET("", handlers.ListRides(db, notifier))

			authed := rides.Group("", middleware.AuthMiddleware(jwtm))
			{
				authed.POST("", handlers.CreateRide(db, notifier))
				authed.PUT("/:id", handlers.UpdateRide(db, notifier))
				authed.DELETE("/:id", handlers.DeleteRide(db, notifier))
				authed.GET("/mine/offered", handlers.MyOfferedRides(db, notifier))
				authed.GET("/mine/requested", handlers.MyRequestedRides(db, notifier))

				authed.POST("/:id/request", handlers.RequestSeat(db, notifier))
				authed.GET("/:id/requests", handlers.ListRideRequests(db, notifier))
				authed.POST("/requests/:id/approve", handlers.ApproveRequest(db, notifier))
				authed.POST("/requests/:id/reject", handlers.RejectRequest(db, notifier))
				authed.DELETE("/requests/:id", handlers.CancelRequest(db, notifier))
				authed.GET("/bookings/me", handlers.MyBookings(db, notifier))
			}
		}

		api.GET("/ws", middleware.AuthMiddleware(jwtm), handlers.WebSocketHandler(hub))
	}

	log.WithField("port", cfg.Server.Port).Info("Starting UrbiX API server")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Fatal("Server failed")
	}
}
