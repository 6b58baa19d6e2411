package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lensbook-backend/internal/config"
	"lensbook-backend/internal/handlers"
	"lensbook-backend/internal/middleware"
	"lensbook-backend/internal/repository"
	"lensbook-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Connect to Redis for the realtime broker
	rdb, err := services.NewRedisClient(context.Background(), cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	modelRepo := repository.NewModelRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, profileRepo, cfg.JWT.Secret)
	profileService := services.NewProfileService(profileRepo, modelRepo)
	modelService := services.NewModelService(modelRepo)
	bookingService := services.NewBookingService(bookingRepo, modelRepo)
	storageService, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage service")
	}
	pushService, err := services.NewPushService(cfg.APNS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push service")
	}

	wsHub := services.NewWSHub()
	broker := services.NewBroker(rdb, cfg.Redis.Channel, wsHub)
	messageService := services.NewMessageService(messageRepo, profileRepo, broker, wsHub, pushService)

	// Run the broker until shutdown
	brokerCtx, stopBroker := context.WithCancel(context.Background())
	defer stopBroker()
	go broker.Run(brokerCtx)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, profileService)
	modelHandler := handlers.NewModelHandler(modelService)
	bookingHandler := handlers.NewBookingHandler(bookingService, profileService)
	messageHandler := handlers.NewMessageHandler(messageService)
	profileHandler := handlers.NewProfileHandler(profileService, storageService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, authService, profileService, messageService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/models", modelHandler.GetModels)
		r.Get("/models/{model_id}", modelHandler.GetModel)
		r.Get("/locations", modelHandler.GetLocations)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/session", authHandler.CurrentSession)
			r.Get("/messages", messageHandler.GetMessages)
			r.Post("/messages", messageHandler.SendMessage)
			r.Post("/bookings", bookingHandler.CreateBooking)
			r.Get("/bookings", bookingHandler.GetMyBookings)
			r.Patch("/bookings/{booking_id}/status", bookingHandler.UpdateBookingStatus)
			r.Patch("/profile", profileHandler.UpdateProfile)
			r.Patch("/profile/model", profileHandler.UpdateModelDetails)
			r.Put("/profile/push-token", profileHandler.UpdatePushToken)
			r.Post("/uploads", profileHandler.Upload)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	stopBroker()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
