// File: verdea/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verdea/config"
	"verdea/cron"
	"verdea/database"
	availabilityRepo "verdea/database/repository/availability"
	bookingRepoPkg "verdea/database/repository/booking"
	gardenerRepo "verdea/database/repository/gardener"
	scheduleRepoPkg "verdea/database/repository/schedule"
	"verdea/handlers"
	"verdea/middleware"
	"verdea/routes"
	"verdea/services/booking"
	"verdea/services/geo"
	"verdea/services/schedule"
	"verdea/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitGeoCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	gardRepo := gardenerRepo.NewMongoGardenerRepo()
	schedRepo := scheduleRepoPkg.NewMongoScheduleRepo()

	if err := availRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure availability indexes: %v", err)
	}
	if err := bookingRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	// services.
	geocoder := geo.NewHTTPGeocoder(config.AppConfig.GeocoderURL, utils.GetGeoCacheClient(), logger)

	bufferEngine := &booking.DefaultBufferEngine{
		Bookings: bookingRepo,
		Logger:   logger,
	}
	resolver := &booking.DefaultEligibilityResolver{
		Gardeners: gardRepo,
		Geocoder:  geocoder,
		Policy:    booking.MissingLocationEligible,
		Logger:    logger,
	}
	mergeEngine := &booking.DefaultMergeEngine{
		Availability: availRepo,
		Buffer:       bufferEngine,
		Logger:       logger,
	}
	scanner := &booking.DefaultHorizonScanner{
		Merge: mergeEngine,
	}
	broadcastService := &booking.DefaultBroadcastService{
		Bookings:     bookingRepo,
		Availability: availRepo,
		Buffer:       bufferEngine,
		Logger:       logger,
	}
	projector := &schedule.DefaultScheduleProjector{
		Schedules:    schedRepo,
		Availability: availRepo,
		Bookings:     bookingRepo,
		Logger:       logger,
	}

	bookingHandler := handlers.NewBookingHandler(resolver, mergeEngine, scanner, broadcastService,
		schedRepo, utils.GetCacheClient(), logger)
	availabilityHandler := handlers.NewAvailabilityHandler(availRepo, bufferEngine, logger)
	scheduleHandler := handlers.NewScheduleHandler(schedRepo, projector, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Client booking flow.
		SearchAvailability: bookingHandler.SearchAvailability,
		NextAvailableDays:  bookingHandler.NextAvailableDays,
		BroadcastBooking:   bookingHandler.BroadcastBooking,

		// Gardener booking flow.
		AcceptBooking:      bookingHandler.AcceptBooking,
		DeclineBooking:     bookingHandler.DeclineBooking,
		PendingBookings:    bookingHandler.PendingBookings,
		SuggestAlternative: availabilityHandler.SuggestAlternative,

		// Gardener availability management.
		GetAvailability: availabilityHandler.GetAvailability,
		SetAvailability: availabilityHandler.SetAvailability,

		// Recurring schedule management.
		GetScheduleTemplates: scheduleHandler.GetScheduleTemplates,
		SaveScheduleTemplate: scheduleHandler.SaveScheduleTemplate,
		SaveScheduleSettings: scheduleHandler.SaveScheduleSettings,
		RegenerateSchedule:   scheduleHandler.RegenerateSchedule,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background worker: nightly horizon maintenance and pending-booking sweeps.
	cron.InitScheduleWorker(projector, schedRepo, bookingRepo)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetGeoCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
