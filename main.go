package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EAniwa/legacylancers-sub003/config"
	"github.com/EAniwa/legacylancers-sub003/database"
	availabilityRepo "github.com/EAniwa/legacylancers-sub003/database/repository/availability"
	bookingRepo "github.com/EAniwa/legacylancers-sub003/database/repository/booking"
	"github.com/EAniwa/legacylancers-sub003/handlers"
	"github.com/EAniwa/legacylancers-sub003/middleware"
	"github.com/EAniwa/legacylancers-sub003/routes"
	"github.com/EAniwa/legacylancers-sub003/services/availability"
	"github.com/EAniwa/legacylancers-sub003/services/booking"
	"github.com/EAniwa/legacylancers-sub003/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	defer database.CloseDB()
	utils.InitCache()
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	bkRepo := bookingRepo.NewMongoBookingRepo()

	// services.
	tz := availability.NewSystemTimezoneAdapter()
	expander := &availability.RecurrenceExpander{
		UndatedDaily: config.AppConfig.UndatedSlotsDaily,
	}
	engine := &availability.SlotSearchEngine{
		Repo:     availRepo,
		Expander: expander,
		TZ:       tz,
		LeadTime: time.Duration(config.AppConfig.BookingLeadTimeMin) * time.Minute,
	}
	availabilityService := &availability.DefaultAvailabilityService{
		Repo:     availRepo,
		Detector: &availability.ConflictDetector{Repo: availRepo},
		Engine:   engine,
		TZ:       tz,
	}

	bookingService := &booking.DefaultBookingService{
		Repo: bkRepo,
		Limiter: booking.NewSlidingWindowLimiter(
			config.AppConfig.BookingRateLimit,
			time.Duration(config.AppConfig.BookingRateWindowS)*time.Second,
		),
		MinReasonLength: config.AppConfig.MinReasonLength,
	}

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService, utils.GetCacheClient())
	bookingHandler := handlers.NewBookingHandler(bookingService)

	routes.RegisterRoutes(router, availabilityHandler, bookingHandler)

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
