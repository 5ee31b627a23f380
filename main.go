// File: slotwise/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotwise/config"
	"slotwise/cron"
	"slotwise/database"
	bookingRepo "slotwise/database/repository/booking"
	settingsRepo "slotwise/database/repository/settings"
	"slotwise/handlers"
	"slotwise/middleware"
	"slotwise/routes"
	"slotwise/services/scheduling"
	"slotwise/services/wizard"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitWizardCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	setsRepo := settingsRepo.NewMongoSettingsRepo()
	booksRepo := bookingRepo.NewMongoBookingRepo()

	// services.
	clock := utils.NewRealClock()
	slotSource := scheduling.NewAuthoritativeSlotService(setsRepo, booksRepo, clock)
	fetcher := scheduling.NewFetcher(slotSource, clock)

	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	sessionStore := wizard.NewSessionStore(utils.GetWizardCacheClient(), sessionTTL)

	reminderScheduler := cron.NewAsynqReminderScheduler()
	cron.InitReminderWorker(booksRepo)

	wizardService := &wizard.DefaultWizardService{
		SettingsRepo: setsRepo,
		Bookings:     booksRepo,
		Fetcher:      fetcher,
		Store:        sessionStore,
		Payments:     wizard.NewStripeProvider(),
		Reminders:    reminderScheduler,
		Clock:        clock,
		PhoneRegion:  config.AppConfig.DefaultPhoneRegion,
	}
	rescheduleService := &wizard.DefaultRescheduleService{
		SettingsRepo: setsRepo,
		Bookings:     booksRepo,
		Fetcher:      fetcher,
		Store:        sessionStore,
		Clock:        clock,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Wizard:     handlers.NewWizardHandler(wizardService),
		Reschedule: handlers.NewRescheduleHandler(rescheduleService),
		Slots:      handlers.NewSlotHandler(fetcher, setsRepo),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor([]*redis.Client{utils.GetWizardCacheClient()}, database.MongoClient)

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
