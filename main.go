package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"slotline/config"
	"slotline/cron"
	"slotline/database"
	availabilityRepo "slotline/database/repository/availability"
	pricingRepo "slotline/database/repository/pricing"
	requestRepo "slotline/database/repository/request"
	sessionRepo "slotline/database/repository/session"
	"slotline/handlers"
	"slotline/middleware"
	"slotline/routes"
	"slotline/services/availability"
	"slotline/services/booking"
	"slotline/services/notification"
	"slotline/services/session"
	"slotline/services/slots"
	"slotline/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	reqRepo := requestRepo.NewMongoRequestRepo()
	sessRepo := sessionRepo.NewMongoSessionRepo()
	rateRepo := pricingRepo.NewMongoPricingRepo()

	bootstrapIndexes(availRepo, reqRepo, sessRepo, rateRepo)

	// Notifications ride the asynq queue; the worker below drains it.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	notificationService := notification.NewAsynqNotificationService(asynqClient)

	// services. The HTTP slot listing reads through the Redis cache; the
	// booking service gets its own uncached generator so request creation
	// always sees the store.
	cachedSlots := &slots.DefaultSlotService{
		AvailabilityRepo: availRepo,
		RequestRepo:      reqRepo,
		SessionRepo:      sessRepo,
		Cache:            utils.GetCacheClient(),
		CacheTTL:         config.SlotCacheTTL(),
	}
	liveSlots := &slots.DefaultSlotService{
		AvailabilityRepo: availRepo,
		RequestRepo:      reqRepo,
		SessionRepo:      sessRepo,
	}

	availabilityService := &availability.DefaultAvailabilityService{
		Repo:  availRepo,
		Cache: utils.GetCacheClient(),
	}

	bookingService := &booking.DefaultBookingService{
		Requests:        reqRepo,
		Sessions:        sessRepo,
		Pricing:         rateRepo,
		Slots:           liveSlots,
		Notifier:        notificationService,
		PaymentWindow:   config.PaymentWindow(),
		ReviewWindow:    config.ReviewWindow(),
		DefaultAmount:   config.AppConfig.DefaultSessionAmount,
		DefaultCurrency: config.AppConfig.DefaultCurrency,
	}

	sessionService := session.NewDefaultSessionService(sessRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Availability: &handlers.AvailabilityHandler{Service: availabilityService},
		Slots:        &handlers.SlotHandler{Service: cachedSlots},
		Requests:     &handlers.RequestHandler{Service: bookingService},
		Admin:        &handlers.AdminHandler{Booking: bookingService, Sessions: sessionService},
		Sessions:     &handlers.SessionHandler{Service: sessionService},
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background work: deadline reaper, notification worker, health monitor.
	backgroundCtx, stopBackground := context.WithCancel(context.Background())
	reaper := &cron.Reaper{Booking: bookingService, Interval: config.ReaperInterval()}
	go reaper.Run(backgroundCtx)

	worker, err := cron.StartNotificationWorker(notification.LogSender{})
	if err != nil {
		logger.Sugar().Fatalf("main: failed to start notification worker: %v", err)
	}

	utils.StartHealthMonitor(backgroundCtx, database.MongoClient, utils.GetCacheClient())

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

	stopBackground()
	worker.Shutdown()
	if err := asynqClient.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close queue client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// bootstrapIndexes creates the Mongo indexes every repository relies on. The
// blocked-slot unique index is load-bearing for booking correctness, so a
// failure here is fatal.
func bootstrapIndexes(
	availRepo availabilityRepo.Repository,
	reqRepo requestRepo.Repository,
	sessRepo sessionRepo.Repository,
	rateRepo pricingRepo.Repository,
) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for name, ensure := range map[string]func(context.Context) error{
		"availability": availRepo.EnsureIndexes,
		"requests":     reqRepo.EnsureIndexes,
		"sessions":     sessRepo.EnsureIndexes,
		"pricing":      rateRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			utils.GetLogger().Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}
}
