package main

import (
	"context"
	"net/http"
	"time"

	"github.com/apimastery/appointments/libs/config"
	"github.com/apimastery/appointments/libs/db"
	"github.com/apimastery/appointments/libs/kafkax"
	otelx "github.com/apimastery/appointments/libs/otel"
	"github.com/apimastery/appointments/libs/runtime"
	"github.com/apimastery/appointments/services/booking-service/internal/handlers"
	"github.com/apimastery/appointments/services/booking-service/internal/outbox"
	"github.com/apimastery/appointments/services/booking-service/internal/policy"
	"github.com/apimastery/appointments/services/booking-service/internal/scheduling"
	"github.com/apimastery/appointments/services/booking-service/internal/storage"
)

func main() {
	service := config.String("SERVICE_NAME", "booking-service")
	port, err := config.Port("PORT", "8083")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service, config.String("LOG_LEVEL", "info"))

	ctx, stop := runtime.SignalContext(context.Background(), logger)
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	defaultLoc, err := time.LoadLocation(config.String("DEFAULT_TIMEZONE", "UTC"))
	if err != nil {
		logger.Error("invalid DEFAULT_TIMEZONE", "err", err)
		panic(err)
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	if config.Bool("DB_AUTO_MIGRATE", false) {
		if err := storage.Migrate(ctx, pool); err != nil {
			logger.Error("schema migration failed", "err", err)
			panic(err)
		}
		logger.Info("schema migrated")
	}

	brokers := config.String("KAFKA_BROKERS", "")
	outboxRepo := outbox.NewRepository(pool)
	eventLog := outboxRepo
	if brokers == "" {
		logger.Warn("KAFKA_BROKERS not set; appointment events are not recorded")
		eventLog = nil
	}
	repo := storage.NewRepository(pool, eventLog)

	window := time.Duration(config.Int("CANCELLATION_WINDOW_MINUTES", int(policy.DefaultCancellationWindow/time.Minute))) * time.Minute
	engine := scheduling.New(repo, policy.NewStaticProvider(window), logger, scheduling.Config{
		DefaultLocation: defaultLoc,
	})

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   brokers,
		PollEvery: time.Duration(config.Int("OUTBOX_POLL_SECONDS", 2)) * time.Second,
		BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
	})
	go outboxPublisher.Run(ctx)

	checks := []runtime.ReadyCheck{{Name: "db", Check: db.ReadyCheck(pool)}}
	if brokers != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}
	mux := runtime.NewBaseMuxWithReady(checks...)

	limiter, closeLimiter := publicRateLimit(logger)
	defer closeLimiter()

	bookingHandler := handlers.NewBookingHandler(engine, logger)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newHandler(mux, bookingHandler, limiter, logger, serverConfigFromEnv()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "default_timezone", defaultLoc.String(), "cancellation_window", window.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
