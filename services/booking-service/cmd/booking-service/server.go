package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/apimastery/appointments/libs/auth"
	"github.com/apimastery/appointments/libs/config"
	"github.com/apimastery/appointments/libs/httpx"
	"github.com/apimastery/appointments/services/booking-service/internal/handlers"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type serverConfig struct {
	JWTSecret      string
	BodyLimit      int64
	RequestTimeout time.Duration
	CORS           httpx.CORSPolicy
}

func serverConfigFromEnv() serverConfig {
	return serverConfig{
		JWTSecret:      config.String("JWT_SECRET", ""),
		BodyLimit:      int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20)),
		RequestTimeout: time.Duration(config.Int("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		CORS: httpx.CORSPolicy{
			AllowedOrigins: config.List("CORS_ALLOWED_ORIGINS", ""),
			AllowedMethods: config.List("CORS_ALLOWED_METHODS", "GET,POST,PATCH,OPTIONS"),
			AllowedHeaders: config.List("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id"),
			MaxAge:         10 * time.Minute,
		},
	}
}

// newHandler mounts the booking routes on mux and wraps the result in the middleware chain.
// limiter only guards the public routes.
func newHandler(mux *http.ServeMux, booking *handlers.BookingHandler, limiter httpx.Middleware, logger *slog.Logger, cfg serverConfig) http.Handler {
	booking.Register(mux, limiter)

	handler := httpx.Chain(mux,
		httpx.WithCORS(cfg.CORS),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		auth.Authenticate(cfg.JWTSecret),
		httpx.WithBodyLimit(cfg.BodyLimit),
		httpx.WithTimeout(cfg.RequestTimeout),
	)
	return otelhttp.NewHandler(handler, "booking")
}

// publicRateLimit picks the Redis limiter when REDIS_ADDR is set and the in-memory one
// otherwise. The returned func releases the Redis client.
func publicRateLimit(logger *slog.Logger) (httpx.Middleware, func()) {
	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 60)

	addr := config.String("REDIS_ADDR", "")
	if addr == "" {
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
		return httpx.NewRateLimiter(limitPerMinute, time.Minute).Middleware(), func() {}
	}

	redisDB := 0
	if v := config.Int("REDIS_DB", 0); v > 0 {
		redisDB = v
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.String("REDIS_PASSWORD", ""),
		DB:       redisDB,
	})
	rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl:booking"))
	logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	return rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true)), func() { _ = rdb.Close() }
}
