package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apimastery/appointments/libs/auth"
	"github.com/apimastery/appointments/libs/httpx"
	"github.com/apimastery/appointments/libs/runtime"
	"github.com/apimastery/appointments/services/booking-service/internal/handlers"
)

func testHandler(t *testing.T, limiter httpx.Middleware, secret string) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Requests in these tests are rejected before they reach the engine.
	booking := handlers.NewBookingHandler(nil, logger)
	return newHandler(runtime.NewBaseMuxWithReady(), booking, limiter, logger, serverConfig{
		JWTSecret:      secret,
		BodyLimit:      1 << 10,
		RequestTimeout: time.Second,
		CORS:           httpx.CORSPolicy{AllowedOrigins: []string{"https://app.example"}},
	})
}

func TestPublicRoutesAreRateLimited(t *testing.T) {
	h := testHandler(t, httpx.NewRateLimiter(1, time.Minute).Middleware(), "")

	get := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:4000"
		rw := httptest.NewRecorder()
		h.ServeHTTP(rw, req)
		return rw.Code
	}
	if code := get("/api/v1/public/availability?businessId=x"); code != http.StatusBadRequest {
		t.Fatalf("expected 400 on first call, got %d", code)
	}
	if code := get("/api/v1/public/availability?businessId=x"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second call, got %d", code)
	}
	if code := get("/healthz"); code != http.StatusOK {
		t.Fatalf("health check must not be limited, got %d", code)
	}
}

func TestBearerTokenResolvesUser(t *testing.T) {
	secret := "test-secret"
	h := testHandler(t, nil, secret)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/mine", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", rw.Code)
	}

	// A forged header is ignored when tokens are verified locally.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/appointments/mine?limit=0", nil)
	req.Header.Set(auth.UserIDHeader, "intruder")
	rw = httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous caller, got %d", rw.Code)
	}

	token, err := auth.SignHS256(auth.Claims{Sub: "user-1", Exp: time.Now().Add(time.Hour).Unix()}, secret)
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/v1/appointments/mine?limit=0", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rw = httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected authenticated request to reach limit validation (400), got %d", rw.Code)
	}
}

func TestResponsesCarryRequestID(t *testing.T) {
	h := testHandler(t, nil, "")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://app.example")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Header().Get(httpx.RequestIDHeader) == "" {
		t.Fatal("expected request id header")
	}
	if rw.Header().Get("Access-Control-Allow-Origin") != "https://app.example" {
		t.Fatalf("expected CORS header, got %q", rw.Header().Get("Access-Control-Allow-Origin"))
	}
}
