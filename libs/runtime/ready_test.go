package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReadyzReportsFailingDependency(t *testing.T) {
	mux := NewBaseMuxWithReady(
		ReadyCheck{Name: "db", Check: func(context.Context) error { return nil }},
		ReadyCheck{Name: "kafka", Check: func(context.Context) error { return errors.New("dial refused") }},
	)

	rw := httptest.NewRecorder()
	mux.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rw.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rw.Code)
	}

	var report readyReport
	if err := json.Unmarshal(rw.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid report: %v", err)
	}
	if report.Checks["db"] != "ok" || report.Checks["kafka"] != "dial refused" {
		t.Fatalf("unexpected checks: %#v", report.Checks)
	}
}

func TestHealthz(t *testing.T) {
	rw := httptest.NewRecorder()
	NewBaseMuxWithReady().ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rw.Code)
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("DEBUG").String() != "DEBUG" {
		t.Fatal("expected debug level")
	}
	if parseLevel("").String() != "INFO" {
		t.Fatal("expected info default")
	}
}
