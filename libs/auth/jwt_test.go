package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHS256RoundTrip(t *testing.T) {
	now := time.Now()
	claims := Claims{
		Sub:  "5b0a3c1e-6f7d-4c8e-9a21-2f4d9c1b7e10",
		Role: "owner",
		Iat:  now.Unix(),
		Exp:  now.Add(1 * time.Hour).Unix(),
	}
	secret := "test-secret"

	token, err := SignHS256(claims, secret)
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	parsed, err := ParseAndVerifyHS256(token, secret, now)
	if err != nil {
		t.Fatalf("ParseAndVerifyHS256 failed: %v", err)
	}
	if parsed.Sub != claims.Sub || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: got %+v", parsed)
	}
	if _, err := ParseAndVerifyHS256(token, "wrong-secret", now); err == nil {
		t.Fatal("expected verification error with wrong secret")
	}
	if _, err := ParseAndVerifyHS256(token, secret, now.Add(2*time.Hour)); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestHS256RejectsMissingSubject(t *testing.T) {
	token, err := SignHS256(Claims{Exp: time.Now().Add(time.Hour).Unix()}, "s")
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, "s", time.Now()); err == nil {
		t.Fatal("expected token without subject to be rejected")
	}
}

func TestAuthenticate(t *testing.T) {
	secret := "test-secret"
	token, err := SignHS256(Claims{Sub: "user-1", Exp: time.Now().Add(time.Hour).Unix()}, secret)
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}

	var seen string
	h := Authenticate(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(UserIDHeader, "spoofed")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK || seen != "user-1" {
		t.Fatalf("expected user-1 with 200, got %q and %d", seen, rw.Code)
	}

	anon := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	anon.Header.Set(UserIDHeader, "spoofed")
	rwAnon := httptest.NewRecorder()
	h.ServeHTTP(rwAnon, anon)
	if rwAnon.Code != http.StatusOK || seen != "" {
		t.Fatalf("expected anonymous request, got %q and %d", seen, rwAnon.Code)
	}

	bad := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	bad.Header.Set("Authorization", "Bearer badtoken")
	rwBad := httptest.NewRecorder()
	h.ServeHTTP(rwBad, bad)
	if rwBad.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rwBad.Code)
	}
}

func TestAuthenticateTrustsGatewayWithoutSecret(t *testing.T) {
	var seen string
	h := Authenticate("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.Header.Set(UserIDHeader, " user-9 ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "user-9" {
		t.Fatalf("expected gateway supplied id, got %q", seen)
	}
}
