package config

import "testing"

func TestIntFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("TEST_WINDOW", "90")
	if got := Int("TEST_WINDOW", 120); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
	t.Setenv("TEST_WINDOW", "-5")
	if got := Int("TEST_WINDOW", 120); got != 120 {
		t.Fatalf("expected fallback for negative value, got %d", got)
	}
	t.Setenv("TEST_WINDOW", "abc")
	if got := Int("TEST_WINDOW", 120); got != 120 {
		t.Fatalf("expected fallback for non-numeric value, got %d", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("TEST_FLAG", "on")
	if !Bool("TEST_FLAG", false) {
		t.Fatal("expected true for on")
	}
	t.Setenv("TEST_FLAG", "0")
	if Bool("TEST_FLAG", true) {
		t.Fatal("expected false for 0")
	}
	t.Setenv("TEST_FLAG", "maybe")
	if !Bool("TEST_FLAG", true) {
		t.Fatal("expected fallback for unknown value")
	}
}

func TestListAndPort(t *testing.T) {
	t.Setenv("TEST_ORIGINS", " https://a.example , ,https://b.example")
	got := List("TEST_ORIGINS", "")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected list: %#v", got)
	}

	t.Setenv("TEST_PORT", "70000")
	if _, err := Port("TEST_PORT", "8083"); err == nil {
		t.Fatal("expected error for out of range port")
	}
}
