package object

import (
	"strings"
	"testing"
	"time"
)

func TestNewKeyLayout(t *testing.T) {
	now := time.Date(2026, time.March, 5, 23, 30, 0, 0, time.FixedZone("MSK", 3*3600))
	key, err := NewKey("visitor-1", "lead 42.txt", now)
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	parts := strings.Split(key, "/")
	if len(parts) != 5 {
		t.Fatalf("expected 5 segments, got %q", key)
	}
	if strings.Join(parts[:3], "/") != "2026/03/05" {
		t.Fatalf("expected UTC date prefix, got %q", key)
	}
	if !strings.HasSuffix(parts[4], "_lead_42.txt") {
		t.Fatalf("unexpected name segment %q", parts[4])
	}
	if !ValidKey(key) {
		t.Fatalf("generated key should be valid: %q", key)
	}
	other, _ := NewKey("visitor-1", "lead 42.txt", now)
	if other == key {
		t.Fatalf("expected unique keys")
	}
}

func TestNewKeyRejectsBadName(t *testing.T) {
	if _, err := NewKey("v", "../etc/passwd", time.Now()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidKey(t *testing.T) {
	for key, want := range map[string]bool{
		"2026/01/01/abc/x.txt": true,
		"":                     false,
		"/abs/x.txt":           false,
		"a/../b":               false,
		"a//b":                 false,
		`a\b`:                  false,
	} {
		if got := ValidKey(key); got != want {
			t.Errorf("ValidKey(%q) = %v, want %v", key, got, want)
		}
	}
}
