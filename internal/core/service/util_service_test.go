package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sups/practice-server/internal/core/domain"
)

func TestUtilService_Toggle(t *testing.T) {
	svc := NewUtilService(false, zerolog.Nop())

	if on, err := svc.Flag(context.Background(), FlagThrottle); err != nil || on {
		t.Fatalf("expected throttle off, got %v (%v)", on, err)
	}
	if err := svc.Set(context.Background(), map[string]bool{"throttle": true}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !svc.Throttled() {
		t.Fatalf("expected throttle on")
	}
}

func TestUtilService_Unknown(t *testing.T) {
	svc := NewUtilService(true, zerolog.Nop())

	if _, err := svc.Flag(context.Background(), "cache"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	err := svc.Set(context.Background(), map[string]bool{"throttle": false, "cache": true})
	if !errors.Is(err, domain.ErrRequest) {
		t.Fatalf("expected request error, got %v", err)
	}
	if !svc.Throttled() {
		t.Fatalf("rejected update must not change state")
	}
	if err := svc.Set(context.Background(), nil); !errors.Is(err, domain.ErrRequest) {
		t.Fatalf("expected request error for empty body, got %v", err)
	}
}
