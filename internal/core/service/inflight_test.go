package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

func TestInFlight_SecondAcquireFails(t *testing.T) {
	f := NewInFlight()
	ctx := context.Background()

	release, err := f.Acquire(ctx, "sid:login")
	if err != nil {
		t.Fatalf("first Acquire returned error: %v", err)
	}
	if _, err := f.Acquire(ctx, "sid:login"); !errors.Is(err, domain.ErrRequestInFlight) {
		t.Fatalf("expected ErrRequestInFlight, got %v", err)
	}
	if _, err := f.Acquire(ctx, "other:login"); err != nil {
		t.Fatalf("independent key blocked: %v", err)
	}

	release()
	release()

	if _, err := f.Acquire(ctx, "sid:login"); err != nil {
		t.Fatalf("Acquire after release returned error: %v", err)
	}
}

func TestInFlight_DoReleasesOnError(t *testing.T) {
	f := NewInFlight()
	ctx := context.Background()
	boom := errors.New("boom")

	if err := f.Do(ctx, "k", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	ran := false
	if err := f.Do(ctx, "k", func() error { ran = true; return nil }); err != nil || !ran {
		t.Fatalf("key not released after error: ran=%v err=%v", ran, err)
	}
}

func TestInFlight_DoRejectsNested(t *testing.T) {
	f := NewInFlight()
	ctx := context.Background()
	err := f.Do(ctx, "k", func() error {
		return f.Do(ctx, "k", func() error { return nil })
	})
	if !errors.Is(err, domain.ErrRequestInFlight) {
		t.Fatalf("expected ErrRequestInFlight, got %v", err)
	}
}
