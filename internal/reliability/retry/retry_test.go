package retry

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), slog.Default(), "op", 3, func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 || calls != 1 {
		t.Fatalf("got %d after %d calls", got, calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), slog.Default(), "op", 3, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Fatalf("got %q after %d calls", got, calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	sentinel := errors.New("permanent")
	calls := 0
	_, err := Do(context.Background(), slog.Default(), "op", 3, func(context.Context) (int, error) {
		calls++
		return 0, sentinel
	})
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped original error, got %v", err)
	}
}

func TestDoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, slog.Default(), "op", 3, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("x")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("cancelled context must skip the call, got %d calls", calls)
	}
}
