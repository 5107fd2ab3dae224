package turso

import (
	"context"
	"errors"
	"testing"
)

func TestWithRetry_RetriesStreamErrors(t *testing.T) {
	calls := 0
	got, err := WithRetry(context.Background(), 2, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("hrana: stream not found")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_StopsOnOtherErrors(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), 5, func() (int, error) {
		calls++
		return 0, errors.New("UNIQUE constraint failed")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestIsStreamError(t *testing.T) {
	if IsStreamError(nil) {
		t.Error("nil is not a stream error")
	}
	if !IsStreamError(errors.New("stream not found: 12")) {
		t.Error("expected stream error to be detected")
	}
}
