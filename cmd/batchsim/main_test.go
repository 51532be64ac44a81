package main

import (
	"context"
	"testing"

	"github.com/decker502/overdrive/pkg/config"
)

func TestRunIsReplayable(t *testing.T) {
	bundle, err := config.LoadBundle("../../data")
	if err != nil {
		t.Fatalf("Failed to load config bundle: %v", err)
	}
	old := *waves
	*waves = 1
	defer func() { *waves = old }()

	a, err := run(context.Background(), bundle, 3)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	b, err := run(context.Background(), bundle, 3)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if a.String() != b.String() {
		t.Errorf("Expected identical results for the same seed:\n%s\n%s", a, b)
	}
	if a.Wave != 1 {
		t.Errorf("Expected wave capped at 1, got %d", a.Wave)
	}
	if a.Score <= 0 && !a.GameOver {
		t.Errorf("Expected auto defense to score in wave 1, got %s", a)
	}
}

func TestRunCancelled(t *testing.T) {
	bundle, err := config.LoadBundle("../../data")
	if err != nil {
		t.Fatalf("Failed to load config bundle: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := run(ctx, bundle, 1); err == nil {
		t.Error("Expected a cancelled context to abort the run")
	}
}
