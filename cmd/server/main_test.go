package main

import (
	"context"
	"testing"
	"time"
)

func TestSleepContext_Timeout(t *testing.T) {
	ctx := context.Background()
	duration := 10 * time.Millisecond

	start := time.Now()
	err := sleepContext(ctx, duration)
	elapsed := time.Since(start)

	if err != nil {
		t.Errorf("sleepContext() error = %v, want nil", err)
	}

	// Should sleep for approximately the duration
	if elapsed < duration {
		t.Errorf("sleepContext() elapsed = %v, want at least %v", elapsed, duration)
	}
}

func TestSleepContext_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	duration := 1 * time.Second // Long duration

	// Cancel context immediately
	cancel()

	start := time.Now()
	err := sleepContext(ctx, duration)
	elapsed := time.Since(start)

	if err != context.Canceled {
		t.Errorf("sleepContext() error = %v, want %v", err, context.Canceled)
	}

	// Should return quickly due to cancellation
	if elapsed > 100*time.Millisecond {
		t.Errorf("sleepContext() should return quickly on cancellation, took %v", elapsed)
	}
}

func TestSleepContext_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	duration := 1 * time.Second // Longer than context timeout

	err := sleepContext(ctx, duration)

	if err != context.DeadlineExceeded {
		t.Errorf("sleepContext() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestRun_HelpCommand(t *testing.T) {
	args := []string{"refine-forge", "--help"}
	ctx := context.Background()

	// Help command should not error and should return quickly
	err := run(ctx, args)
	if err != nil {
		t.Errorf("run() with --help error = %v, want nil", err)
	}
}

func TestRun_VersionCommand(t *testing.T) {
	args := []string{"refine-forge", "--version"}
	ctx := context.Background()

	// Version command should not error and should return quickly
	err := run(ctx, args)
	if err != nil {
		t.Errorf("run() with --version error = %v, want nil", err)
	}
}

func TestRun_InvalidCommand(t *testing.T) {
	args := []string{"refine-forge", "invalid-command"}
	ctx := context.Background()

	// Invalid command should return an error
	err := run(ctx, args)
	if err == nil {
		t.Error("run() with invalid command should return error")
	}
}

func TestTerminationTimeouts(t *testing.T) {
	if terminationGracePeriod <= 0 {
		t.Error("terminationGracePeriod should be positive")
	}

	if terminationDrainPeriod <= 0 {
		t.Error("terminationDrainPeriod should be positive")
	}

	if terminationHardPeriod <= 0 {
		t.Error("terminationHardPeriod should be positive")
	}

	// Drain period should be shorter than grace period
	if terminationDrainPeriod >= terminationGracePeriod {
		t.Error("terminationDrainPeriod should be shorter than terminationGracePeriod")
	}

	// Hard period should be shorter than grace period
	if terminationHardPeriod >= terminationGracePeriod {
		t.Error("terminationHardPeriod should be shorter than terminationGracePeriod")
	}
}

func BenchmarkSleepContext(b *testing.B) {
	ctx := context.Background()
	duration := 1 * time.Millisecond

	for i := 0; i < b.N; i++ {
		sleepContext(ctx, duration)
	}
}
