package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSchedulerRunsOnceWithoutInterval(t *testing.T) {
	var runs atomic.Int32
	s := New(0, time.Second, func(ctx context.Context) { runs.Add(1) })

	if err := s.Start(); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	waitFor(t, func() bool { return runs.Load() == 1 })

	time.Sleep(50 * time.Millisecond)
	s.Stop()

	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
}

func TestSchedulerRefreshes(t *testing.T) {
	var runs atomic.Int32
	s := New(20*time.Millisecond, time.Second, func(ctx context.Context) { runs.Add(1) })

	if err := s.Start(); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	waitFor(t, func() bool { return runs.Load() >= 2 })
	s.Stop()

	after := runs.Load()
	time.Sleep(60 * time.Millisecond)
	if got := runs.Load(); got != after {
		t.Errorf("runs continued after Stop: %d -> %d", after, got)
	}
}

func TestSchedulerStopCancelsRunningJob(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})

	s := New(0, 0, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	})
	if err := s.Start(); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}

	<-started
	s.Stop()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("running job was not cancelled by Stop")
	}
}

func TestSchedulerJobTimeout(t *testing.T) {
	done := make(chan error, 1)
	s := New(0, 10*time.Millisecond, func(ctx context.Context) {
		<-ctx.Done()
		done <- ctx.Err()
	})
	if err := s.Start(); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	defer s.Stop()

	select {
	case err := <-done:
		if err != context.DeadlineExceeded {
			t.Errorf("job ctx error = %v, want deadline exceeded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("job timeout did not fire")
	}
}
