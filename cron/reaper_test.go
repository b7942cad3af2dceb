package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"slotline/services/booking"
)

type sweepRecorder struct {
	booking.Service
	err    error
	swept  chan int
	expire int
}

func (s *sweepRecorder) ExpireDueRequests(ctx context.Context, batchSize int) (int, error) {
	select {
	case s.swept <- batchSize:
	default:
	}
	return s.expire, s.err
}

func TestReaperSweepsUntilStopped(t *testing.T) {
	rec := &sweepRecorder{swept: make(chan int, 8), expire: 2}
	reaper := &Reaper{Booking: rec, Interval: 5 * time.Millisecond, BatchSize: 50}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reaper.Run(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case batch := <-rec.swept:
			require.Equal(t, 50, batch)
		case <-time.After(2 * time.Second):
			t.Fatal("reaper never swept")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reaper did not stop on context cancel")
	}
}

func TestReaperKeepsRunningAfterSweepError(t *testing.T) {
	rec := &sweepRecorder{swept: make(chan int, 8), err: errors.New("mongo down")}
	reaper := &Reaper{Booking: rec, Interval: 5 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reaper.Run(ctx)

	// Two sweeps prove the loop survived the first failure.
	for i := 0; i < 2; i++ {
		select {
		case <-rec.swept:
		case <-time.After(2 * time.Second):
			t.Fatal("reaper stopped sweeping after an error")
		}
	}
}
