package poller

import (
	"context"
	"time"
)

// Clock sleeps between cycles. Sleep returns ctx.Err() when the context is
// done before d elapses.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func NewClock() Clock {
	return realClock{}
}
