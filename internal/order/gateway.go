package order

import (
	"context"
	"time"
)

// DefaultSubmitDelay is how long the simulated gateway takes to accept an order.
const DefaultSubmitDelay = 2 * time.Second

// Gateway submits an order before it is committed to history.
type Gateway interface {
	Submit(ctx context.Context, d Draft) error
}

// SimulatedGateway accepts every order after Delay. Cancelling ctx before the
// delay elapses aborts the submission.
type SimulatedGateway struct {
	Delay time.Duration
}

func (g SimulatedGateway) Submit(ctx context.Context, _ Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(g.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
