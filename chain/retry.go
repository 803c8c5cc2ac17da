package chain

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/flashbots/flashwatch/logutils"
	"github.com/flashbots/flashwatch/metrics"
)

type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// do runs fn until it succeeds, the attempts are exhausted, or ctx is done.
// Waits grow exponentially from baseDelay up to maxDelay, with jitter.
func (p retryPolicy) do(ctx context.Context, method string, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt >= p.maxAttempts {
			return lastErr
		}

		wait := p.baseDelay << (attempt - 1)
		if wait > p.maxDelay {
			wait = p.maxDelay
		}
		wait += rand.N(p.baseDelay)

		logutils.LoggerFromContext(ctx).Warn("Upstream rpc call failed, retrying...",
			zap.String("method", method),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(lastErr),
		)
		metrics.RpcRetryCount.Add(ctx, 1)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
