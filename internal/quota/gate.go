package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/tutor/internal/cache"
)

// ErrInsufficientQuota marks a caller whose balance is exhausted. Handlers
// surface it as a distinct status from other quota-service failures.
var ErrInsufficientQuota = errors.New("insufficient quota")

// checkTTL is how long a positive quota check is trusted before the
// service is asked again.
const checkTTL = 60 * time.Second

// Gate validates a caller's token balance before a turn runs and settles
// usage after it completes. The quota service stays authoritative; the
// gate only caches positive answers briefly to avoid a round-trip per
// message.
type Gate struct {
	service Service
	cache   *cache.Cache[int64]
}

func NewGate(service Service) *Gate {
	return &Gate{service: service, cache: cache.New[int64](checkTTL)}
}

// Check returns the caller's remaining balance. A non-positive balance
// yields ErrInsufficientQuota; any other failure is a quota-service error.
func (g *Gate) Check(ctx context.Context, token string) (int64, error) {
	if remaining, ok := g.cache.Get(token); ok {
		return remaining, nil
	}

	remaining, err := g.service.Remaining(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("quota check: %w", err)
	}
	if remaining <= 0 {
		return 0, ErrInsufficientQuota
	}
	g.cache.Set(token, remaining)
	return remaining, nil
}

// Consume issues a best-effort asynchronous decrement after a successful
// turn. Failures are logged and never retried; the cached balance is
// dropped so the next check refetches.
func (g *Gate) Consume(token string, used int64) {
	if used <= 0 {
		return
	}
	g.cache.Delete(token)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := g.service.Decrease(ctx, token, used); err != nil {
			slog.Warn("quota decrement failed", "used", used, "error", err)
		}
	}()
}

// Cache exposes the token cache for the janitor's sweep.
func (g *Gate) Cache() *cache.Cache[int64] {
	return g.cache
}
