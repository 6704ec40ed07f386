package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fossrepo/pkg/observability"
)

// debugHooks logs engine and cache events at debug level.
type debugHooks struct {
	logger *log.Logger
}

var (
	_ observability.ResolutionHooks = debugHooks{}
	_ observability.CacheHooks      = debugHooks{}
)

// registerDebugHooks routes resolution and cache events to l.
func registerDebugHooks(l *log.Logger) {
	h := debugHooks{logger: l}
	observability.SetResolutionHooks(h)
	observability.SetCacheHooks(h)
}

func (h debugHooks) OnAttempt(_ context.Context, op, attempt, outcome string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("attempt", "op", op, "attempt", attempt, "outcome", outcome, "took", d.Round(time.Microsecond), "err", err)
		return
	}
	h.logger.Debug("attempt", "op", op, "attempt", attempt, "outcome", outcome, "took", d.Round(time.Microsecond))
}

func (h debugHooks) OnDegraded(_ context.Context, op, coordinate, match string) {
	h.logger.Debug("degraded match", "op", op, "artifact", coordinate, "match", match)
}

func (h debugHooks) OnExhausted(_ context.Context, op, coordinate string, attempts int) {
	h.logger.Debug("exhausted", "op", op, "artifact", coordinate, "attempts", attempts)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
