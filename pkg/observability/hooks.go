// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about resolution attempts, cache operations, and HTTP calls
// made by the primary store transport.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the engine packages
// never import an observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetResolutionHooks(&myResolutionHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Resolution().OnAttempt(ctx, "artifact", "primary", "success", elapsed, nil)
//	observability.Resolution().OnDegraded(ctx, "artifact", "org.example:lib:1.0", "secondary")
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ResolutionHooks receives events from the fallback resolution engine.
type ResolutionHooks interface {
	// OnAttempt records one attempt against one store. outcome is
	// "success", "soft" or "hard".
	OnAttempt(ctx context.Context, op, attempt, outcome string, duration time.Duration, err error)

	// OnDegraded records a successful resolution that did not come from an
	// exact primary store match.
	OnDegraded(ctx context.Context, op, coordinate, match string)

	// OnExhausted records a resolution where every attempt failed.
	OnExhausted(ctx context.Context, op, coordinate string, attempts int)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopResolutionHooks is a no-op implementation of ResolutionHooks.
type NoopResolutionHooks struct{}

func (NoopResolutionHooks) OnAttempt(context.Context, string, string, string, time.Duration, error) {
}
func (NoopResolutionHooks) OnDegraded(context.Context, string, string, string) {}
func (NoopResolutionHooks) OnExhausted(context.Context, string, string, int)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// hook holds one registered implementation. Reads are lock-free so the
// engine's hot path never contends with registration.
type hook[T any] struct {
	v    atomic.Pointer[T]
	noop T
}

func (h *hook[T]) get() T {
	if p := h.v.Load(); p != nil {
		return *p
	}
	return h.noop
}

func (h *hook[T]) set(v T) { h.v.Store(&v) }

func (h *hook[T]) reset() { h.v.Store(nil) }

var (
	resolutionHooks = hook[ResolutionHooks]{noop: NoopResolutionHooks{}}
	cacheHooks      = hook[CacheHooks]{noop: NoopCacheHooks{}}
	httpHooks       = hook[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetResolutionHooks registers h for engine events. Nil is ignored.
func SetResolutionHooks(h ResolutionHooks) {
	if h != nil {
		resolutionHooks.set(h)
	}
}

// SetCacheHooks registers h for document cache events. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.set(h)
	}
}

// SetHTTPHooks registers h for primary store HTTP events. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpHooks.set(h)
	}
}

// Resolution returns the registered resolution hooks.
func Resolution() ResolutionHooks { return resolutionHooks.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheHooks.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpHooks.get() }

// Reset restores the no-op hooks.
func Reset() {
	resolutionHooks.reset()
	cacheHooks.reset()
	httpHooks.reset()
}
