// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about batch delivery and collector ingestion.
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the core
// packages free of observability framework imports and avoids import cycles.
package observability

import (
	"context"
	"sync"
)

// DeliveryHooks receives events from the streaming delivery pipeline.
type DeliveryHooks interface {
	// OnBatchSent records a successfully delivered batch.
	OnBatchSent(ctx context.Context, points int)

	// OnBatchDropped records a batch abandoned after delivery failed.
	// Reason is "unauthorized" or "retries_exhausted".
	OnBatchDropped(ctx context.Context, points int, reason string)

	// OnPointsDiscarded records points dropped before delivery was
	// attempted, because the queue was full or the client was closed.
	OnPointsDiscarded(ctx context.Context, points int)
}

// CollectorHooks receives events from the collector server.
type CollectorHooks interface {
	// OnPointsAccepted records a stored batch.
	OnPointsAccepted(ctx context.Context, routeID string, points int)

	// OnPushRejected records a request that failed push-key authentication.
	OnPushRejected(ctx context.Context, remoteAddr string)
}

// NoopDeliveryHooks is a no-op implementation of DeliveryHooks.
type NoopDeliveryHooks struct{}

func (NoopDeliveryHooks) OnBatchSent(context.Context, int)            {}
func (NoopDeliveryHooks) OnBatchDropped(context.Context, int, string) {}
func (NoopDeliveryHooks) OnPointsDiscarded(context.Context, int)      {}

// NoopCollectorHooks is a no-op implementation of CollectorHooks.
type NoopCollectorHooks struct{}

func (NoopCollectorHooks) OnPointsAccepted(context.Context, string, int) {}
func (NoopCollectorHooks) OnPushRejected(context.Context, string)       {}

var (
	deliveryHooks  DeliveryHooks  = NoopDeliveryHooks{}
	collectorHooks CollectorHooks = NoopCollectorHooks{}
	hooksMu        sync.RWMutex
)

// SetDeliveryHooks registers custom delivery hooks.
// This should be called once at application startup before any streaming.
func SetDeliveryHooks(h DeliveryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		deliveryHooks = h
	}
}

// SetCollectorHooks registers custom collector hooks.
// This should be called once at application startup before serving.
func SetCollectorHooks(h CollectorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		collectorHooks = h
	}
}

// Delivery returns the registered delivery hooks.
func Delivery() DeliveryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return deliveryHooks
}

// Collector returns the registered collector hooks.
func Collector() CollectorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return collectorHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	deliveryHooks = NoopDeliveryHooks{}
	collectorHooks = NoopCollectorHooks{}
}
