package observability

import (
	"context"
	"testing"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	d := NoopDeliveryHooks{}
	d.OnBatchSent(ctx, 10)
	d.OnBatchDropped(ctx, 10, "retries_exhausted")
	d.OnPointsDiscarded(ctx, 3)

	c := NoopCollectorHooks{}
	c.OnPointsAccepted(ctx, "route-1", 10)
	c.OnPushRejected(ctx, "127.0.0.1:1234")
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Delivery().(NoopDeliveryHooks); !ok {
		t.Error("Delivery() should return NoopDeliveryHooks by default")
	}
	if _, ok := Collector().(NoopCollectorHooks); !ok {
		t.Error("Collector() should return NoopCollectorHooks by default")
	}

	// Set custom hooks
	customDelivery := &testDeliveryHooks{}
	SetDeliveryHooks(customDelivery)
	if Delivery() != customDelivery {
		t.Error("SetDeliveryHooks should set custom hooks")
	}

	customCollector := &testCollectorHooks{}
	SetCollectorHooks(customCollector)
	if Collector() != customCollector {
		t.Error("SetCollectorHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Delivery().(NoopDeliveryHooks); !ok {
		t.Error("Reset() should restore NoopDeliveryHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testDeliveryHooks{}
	SetDeliveryHooks(custom)

	// Setting nil should be ignored
	SetDeliveryHooks(nil)

	if Delivery() != custom {
		t.Error("SetDeliveryHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testDeliveryHooks struct{ NoopDeliveryHooks }
type testCollectorHooks struct{ NoopCollectorHooks }
