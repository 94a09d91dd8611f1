package routestore

import (
	"context"
	"testing"

	"github.com/mapryk/routecast/pkg/apperr"
	"github.com/mapryk/routecast/pkg/route"
)

// storeContract exercises the Store behaviors every backend must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("Get(missing) error = %v, want NOT_FOUND", err)
	}

	first := []route.Point{{TimestampMs: 0, X: 1}, {TimestampMs: 100, X: 2}}
	second := []route.Point{{TimestampMs: 200, X: 3}}
	if err := s.Append(ctx, "r1", first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append(ctx, "r1", second); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append(ctx, "r2", second); err != nil {
		t.Fatalf("Append: %v", err)
	}

	points, err := s.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("Get returned %d points, want 3", len(points))
	}
	for i, want := range []uint64{0, 100, 200} {
		if points[i].TimestampMs != want {
			t.Errorf("point %d timestamp = %d, want %d (append order lost)", i, points[i].TimestampMs, want)
		}
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("List returned %v, want 2 routes", ids)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	storeContract(t, s)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Append(ctx, "r", []route.Point{{X: 1}}); err != nil {
		t.Fatal(err)
	}

	points, _ := s.Get(ctx, "r")
	points[0].X = 99

	again, _ := s.Get(ctx, "r")
	if again[0].X != 1 {
		t.Error("Get must return a copy, not the backing slice")
	}
}
