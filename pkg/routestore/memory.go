package routestore

import (
	"context"
	"sort"
	"sync"

	"github.com/mapryk/routecast/pkg/apperr"
	"github.com/mapryk/routecast/pkg/route"
)

// MemoryStore keeps routes in process memory. Intended for development and
// tests; everything is lost on shutdown.
type MemoryStore struct {
	mu     sync.RWMutex
	routes map[string][]route.Point
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{routes: make(map[string][]route.Point)}
}

// Append adds points to the route.
func (s *MemoryStore) Append(ctx context.Context, routeID string, points []route.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[routeID] = append(s.routes[routeID], points...)
	return nil
}

// Get returns a copy of the route's points.
func (s *MemoryStore) Get(ctx context.Context, routeID string) ([]route.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	points, ok := s.routes[routeID]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "route %s", routeID)
	}
	out := make([]route.Point, len(points))
	copy(out, points)
	return out, nil
}

// List returns all route ids in sorted order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.routes))
	for id := range s.routes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
