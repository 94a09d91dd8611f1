// Package routestore provides storage backends for collected routes.
//
// The collector appends incoming route point batches to a route identified
// by id. Backends:
//   - memory: in-process storage for development and tests
//   - file: JSON files on disk for single-instance deployments
//   - redis: Redis lists for multi-instance deployments
//   - mongo: MongoDB documents when routes need to live with other data
//
// All backends share the [Store] interface; the collector does not care
// which one it talks to.
package routestore

import (
	"context"

	"github.com/mapryk/routecast/pkg/route"
)

// Store is the interface for route storage backends.
type Store interface {
	// Append adds points to the end of the route, creating it if needed.
	Append(ctx context.Context, routeID string, points []route.Point) error

	// Get returns all points of a route in append order.
	// Returns an apperr.CodeNotFound error for unknown routes.
	Get(ctx context.Context, routeID string) ([]route.Point, error)

	// List returns the ids of all stored routes.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}
