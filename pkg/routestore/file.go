package routestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mapryk/routecast/pkg/apperr"
	"github.com/mapryk/routecast/pkg/route"
)

// FileStore persists each route as a JSON file in a directory. Route ids are
// UUIDs, so they are used directly as file names.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a file-backed store in dir, creating the directory
// if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "create store directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Append reads the route file, appends the points and writes it back.
// A single mutex serializes writers; the collector has one handler
// goroutine per request and routes are small.
func (s *FileStore) Append(ctx context.Context, routeID string, points []route.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(routeID)
	if err != nil && !apperr.Is(err, apperr.CodeNotFound) {
		return err
	}
	existing = append(existing, points...)

	data, err := json.Marshal(existing)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "encode route %s", routeID)
	}
	if err := os.WriteFile(s.path(routeID), data, 0644); err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "write route %s", routeID)
	}
	return nil
}

// Get returns all points of the route.
func (s *FileStore) Get(ctx context.Context, routeID string) ([]route.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(routeID)
}

// List returns the ids of all stored routes in sorted order.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "list store directory %s", s.dir)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) read(routeID string) ([]route.Point, error) {
	data, err := os.ReadFile(s.path(routeID))
	if os.IsNotExist(err) {
		return nil, apperr.New(apperr.CodeNotFound, "route %s", routeID)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "read route %s", routeID)
	}
	var points []route.Point
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "decode route %s", routeID)
	}
	return points, nil
}

func (s *FileStore) path(routeID string) string {
	return filepath.Join(s.dir, routeID+".json")
}

var _ Store = (*FileStore)(nil)
