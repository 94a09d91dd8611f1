// Package route defines the route point sample and route file persistence.
//
// A route is an ordered sequence of timestamped position samples recorded
// while the producer polls the player position. Points carry both the raw
// tile-local coordinates and the resolved global coordinates so consumers
// never need the anchor dataset.
package route

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mapryk/routecast/pkg/apperr"
)

// Point is a single position sample. The JSON field names are the collector
// wire format and must not change.
type Point struct {
	X           float32 `json:"x" bson:"x"`
	Y           float32 `json:"y" bson:"y"`
	Z           float32 `json:"z" bson:"z"`
	GlobalX     float32 `json:"globalX" bson:"globalX"`
	GlobalY     float32 `json:"globalY" bson:"globalY"`
	GlobalZ     float32 `json:"globalZ" bson:"globalZ"`
	MapID       uint32  `json:"mapId" bson:"mapId"`
	MapIDStr    string  `json:"mapIdStr" bson:"mapIdStr"`
	GlobalMapID uint8   `json:"globalMapId" bson:"globalMapId"`
	TimestampMs uint64  `json:"timestampMs" bson:"timestampMs"`
}

// Route is a recorded sequence of points plus recording metadata.
type Route struct {
	ID               string    `json:"id"`
	RecordedAt       time.Time `json:"recordedAt"`
	RecordIntervalMs uint64    `json:"recordIntervalMs"`
	Points           []Point   `json:"points"`
}

// New creates an empty route stamped with a fresh id and the current time.
func New(recordIntervalMs uint64) *Route {
	return &Route{
		ID:               uuid.NewString(),
		RecordedAt:       time.Now().UTC(),
		RecordIntervalMs: recordIntervalMs,
	}
}

// Save writes the route as an indented JSON file named
// route_YYYYMMDD_HHMMSS.json in dir, creating the directory if needed.
// Returns the path of the written file.
func (r *Route) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, err, "create routes directory %s", dir)
	}

	name := fmt.Sprintf("route_%s.json", r.RecordedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, err, "encode route")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, err, "write route file %s", path)
	}
	return path, nil
}

// Load reads a route file written by Save.
func Load(path string) (*Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.CodeNotFound, err, "route file %s", path)
		}
		return nil, apperr.Wrap(apperr.CodeInternal, err, "read route file %s", path)
	}

	var r Route
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "decode route file %s", path)
	}
	return &r, nil
}
