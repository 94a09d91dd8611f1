package worldgrid

import (
	"io"

	"github.com/mapryk/routecast/pkg/apperr"
)

// Transformer converts tile-local coordinates to global world coordinates.
//
// A Transformer is immutable after construction: the anchor graph and path
// cache are built once and never mutated, so a single instance is safe for
// unsynchronized concurrent reads.
type Transformer struct {
	anchors map[TileKey][]Anchor
	paths   map[TileKey]globalPath
}

// Empty returns a Transformer with no anchors. It still resolves tiles in
// the global frames (the grid formula needs no graph) but fails with an
// unresolvable-map error for everything else.
func Empty() *Transformer {
	return &Transformer{
		anchors: map[TileKey][]Anchor{},
		paths:   map[TileKey]globalPath{},
	}
}

// LoadCSV builds a Transformer from the conversion-parameter CSV file.
func LoadCSV(path string) (*Transformer, error) {
	anchors, err := loadAnchorGraphFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "load anchor dataset %s", path)
	}
	return newTransformer(anchors), nil
}

// ReadCSV builds a Transformer from CSV data on a reader.
func ReadCSV(r io.Reader) (*Transformer, error) {
	anchors, err := readAnchorGraph(r)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "read anchor dataset")
	}
	addInverseAnchors(anchors)
	return newTransformer(anchors), nil
}

func newTransformer(anchors map[TileKey][]Anchor) *Transformer {
	return &Transformer{
		anchors: anchors,
		paths:   precomputeGlobalPaths(anchors),
	}
}

// Transform converts a local position to global coordinates.
//
// Resolution order:
//  1. Tiles already in a global frame use the grid formula directly.
//  2. A direct anchor into a global frame, preferring the overworld (m60)
//     over the shadow realm (m61) when both are available.
//  3. The precomputed minimal-hop anchor chain for the tile.
//
// Returns the global position and the area number of the frame the point
// resolved into. If no route to a global frame exists, the error carries
// code apperr.CodeUnresolvableMap and the formatted map id; the caller
// decides the fallback (the streaming producer degrades to local
// coordinates rather than dropping the sample).
func (t *Transformer) Transform(mapID uint32, p Position) (Position, uint8, error) {
	key := TileKeyFromMapID(mapID)

	if key.IsGlobal() {
		return gridGlobal(p, key), key.Area, nil
	}

	if list, ok := t.anchors[key]; ok {
		if a, ok := findDirectAnchor(list, AreaOverworld); ok {
			return applyAnchorToGlobal(p, a), AreaOverworld, nil
		}
		if a, ok := findDirectAnchor(list, AreaShadowRealm); ok {
			return applyAnchorToGlobal(p, a), AreaShadowRealm, nil
		}
	}

	if path, ok := t.paths[key]; ok {
		return applyPathToGlobal(p, path), path.terminal.Area, nil
	}

	return Position{}, 0, apperr.New(apperr.CodeUnresolvableMap,
		"no path to a global frame for %s", FormatMapID(mapID))
}

// AnchorCount returns the total number of anchors in the graph, including
// synthesized inverses.
func (t *Transformer) AnchorCount() int {
	n := 0
	for _, list := range t.anchors {
		n += len(list)
	}
	return n
}

// TileCount returns the number of distinct tiles with at least one anchor.
func (t *Transformer) TileCount() int {
	return len(t.anchors)
}

// PathCount returns the number of tiles resolved through a precomputed
// multi-hop chain rather than a direct edge.
func (t *Transformer) PathCount() int {
	return len(t.paths)
}

func findDirectAnchor(list []Anchor, area uint8) (Anchor, bool) {
	for _, a := range list {
		if a.Dst.Area == area {
			return a, true
		}
	}
	return Anchor{}, false
}

// gridGlobal applies the global-frame grid formula: X and Z are offset by
// the tile's grid indices, Y passes through.
func gridGlobal(p Position, tile TileKey) Position {
	return Position{
		X: p.X + float32(tile.GridX)*TileSize,
		Y: p.Y,
		Z: p.Z + float32(tile.GridZ)*TileSize,
	}
}

// translate moves a point across an anchor into the destination tile's
// local frame: p' = p - src + dst.
func translate(p Position, a Anchor) Position {
	return Position{
		X: p.X - a.SrcPos.X + a.DstPos.X,
		Y: p.Y - a.SrcPos.Y + a.DstPos.Y,
		Z: p.Z - a.SrcPos.Z + a.DstPos.Z,
	}
}

func applyAnchorToGlobal(p Position, a Anchor) Position {
	return gridGlobal(translate(p, a), a.Dst)
}

func applyPathToGlobal(p Position, path globalPath) Position {
	for _, step := range path.steps {
		p = translate(p, step)
	}
	return gridGlobal(p, path.terminal)
}
