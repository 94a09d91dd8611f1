package worldgrid

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// Anchor is a directed alignment record: a point in the source tile's frame
// that coincides with a point in the destination tile's frame. The source
// tile is not a field; anchors are stored keyed by their source tile in the
// anchor graph. Anchors are immutable once built.
type Anchor struct {
	// SrcPos is the alignment point in the source tile's local frame.
	SrcPos Position
	// Dst is the destination tile.
	Dst TileKey
	// DstPos is the same physical point in the destination tile's local frame.
	DstPos Position
}

// posEpsilon is the absolute per-axis tolerance under which two positions are
// considered the same physical point when deduplicating synthesized anchors.
const posEpsilon float32 = 0.001

// positionsEqual compares two positions with floating point tolerance.
func positionsEqual(a, b Position) bool {
	return abs32(a.X-b.X) < posEpsilon &&
		abs32(a.Y-b.Y) < posEpsilon &&
		abs32(a.Z-b.Z) < posEpsilon
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Raw dataset column offsets. The conversion-parameter table carries more
// columns than we consume; these are the fixed offsets of the fields we need.
const (
	colSrcArea  = 5
	colSrcGridX = 6
	colSrcGridZ = 7
	colSrcPosX  = 9
	colSrcPosY  = 10
	colSrcPosZ  = 11
	colDstArea  = 12
	colDstGridX = 13
	colDstGridZ = 14
	colDstPosX  = 16
	colDstPosY  = 17
	colDstPosZ  = 18

	minColumns = colDstPosZ + 1
)

// readAnchorGraph ingests the raw conversion-parameter table. The first row
// is a header. Rows with too few columns or non-numeric fields are dropped;
// the dataset is semi-structured and ingestion is best-effort.
func readAnchorGraph(r io.Reader) (map[TileKey][]Anchor, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	anchors := make(map[TileKey][]Anchor)
	header := true

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row (bare quotes etc.) - skip, same as a parse failure.
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			return nil, err
		}
		if header {
			header = false
			continue
		}
		if len(record) < minColumns {
			continue
		}

		src, ok := parseTileKey(record, colSrcArea, colSrcGridX, colSrcGridZ)
		if !ok {
			continue
		}
		srcPos, ok := parsePosition(record, colSrcPosX, colSrcPosY, colSrcPosZ)
		if !ok {
			continue
		}
		dst, ok := parseTileKey(record, colDstArea, colDstGridX, colDstGridZ)
		if !ok {
			continue
		}
		dstPos, ok := parsePosition(record, colDstPosX, colDstPosY, colDstPosZ)
		if !ok {
			continue
		}

		anchors[src] = append(anchors[src], Anchor{SrcPos: srcPos, Dst: dst, DstPos: dstPos})
	}

	return anchors, nil
}

func parseTileKey(record []string, iArea, iGridX, iGridZ int) (TileKey, bool) {
	area, ok := parseUint8(record[iArea])
	if !ok {
		return TileKey{}, false
	}
	gx, ok := parseUint8(record[iGridX])
	if !ok {
		return TileKey{}, false
	}
	gz, ok := parseUint8(record[iGridZ])
	if !ok {
		return TileKey{}, false
	}
	return TileKey{Area: area, GridX: gx, GridZ: gz}, true
}

func parsePosition(record []string, iX, iY, iZ int) (Position, bool) {
	x, ok := parseFloat32(record[iX])
	if !ok {
		return Position{}, false
	}
	y, ok := parseFloat32(record[iY])
	if !ok {
		return Position{}, false
	}
	z, ok := parseFloat32(record[iZ])
	if !ok {
		return Position{}, false
	}
	return Position{X: x, Y: y, Z: z}, true
}

func parseUint8(s string) (uint8, bool) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

func parseFloat32(s string) (float32, bool) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

// addInverseAnchors synthesizes an inverse anchor for every edge in the
// graph. The raw dataset records only one direction per physical connection;
// many tiles appear only as destinations and would otherwise have no way
// back toward a global frame.
//
// Before inserting an inverse, an existing anchor at the same key with the
// same destination tile and both positions equal within tolerance is treated
// as a duplicate and skipped. This keeps the BFS step from wading through
// parallel near-identical edges. The check makes synthesis idempotent: a
// second pass adds nothing.
func addInverseAnchors(anchors map[TileKey][]Anchor) {
	type keyed struct {
		key    TileKey
		anchor Anchor
	}

	// Collect first to avoid mutating the map while ranging over it.
	var inverses []keyed
	for src, list := range anchors {
		for _, a := range list {
			inverses = append(inverses, keyed{
				key: a.Dst,
				anchor: Anchor{
					SrcPos: a.DstPos,
					Dst:    src,
					DstPos: a.SrcPos,
				},
			})
		}
	}

	for _, inv := range inverses {
		if hasEquivalentAnchor(anchors[inv.key], inv.anchor) {
			continue
		}
		anchors[inv.key] = append(anchors[inv.key], inv.anchor)
	}
}

func hasEquivalentAnchor(list []Anchor, candidate Anchor) bool {
	for _, a := range list {
		if a.Dst == candidate.Dst &&
			positionsEqual(a.SrcPos, candidate.SrcPos) &&
			positionsEqual(a.DstPos, candidate.DstPos) {
			return true
		}
	}
	return false
}

// loadAnchorGraphFile reads and fully prepares the anchor graph from a CSV
// file: raw ingestion followed by inverse synthesis.
func loadAnchorGraphFile(path string) (map[TileKey][]Anchor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	anchors, err := readAnchorGraph(f)
	if err != nil {
		return nil, err
	}
	addInverseAnchors(anchors)
	return anchors, nil
}
