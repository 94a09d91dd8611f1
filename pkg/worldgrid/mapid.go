package worldgrid

import "fmt"

// Reserved area numbers for the two global coordinate frames.
const (
	// AreaOverworld is the primary global frame (the base-game overworld).
	AreaOverworld uint8 = 60

	// AreaShadowRealm is the secondary global frame (the DLC overworld).
	AreaShadowRealm uint8 = 61
)

// TileSize is the edge length of one global-frame grid tile. Global
// coordinates are local coordinates offset by gridIndex*TileSize on the
// X and Z axes.
const TileSize float32 = 256.0

// TileKey identifies a single tile's local coordinate frame.
type TileKey struct {
	Area  uint8
	GridX uint8
	GridZ uint8
}

// IsGlobal reports whether the tile belongs to one of the two global frames.
func (k TileKey) IsGlobal() bool {
	return k.Area == AreaOverworld || k.Area == AreaShadowRealm
}

// MapID returns the packed map identifier for the tile (reserved byte zero).
func (k TileKey) MapID() uint32 {
	return PackMapID(k.Area, k.GridX, k.GridZ)
}

// String returns the canonical map-id form of the tile, e.g. "m60_40_35_00".
func (k TileKey) String() string {
	return FormatMapID(k.MapID())
}

// Position is a point in some tile's local frame, or in a global frame once
// transformed. All coordinate arithmetic is single-precision.
type Position struct {
	X float32
	Y float32
	Z float32
}

// ParseMapID unpacks a map identifier into its components.
//
// The id is packed big-endian as 0xWWXXYYDD:
//   - WW = area number (60/61 for the global frames)
//   - XX = grid X index
//   - YY = grid Z index
//   - DD = reserved, always zero in practice and never interpreted
func ParseMapID(id uint32) (area, gridX, gridZ, reserved uint8) {
	area = uint8(id >> 24)
	gridX = uint8(id >> 16)
	gridZ = uint8(id >> 8)
	reserved = uint8(id)
	return area, gridX, gridZ, reserved
}

// PackMapID packs an (area, gridX, gridZ) triple into a map identifier with
// a zero reserved byte. PackMapID and ParseMapID are lossless inverses.
func PackMapID(area, gridX, gridZ uint8) uint32 {
	return uint32(area)<<24 | uint32(gridX)<<16 | uint32(gridZ)<<8
}

// TileKeyFromMapID returns the tile key encoded in a map identifier,
// discarding the reserved byte.
func TileKeyFromMapID(id uint32) TileKey {
	area, gx, gz, _ := ParseMapID(id)
	return TileKey{Area: area, GridX: gx, GridZ: gz}
}

// FormatMapID renders a map identifier as "mWW_XX_YY_DD" with zero-padded
// decimal components.
func FormatMapID(id uint32) string {
	area, gx, gz, dd := ParseMapID(id)
	return fmt.Sprintf("m%02d_%02d_%02d_%02d", area, gx, gz, dd)
}
