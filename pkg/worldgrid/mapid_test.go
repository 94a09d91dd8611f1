package worldgrid

import "testing"

func TestParseMapID(t *testing.T) {
	// m60_40_35_00 = 0x3C282300
	area, gx, gz, dd := ParseMapID(0x3C282300)
	if area != 60 || gx != 40 || gz != 35 || dd != 0 {
		t.Errorf("ParseMapID = (%d, %d, %d, %d), want (60, 40, 35, 0)", area, gx, gz, dd)
	}
}

func TestPackParseRoundTrip(t *testing.T) {
	cases := []TileKey{
		{Area: 60, GridX: 40, GridZ: 35},
		{Area: 61, GridX: 10, GridZ: 15},
		{Area: 10, GridX: 0, GridZ: 0},
		{Area: 255, GridX: 255, GridZ: 255},
		{Area: 0, GridX: 0, GridZ: 0},
	}
	for _, k := range cases {
		if got := TileKeyFromMapID(k.MapID()); got != k {
			t.Errorf("round trip %v: got %v", k, got)
		}
	}
}

func TestFormatMapID(t *testing.T) {
	cases := []struct {
		id   uint32
		want string
	}{
		{0x3C282300, "m60_40_35_00"},
		{0x0A010000, "m10_01_00_00"},
		{0x3D0A0F00, "m61_10_15_00"},
		{0x00000000, "m00_00_00_00"},
	}
	for _, tc := range cases {
		if got := FormatMapID(tc.id); got != tc.want {
			t.Errorf("FormatMapID(%#x) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestTileKeyIsGlobal(t *testing.T) {
	if !(TileKey{Area: 60}).IsGlobal() {
		t.Error("area 60 should be global")
	}
	if !(TileKey{Area: 61}).IsGlobal() {
		t.Error("area 61 should be global")
	}
	if (TileKey{Area: 10}).IsGlobal() {
		t.Error("area 10 should not be global")
	}
}
