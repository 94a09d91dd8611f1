package worldgrid

import "testing"

// chainGraph builds m10_01 -> m10_00 -> m60_40_35 with the offsets used by
// the multi-hop composition tests.
func chainGraph() map[TileKey][]Anchor {
	return map[TileKey][]Anchor{
		{Area: 10, GridX: 0, GridZ: 0}: {{
			SrcPos: Position{},
			Dst:    TileKey{Area: 60, GridX: 40, GridZ: 35},
			DstPos: Position{X: 100, Y: 50, Z: 100},
		}},
		{Area: 10, GridX: 1, GridZ: 0}: {{
			SrcPos: Position{},
			Dst:    TileKey{Area: 10, GridX: 0, GridZ: 0},
			DstPos: Position{X: 10, Y: 5, Z: 10},
		}},
	}
}

func TestBFSFindsMinimalHopPath(t *testing.T) {
	path, ok := bfsGlobalPath(TileKey{Area: 10, GridX: 1, GridZ: 0}, chainGraph())
	if !ok {
		t.Fatal("expected a path to a global frame")
	}
	if len(path.steps) != 2 {
		t.Errorf("path has %d steps, want 2", len(path.steps))
	}
	if want := (TileKey{Area: 60, GridX: 40, GridZ: 35}); path.terminal != want {
		t.Errorf("terminal = %v, want %v", path.terminal, want)
	}
}

func TestBFSFindsPathToShadowRealm(t *testing.T) {
	anchors := map[TileKey][]Anchor{
		{Area: 20, GridX: 0, GridZ: 0}: {{
			Dst:    TileKey{Area: 61, GridX: 10, GridZ: 15},
			DstPos: Position{X: 100, Y: 50, Z: 100},
		}},
		{Area: 20, GridX: 1, GridZ: 0}: {{
			Dst:    TileKey{Area: 20, GridX: 0, GridZ: 0},
			DstPos: Position{X: -514, Y: 28, Z: 200},
		}},
	}
	path, ok := bfsGlobalPath(TileKey{Area: 20, GridX: 1, GridZ: 0}, anchors)
	if !ok {
		t.Fatal("expected a path to the shadow realm")
	}
	if path.terminal.Area != AreaShadowRealm {
		t.Errorf("terminal area = %d, want %d", path.terminal.Area, AreaShadowRealm)
	}
}

func TestBFSPrefersFewerHops(t *testing.T) {
	// Two routes to the overworld: a 3-hop detour and a 1-hop shortcut
	// discovered at a later position in the adjacency list. BFS level order
	// must pick the shortcut.
	start := TileKey{Area: 30, GridX: 0, GridZ: 0}
	mid1 := TileKey{Area: 30, GridX: 1, GridZ: 0}
	mid2 := TileKey{Area: 30, GridX: 2, GridZ: 0}
	hub := TileKey{Area: 30, GridX: 3, GridZ: 0}
	global := TileKey{Area: 60, GridX: 5, GridZ: 5}

	anchors := map[TileKey][]Anchor{
		start: {
			{Dst: mid1},
			{Dst: hub},
		},
		mid1: {{Dst: mid2}},
		mid2: {{Dst: global}},
		hub:  {{Dst: global}},
	}

	path, ok := bfsGlobalPath(start, anchors)
	if !ok {
		t.Fatal("expected a path")
	}
	if len(path.steps) != 2 {
		t.Errorf("path has %d steps, want 2 (start -> hub -> global)", len(path.steps))
	}
}

func TestBFSHandlesCycles(t *testing.T) {
	a := TileKey{Area: 99, GridX: 0, GridZ: 0}
	b := TileKey{Area: 99, GridX: 1, GridZ: 0}
	anchors := map[TileKey][]Anchor{
		a: {{Dst: b}},
		b: {{Dst: a}},
	}
	if _, ok := bfsGlobalPath(a, anchors); ok {
		t.Error("isolated cycle must not produce a path")
	}
}

func TestPrecomputeGlobalPaths(t *testing.T) {
	paths := precomputeGlobalPaths(chainGraph())

	if _, ok := paths[TileKey{Area: 10, GridX: 0, GridZ: 0}]; ok {
		t.Error("tile with a direct global edge must not be in the path cache")
	}
	if _, ok := paths[TileKey{Area: 10, GridX: 1, GridZ: 0}]; !ok {
		t.Error("tile without a direct global edge must be in the path cache")
	}
}

func TestPrecomputeSkipsGlobalTiles(t *testing.T) {
	anchors := map[TileKey][]Anchor{
		{Area: 60, GridX: 1, GridZ: 1}: {{Dst: TileKey{Area: 60, GridX: 2, GridZ: 2}}},
	}
	if paths := precomputeGlobalPaths(anchors); len(paths) != 0 {
		t.Errorf("global tiles need no paths, got %d entries", len(paths))
	}
}
