package worldgrid

// globalPath is a precomputed minimal-hop chain of anchors from a tile to a
// global frame, plus the terminal global tile the chain lands in. Applying
// the steps in order, then the terminal tile's grid offset, yields global
// coordinates.
type globalPath struct {
	steps    []Anchor
	terminal TileKey
}

// precomputeGlobalPaths builds the path cache: for every non-global tile in
// the graph without a direct edge into a global frame, the shortest anchor
// chain to any global frame. Tiles with a direct global edge, and global
// tiles themselves, are deliberately absent. Tiles from which no global
// frame is reachable are also absent; that only becomes an error at query
// time.
//
// Runs once at load time; queries never repeat the search.
func precomputeGlobalPaths(anchors map[TileKey][]Anchor) map[TileKey]globalPath {
	paths := make(map[TileKey]globalPath)

	for tile, list := range anchors {
		if tile.IsGlobal() {
			continue
		}
		if hasDirectGlobalEdge(list) {
			continue
		}
		if path, ok := bfsGlobalPath(tile, anchors); ok {
			paths[tile] = path
		}
	}

	return paths
}

func hasDirectGlobalEdge(list []Anchor) bool {
	for _, a := range list {
		if a.Dst.IsGlobal() {
			return true
		}
	}
	return false
}

// bfsGlobalPath finds the minimal-hop anchor chain from start to any global
// frame. Level order decides which frame wins when both are reachable; there
// is no preference between the two here (only the direct-edge case in the
// transformer prefers the overworld). Tiles are marked visited when first
// enqueued, which prevents cycles and guarantees the first chain found has
// the minimum number of hops.
func bfsGlobalPath(start TileKey, anchors map[TileKey][]Anchor) (globalPath, bool) {
	type entry struct {
		tile  TileKey
		steps []Anchor
	}

	queue := []entry{{tile: start}}
	visited := map[TileKey]bool{start: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, a := range anchors[cur.tile] {
			steps := make([]Anchor, len(cur.steps), len(cur.steps)+1)
			copy(steps, cur.steps)
			steps = append(steps, a)

			if a.Dst.IsGlobal() {
				return globalPath{steps: steps, terminal: a.Dst}, true
			}
			if !visited[a.Dst] {
				visited[a.Dst] = true
				queue = append(queue, entry{tile: a.Dst, steps: steps})
			}
		}
	}

	return globalPath{}, false
}
