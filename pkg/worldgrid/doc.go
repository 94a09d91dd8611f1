// Package worldgrid converts tile-local coordinates to global world coordinates.
//
// The game world is split into tiles, each with its own local coordinate
// frame identified by an (area, gridX, gridZ) triple. Two reserved areas are
// global frames: 60 (the overworld) and 61 (the shadow realm). Every other
// area is an interior region whose position in the world is only known
// through anchors: directed alignment records that equate a point in one
// tile's frame with a point in another's.
//
// # Architecture
//
// A [Transformer] is built once from the anchor dataset and is immutable
// afterwards, so a single instance can serve any number of concurrent
// readers without locking. Construction has three phases:
//
//  1. Ingest the raw CSV into an anchor graph keyed by tile.
//  2. Synthesize inverse anchors so tiles that only appear as destinations
//     become reachable, deduplicating near-identical edges.
//  3. Precompute, via breadth-first search, a minimal-hop anchor chain to a
//     global frame for every tile lacking a direct global edge.
//
// # Usage
//
//	tf, err := worldgrid.LoadCSV("WorldMapLegacyConvParam.csv")
//	if err != nil {
//	    return err
//	}
//	global, area, err := tf.Transform(mapID, worldgrid.Position{X: x, Y: y, Z: z})
package worldgrid
