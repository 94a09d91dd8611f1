// Package convert batch-converts exported map icon data from tile-local to
// global coordinates. It reads the raw export JSON (bonfires and map points
// keyed by area/grid/position), runs every icon through the coordinate
// transformer, classifies each into a world frame, and writes the processed
// JSON alongside conversion statistics.
package convert

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/mapryk/routecast/pkg/apperr"
	"github.com/mapryk/routecast/pkg/worldgrid"
)

// excludedIconIDs lists icon types dropped from the output entirely.
var excludedIconIDs = map[uint32]bool{83: true}

// InputIcon is one icon as exported by the game data dump. Field names
// follow the dump's PascalCase convention.
type InputIcon struct {
	ID          uint64      `json:"Id"`
	IconID      uint32      `json:"IconId"`
	EventFlagID uint64      `json:"EventFlagId"`
	AreaNo      uint8       `json:"AreaNo"`
	GridXNo     uint8       `json:"GridXNo"`
	GridZNo     uint8       `json:"GridZNo"`
	PosX        float32     `json:"PosX"`
	PosY        float32     `json:"PosY"`
	PosZ        float32     `json:"PosZ"`
	Texts       []InputText `json:"Texts"`
}

// InputText is a localized label attached to an icon.
type InputText struct {
	TextID   uint64  `json:"TextId"`
	TextType uint32  `json:"TextType"`
	Text     *string `json:"Text"`
	Source   string  `json:"Source"`
}

// InputData is the raw export file layout.
type InputData struct {
	Bonfires  []InputIcon `json:"Bonfires"`
	MapPoints []InputIcon `json:"MapPoints"`
}

// OutputIcon carries the original local coordinates plus the converted
// global ones and the frame the icon belongs to.
type OutputIcon struct {
	ID          uint64      `json:"id"`
	IconID      uint32      `json:"iconId"`
	EventFlagID uint64      `json:"eventFlagId"`
	AreaNo      uint8       `json:"areaNo"`
	GridXNo     uint8       `json:"gridXNo"`
	GridZNo     uint8       `json:"gridZNo"`
	PosX        float32     `json:"posX"`
	PosY        float32     `json:"posY"`
	PosZ        float32     `json:"posZ"`
	GlobalX     float32     `json:"globalX"`
	GlobalY     float32     `json:"globalY"`
	GlobalZ     float32     `json:"globalZ"`
	MapID       string      `json:"mapId"`
	Texts       []InputText `json:"texts"`
}

// OutputData is the processed file layout.
type OutputData struct {
	Bonfires       []OutputIcon `json:"bonfires"`
	MapPoints      []OutputIcon `json:"mapPoints"`
	TotalCount     int          `json:"totalCount"`
	ConvertedCount int          `json:"convertedCount"`
	FailedCount    int          `json:"failedCount"`
	FailedMaps     []string     `json:"failedMaps"`
}

// Stats summarizes a conversion run.
type Stats struct {
	Total     int
	Converted int
	Failed    int
	// FailedMaps counts failures per source tile.
	FailedMaps map[string]int
}

// ClassifyFrame maps an area number to the world frame its icons are drawn
// on. The frame is decided by area range, not by where the transform chain
// ends up: some interior areas anchor through the overworld graph but still
// belong to the shadow realm overlay.
//
// Area 60 is the overworld, 61 the shadow realm, areas 20 through 29 are
// shadow realm interiors. Everything else is an overworld interior.
func ClassifyFrame(area uint8) string {
	switch {
	case area == worldgrid.AreaOverworld:
		return "m60"
	case area == worldgrid.AreaShadowRealm:
		return "m61"
	case area >= 20 && area < 30:
		return "m61"
	default:
		return "m60"
	}
}

// Convert transforms all icons in data. Icons with excluded icon ids are
// skipped silently; icons whose tile cannot be resolved are counted and
// grouped by tile in the stats.
func Convert(t *worldgrid.Transformer, data InputData) (OutputData, Stats) {
	stats := Stats{
		Total:      len(data.Bonfires) + len(data.MapPoints),
		FailedMaps: make(map[string]int),
	}

	out := OutputData{
		Bonfires:  convertIcons(t, data.Bonfires, &stats),
		MapPoints: convertIcons(t, data.MapPoints, &stats),
	}
	out.TotalCount = stats.Total
	out.ConvertedCount = stats.Converted
	out.FailedCount = stats.Failed
	for tile := range stats.FailedMaps {
		out.FailedMaps = append(out.FailedMaps, tile)
	}
	sort.Strings(out.FailedMaps)

	return out, stats
}

func convertIcons(t *worldgrid.Transformer, icons []InputIcon, stats *Stats) []OutputIcon {
	out := make([]OutputIcon, 0, len(icons))
	for _, icon := range icons {
		if excludedIconIDs[icon.IconID] {
			continue
		}

		mapID := worldgrid.PackMapID(icon.AreaNo, icon.GridXNo, icon.GridZNo)
		global, _, err := t.Transform(mapID, worldgrid.Position{X: icon.PosX, Y: icon.PosY, Z: icon.PosZ})
		if err != nil {
			stats.Failed++
			stats.FailedMaps[worldgrid.FormatMapID(mapID)]++
			continue
		}
		stats.Converted++

		out = append(out, OutputIcon{
			ID:          icon.ID,
			IconID:      icon.IconID,
			EventFlagID: icon.EventFlagID,
			AreaNo:      icon.AreaNo,
			GridXNo:     icon.GridXNo,
			GridZNo:     icon.GridZNo,
			PosX:        icon.PosX,
			PosY:        icon.PosY,
			PosZ:        icon.PosZ,
			GlobalX:     global.X,
			GlobalY:     global.Y,
			GlobalZ:     global.Z,
			MapID:       ClassifyFrame(icon.AreaNo),
			Texts:       icon.Texts,
		})
	}
	return out
}

// ConvertFile reads the export at inPath, converts it with t, and writes the
// processed JSON to outPath. The run summary, including the ten most common
// failing tiles, goes to the logger.
func ConvertFile(t *worldgrid.Transformer, inPath, outPath string, logger *log.Logger) (Stats, error) {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return Stats{}, apperr.Wrap(apperr.CodeNotFound, err, "read map icon export %s", inPath)
	}

	var data InputData
	if err := json.Unmarshal(raw, &data); err != nil {
		return Stats{}, apperr.Wrap(apperr.CodeInvalidInput, err, "parse map icon export %s", inPath)
	}
	logger.Info("loaded map icon export",
		"bonfires", len(data.Bonfires), "mapPoints", len(data.MapPoints))

	out, stats := Convert(t, data)

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return stats, apperr.Wrap(apperr.CodeInternal, err, "encode processed map icons")
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return stats, apperr.Wrap(apperr.CodeInternal, err, "write %s", outPath)
	}

	logger.Info("conversion complete",
		"total", stats.Total, "converted", stats.Converted, "failed", stats.Failed)
	for _, tf := range stats.TopFailures(10) {
		logger.Warn("unresolvable tile", "tile", tf.Tile, "icons", tf.Count)
	}

	return stats, nil
}

// TileFailure is one entry of the failing-tile frequency table.
type TileFailure struct {
	Tile  string
	Count int
}

// TopFailures returns the n tiles with the most failed icons, most frequent
// first, ties broken by tile name.
func (s Stats) TopFailures(n int) []TileFailure {
	failures := make([]TileFailure, 0, len(s.FailedMaps))
	for tile, count := range s.FailedMaps {
		failures = append(failures, TileFailure{Tile: tile, Count: count})
	}
	sort.Slice(failures, func(i, j int) bool {
		if failures[i].Count != failures[j].Count {
			return failures[i].Count > failures[j].Count
		}
		return failures[i].Tile < failures[j].Tile
	})
	if len(failures) > n {
		failures = failures[:n]
	}
	return failures
}
