// Package cli implements the routecast command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mapryk/routecast/pkg/buildinfo"
	"github.com/mapryk/routecast/pkg/worldgrid"
)

// defaultCSVPath is where the anchor dataset is looked up when no --csv flag
// is given. The file ships with the game data dump.
const defaultCSVPath = "WorldMapLegacyConvParam.csv"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "routecast",
		Short:        "Routecast records and streams world-space player routes",
		Long:         `Routecast converts tile-local game positions into global world coordinates and delivers recorded routes to a collector backend in real time.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadTransformer builds the coordinate transformer from the anchor dataset.
func (c *CLI) loadTransformer(path string) (*worldgrid.Transformer, error) {
	t, err := worldgrid.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("loaded anchor dataset",
		"tiles", t.TileCount(), "anchors", t.AnchorCount(), "paths", t.PathCount())
	return t, nil
}
