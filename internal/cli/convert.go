package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mapryk/routecast/pkg/convert"
)

// convertCommand creates the convert command for batch map icon conversion.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		csvPath string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "convert [export.json]",
		Short: "Convert exported map icons to global coordinates",
		Long: `Convert exported map icons to global coordinates.

Reads a raw map data export (bonfires and map points with tile-local
positions), converts every icon through the anchor graph, and writes the
processed JSON with global coordinates and per-icon world frames. Icons on
tiles with no path to a global frame are counted and reported, not written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.loadTransformer(csvPath)
			if err != nil {
				return err
			}
			out := output
			if out == "" {
				out = strings.TrimSuffix(args[0], ".json") + "_processed.json"
			}
			_, err = convert.ConvertFile(t, args[0], out, c.Logger)
			if err != nil {
				return err
			}
			c.Logger.Info("wrote processed map icons", "path", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", defaultCSVPath, "anchor dataset CSV file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>_processed.json)")

	return cmd
}
