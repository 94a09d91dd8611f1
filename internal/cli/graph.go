package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mapryk/routecast/pkg/apperr"
)

// graphCommand groups anchor graph inspection subcommands.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect the anchor graph",
	}
	cmd.AddCommand(c.graphInfoCommand())
	cmd.AddCommand(c.graphExportCommand())
	return cmd
}

func (c *CLI) graphInfoCommand() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print anchor graph statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.loadTransformer(csvPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tiles:   %d\n", t.TileCount())
			fmt.Fprintf(out, "anchors: %d\n", t.AnchorCount())
			fmt.Fprintf(out, "paths:   %d\n", t.PathCount())
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", defaultCSVPath, "anchor dataset CSV file")
	return cmd
}

func (c *CLI) graphExportCommand() *cobra.Command {
	var (
		csvPath string
		format  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the anchor graph as DOT or SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.loadTransformer(csvPath)
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "dot":
				data = []byte(t.ToDOT())
			case "svg":
				data, err = t.RenderSVG(cmd.Context())
				if err != nil {
					return err
				}
			default:
				return apperr.New(apperr.CodeInvalidInput, "unknown export format %q (want dot or svg)", format)
			}

			if output == "" {
				output = "anchors." + format
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return apperr.Wrap(apperr.CodeInternal, err, "write %s", output)
			}
			c.Logger.Info("exported anchor graph", "format", format, "path", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", defaultCSVPath, "anchor dataset CSV file")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "export format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default anchors.<format>)")

	return cmd
}
