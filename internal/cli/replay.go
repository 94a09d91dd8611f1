package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mapryk/routecast/pkg/apperr"
	"github.com/mapryk/routecast/pkg/config"
	"github.com/mapryk/routecast/pkg/route"
	"github.com/mapryk/routecast/pkg/stream"
)

// replayCommand creates the replay command for streaming a recorded route.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		endpoint   string
		pushKey    string
		configPath string
		realtime   bool
	)

	cmd := &cobra.Command{
		Use:   "replay [route.json]",
		Short: "Stream a recorded route file to a collector",
		Long: `Stream a recorded route file to a collector.

Replay pushes the points of a saved route through the same delivery pipeline
the live producer uses. With --realtime the points are paced at the route's
recorded interval; otherwise the whole route is enqueued at once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				if endpoint == "" {
					endpoint = cfg.Realtime.BackendURL
				}
				if pushKey == "" {
					pushKey = cfg.Realtime.PushKey
				}
			}
			if endpoint == "" || pushKey == "" {
				return apperr.New(apperr.CodeInvalidConfig,
					"an endpoint and push key are required (set flags or --config)")
			}

			r, err := route.Load(args[0])
			if err != nil {
				return err
			}
			c.Logger.Info("replaying route",
				"route", r.ID, "points", len(r.Points), "recordedAt", r.RecordedAt)

			client := stream.New(endpoint, pushKey, c.Logger)
			defer client.Close()

			if !realtime {
				client.Send(r.Points...)
				return nil
			}

			interval := time.Duration(r.RecordIntervalMs) * time.Millisecond
			for i, p := range r.Points {
				client.Send(p)
				if i == len(r.Points)-1 {
					break
				}
				select {
				case <-time.After(interval):
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "collector base URL")
	cmd.Flags().StringVar(&pushKey, "key", "", "push key for the collector")
	cmd.Flags().StringVar(&configPath, "config", "", "config file supplying endpoint and key")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "pace points at the recorded interval")

	return cmd
}
