package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mapryk/routecast/pkg/apperr"
	"github.com/mapryk/routecast/pkg/collector"
	"github.com/mapryk/routecast/pkg/routestore"
)

// storeFlags selects and configures a routestore backend.
type storeFlags struct {
	backend string
	dir     string

	redisAddr     string
	redisPassword string
	redisDB       int

	mongoURI        string
	mongoDatabase   string
	mongoCollection string
}

// serveCommand creates the serve command running the development collector.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		pushKey string
		flags   storeFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a development collector for streamed route points",
		Long: `Run a development collector for streamed route points.

The collector accepts batches on POST /api/RoutePoints authenticated with the
push key, appends them to a route store, and serves stored routes back on
GET /api/routes and GET /api/routes/{id}.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pushKey == "" {
				return apperr.New(apperr.CodeInvalidConfig, "a push key is required (--key)")
			}

			store, err := newStore(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := collector.New(store, pushKey, c.Logger)
			c.Logger.Info("collector listening",
				"addr", addr, "store", flags.backend, "liveRoute", srv.LiveRouteID())

			httpSrv := &http.Server{Addr: addr, Handler: srv.Router()}
			errCh := make(chan error, 1)
			go func() { errCh <- httpSrv.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&pushKey, "key", "", "push key producers must present")
	cmd.Flags().StringVar(&flags.backend, "store", "memory", "route store backend: memory, file, redis, mongo")
	cmd.Flags().StringVar(&flags.dir, "dir", "routes", "directory for the file store")
	cmd.Flags().StringVar(&flags.redisAddr, "redis-addr", "localhost:6379", "redis address")
	cmd.Flags().StringVar(&flags.redisPassword, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&flags.redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&flags.mongoURI, "mongo-uri", "mongodb://localhost:27017", "mongodb connection URI")
	cmd.Flags().StringVar(&flags.mongoDatabase, "mongo-db", "routecast", "mongodb database name")
	cmd.Flags().StringVar(&flags.mongoCollection, "mongo-collection", "routes", "mongodb collection name")

	return cmd
}

func newStore(ctx context.Context, flags storeFlags) (routestore.Store, error) {
	switch flags.backend {
	case "memory":
		return routestore.NewMemoryStore(), nil
	case "file":
		return routestore.NewFileStore(flags.dir)
	case "redis":
		return routestore.NewRedisStore(ctx, routestore.RedisConfig{
			Addr:     flags.redisAddr,
			Password: flags.redisPassword,
			DB:       flags.redisDB,
		})
	case "mongo":
		return routestore.NewMongoStore(ctx, routestore.MongoConfig{
			URI:        flags.mongoURI,
			Database:   flags.mongoDatabase,
			Collection: flags.mongoCollection,
		})
	default:
		return nil, apperr.New(apperr.CodeInvalidConfig, "unknown store backend %q", flags.backend)
	}
}
