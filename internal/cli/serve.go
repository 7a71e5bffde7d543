package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/patchwire/patchwire/internal/api"
	"github.com/patchwire/patchwire/pkg/cache"
	"github.com/patchwire/patchwire/pkg/pipeline"
	"github.com/patchwire/patchwire/pkg/store"
)

// defaultListenAddr is used when neither flag nor config specify one.
const defaultListenAddr = ":8080"

// shutdownTimeout bounds graceful shutdown on interrupt.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen   string
		noCache  bool
		redis    string
		mongoURI string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

The server exposes layout computation under POST /v1/layout and, when a
MongoDB store is configured, document CRUD under /v1/documents. Layout
results are cached in Redis when configured, otherwise in the local file
cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), listen, noCache, redis, mongoURI)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default: :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redis, "redis", "", "redis address for caching (overrides config)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "mongodb URI for document storage (overrides config)")

	return cmd
}

// runServe wires cache, store, and router together and serves until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, listen string, noCache bool, redisAddr, mongoURI string) error {
	addr := listen
	if addr == "" && c.Config != nil && c.Config.Server.Listen != "" {
		addr = c.Config.Server.Listen
	}
	if addr == "" {
		addr = defaultListenAddr
	}

	pipelineCache, err := c.serveCache(ctx, noCache, redisAddr)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(pipelineCache, nil, c.Logger)
	defer runner.Close()

	docs, err := c.serveStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	if docs != nil {
		defer docs.Close(context.Background())
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(runner, docs, c.Logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// serveCache picks the cache backend: Redis when configured, the local
// file cache otherwise.
func (c *CLI) serveCache(ctx context.Context, noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	addr := redisAddr
	var password string
	var db int
	if c.Config != nil {
		if addr == "" {
			addr = c.Config.Cache.Redis.Addr
		}
		password = c.Config.Cache.Redis.Password
		db = c.Config.Cache.Redis.DB
	}
	if addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr, password, db)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", addr, err)
		}
		c.Logger.Info("using redis cache", "addr", addr)
		return rc, nil
	}

	return c.newCache(false)
}

// serveStore picks the document store: MongoDB when configured, nil
// otherwise (document endpoints respond 501).
func (c *CLI) serveStore(ctx context.Context, mongoURI string) (store.DocumentStore, error) {
	uri := mongoURI
	database := "patchwire"
	collection := "documents"
	if c.Config != nil {
		if uri == "" {
			uri = c.Config.Server.Mongo.URI
		}
		if c.Config.Server.Mongo.Database != "" {
			database = c.Config.Server.Mongo.Database
		}
		if c.Config.Server.Mongo.Collection != "" {
			collection = c.Config.Server.Mongo.Collection
		}
	}
	if uri == "" {
		return nil, nil
	}

	ms, err := store.NewMongoStore(ctx, uri, database, collection)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	c.Logger.Info("using mongodb store", "database", database)
	return ms, nil
}
