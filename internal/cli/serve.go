package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orthonet/pkg/server"
	"github.com/matzehuels/orthonet/pkg/session"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		ttl   time.Duration
		sweep time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, ttl, sweep)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&ttl, "session-ttl", session.DefaultTTL, "close sessions idle for this long")
	cmd.Flags().DurationVar(&sweep, "sweep", time.Minute, "idle session check interval")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, ttl, sweep time.Duration) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store := session.NewMemoryStore(ttl)
	defer store.Close()

	srv := server.New(cfg, store, c.Logger)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go srv.Sweep(ctx, sweep)

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()
	c.Logger.Info("listening", "addr", addr, "session-ttl", ttl)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
