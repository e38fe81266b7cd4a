package cli

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nodeforest/pkg/api"
	"github.com/matzehuels/nodeforest/pkg/buildinfo"
	"github.com/matzehuels/nodeforest/pkg/observability"
	"github.com/matzehuels/nodeforest/pkg/repository"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the node forest over HTTP",
		Long: `Serve the node forest over HTTP.

Routes:
  GET   /nodes?flat=false   node list, or the nested forest
  PATCH /nodes/move         {"node_ids": [...], "target_parent_id": id|null}
  GET   /healthz            liveness
  GET   /metrics            Prometheus metrics

With the file backend, edits to the JSON document made outside the server
are picked up and logged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			ln, err := net.Listen("tcp", c.cfg.Server.Addr)
			if err != nil {
				return err
			}
			return c.serve(cmd.Context(), ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :3000)")

	return cmd
}

// serve runs the API on ln until ctx is cancelled, then shuts down
// gracefully.
func (c *CLI) serve(ctx context.Context, ln net.Listener) error {
	a, err := c.openApp(ctx)
	if err != nil {
		ln.Close()
		return err
	}
	defer a.Close()

	prom := observability.NewPrometheus()
	observability.SetAll(prom)
	defer observability.Reset()

	sc := c.cfg.Server
	srv := &http.Server{
		Handler:      api.NewRouter(a.svc, api.Options{Logger: c.Logger, Metrics: prom.Handler()}),
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.Logger.Info("serving", "addr", ln.Addr().String(), "storage", a.cfg.Storage.Backend, "version", buildinfo.Short())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if w, ok := a.repo.(repository.Watcher); ok {
		g.Go(func() error {
			if err := w.Watch(gctx, func() { c.reportExternalChange(gctx, a) }); err != nil {
				c.Logger.Warn("file watching disabled", "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout)
		defer cancel()
		c.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// reportExternalChange logs a summary of the node list after it changed on
// disk, warning when the new list is inconsistent.
func (c *CLI) reportExternalChange(ctx context.Context, a *app) {
	r, err := a.svc.Check(ctx)
	if err != nil {
		c.Logger.Warn("node list changed on disk but cannot be read", "error", err)
		return
	}
	if !r.OK() {
		c.Logger.Warn("node list changed on disk and is inconsistent", "duplicates", r.Duplicates, "cyclic", r.Cyclic)
		return
	}
	c.Logger.Info("node list changed on disk", "nodes", r.Nodes, "roots", r.Roots, "dangling", len(r.Dangling))
}

