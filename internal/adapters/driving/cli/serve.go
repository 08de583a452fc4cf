package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/leadsheet/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/leadsheet/internal/adapters/driving/mcp"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

var (
	serveAddr        string
	serveMCPAddr     string
	serveNoScheduler bool
	serveNoWatch     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API together with the background snapshot refresh and the
config file watcher. Stops gracefully on SIGINT or SIGTERM.

Read routes are public. Write routes need a bearer token: a session token
from "leadsheet token issue" or a Google ID token for server.google_client_id.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr)")
	serveCmd.Flags().StringVar(&serveMCPAddr, "mcp-addr", "", "also serve MCP over HTTP on this address")
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "disable background refresh")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not reload config on change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if recordService == nil || settingsService == nil {
		return fmt.Errorf("serve: %w", errNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	addr := serveAddr
	if addr == "" {
		addr = settings.Server.Addr
	}

	api, err := httpapi.NewServer(httpapi.Ports{
		Records:  recordService,
		Activity: activityService,
		Billing:  billingService,
		Settings: settingsService,
		Auth:     authService,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return api.Run(ctx, addr)
	})

	if serveMCPAddr != "" {
		srv, err := mcp.NewServer(mcpPorts())
		if err != nil {
			return err
		}
		g.Go(func() error {
			logger.Info("MCP listening on %s", serveMCPAddr)
			return srv.RunHTTP(ctx, serveMCPAddr)
		})
	}

	if !serveNoScheduler && settings.Scheduler.Enabled && scheduler != nil {
		g.Go(func() error {
			return runScheduler(ctx)
		})
	}

	if !serveNoWatch && configWatcher != nil {
		g.Go(func() error {
			if err := configWatcher.Run(ctx); err != nil {
				logger.Warn("config watcher stopped: %v", err)
			}
			return nil
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runScheduler starts the scheduler and stops it when ctx ends. Scheduler
// errors are logged; they never take the server down.
func runScheduler(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("scheduler stopped: %v", err)
		}
	}()

	select {
	case <-ctx.Done():
	case <-done:
		return nil
	}
	if err := scheduler.Stop(); err != nil {
		logger.Warn("scheduler stop: %v", err)
	}
	<-done
	return nil
}
