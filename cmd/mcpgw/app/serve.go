package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentmesh/mcpgw/pkg/backendclient"
	"github.com/agentmesh/mcpgw/pkg/config"
	"github.com/agentmesh/mcpgw/pkg/discovery"
	"github.com/agentmesh/mcpgw/pkg/frontend"
	"github.com/agentmesh/mcpgw/pkg/gwlog"
	"github.com/agentmesh/mcpgw/pkg/metrics"
	"github.com/agentmesh/mcpgw/pkg/proxy"
	"github.com/agentmesh/mcpgw/pkg/reload"
	"github.com/agentmesh/mcpgw/pkg/supervisor"
)

const version = "0.1.0"

var (
	backendServersPath string
	groupsPath         string
	activeGroup        string
	adminAddr          string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway: supervise backends, discover capabilities, serve the active group over stdio",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&backendServersPath, "backend-servers", "backend-servers.json", "path to backend-servers.json")
	cmd.Flags().StringVar(&groupsPath, "groups", "groups.json", "path to groups.json")
	cmd.Flags().StringVar(&activeGroup, "group", "", "name of the group to serve (required)")
	cmd.Flags().StringVar(&adminAddr, "admin-addr", "127.0.0.1:8282", "loopback address for /reload and /metrics")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if activeGroup == "" {
		return fmt.Errorf("--group is required")
	}

	if os.Getenv("OP_SERVICE_ACCOUNT_TOKEN") != "" {
		resolver, err := config.NewOnePasswordResolver(ctx)
		if err != nil {
			return fmt.Errorf("setting up 1password secret resolver: %w", err)
		}
		config.SetSecretResolver(resolver)
		gwlog.Info("resolving secret:// env references through 1password")
	}

	backendsCfg, err := config.LoadBackendServers(backendServersPath)
	if err != nil {
		return fmt.Errorf("loading backend servers: %w", err)
	}
	groupsCfg, err := config.LoadGroups(groupsPath)
	if err != nil {
		return fmt.Errorf("loading groups: %w", err)
	}
	group, ok := groupsCfg.Groups[activeGroup]
	if !ok {
		return fmt.Errorf("group %q not found in %s", activeGroup, groupsPath)
	}

	pool := backendclient.New(backendsCfg)
	sup := supervisor.New(pool.OnBackendExit)
	sup.Start(backendsCfg)
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		sup.Stop(shutdownCtx)
		pool.DisconnectAll()
	}()

	successful, failed := pool.ConnectAll(ctx)
	gwlog.Infof("connected to %d backends, %d failed", len(successful), len(failed))

	cache := discovery.New(pool)
	cache.RefreshAll(ctx)

	px := proxy.New(pool)
	srv := frontend.New(version, group, cache, px)
	srv.Reload()

	reloadFn := func() error {
		cache.RefreshAll(ctx)
		srv.Reload()
		return nil
	}

	adminServer := &http.Server{
		Addr:              adminAddr,
		Handler:           mountAdmin(reloadFn),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		gwlog.Infof("admin endpoint listening on http://%s (/reload, /metrics)", adminAddr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			gwlog.Errorf("admin server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = adminServer.Shutdown(shutdownCtx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		gwlog.Info("shutdown signal received")
		cancel()
	}()

	gwlog.Infof("serving group %q", activeGroup)
	return srv.ServeStdio(ctx)
}

func mountAdmin(reloadFn func() error) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/reload", reload.Router(reloadFn))
	mux.Handle("/metrics", metrics.Handler())
	return mux
}
