package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/3leaps/s3path/internal/server"
	"github.com/3leaps/s3path/pkg/s3client"
	"github.com/3leaps/s3path/pkg/s3path"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the read-only HTTP gateway",
	Long: `Run an HTTP gateway exposing stat, list and object reads over REST.

Endpoints:
  GET /healthz
  GET /version
  GET /v1/stat?uri=s3://bucket/key
  GET /v1/list?uri=s3://bucket/prefix
  GET /v1/object?uri=s3://bucket/key`,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Bind host (defaults to config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Bind port (defaults to config)")
}

// clientChecker reports gateway health from the shared client handle.
type clientChecker struct {
	client s3client.Client
}

func (c clientChecker) CheckHealth(context.Context) error {
	if c.client == nil {
		return errors.New("storage client not initialized")
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := newClient(ctx)
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to connect to storage", err)
	}
	defer func() { _ = client.Close() }()

	host := runtimeCfg.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := runtimeCfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	srv := server.New(host, port,
		server.WithVersion(versionInfo.Version),
		server.WithTimeouts(
			runtimeCfg.Server.ReadTimeout,
			runtimeCfg.Server.WriteTimeout,
			runtimeCfg.Server.IdleTimeout,
			runtimeCfg.Server.ShutdownTimeout,
		),
		server.WithResolver(func(uri string) (*s3path.Path, error) {
			return s3path.New(uri,
				s3path.WithClient(client),
				s3path.WithRegion(runtimeCfg.Storage.Region),
				s3path.WithConfig(runtimeCfg.Storage.Transfer),
			)
		}),
	)
	srv.RegisterChecker("storage", clientChecker{client: client})

	if err := srv.Start(ctx); err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Server failed", err)
	}
	return nil
}
