// Package cmd implements the s3path CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appconfig "github.com/3leaps/s3path/internal/config"
	"github.com/3leaps/s3path/internal/observability"
	"github.com/3leaps/s3path/pkg/s3client"
	awsclient "github.com/3leaps/s3path/pkg/s3client/aws"
	minioclient "github.com/3leaps/s3path/pkg/s3client/minio"
	"github.com/3leaps/s3path/pkg/s3path"
)

// versionInfo holds build-time version metadata, injected via SetVersionInfo
// from main.
var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "HEAD",
	BuildDate: "unknown",
}

// SetVersionInfo records build metadata for the version command and the
// gateway's version endpoint.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var (
	cfgFile      string
	logLevel     string
	logFormat    string
	profilesFile string
	profileName  string

	flagBackend   string
	flagRegion    string
	flagEndpoint  string
	flagProfile   string
	flagPathStyle bool
)

// runtimeCfg is the merged configuration available to all commands after
// PersistentPreRunE.
var runtimeCfg *appconfig.Config

var rootCmd = &cobra.Command{
	Use:   "s3path",
	Short: "Filesystem-style paths over S3-compatible object storage",
	Long: `s3path treats s3://bucket/key URIs as filesystem paths: list, stat,
read, write, glob, and manage directory markers on any S3-compatible store.

Examples:
  s3path ls s3://bucket/data/
  s3path stat s3://bucket/data/file.parquet
  s3path cat s3://bucket/logs/app.log
  s3path glob s3://bucket/data '**/*.parquet'
  s3path serve --port 8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return exitError(foundry.ExitInvalidArgument, "Invalid configuration", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if logFormat != "" {
			cfg.Logging.Format = logFormat
		}
		if err := observability.InitLogging(cfg.Logging.Level, cfg.Logging.Format); err != nil {
			return exitError(foundry.ExitInvalidArgument, "Invalid logging configuration", err)
		}

		if err := applyConnectionFlags(cfg); err != nil {
			return err
		}
		runtimeCfg = cfg
		return nil
	},
}

// applyConnectionFlags layers the named profile and per-invocation flags over
// the loaded configuration, flags winning.
func applyConnectionFlags(cfg *appconfig.Config) error {
	if profileName != "" {
		if profilesFile == "" {
			return exitError(foundry.ExitInvalidArgument, "Missing profiles file",
				fmt.Errorf("--profile-name requires --profiles"))
		}
		profiles, err := appconfig.LoadProfiles(profilesFile)
		if err != nil {
			return exitError(foundry.ExitFileReadError, "Failed to load profiles", err)
		}
		p, ok := profiles[profileName]
		if !ok {
			return exitError(foundry.ExitInvalidArgument, "Unknown profile",
				fmt.Errorf("profile %q not defined in %s", profileName, profilesFile))
		}
		if p.Backend != "" {
			cfg.Storage.Backend = p.Backend
		}
		if p.Endpoint != "" {
			cfg.Storage.Endpoint = p.Endpoint
		}
		if p.Region != "" {
			cfg.Storage.Region = p.Region
		}
		if p.PathStyle {
			cfg.Storage.PathStyle = true
		}
		storageCreds = credentials{accessKey: p.AccessKey, secretKey: p.SecretKey}
	}

	if flagBackend != "" {
		cfg.Storage.Backend = flagBackend
	}
	if flagRegion != "" {
		cfg.Storage.Region = flagRegion
	}
	if flagEndpoint != "" {
		cfg.Storage.Endpoint = flagEndpoint
	}
	if flagProfile != "" {
		cfg.Storage.Profile = flagProfile
	}
	if flagPathStyle {
		cfg.Storage.PathStyle = true
	}
	return cfg.Validate()
}

type credentials struct {
	accessKey string
	secretKey string
}

var storageCreds credentials

// newClient builds the storage client from the merged configuration.
func newClient(ctx context.Context) (s3client.Client, error) {
	st := runtimeCfg.Storage
	switch st.Backend {
	case "minio":
		return minioclient.New(minioclient.Options{
			Endpoint:  st.Endpoint,
			AccessKey: storageCreds.accessKey,
			SecretKey: storageCreds.secretKey,
			Region:    st.Region,
			Transfer:  st.Transfer,
		})
	default:
		return awsclient.New(ctx, awsclient.Options{
			Region:          st.Region,
			Endpoint:        st.Endpoint,
			Profile:         st.Profile,
			AccessKeyID:     storageCreds.accessKey,
			SecretAccessKey: storageCreds.secretKey,
			ForcePathStyle:  st.PathStyle,
			ListRateLimit:   st.ListRateLimit,
			Transfer:        st.Transfer,
		})
	}
}

// newPath builds a path node bound to a fresh client. The returned cleanup
// closes the client.
func newPath(ctx context.Context, uri string) (*s3path.Path, func(), error) {
	client, err := newClient(ctx)
	if err != nil {
		return nil, nil, exitError(foundry.ExitExternalServiceUnavailable, "Failed to connect to storage", err)
	}
	p, err := s3path.New(uri,
		s3path.WithClient(client),
		s3path.WithRegion(runtimeCfg.Storage.Region),
		s3path.WithConfig(runtimeCfg.Storage.Transfer),
	)
	if err != nil {
		_ = client.Close()
		return nil, nil, exitError(foundry.ExitInvalidArgument, "Invalid URI", err)
	}
	return p, func() { _ = client.Close() }, nil
}

// requireAbs rejects bucket-less URIs before any backend call.
func requireAbs(p *s3path.Path) error {
	if !p.IsAbs() {
		return exitError(foundry.ExitInvalidArgument, "Invalid URI",
			fmt.Errorf("expected s3://bucket/key, got %q", p.String()))
	}
	return nil
}

// codedError carries the process exit code alongside the cause.
type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// exitError creates an error that will cause the CLI to exit with the given code.
func exitError(code int, message string, err error) error {
	return &codedError{code: code, err: fmt.Errorf("%s: %w", message, err)}
}

// ExitWithCode logs the error and terminates the process.
func ExitWithCode(logger *zap.Logger, code int, message string, err error) {
	logger.Error(message, zap.Error(err))
	observability.Sync()
	os.Exit(code)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&profilesFile, "profiles", "", "Connection profiles file (YAML)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile-name", "", "Named connection profile to use")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend (aws, minio)")
	rootCmd.PersistentFlags().StringVarP(&flagRegion, "region", "r", "", "Bucket region")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "Custom S3 endpoint")
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "AWS shared-config profile")
	rootCmd.PersistentFlags().BoolVar(&flagPathStyle, "path-style", false, "Force path-style addressing")
}

// Execute runs the CLI.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ExitWithCode(observability.CLILogger, exitCodeFor(err), "Command failed", err)
	}
}

// exitCodeFor extracts the exit code attached by exitError, defaulting to 1.
func exitCodeFor(err error) int {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}
