package cmd

import (
	"io"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/s3path/internal/observability"
)

var putCmd = &cobra.Command{
	Use:   "put <uri> [file]",
	Short: "Upload a file or stdin to an object",
	Long: `Upload to an object. With a file argument the file is streamed;
without one, stdin is. The object becomes visible only once the upload
completes.

Examples:
  s3path put s3://bucket/data/report.csv report.csv
  tar czf - logs/ | s3path put s3://bucket/backups/logs.tgz`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPut,
}

func init() {
	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, cleanup, err := newPath(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireAbs(p); err != nil {
		return err
	}

	var src io.Reader = cmd.InOrStdin()
	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			return exitError(foundry.ExitFileReadError, "Cannot open input file", err)
		}
		defer func() { _ = f.Close() }()
		src = f
	}

	uploadID := uuid.New().String()
	observability.CLILogger.Debug("Starting upload",
		zap.String("upload_id", uploadID),
		zap.String("path", p.String()))

	w, err := p.Open(ctx, "w")
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Open for write failed", err)
	}

	n, err := io.Copy(w, src)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return exitError(foundry.ExitFileWriteError, "Upload failed", err)
	}

	observability.CLILogger.Info("Upload complete",
		zap.String("upload_id", uploadID),
		zap.String("path", p.String()),
		zap.Int64("bytes", n))
	return nil
}
