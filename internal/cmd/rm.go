package cmd

import (
	"errors"
	"io/fs"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/3leaps/s3path/pkg/s3path"
)

var rmCmd = &cobra.Command{
	Use:   "rm <uri>",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var rmMissingOK bool

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().BoolVar(&rmMissingOK, "missing-ok", false, "Succeed if the object does not exist")
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, cleanup, err := newPath(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireAbs(p); err != nil {
		return err
	}

	if err := p.Unlink(ctx, rmMissingOK); err != nil {
		switch {
		case errors.Is(err, s3path.ErrIsADirectory):
			return exitError(foundry.ExitInvalidArgument, "Path is a directory, use rmdir", err)
		case errors.Is(err, fs.ErrNotExist):
			return exitError(foundry.ExitFileNotFound, "No such object", err)
		default:
			return exitError(foundry.ExitExternalServiceUnavailable, "Delete failed", err)
		}
	}
	return nil
}
