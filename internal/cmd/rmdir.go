package cmd

import (
	"errors"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/3leaps/s3path/pkg/s3path"
)

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <uri>",
	Short: "Remove an empty directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runRmdir,
}

func init() {
	rootCmd.AddCommand(rmdirCmd)
}

func runRmdir(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, cleanup, err := newPath(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireAbs(p); err != nil {
		return err
	}

	if err := p.Rmdir(ctx); err != nil {
		switch {
		case errors.Is(err, s3path.ErrNotEmpty):
			return exitError(foundry.ExitInvalidArgument, "Directory not empty", err)
		case errors.Is(err, s3path.ErrNotADirectory):
			return exitError(foundry.ExitInvalidArgument, "Not a directory", err)
		default:
			return exitError(foundry.ExitExternalServiceUnavailable, "Rmdir failed", err)
		}
	}
	return nil
}
