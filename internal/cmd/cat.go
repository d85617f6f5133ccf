package cmd

import (
	"errors"
	"io"
	"io/fs"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <uri>",
	Short: "Stream an object to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, cleanup, err := newPath(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireAbs(p); err != nil {
		return err
	}

	f, err := p.Open(ctx, "r")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return exitError(foundry.ExitFileNotFound, "No such object", err)
		}
		return exitError(foundry.ExitExternalServiceUnavailable, "Open failed", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(cmd.OutOrStdout(), f); err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Read failed", err)
	}
	return nil
}
