package cmd

import (
	"errors"
	"io/fs"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <uri>",
	Short: "Create a directory marker",
	Args:  cobra.ExactArgs(1),
	RunE:  runMkdir,
}

var mkdirExistOK bool

func init() {
	rootCmd.AddCommand(mkdirCmd)
	mkdirCmd.Flags().BoolVar(&mkdirExistOK, "exist-ok", false, "Succeed if the directory already exists")
}

func runMkdir(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, cleanup, err := newPath(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireAbs(p); err != nil {
		return err
	}

	if err := p.Mkdir(ctx, mkdirExistOK); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return exitError(foundry.ExitInvalidArgument, "Directory already exists", err)
		}
		return exitError(foundry.ExitExternalServiceUnavailable, "Mkdir failed", err)
	}
	return nil
}
