package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"text/tabwriter"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat <uri>",
	Short: "Show whether a path is a file or directory, with size and mtime",
	Args:  cobra.ExactArgs(1),
	RunE:  runStat,
}

func init() {
	rootCmd.AddCommand(statCmd)
}

func runStat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, cleanup, err := newPath(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireAbs(p); err != nil {
		return err
	}

	info, err := p.Stat(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return exitError(foundry.ExitFileNotFound, "No such path", err)
		}
		return exitError(foundry.ExitExternalServiceUnavailable, "Stat failed", err)
	}

	kind := "file"
	if info.IsDir() {
		kind = "directory"
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Path:\t%s\n", p.String())
	fmt.Fprintf(tw, "Type:\t%s\n", kind)
	fmt.Fprintf(tw, "Size:\t%d\n", info.Size())
	if !info.ModTime().IsZero() {
		fmt.Fprintf(tw, "Modified:\t%s\n", info.ModTime().UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}
