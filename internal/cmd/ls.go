package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/s3path/internal/observability"
)

var lsCmd = &cobra.Command{
	Use:   "ls <uri>",
	Short: "List a directory's immediate children",
	Long: `List the immediate children of a directory: child prefixes first,
then objects. Directory markers are never listed.

Examples:
  s3path ls s3://bucket/data/
  s3path ls -l s3://bucket/data/`,
	Args: cobra.ExactArgs(1),
	RunE: runLs,
}

var lsLong bool

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().BoolVarP(&lsLong, "long", "l", false, "Include type, size and modification time")
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, cleanup, err := newPath(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireAbs(p); err != nil {
		return err
	}

	children, err := p.Iterdir(ctx)
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to list directory", err)
	}

	out := cmd.OutOrStdout()
	if !lsLong {
		for child := range children {
			fmt.Fprintln(out, child.String())
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tSIZE\tMODIFIED\tPATH")
	for child := range children {
		info, err := child.Stat(ctx)
		if err != nil {
			observability.CLILogger.Warn("Failed to stat child",
				zap.String("path", child.String()), zap.Error(err))
			continue
		}
		kind, mtime := "file", ""
		if info.IsDir() {
			kind = "dir"
		}
		if !info.ModTime().IsZero() {
			mtime = info.ModTime().UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", kind, info.Size(), mtime, child.String())
	}
	return tw.Flush()
}
