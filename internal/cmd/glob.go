package cmd

import (
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/3leaps/s3path/pkg/s3path"
)

var globCmd = &cobra.Command{
	Use:   "glob <uri> <pattern>",
	Short: "Match children against a relative glob pattern",
	Long: `Match descendants of a directory against a relative glob pattern.
Supports wildcard segments and ** for recursive descent. Patterns must stay
inside the directory: no leading separator, no drive, no "..".

Examples:
  s3path glob s3://bucket/data '*.parquet'
  s3path glob s3://bucket/data '**/*.parquet'
  s3path glob s3://bucket/logs '2026-*/app-?.log' --case-insensitive`,
	Args: cobra.ExactArgs(2),
	RunE: runGlob,
}

var globCaseInsensitive bool

func init() {
	rootCmd.AddCommand(globCmd)
	globCmd.Flags().BoolVar(&globCaseInsensitive, "case-insensitive", false, "Ignore case when matching")
}

func runGlob(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, cleanup, err := newPath(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireAbs(p); err != nil {
		return err
	}

	var opts []s3path.GlobOption
	if globCaseInsensitive {
		opts = append(opts, s3path.CaseInsensitive())
	}

	matches, err := p.Glob(ctx, args[1], opts...)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid glob pattern", err)
	}

	out := cmd.OutOrStdout()
	for match := range matches {
		fmt.Fprintln(out, match.String())
	}
	return nil
}
