package cli

import (
	"fmt"
	"time"

	"lecture-studio/internal/pipeline"

	"github.com/spf13/cobra"
)

func newCleanCommand(g *globalFlags) *cobra.Command {
	var maxAge time.Duration
	cmd := &cobra.Command{
		Use:   "clean [dir...]",
		Short: "Delete old files from the video directories",
		Long: `Delete regular files older than --max-age from each directory given,
or from OUTPUT_DIR when none is given. Subdirectories are left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := g.settings()
			if !cmd.Flags().Changed("max-age") {
				maxAge = settings.MaxFileAge
			}
			dirs := args
			if len(dirs) == 0 {
				dirs = []string{settings.OutputDir}
			}
			n, err := pipeline.CleanOldFiles(dirs, maxAge, time.Now(), g.logger(cmd))
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d files\n", n)
			return err
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "remove files older than this (default MAX_FILE_AGE)")
	return cmd
}
