// Package cli implements the lecturectl command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"lecture-studio/internal/platform/config"
	"lecture-studio/internal/platform/logger"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	envFile   string
	logLevel  string
	logFormat string
}

// settings loads the env file, if any, and returns the resolved settings.
func (g *globalFlags) settings() config.Settings {
	if g.envFile != "" {
		_ = config.Load(g.envFile)
	} else {
		_ = config.Load()
	}
	return config.FromEnv()
}

func (g *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	return logger.NewWriter(cmd.ErrOrStderr(), g.logLevel, g.logFormat)
}

// NewRootCommand builds the lecturectl command tree.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "lecturectl",
		Short: "Turn a narration script and its audio into a lecture video",
		Long: `lecturectl renders narrated lecture videos locally.
It splits a script into timed segments, draws a slide for each one next to an
animated presenter, and encodes the result with the narration audio using ffmpeg.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.envFile, "env-file", "", "load environment from this file instead of .env")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "text or json")

	root.AddCommand(newRenderCommand(g))
	root.AddCommand(newSegmentsCommand(g))
	root.AddCommand(newPresenterCommand(g))
	root.AddCommand(newCleanCommand(g))
	return root
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
