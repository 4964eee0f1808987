package cli

import (
	"encoding/json"
	"errors"
	"os"

	"lecture-studio/internal/lecture"

	"github.com/spf13/cobra"
)

func newSegmentsCommand(g *globalFlags) *cobra.Command {
	var (
		script     string
		scriptFile string
		duration   float64
		leadIn     float64
	)
	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Print the scheduled and classified segments as JSON",
		Long: `Split a script into segments, assign each its screen time for the given
audio duration and print the result with each segment's content type.
Nothing is rendered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := script
			if scriptFile != "" {
				data, err := os.ReadFile(scriptFile)
				if err != nil {
					return err
				}
				text = string(data)
			}
			if text == "" {
				return errors.New("--script or --script-file is required")
			}
			segs, err := lecture.Schedule(text, duration, leadIn)
			if err != nil {
				return err
			}
			lecture.ClassifyAll(segs)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(segs)
		},
	}
	f := cmd.Flags()
	f.StringVar(&script, "script", "", "narration script text")
	f.StringVar(&scriptFile, "script-file", "", "file holding the narration script")
	f.Float64Var(&duration, "duration", 0, "audio duration in seconds")
	f.Float64Var(&leadIn, "lead-in", lecture.DefaultLeadIn, "seconds reserved for the title card")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}
