package cli

import (
	"fmt"

	"lecture-studio/internal/pipeline"
	"lecture-studio/internal/timeline"

	"github.com/spf13/cobra"
)

func newRenderCommand(g *globalFlags) *cobra.Command {
	var (
		manifestPath string
		m            Manifest
		duration     float64
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a lecture video",
		Long: `Render a lecture video from a script and a narration audio file.
Inputs come from flags or from a YAML manifest (--manifest); flags override
manifest values. Without --duration the audio length is read with ffprobe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if manifestPath != "" {
				loaded, err := LoadManifest(manifestPath)
				if err != nil {
					return err
				}
				m = mergeManifest(*loaded, m)
			}
			if cmd.Flags().Changed("duration") {
				m.AudioDuration = &duration
			}
			if err := m.Validate(); err != nil {
				return err
			}
			script, err := m.ScriptText()
			if err != nil {
				return err
			}

			settings := g.settings()
			log := g.logger(cmd)
			ctx := cmd.Context()

			var total float64
			if m.AudioDuration != nil {
				total = *m.AudioDuration
			} else {
				total, err = timeline.FFProbe{Bin: settings.FFprobePath}.Duration(ctx, m.Audio)
				if err != nil {
					return fmt.Errorf("probe audio: %w", err)
				}
			}

			enc := timeline.FFmpegEncoder{Bin: settings.FFmpegPath, Log: log}
			p := pipeline.New(pipeline.ConfigFromSettings(settings), pipeline.GeneratorFromSettings(settings), enc, log)
			res, err := p.Run(ctx, pipeline.Request{
				Title:      m.Title,
				Script:     script,
				Audio:      timeline.AudioTrack{Path: m.Audio, Duration: total},
				OutputPath: m.Output,
				Style:      m.Style,
			}, func(ev pipeline.Event) {
				if ev.Err == nil {
					log.Info("stage complete", "stage", ev.Stage, "duration_ms", ev.Elapsed.Milliseconds())
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.VideoPath)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest describing the render")
	f.StringVar(&m.Title, "title", "", "lecture title")
	f.StringVar(&m.Script, "script", "", "narration script text")
	f.StringVar(&m.ScriptFile, "script-file", "", "file holding the narration script")
	f.StringVar(&m.Audio, "audio", "", "narration audio file")
	f.Float64Var(&duration, "duration", 0, "audio duration in seconds (skips ffprobe)")
	f.StringVarP(&m.Output, "output", "o", "", "output video path")
	f.StringVar(&m.Style, "style", "", "slide style: simple_text, slides_with_background or animated_text")
	return cmd
}

// mergeManifest overlays every non-empty field of flags onto base.
func mergeManifest(base, flags Manifest) Manifest {
	if flags.Title != "" {
		base.Title = flags.Title
	}
	if flags.Script != "" {
		base.Script, base.ScriptFile = flags.Script, ""
	}
	if flags.ScriptFile != "" {
		base.ScriptFile, base.Script = flags.ScriptFile, ""
	}
	if flags.Audio != "" {
		base.Audio = flags.Audio
	}
	if flags.AudioDuration != nil {
		base.AudioDuration = flags.AudioDuration
	}
	if flags.Output != "" {
		base.Output = flags.Output
	}
	if flags.Style != "" {
		base.Style = flags.Style
	}
	return base
}
