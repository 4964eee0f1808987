package cli

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"lecture-studio/internal/pipeline"
	"lecture-studio/internal/presenter"

	"github.com/spf13/cobra"
)

func newPresenterCommand(g *globalFlags) *cobra.Command {
	var (
		outDir string
		frames int
	)
	cmd := &cobra.Command{
		Use:   "presenter",
		Short: "Write the presenter animation frames as PNG files",
		Long: `Produce the presenter portrait (generated when an image API key is
configured, drawn otherwise) and write each animation frame to the output
directory as frame_NNN.png.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := g.settings()
			log := g.logger(cmd)
			if frames <= 0 {
				frames = settings.PresenterFrames
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			animator := presenter.NewAnimator(pipeline.GeneratorFromSettings(settings), presenter.Size, settings.ImageTimeout, log)
			anim, err := animator.Generate(cmd.Context(), frames)
			if err != nil {
				return err
			}
			for i, frame := range anim {
				if err := writePNG(filepath.Join(outDir, fmt.Sprintf("frame_%03d.png", i)), frame); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", len(anim), outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "presenter", "output directory")
	cmd.Flags().IntVar(&frames, "frames", 0, "frame count (default PRESENTER_FRAMES)")
	return cmd
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
