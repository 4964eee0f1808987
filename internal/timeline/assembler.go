package timeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"lecture-studio/internal/compositor"
	"lecture-studio/internal/lecture"
)

// Assembler turns a timeline into a video file.
type Assembler struct {
	enc Encoder
	fps int
	log *slog.Logger
}

// NewAssembler returns an Assembler encoding at fps (FPS when <= 0).
func NewAssembler(enc Encoder, fps int, log *slog.Logger) *Assembler {
	if fps <= 0 {
		fps = FPS
	}
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{enc: enc, fps: fps, log: log}
}

// Assemble concatenates title and segments in order, attaches audio and
// encodes to outputPath, which gains VideoExt if it lacks it. Every
// failure wraps lecture.ErrAssembly.
func (a *Assembler) Assemble(ctx context.Context, title compositor.Clip, segments []compositor.Clip,
	audio AudioTrack, outputPath string, ws *Workspace) (string, error) {
	return a.Encode(ctx, New(title, segments, audio), outputPath, ws)
}

// Encode renders an already built timeline.
func (a *Assembler) Encode(ctx context.Context, tl *Timeline, outputPath string, ws *Workspace) (string, error) {
	if ws == nil || ws.Dir() == "" {
		return "", fmt.Errorf("%w: no workspace", lecture.ErrAssembly)
	}
	if outputPath == "" {
		return "", fmt.Errorf("%w: empty output path", lecture.ErrAssembly)
	}
	if !strings.EqualFold(filepath.Ext(outputPath), VideoExt) {
		outputPath += VideoExt
	}

	total := tl.Duration()
	size := tl.Size()
	if len(tl.Clips) == 0 || size.X <= 0 || size.Y <= 0 {
		return "", fmt.Errorf("%w: empty timeline (%.3fs, %v)", lecture.ErrAssembly, total, size)
	}
	// Narration shorter than one frame still yields a single title frame.
	frames := max(int(math.Round(total*float64(a.fps))), 1)
	if limit := maxClip(tl.Clips); tl.Audio.Duration > 0 && tl.Drift() > limit {
		a.log.Warn("timeline and narration lengths differ",
			slog.Float64("video_seconds", total), slog.Float64("audio_seconds", tl.Audio.Duration))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", lecture.ErrAssembly, err)
	}

	fps := float64(a.fps)
	job := EncodeJob{
		OutputPath: outputPath,
		AudioPath:  tl.Audio.Path,
		Size:       size,
		FPS:        a.fps,
		Frames:     frames,
		Frame:      func(i int) *image.RGBA { return tl.FrameAt(float64(i) / fps) },
		Workspace:  ws,
	}

	a.log.Info("encoding video",
		slog.Int("clips", len(tl.Clips)), slog.Int("frames", frames), slog.String("output", outputPath))
	if err := a.enc.Encode(ctx, job); err != nil {
		return "", fmt.Errorf("%w: %w", lecture.ErrAssembly, err)
	}
	return outputPath, nil
}

func maxClip(clips []compositor.Clip) float64 {
	var m float64
	for _, c := range clips {
		m = max(m, c.Duration)
	}
	return m
}
