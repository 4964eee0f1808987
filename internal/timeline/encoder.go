package timeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const (
	// FPS is the output frame rate.
	FPS = 24
	// VideoExt is the output container extension.
	VideoExt = ".mp4"

	videoCodec = "libx264"
	audioCodec = "aac"
	tempAudio  = "temp-audio.m4a"
)

// EncodeJob describes one encode. Frame is called once per index in order.
type EncodeJob struct {
	OutputPath string
	AudioPath  string
	Size       image.Point
	FPS        int
	Frames     int
	Frame      func(i int) *image.RGBA
	// Workspace holds intermediate files such as the transcoded audio.
	Workspace *Workspace
}

// Duration is the video length in seconds.
func (j EncodeJob) Duration() float64 {
	if j.FPS <= 0 {
		return 0
	}
	return float64(j.Frames) / float64(j.FPS)
}

// Encoder writes an EncodeJob to its output path.
type Encoder interface {
	Encode(ctx context.Context, job EncodeJob) error
}

// FFmpegEncoder pipes raw RGBA frames into ffmpeg and muxes the narration
// as AAC. The result is written next to the output and renamed into place
// only on success.
type FFmpegEncoder struct {
	Bin string
	Log *slog.Logger
}

func (e FFmpegEncoder) bin() string {
	if e.Bin == "" {
		return "ffmpeg"
	}
	return e.Bin
}

func (e FFmpegEncoder) logger() *slog.Logger {
	if e.Log == nil {
		return slog.Default()
	}
	return e.Log
}

func (e FFmpegEncoder) Encode(ctx context.Context, job EncodeJob) error {
	if job.Frames <= 0 || job.Size.X <= 0 || job.Size.Y <= 0 {
		return fmt.Errorf("nothing to encode: %d frames at %v", job.Frames, job.Size)
	}
	if job.Workspace == nil {
		return fmt.Errorf("no workspace: %w", os.ErrNotExist)
	}
	if info, err := os.Stat(job.Workspace.Dir()); err != nil || !info.IsDir() {
		return fmt.Errorf("workspace %q unavailable: %w", job.Workspace.Dir(), errors.Join(err, os.ErrNotExist))
	}

	audio := ""
	if job.AudioPath != "" {
		audio = job.Workspace.Path(tempAudio)
		defer os.Remove(audio)
		if err := e.run(ctx, nil, "-y", "-v", "error", "-i", job.AudioPath, "-vn", "-c:a", audioCodec, "-b:a", "192k", audio); err != nil {
			return fmt.Errorf("transcode audio: %w", err)
		}
	}

	partial := job.OutputPath + ".partial"
	defer os.Remove(partial)

	args := []string{
		"-y", "-v", "error",
		"-f", "rawvideo", "-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", job.Size.X, job.Size.Y),
		"-r", strconv.Itoa(job.FPS),
		"-i", "pipe:0",
	}
	if audio != "" {
		args = append(args, "-i", audio, "-map", "0:v", "-map", "1:a", "-c:a", "copy")
	}
	args = append(args,
		"-c:v", videoCodec, "-pix_fmt", "yuv420p",
		"-t", strconv.FormatFloat(job.Duration(), 'f', 3, 64),
		"-movflags", "+faststart",
		"-f", "mp4", partial,
	)

	if err := e.run(ctx, &job, args...); err != nil {
		return fmt.Errorf("encode video: %w", err)
	}
	if err := os.Rename(partial, job.OutputPath); err != nil {
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}

// run executes ffmpeg. When job is set its frames are streamed on stdin.
func (e FFmpegEncoder) run(ctx context.Context, job *EncodeJob, args ...string) error {
	cmd := exec.CommandContext(ctx, e.bin(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if job == nil {
		if err := cmd.Run(); err != nil {
			return ffmpegError(err, &stderr)
		}
		return nil
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	writeErr := writeFrames(stdin, *job)
	closeErr := stdin.Close()
	if err := cmd.Wait(); err != nil {
		return ffmpegError(err, &stderr)
	}
	if err := errors.Join(writeErr, closeErr); err != nil {
		return err
	}
	e.logger().Debug("ffmpeg finished", slog.Int("frames", job.Frames), slog.String("output", job.OutputPath))
	return nil
}

func writeFrames(w io.Writer, job EncodeJob) error {
	rowBytes := job.Size.X * 4
	for i := 0; i < job.Frames; i++ {
		frame := job.Frame(i)
		if frame == nil || frame.Rect.Size() != job.Size {
			return fmt.Errorf("frame %d: unexpected bounds", i)
		}
		if frame.Stride == rowBytes {
			if _, err := w.Write(frame.Pix[:rowBytes*job.Size.Y]); err != nil {
				return fmt.Errorf("write frame %d: %w", i, err)
			}
			continue
		}
		for y := 0; y < job.Size.Y; y++ {
			off := y * frame.Stride
			if _, err := w.Write(frame.Pix[off : off+rowBytes]); err != nil {
				return fmt.Errorf("write frame %d: %w", i, err)
			}
		}
	}
	return nil
}

func ffmpegError(err error, stderr *bytes.Buffer) error {
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, msg)
}
