package timeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"lecture-studio/internal/compositor"
	"lecture-studio/internal/lecture"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func solid(size image.Point, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

type fakeEncoder struct {
	job    EncodeJob
	frames []*image.RGBA
	err    error
}

func (f *fakeEncoder) Encode(_ context.Context, job EncodeJob) error {
	f.job = job
	if f.err != nil {
		return f.err
	}
	for i := 0; i < job.Frames; i++ {
		f.frames = append(f.frames, job.Frame(i))
	}
	return os.WriteFile(job.OutputPath, []byte("mp4"), 0o644)
}

func newWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestTimeline_FrameAt(t *testing.T) {
	size := image.Pt(8, 4)
	tl := New(
		compositor.Still(solid(size, red), 1),
		[]compositor.Clip{
			compositor.Still(solid(size, green), 0),
			compositor.Still(solid(size, blue), 2),
		},
		AudioTrack{Duration: 3},
	)

	if got := tl.Duration(); got != 3 {
		t.Fatalf("Duration = %v", got)
	}
	if len(tl.Clips) != 3 {
		t.Fatalf("expected title plus 2 segments, got %d clips", len(tl.Clips))
	}

	cases := []struct {
		t    float64
		want color.RGBA
	}{
		{0, red},
		{0.99, red},
		{1, blue},
		{2.5, blue},
		{10, blue},
	}
	for _, c := range cases {
		if got := tl.FrameAt(c.t).RGBAAt(0, 0); got != c.want {
			t.Errorf("FrameAt(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestTimeline_centers_smaller_clips(t *testing.T) {
	tl := New(
		compositor.Still(solid(image.Pt(2, 2), red), 1),
		[]compositor.Clip{compositor.Still(solid(image.Pt(6, 4), blue), 1)},
		AudioTrack{},
	)
	if got := tl.Size(); got != image.Pt(6, 4) {
		t.Fatalf("Size = %v", got)
	}
	frame := tl.FrameAt(0)
	if frame.Rect.Size() != image.Pt(6, 4) {
		t.Fatalf("frame size %v", frame.Rect)
	}
	if got := frame.RGBAAt(0, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("border = %v, want black", got)
	}
	if got := frame.RGBAAt(2, 1); got != red {
		t.Errorf("center = %v, want red", got)
	}
}

func TestAssembler_Assemble(t *testing.T) {
	enc := &fakeEncoder{}
	ws := newWorkspace(t)
	out := filepath.Join(t.TempDir(), "videos", "intro_lecture")

	size := image.Pt(4, 4)
	path, err := NewAssembler(enc, 0, quietLogger()).Assemble(context.Background(),
		compositor.Still(solid(size, red), 0.5),
		[]compositor.Clip{compositor.Still(solid(size, blue), 1)},
		AudioTrack{Path: "narration.mp3", Duration: 1.5},
		out, ws)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if path != out+VideoExt {
		t.Errorf("path = %q, want %q", path, out+VideoExt)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output not written: %v", err)
	}

	if enc.job.FPS != FPS || enc.job.Frames != 36 {
		t.Errorf("job fps=%d frames=%d, want %d/36", enc.job.FPS, enc.job.Frames, FPS)
	}
	if enc.job.Workspace != ws || enc.job.AudioPath != "narration.mp3" {
		t.Errorf("unexpected job %+v", enc.job)
	}
	if got := enc.frames[11].RGBAAt(0, 0); got != red {
		t.Errorf("frame 11 = %v, want title", got)
	}
	if got := enc.frames[12].RGBAAt(0, 0); got != blue {
		t.Errorf("frame 12 = %v, want segment", got)
	}
}

func TestAssembler_Assemble_zero_duration(t *testing.T) {
	size := image.Pt(4, 4)
	enc := &fakeEncoder{}
	out, err := NewAssembler(enc, 0, quietLogger()).Assemble(context.Background(),
		compositor.Still(solid(size, red), 0),
		[]compositor.Clip{compositor.Still(solid(size, blue), 0)},
		AudioTrack{Path: "silence.mp3"}, filepath.Join(t.TempDir(), "x.mp4"), newWorkspace(t))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}
	if enc.job.Frames != 1 || len(enc.frames) != 1 {
		t.Fatalf("frames = %d, want a single frame", enc.job.Frames)
	}
	if got := enc.frames[0].RGBAAt(0, 0); got != red {
		t.Errorf("frame = %v, want the title", got)
	}
}

func TestAssembler_Assemble_errors(t *testing.T) {
	still := compositor.Still(solid(image.Pt(4, 4), red), 1)

	t.Run("encoder failure", func(t *testing.T) {
		enc := &fakeEncoder{err: errors.New("disk full")}
		_, err := NewAssembler(enc, 0, quietLogger()).Assemble(context.Background(),
			still, nil, AudioTrack{}, filepath.Join(t.TempDir(), "x.mp4"), newWorkspace(t))
		if !errors.Is(err, lecture.ErrAssembly) {
			t.Fatalf("expected ErrAssembly, got %v", err)
		}
		if !strings.Contains(err.Error(), "disk full") {
			t.Errorf("cause missing from %q", err)
		}
	})

	t.Run("empty timeline", func(t *testing.T) {
		_, err := NewAssembler(&fakeEncoder{}, 0, quietLogger()).Assemble(context.Background(),
			compositor.Clip{}, nil, AudioTrack{},
			filepath.Join(t.TempDir(), "x.mp4"), newWorkspace(t))
		if !errors.Is(err, lecture.ErrAssembly) {
			t.Fatalf("expected ErrAssembly, got %v", err)
		}
	})

	t.Run("closed workspace", func(t *testing.T) {
		ws := newWorkspace(t)
		ws.Close()
		_, err := NewAssembler(&fakeEncoder{}, 0, quietLogger()).Assemble(context.Background(),
			still, nil, AudioTrack{}, filepath.Join(t.TempDir(), "x.mp4"), ws)
		if !errors.Is(err, lecture.ErrAssembly) {
			t.Fatalf("expected ErrAssembly, got %v", err)
		}
	})
}

func TestWorkspace_Close(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir := ws.Dir()
	if err := os.WriteFile(ws.Path(tempAudio), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ws.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("workspace still exists: %v", err)
	}
	if err := ws.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestParseProbe(t *testing.T) {
	d, err := parseProbe([]byte(`{"format":{"filename":"a.mp3","duration":"12.480000"}}`))
	if err != nil || d != 12.48 {
		t.Fatalf("parseProbe = %v, %v", d, err)
	}
	for _, bad := range []string{`not json`, `{"format":{}}`, `{"format":{"duration":"-1"}}`} {
		if _, err := parseProbe([]byte(bad)); err == nil {
			t.Errorf("expected error for %s", bad)
		}
	}
}

func TestWriteFrames_padded_stride(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 4, 2)).SubImage(image.Rect(1, 0, 3, 2)).(*image.RGBA)
	shifted := &image.RGBA{Pix: frame.Pix, Stride: frame.Stride, Rect: image.Rect(0, 0, 2, 2)}
	for i := range shifted.Pix {
		shifted.Pix[i] = 7
	}

	var buf bytes.Buffer
	job := EncodeJob{Size: image.Pt(2, 2), Frames: 2, Frame: func(int) *image.RGBA { return shifted }}
	if err := writeFrames(&buf, job); err != nil {
		t.Fatalf("writeFrames: %v", err)
	}
	if buf.Len() != 2*2*2*4 {
		t.Errorf("wrote %d bytes, want %d", buf.Len(), 32)
	}

	job.Size = image.Pt(3, 3)
	if err := writeFrames(&buf, job); err == nil {
		t.Error("expected bounds error")
	}
}

func TestFFmpegEncoder_missing_workspace(t *testing.T) {
	closed := newWorkspace(t)
	closed.Close()
	for name, ws := range map[string]*Workspace{"nil": nil, "closed": closed} {
		t.Run(name, func(t *testing.T) {
			err := FFmpegEncoder{Log: quietLogger()}.Encode(context.Background(), EncodeJob{
				OutputPath: filepath.Join(t.TempDir(), "x.mp4"),
				Size:       image.Pt(16, 16),
				FPS:        FPS,
				Frames:     1,
				Workspace:  ws,
			})
			if !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("expected ErrNotExist, got %v", err)
			}
		})
	}
}

func TestFFmpegEncoder_Encode(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	out := filepath.Join(t.TempDir(), "clip.mp4")
	frame := solid(image.Pt(16, 16), blue)

	err := FFmpegEncoder{Log: quietLogger()}.Encode(context.Background(), EncodeJob{
		OutputPath: out,
		Size:       image.Pt(16, 16),
		FPS:        FPS,
		Frames:     FPS,
		Frame:      func(int) *image.RGBA { return frame },
		Workspace:  newWorkspace(t),
	})
	if err != nil {
		if strings.Contains(err.Error(), videoCodec) {
			t.Skipf("ffmpeg lacks %s: %v", videoCodec, err)
		}
		t.Fatalf("Encode: %v", err)
	}
	if _, err := os.Stat(out + ".partial"); !os.IsNotExist(err) {
		t.Error("partial file left behind")
	}

	if _, err := exec.LookPath("ffprobe"); err != nil {
		return
	}
	d, err := FFProbe{}.Duration(context.Background(), out)
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if d < 0.9 || d > 1.1 {
		t.Errorf("duration = %v, want about 1s", d)
	}
}
