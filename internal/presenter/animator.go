// Package presenter produces the looping lecturer overlay shown beside
// every slide.
package presenter

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"math"
	"time"

	"lecture-studio/internal/imagegen"

	xdraw "golang.org/x/image/draw"
)

const (
	// DefaultFrameCount is the length of the animation loop.
	DefaultFrameCount = 60

	// FrameStride is how far the loop advances per segment.
	FrameStride = 10

	breathAmplitude = 0.01
	swayPixels      = 3.0

	portraitPrompt = "Friendly professional university lecturer, upper body portrait, " +
		"facing the camera, gesturing with one hand, plain light background, flat illustration"
)

// Size is the presenter panel, the left half of the frame.
var Size = image.Pt(960, 1080)

// Frames is the ordered animation loop. Frames are shared read-only.
type Frames []*image.RGBA

// At returns the frame shown for the segment at segmentIndex.
func (f Frames) At(segmentIndex int) *image.RGBA {
	if len(f) == 0 {
		return nil
	}
	return f[FrameIndex(segmentIndex, len(f))]
}

// FrameIndex is (segmentIndex * FrameStride) mod frameCount, never negative.
func FrameIndex(segmentIndex, frameCount int) int {
	if frameCount <= 0 {
		return 0
	}
	i := (segmentIndex * FrameStride) % frameCount
	if i < 0 {
		i += frameCount
	}
	return i
}

// Animator builds presenter frames from a generated or drawn portrait.
type Animator struct {
	gen     imagegen.Generator
	size    image.Point
	timeout time.Duration
	log     *slog.Logger
}

// NewAnimator returns an Animator drawing frames of size. A nil generator
// always uses the procedural portrait.
func NewAnimator(gen imagegen.Generator, size image.Point, timeout time.Duration, log *slog.Logger) *Animator {
	if gen == nil {
		gen = imagegen.Disabled{}
	}
	if size.X <= 0 || size.Y <= 0 {
		size = Size
	}
	if log == nil {
		log = slog.Default()
	}
	return &Animator{gen: gen, size: size, timeout: timeout, log: log}
}

// Portrait returns the base image and whether it came from the procedural
// illustrator. Generator failures are logged, never returned.
func (a *Animator) Portrait(ctx context.Context) (*image.RGBA, bool) {
	if !a.gen.Available() {
		return DrawPortrait(a.size), true
	}
	img, err := imagegen.Fetch(ctx, a.gen, portraitPrompt, a.timeout)
	if err != nil {
		a.log.Warn("presenter portrait generation failed, drawing procedurally",
			slog.String("error", err.Error()))
		return DrawPortrait(a.size), true
	}
	return fit(img, a.size), false
}

// Generate returns frameCount frames (DefaultFrameCount when <= 0).
func (a *Animator) Generate(ctx context.Context, frameCount int) (Frames, error) {
	if frameCount <= 0 {
		frameCount = DefaultFrameCount
	}
	base, _ := a.Portrait(ctx)
	return Animate(base, frameCount)
}

// Animate derives n frames from base: frame i is scaled by
// 1 + 0.01·sin(2πi/n), shifted horizontally by 3·sin(2πi/n) pixels and
// re-cropped to the original canvas.
func Animate(base *image.RGBA, n int) (Frames, error) {
	if base == nil {
		return nil, fmt.Errorf("presenter: nil base image")
	}
	if n <= 0 {
		return nil, fmt.Errorf("presenter: frame count must be positive, got %d", n)
	}
	frames := make(Frames, n)
	for i := range frames {
		phase := math.Sin(2 * math.Pi * float64(i) / float64(n))
		frames[i] = transform(base, 1+breathAmplitude*phase, swayPixels*phase)
	}
	return frames, nil
}

// transform scales base about its center and shifts it by dx, keeping the
// canvas size. Uncovered edges take the top-left pixel's color.
func transform(base *image.RGBA, scale, dx float64) *image.RGBA {
	b := base.Bounds()
	w, h := b.Dx(), b.Dy()
	sw := int(math.Round(float64(w) * scale))
	sh := int(math.Round(float64(h) * scale))

	scaled := image.NewRGBA(image.Rect(0, 0, sw, sh))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), base, b, xdraw.Src, nil)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(base.RGBAAt(b.Min.X, b.Min.Y)), image.Point{}, draw.Src)

	offset := image.Pt((sw-w)/2-int(math.Round(dx)), (sh-h)/2)
	draw.Draw(out, out.Bounds(), scaled, offset, draw.Src)
	return out
}

// fit scales a generated portrait to cover size.
func fit(img image.Image, size image.Point) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	scale := math.Max(float64(size.X)/float64(b.Dx()), float64(size.Y)/float64(b.Dy()))
	srcW := int(float64(size.X) / scale)
	srcH := int(float64(size.Y) / scale)
	x0 := b.Min.X + (b.Dx()-srcW)/2
	y0 := b.Min.Y + (b.Dy()-srcH)/2
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, image.Rect(x0, y0, x0+srcW, y0+srcH), xdraw.Src, nil)
	return dst
}
