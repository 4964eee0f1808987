// Package compositor merges presenter frames with slides into timed clips
// and applies fade envelopes.
//
// A Clip's Frame function is a pure function of time over images captured
// at construction. Encoders may sample it out of order or concurrently.
package compositor

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

const (
	// DefaultFadeIn and DefaultFadeOut are the envelope lengths in seconds.
	DefaultFadeIn  = 0.5
	DefaultFadeOut = 0.5

	// DividerWidth is the solid bar between presenter and slide.
	DividerWidth = 6
	// ShadowWidth is the drop-shadow line right of the divider.
	ShadowWidth = 2
)

var (
	// CanvasSize is the output frame.
	CanvasSize = image.Pt(1920, 1080)

	dividerColor = color.RGBA{44, 62, 80, 255}
	shadowColor  = color.RGBA{0, 0, 0, 90}
)

// FrameFunc returns the image shown at t seconds into a clip.
type FrameFunc func(t float64) image.Image

// Clip is a duration-bounded, time-indexed image sequence.
type Clip struct {
	Frame    FrameFunc
	Duration float64
	HasAudio bool
	Size     image.Point
}

// Still returns a clip that shows img for duration seconds.
func Still(img image.Image, duration float64) Clip {
	return Clip{
		Frame:    func(float64) image.Image { return img },
		Duration: duration,
		Size:     img.Bounds().Size(),
	}
}

// Compose paints presenter into the left half and slide into the right half
// of a CanvasSize frame, separated by a divider with a drop shadow. Inputs
// that do not match their half are scaled to fit it.
func Compose(presenter, slide image.Image, duration float64) Clip {
	return Still(Merge(presenter, slide, CanvasSize), duration)
}

// Merge is the image half of Compose for an arbitrary canvas size.
func Merge(presenter, slide image.Image, size image.Point) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	half := size.X / 2

	paint(canvas, image.Rect(0, 0, half, size.Y), presenter)
	paint(canvas, image.Rect(half, 0, size.X, size.Y), slide)

	divider := image.Rect(half-DividerWidth/2, 0, half+DividerWidth-DividerWidth/2, size.Y)
	draw.Draw(canvas, divider, image.NewUniform(dividerColor), image.Point{}, draw.Src)
	shadow := image.Rect(divider.Max.X, 0, divider.Max.X+ShadowWidth, size.Y)
	draw.Draw(canvas, shadow, image.NewUniform(shadowColor), image.Point{}, draw.Over)
	return canvas
}

func paint(dst *image.RGBA, r image.Rectangle, src image.Image) {
	if src == nil {
		return
	}
	b := src.Bounds()
	if b.Size() == r.Size() {
		draw.Draw(dst, r, src, b.Min, draw.Src)
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, r, src, b, xdraw.Src, nil)
}

// ApplyFade wraps clip so its frames fade in from black over fadeIn seconds
// and out to black over the last fadeOut seconds. The duration is unchanged
// and clip itself is not modified.
func ApplyFade(clip Clip, fadeIn, fadeOut float64) Clip {
	inner := clip.Frame
	d := clip.Duration
	out := clip
	out.Frame = func(t float64) image.Image {
		img := inner(t)
		f := fadeFactor(t, d, fadeIn, fadeOut)
		if f >= 1 {
			return img
		}
		return scaleBrightness(img, f)
	}
	return out
}

// fadeFactor is the brightness multiplier at t in a clip of duration d.
// A clip with no duration is not faded.
func fadeFactor(t, d, fadeIn, fadeOut float64) float64 {
	if d <= 0 {
		return 1
	}
	f := 1.0
	if fadeIn > 0 && t < fadeIn {
		f = min(f, t/fadeIn)
	}
	if fadeOut > 0 && t > d-fadeOut {
		f = min(f, (d-t)/fadeOut)
	}
	return max(f, 0)
}

// scaleBrightness returns a copy of img with color channels multiplied by f.
// Alpha is kept.
func scaleBrightness(img image.Image, f float64) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(float64(out.Pix[i]) * f)
		out.Pix[i+1] = uint8(float64(out.Pix[i+1]) * f)
		out.Pix[i+2] = uint8(float64(out.Pix[i+2]) * f)
	}
	return out
}
