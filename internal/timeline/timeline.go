// Package timeline concatenates clips, attaches the narration track and
// encodes the final video.
package timeline

import (
	"image"
	"image/draw"

	"lecture-studio/internal/compositor"
)

// AudioTrack is the narration attached to a timeline.
type AudioTrack struct {
	Path     string
	Duration float64
}

// Timeline is an ordered clip sequence with exactly one audio track.
type Timeline struct {
	Clips []compositor.Clip
	Audio AudioTrack
}

// New returns the timeline title, segments..., audio.
func New(title compositor.Clip, segments []compositor.Clip, audio AudioTrack) *Timeline {
	clips := make([]compositor.Clip, 0, len(segments)+1)
	clips = append(clips, title)
	clips = append(clips, segments...)
	return &Timeline{Clips: clips, Audio: audio}
}

// Duration is the sum of clip durations.
func (tl *Timeline) Duration() float64 {
	var d float64
	for _, c := range tl.Clips {
		d += c.Duration
	}
	return d
}

// Drift is how far the clip total is from the audio duration.
func (tl *Timeline) Drift() float64 {
	d := tl.Duration() - tl.Audio.Duration
	if d < 0 {
		return -d
	}
	return d
}

// Size is the largest clip canvas. Smaller clips are centered on it.
func (tl *Timeline) Size() image.Point {
	var size image.Point
	for _, c := range tl.Clips {
		size.X = max(size.X, c.Size.X)
		size.Y = max(size.Y, c.Size.Y)
	}
	return size
}

// FrameAt returns the composed frame at t seconds from the start. Times
// past the end hold the last frame. When no clip has a duration the first
// clip's opening frame is shown.
func (tl *Timeline) FrameAt(t float64) *image.RGBA {
	size := tl.Size()
	var start float64
	last := -1
	for i, c := range tl.Clips {
		if c.Duration <= 0 {
			continue
		}
		last = i
		if t < start+c.Duration {
			return onCanvas(c.Frame(t-start), size)
		}
		start += c.Duration
	}
	if last < 0 {
		if len(tl.Clips) > 0 && tl.Clips[0].Frame != nil {
			return onCanvas(tl.Clips[0].Frame(0), size)
		}
		return onCanvas(nil, size)
	}
	c := tl.Clips[last]
	return onCanvas(c.Frame(c.Duration), size)
}

// onCanvas centers img on a black canvas of size, returning img itself when
// it already is one.
func onCanvas(img image.Image, size image.Point) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect == image.Rect(0, 0, size.X, size.Y) {
		return rgba
	}
	canvas := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)
	if img == nil {
		return canvas
	}
	b := img.Bounds()
	off := image.Pt((size.X-b.Dx())/2, (size.Y-b.Dy())/2)
	draw.Draw(canvas, image.Rectangle{Min: off, Max: off.Add(b.Size())}, img, b.Min, draw.Src)
	return canvas
}
