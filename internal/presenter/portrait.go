package presenter

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

var (
	backdrop  = color.RGBA{236, 240, 245, 255}
	skin      = color.RGBA{241, 194, 160, 255}
	hair      = color.RGBA{74, 52, 38, 255}
	jacket    = color.RGBA{44, 62, 80, 255}
	shirt     = color.RGBA{250, 250, 250, 255}
	eyeWhite  = color.RGBA{255, 255, 255, 255}
	pupil     = color.RGBA{40, 40, 40, 255}
	mouth     = color.RGBA{160, 60, 60, 255}
	cheek     = color.RGBA{235, 150, 140, 255}
	pointerOn = color.RGBA{230, 126, 34, 255}
)

// DrawPortrait illustrates a lecturer from primitives only: head ellipse,
// hair arc, eyes, smile arc, body polygon and gesturing arms. It needs no
// fonts or network and always succeeds.
func DrawPortrait(size image.Point) *image.RGBA {
	dc := gg.NewContext(size.X, size.Y)
	w, h := float64(size.X), float64(size.Y)

	dc.SetColor(backdrop)
	dc.Clear()

	headX, headY := w/2, h*0.30
	headRX, headRY := w*0.16, h*0.12

	// Body: trapezoid torso under the head with a shirt collar.
	shoulderY := headY + headRY + h*0.06
	dc.SetColor(jacket)
	dc.MoveTo(w*0.22, h)
	dc.LineTo(w*0.28, shoulderY)
	dc.LineTo(w*0.72, shoulderY)
	dc.LineTo(w*0.78, h)
	dc.ClosePath()
	dc.Fill()

	dc.SetColor(shirt)
	dc.MoveTo(w*0.44, shoulderY)
	dc.LineTo(w*0.56, shoulderY)
	dc.LineTo(w/2, shoulderY+h*0.10)
	dc.ClosePath()
	dc.Fill()

	// Neck.
	dc.SetColor(skin)
	dc.DrawRectangle(w*0.45, headY+headRY*0.7, w*0.10, shoulderY-headY-headRY*0.7)
	dc.Fill()

	// Arms: the left rests, the right is raised toward the slide.
	dc.SetLineCapRound()
	dc.SetColor(jacket)
	dc.SetLineWidth(w * 0.07)
	dc.DrawLine(w*0.28, shoulderY+h*0.03, w*0.20, h*0.78)
	dc.Stroke()
	dc.DrawLine(w*0.72, shoulderY+h*0.03, w*0.86, h*0.55)
	dc.Stroke()
	dc.DrawLine(w*0.86, h*0.55, w*0.90, h*0.44)
	dc.Stroke()

	dc.SetColor(skin)
	dc.DrawCircle(w*0.20, h*0.79, w*0.04)
	dc.Fill()
	dc.DrawCircle(w*0.905, h*0.425, w*0.04)
	dc.Fill()

	dc.SetColor(pointerOn)
	dc.SetLineWidth(w * 0.012)
	dc.DrawLine(w*0.91, h*0.42, w*0.97, h*0.33)
	dc.Stroke()

	// Head.
	dc.SetColor(skin)
	dc.DrawEllipse(headX, headY, headRX, headRY)
	dc.Fill()

	// Hair arc over the top of the head.
	dc.SetColor(hair)
	dc.DrawEllipticalArc(headX, headY-headRY*0.15, headRX*1.05, headRY*0.95, gg.Radians(180), gg.Radians(360))
	dc.ClosePath()
	dc.Fill()

	// Eyes.
	eyeY := headY + headRY*0.05
	for _, dx := range []float64{-0.4, 0.4} {
		ex := headX + headRX*dx
		dc.SetColor(eyeWhite)
		dc.DrawEllipse(ex, eyeY, headRX*0.16, headRY*0.11)
		dc.Fill()
		dc.SetColor(pupil)
		dc.DrawCircle(ex, eyeY, headRX*0.07)
		dc.Fill()
	}

	// Cheeks and smile arc.
	dc.SetColor(cheek)
	dc.DrawCircle(headX-headRX*0.55, headY+headRY*0.35, headRX*0.10)
	dc.Fill()
	dc.DrawCircle(headX+headRX*0.55, headY+headRY*0.35, headRX*0.10)
	dc.Fill()

	dc.SetColor(mouth)
	dc.SetLineWidth(w * 0.008)
	dc.DrawArc(headX, headY+headRY*0.30, headRX*0.40, gg.Radians(20), gg.Radians(160))
	dc.Stroke()

	return dc.Image().(*image.RGBA)
}
