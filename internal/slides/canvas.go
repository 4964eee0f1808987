package slides

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontsOnce   sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
	fontsErr    error
)

// loadFonts parses the embedded Go fonts once. Parsed fonts are read-only
// and shared; faces are not, so each canvas builds its own.
func loadFonts() error {
	fontsOnce.Do(func() {
		if regularFont, fontsErr = truetype.Parse(goregular.TTF); fontsErr != nil {
			fontsErr = fmt.Errorf("parse regular font: %w", fontsErr)
			return
		}
		if boldFont, fontsErr = truetype.Parse(gobold.TTF); fontsErr != nil {
			fontsErr = fmt.Errorf("parse bold font: %w", fontsErr)
		}
	})
	return fontsErr
}

// canvas is a gg context plus the layout unit for one slide.
type canvas struct {
	*gg.Context
	w, h  float64
	u     float64 // one pixel at 1080 lines
	style Style
}

func newCanvas(size image.Point, style Style) (*canvas, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	dc := gg.NewContext(size.X, size.Y)
	dc.SetColor(style.Background)
	dc.Clear()
	return &canvas{
		Context: dc,
		w:       float64(size.X),
		h:       float64(size.Y),
		u:       float64(size.Y) / 1080,
		style:   style,
	}, nil
}

func (c *canvas) regular(points float64) {
	c.SetFontFace(newFace(regularFont, points*c.u))
}

func (c *canvas) bold(points float64) {
	c.SetFontFace(newFace(boldFont, points*c.u))
}

func newFace(f *truetype.Font, size float64) font.Face {
	if size < 4 {
		size = 4
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
}

// heading draws the slide title and the accent underline, returning the y
// coordinate where content may start.
func (c *canvas) heading(title string) float64 {
	margin := 60 * c.u
	c.bold(56)
	c.SetColor(c.style.Text)
	c.DrawStringAnchored(title, margin, margin+28*c.u, 0, 0.5)
	c.SetColor(c.style.Accent)
	c.DrawRectangle(margin, margin+70*c.u, 160*c.u, 8*c.u)
	c.Fill()
	return margin + 120*c.u
}

// paragraph wraps text to width and draws at most maxLines lines starting at
// (x, y), ending with an ellipsis when truncated. It returns the y below the
// last line.
func (c *canvas) paragraph(text string, x, y, width float64, maxLines int) float64 {
	lines := c.WordWrap(text, width)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = ellipsize(c, lines[maxLines-1], width)
	}
	lineHeight := c.FontHeight() * 1.35
	for _, line := range lines {
		c.DrawStringAnchored(line, x, y, 0, 1)
		y += lineHeight
	}
	return y
}

// centered draws wrapped text centered on (cx, cy) within width.
func (c *canvas) centered(text string, cx, cy, width float64, maxLines int) {
	lines := c.WordWrap(text, width)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = ellipsize(c, lines[maxLines-1], width)
	}
	lineHeight := c.FontHeight() * 1.3
	y := cy - lineHeight*float64(len(lines)-1)/2
	for _, line := range lines {
		c.DrawStringAnchored(line, cx, y, 0.5, 0.5)
		y += lineHeight
	}
}

func ellipsize(c *canvas, line string, width float64) string {
	for {
		candidate := strings.TrimSpace(line) + "…"
		if w, _ := c.MeasureString(candidate); w <= width || len(line) <= 1 {
			return candidate
		}
		runes := []rune(line)
		line = string(runes[:len(runes)-1])
	}
}

// arrow draws a line from (x1, y1) to (x2, y2) with a filled head.
func (c *canvas) arrow(x1, y1, x2, y2 float64) {
	c.DrawLine(x1, y1, x2, y2)
	c.Stroke()
	head := 14 * c.u
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length
	c.MoveTo(x2, y2)
	c.LineTo(x2-ux*head-uy*head*0.6, y2-uy*head+ux*head*0.6)
	c.LineTo(x2-ux*head+uy*head*0.6, y2-uy*head-ux*head*0.6)
	c.ClosePath()
	c.Fill()
}

// badge draws a filled circle with a centered number.
func (c *canvas) badge(n int, cx, cy, r float64, fill color.Color) {
	c.SetColor(fill)
	c.DrawCircle(cx, cy, r)
	c.Fill()
	c.SetColor(color.White)
	c.bold(r * 1.1 / c.u)
	c.DrawStringAnchored(fmt.Sprint(n), cx, cy, 0.5, 0.35)
}

func (c *canvas) rgba() *image.RGBA {
	return toRGBA(c.Image())
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
