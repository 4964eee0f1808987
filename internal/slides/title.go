package slides

import (
	"image"
	"image/color"
	"strings"
)

const titleColumns = 30

// RenderTitle draws the opening card: the title wrapped at 30 columns,
// white on navy, centered.
func RenderTitle(title string, size image.Point) (*image.RGBA, error) {
	if size.X <= 0 || size.Y <= 0 {
		size = FullSize
	}
	c, err := newCanvas(size, Style{Name: "title", Background: titleBackground})
	if err != nil {
		return nil, err
	}

	c.bold(80)
	c.SetColor(color.White)
	lines := wrapColumns(title, titleColumns)
	lineHeight := c.FontHeight() * 1.3
	y := c.h/2 - lineHeight*float64(len(lines)-1)/2
	for _, line := range lines {
		c.DrawStringAnchored(line, c.w/2, y, 0.5, 0.5)
		y += lineHeight
	}

	if strings.TrimSpace(title) != "" {
		c.SetColor(color.RGBA{255, 255, 255, 120})
		c.DrawRectangle(c.w/2-120*c.u, y+10*c.u, 240*c.u, 6*c.u)
		c.Fill()
	}
	return c.rgba(), nil
}
