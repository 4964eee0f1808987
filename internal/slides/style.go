package slides

import (
	"image/color"
	"strings"
)

// Style is the palette shared by every slide of one lecture.
type Style struct {
	Name       string
	Background color.RGBA
	Text       color.RGBA
	Muted      color.RGBA
	Accent     color.RGBA
}

var (
	SimpleText = Style{
		Name:       "simple_text",
		Background: color.RGBA{255, 255, 255, 255},
		Text:       color.RGBA{0, 0, 0, 255},
		Muted:      color.RGBA{110, 110, 110, 255},
		Accent:     color.RGBA{52, 152, 219, 255},
	}
	SlidesWithBackground = Style{
		Name:       "slides_with_background",
		Background: color.RGBA{240, 248, 255, 255},
		Text:       color.RGBA{0, 0, 139, 255},
		Muted:      color.RGBA{70, 90, 160, 255},
		Accent:     color.RGBA{230, 126, 34, 255},
	}
	AnimatedText = Style{
		Name:       "animated_text",
		Background: color.RGBA{245, 245, 245, 255},
		Text:       color.RGBA{50, 50, 50, 255},
		Muted:      color.RGBA{120, 120, 120, 255},
		Accent:     color.RGBA{155, 89, 182, 255},
	}
)

// StyleByName returns the preset called name, accepting the display forms
// ("Simple Text") as well. Unknown names get AnimatedText, matching the
// catch-all palette.
func StyleByName(name string) Style {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_") {
	case "", SimpleText.Name:
		return SimpleText
	case SlidesWithBackground.Name:
		return SlidesWithBackground
	default:
		return AnimatedText
	}
}

// Fixed palettes used by the strategies.
var (
	listPalette = []color.RGBA{
		{52, 152, 219, 255},
		{46, 204, 113, 255},
	}
	diagramPalette = []color.RGBA{
		{52, 152, 219, 255},
		{231, 76, 60, 255},
		{46, 204, 113, 255},
		{243, 156, 18, 255},
	}
	comparisonLeft  = color.RGBA{41, 128, 185, 255}
	comparisonRight = color.RGBA{192, 57, 43, 255}
	titleBackground = color.RGBA{25, 25, 112, 255}
)

// tint mixes c with white by f in [0, 1].
func tint(c color.RGBA, f float64) color.RGBA {
	mix := func(v uint8) uint8 { return uint8(float64(v) + (255-float64(v))*f) }
	return color.RGBA{mix(c.R), mix(c.G), mix(c.B), 255}
}
