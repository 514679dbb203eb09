package card

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
	imagepkg "github.com/youruser/cardgen/internal/image"
	"golang.org/x/image/font"
)

const (
	minFontSize = 8
	maxFontSize = 200
)

var (
	outline     = imagepkg.MustParseHex("#BFC85A22")
	shadowColor = imagepkg.MustParseHex("#000000dd")
)

// roundedBox adds a rounded rectangle to the current path. The radius is
// clamped so large values give a pill or a circle.
func roundedBox(dc *gg.Context, x, y, w, h, radius float64) {
	r := min(max(radius, 0), w/2, h/2)
	dc.NewSubPath()
	dc.MoveTo(x+r, y)
	dc.LineTo(x+w-r, y)
	dc.QuadraticTo(x+w, y, x+w, y+r)
	dc.LineTo(x+w, y+h-r)
	dc.QuadraticTo(x+w, y+h, x+w-r, y+h)
	dc.LineTo(x+r, y+h)
	dc.QuadraticTo(x, y+h, x, y+h-r)
	dc.LineTo(x, y+r)
	dc.QuadraticTo(x, y, x+r, y)
	dc.ClosePath()
}

// clipBox strokes a faint outline around a rounded box and clips to it.
// Callers restore the clip with Pop.
func clipBox(dc *gg.Context, x, y, w, h, radius float64) {
	dc.Push()
	roundedBox(dc, x, y, w, h, radius)
	dc.SetColor(outline)
	dc.SetLineWidth(1)
	dc.StrokePreserve()
	dc.Clip()
}

func fillRect(dc *gg.Context, x, y, w, h float64, c color.Color) {
	dc.SetColor(c)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
}

// text draws s with its baseline at y. ax is 0 for left, 0.5 for center
// and 1 for right alignment.
func text(dc *gg.Context, face font.Face, s string, x, y, ax float64, c color.Color) {
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawStringAnchored(s, x, y, ax, 0)
}

// shadowText draws s over a blurred drop shadow.
func shadowText(dc *gg.Context, face font.Face, s string, x, y, ax float64, c color.Color) {
	sc := gg.NewContext(dc.Width(), dc.Height())
	text(sc, face, s, x+1, y+1, ax, shadowColor)
	dc.DrawImage(imagepkg.Blur(sc.Image(), 7.5), 0, 0)

	text(dc, face, s, x, y, ax, c)
}

// fitFace returns a face for spec, shrunk until s is at most maxWidth wide.
func (b *FontBook) fitFace(spec FontSpec, s string, maxWidth float64) font.Face {
	size := min(spec.Size, maxFontSize)
	for {
		face := b.Face(spec.Family, size)
		w := float64(font.MeasureString(face, s)) / 64
		if w <= maxWidth || size <= minFontSize {
			return face
		}
		size = max(minFontSize, min(size-1, math.Floor(size*maxWidth/w)))
	}
}
