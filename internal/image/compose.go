package imagepkg

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// Fill scales and crops img to exactly w x h around its center.
func Fill(img image.Image, w, h int) *image.NRGBA {
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}

// Stretch scales img to w x h, ignoring its aspect ratio.
func Stretch(img image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Blur is used for text shadows.
func Blur(img image.Image, sigma float64) *image.NRGBA {
	if sigma <= 0 {
		return imaging.Clone(img)
	}
	return imaging.Blur(img, sigma)
}

// EraseCircle clears the disc at (cx, cy) with radius r, like a
// destination-out composite.
func EraseCircle(dst draw.Image, cx, cy, r float64) {
	b := dst.Bounds()
	mc := gg.NewContext(b.Dx(), b.Dy())
	mc.SetFillRuleEvenOdd()
	mc.DrawRectangle(0, 0, float64(b.Dx()), float64(b.Dy()))
	mc.DrawCircle(cx-float64(b.Min.X), cy-float64(b.Min.Y), r)
	mc.Fill()
	keep := mc.AsMask()

	kept := image.NewRGBA(b)
	xdraw.DrawMask(kept, b, dst, b.Min, keep, image.Point{}, xdraw.Src)
	xdraw.Draw(dst, b, kept, b.Min, xdraw.Src)
}

// DefaultBackground is drawn when a card has no background.
func DefaultBackground(w, h int) image.Image {
	dc := gg.NewContext(w, h)
	g := gg.NewLinearGradient(0, 0, float64(w), float64(h))
	g.AddColorStop(0, MustParseHex("#23272a"))
	g.AddColorStop(0.5, MustParseHex("#2c2f33"))
	g.AddColorStop(1, MustParseHex("#5865f2"))
	dc.SetFillStyle(g)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
	return dc.Image()
}

// DefaultAvatar is drawn when a card has no avatar: a head and shoulders
// silhouette on blurple.
func DefaultAvatar(size int) image.Image {
	s := float64(size)
	dc := gg.NewContext(size, size)
	dc.SetColor(MustParseHex("#5865f2"))
	dc.Clear()

	dc.SetColor(color.White)
	dc.DrawCircle(s/2, s*0.38, s*0.18)
	dc.Fill()
	dc.DrawEllipse(s/2, s*0.9, s*0.34, s*0.28)
	dc.Fill()
	return dc.Image()
}

// DefaultPingBadge is the red mention badge drawn over ping icons.
func DefaultPingBadge(size int) image.Image {
	s := float64(size)
	dc := gg.NewContext(size, size)
	dc.SetColor(MustParseHex("#ed4245"))
	dc.DrawCircle(s/2, s/2, s/2)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetLineWidth(s * 0.12)
	dc.SetLineCapRound()
	dc.DrawLine(s/2, s*0.25, s/2, s*0.58)
	dc.Stroke()
	dc.DrawCircle(s/2, s*0.75, s*0.07)
	dc.Fill()
	return dc.Image()
}
