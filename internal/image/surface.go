package imagepkg

import (
	"image"
	"image/draw"
	"math"

	"github.com/youruser/cardgen/internal/cover"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Surface draws scaled image regions onto Dst. Parts of the source region
// that fall outside the source image are not drawn.
type Surface struct {
	Dst    draw.Image
	Interp xdraw.Interpolator
}

// NewSurface returns a transparent w x h surface.
func NewSurface(w, h int) *Surface {
	return &Surface{
		Dst:    image.NewRGBA(image.Rect(0, 0, w, h)),
		Interp: xdraw.CatmullRom,
	}
}

// Image returns the surface's backing image.
func (s *Surface) Image() image.Image {
	return s.Dst
}

// DrawImageRect implements cover.Surface.
func (s *Surface) DrawImageRect(img image.Image, src, dst cover.Rect) {
	if src.W <= 0 || src.H <= 0 || dst.W <= 0 || dst.H <= 0 {
		return
	}

	b := img.Bounds()
	sx := src.X + float64(b.Min.X)
	sy := src.Y + float64(b.Min.Y)

	sr := image.Rect(
		int(math.Floor(sx)), int(math.Floor(sy)),
		int(math.Ceil(sx+src.W)), int(math.Ceil(sy+src.H)),
	).Intersect(b)
	if sr.Empty() {
		return
	}

	dr := image.Rect(
		int(math.Floor(dst.X)), int(math.Floor(dst.Y)),
		int(math.Ceil(dst.X+dst.W)), int(math.Ceil(dst.Y+dst.H)),
	)
	target := s.Dst
	if sub, ok := s.Dst.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		if d, ok := sub.SubImage(dr).(draw.Image); ok {
			target = d
		}
	}
	if target.Bounds().Empty() {
		return
	}

	kx := dst.W / src.W
	ky := dst.H / src.H
	m := f64.Aff3{
		kx, 0, dst.X - kx*sx,
		0, ky, dst.Y - ky*sy,
	}

	interp := s.Interp
	if interp == nil {
		interp = xdraw.CatmullRom
	}
	interp.Transform(target, m, img, sr, xdraw.Over, nil)
}
