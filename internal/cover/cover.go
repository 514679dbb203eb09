// Package cover computes source crop windows that make an image fill a
// destination rectangle without distortion, like CSS background-size: cover.
package cover

import (
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrOutOfRange       = errors.New("pan center out of range")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// Rect is a rectangle in floating point pixel space.
type Rect struct {
	X, Y, W, H float64
}

// Surface is anything that can draw a scaled sub-region of an image.
type Surface interface {
	DrawImageRect(img image.Image, src, dst Rect)
}

// Cover maps an image onto a destination rectangle. It is a value: every
// operation returns a new Cover and leaves the receiver unchanged. The zero
// Cover is not usable; create one with New.
type Cover struct {
	img    image.Image
	dst    Rect
	src    Rect
	frames []Rect
}

// New returns a Cover whose crop window is the largest window with the
// destination's aspect ratio that fits in img, centered.
func New(img image.Image, x, y, width, height float64) (Cover, error) {
	if img == nil {
		return Cover{}, fmt.Errorf("%w: nil image", ErrInvalidDimension)
	}
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw <= 0 || ih <= 0 {
		return Cover{}, fmt.Errorf("%w: image is %vx%v", ErrInvalidDimension, iw, ih)
	}
	if !finite(x) || !finite(y) {
		return Cover{}, fmt.Errorf("%w: destination origin (%v, %v)", ErrInvalidDimension, x, y)
	}
	if !finite(width) || !finite(height) || width <= 0 || height <= 0 {
		return Cover{}, fmt.Errorf("%w: destination is %vx%v", ErrInvalidDimension, width, height)
	}

	c := Cover{
		img:    img,
		dst:    Rect{X: x, Y: y, W: width, H: height},
		frames: []Rect{{W: iw, H: ih}},
	}

	ir := iw / ih
	r := width / height
	if ir < r {
		c.src.W = iw
		c.src.H = iw / r
	} else {
		c.src.W = ih * r
		c.src.H = ih
	}

	return c.Pan(0.5, 0.5)
}

// Commit makes the current crop window the frame later pans are relative to.
func (c Cover) Commit() Cover {
	n := len(c.frames)
	c.frames = append(c.frames[:n:n], c.src)
	return c
}

// Pan positions the crop window inside the current frame. 0 aligns the
// window with the frame's left/top edge, 1 with its right/bottom edge.
func (c Cover) Pan(cx, cy float64) (Cover, error) {
	if !(cx >= 0 && cx <= 1) {
		return c, fmt.Errorf("%w: cx=%v", ErrOutOfRange, cx)
	}
	if !(cy >= 0 && cy <= 1) {
		return c, fmt.Errorf("%w: cy=%v", ErrOutOfRange, cy)
	}

	f := c.Frame()
	c.src.X = f.X + (f.W-c.src.W)*cx
	c.src.Y = f.Y + (f.H-c.src.H)*cy
	return c, nil
}

// Zoom shrinks (factor > 1) or grows (factor < 1) the crop window around
// its center. The result is not clamped to the frame.
func (c Cover) Zoom(factor float64) (Cover, error) {
	if !finite(factor) || factor <= 0 {
		return c, fmt.Errorf("%w: zoom factor %v", ErrInvalidArgument, factor)
	}

	c.src.X += (c.src.W - c.src.W/factor) / 2
	c.src.Y += (c.src.H - c.src.H/factor) / 2
	c.src.W /= factor
	c.src.H /= factor
	return c, nil
}

// Render draws the crop window into the destination rectangle of s.
func (c Cover) Render(s Surface) Cover {
	s.DrawImageRect(c.img, c.src, c.dst)
	return c
}

// Source returns the crop window in image pixel space.
func (c Cover) Source() Rect {
	return c.src
}

// Destination returns the rectangle the crop window is drawn into.
func (c Cover) Destination() Rect {
	return c.dst
}

// Frame returns the most recently committed frame.
func (c Cover) Frame() Rect {
	return c.frames[len(c.frames)-1]
}

// Frames returns the number of frames, including the full image.
func (c Cover) Frames() int {
	return len(c.frames)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
