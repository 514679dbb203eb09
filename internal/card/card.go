// Package card renders rank, welcome and ping cards.
package card

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"time"

	imagepkg "github.com/youruser/cardgen/internal/image"
)

// ErrInvalidOption is wrapped by every validation failure.
var ErrInvalidOption = errors.New("invalid option")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOption, fmt.Sprintf(format, args...))
}

// ImageLoader resolves an image source string to a decoded image.
type ImageLoader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// Card is a renderable card: Rank, Welcome or Ping.
type Card interface {
	Validate() error
	DefaultName() string
	draw(ctx context.Context, r *Renderer) (image.Image, error)
}

// Renderer renders cards. It is safe for concurrent use if Images is.
type Renderer struct {
	Images ImageLoader
	Fonts  *FontBook
	Log    *slog.Logger
}

// NewRenderer returns a Renderer with the built-in fonts.
func NewRenderer(images ImageLoader, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{
		Images: images,
		Fonts:  NewFontBook(log),
		Log:    log,
	}
}

// Render validates c and draws it.
func (r *Renderer) Render(ctx context.Context, c Card) (image.Image, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	t := time.Now()
	img, err := c.draw(ctx, r)
	if err != nil {
		return nil, err
	}

	r.Log.DebugContext(ctx, "Rendered card", "card", c.DefaultName(), "duration", time.Since(t))
	return img, nil
}

// PNG renders c and encodes it.
func (r *Renderer) PNG(ctx context.Context, c Card) ([]byte, error) {
	img, err := r.Render(ctx, c)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", c.DefaultName(), err)
	}
	return buf.Bytes(), nil
}

// Attachment renders c and wraps it for a chat message. An empty name
// means c.DefaultName().
func (r *Renderer) Attachment(ctx context.Context, c Card, name string) (*Attachment, error) {
	b, err := r.PNG(ctx, c)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = c.DefaultName()
	}
	return NewAttachment(b, name, ""), nil
}

func (r *Renderer) image(ctx context.Context, src string, fallback func() image.Image) (image.Image, error) {
	if src == "" {
		return fallback(), nil
	}
	if r.Images == nil {
		return nil, fmt.Errorf("%w: no loader for %.32q", imagepkg.ErrLoad, src)
	}
	return r.Images.Load(ctx, src)
}
