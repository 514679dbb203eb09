package card

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/fogleman/gg"
	imagepkg "github.com/youruser/cardgen/internal/image"
)

const (
	pingSize      = 800
	pingBadgeSize = 270
)

// Ping is an 800x800 icon with a mention badge in the lower right corner.
type Ping struct {
	Icon  string `json:"icon"`
	Badge string `json:"badge,omitempty"`
}

func (o *Ping) DefaultName() string {
	return "ping.png"
}

func (o *Ping) Validate() error {
	if o.Icon == "" {
		return invalid("icon is required")
	}
	return nil
}

func (o *Ping) draw(ctx context.Context, r *Renderer) (image.Image, error) {
	icon, err := r.image(ctx, o.Icon, nil)
	if err != nil {
		return nil, fmt.Errorf("icon: %w", err)
	}
	badge, err := r.image(ctx, o.Badge, func() image.Image { return imagepkg.DefaultPingBadge(pingBadgeSize) })
	if err != nil {
		return nil, fmt.Errorf("badge: %w", err)
	}

	dc := gg.NewContext(pingSize, pingSize)
	dc.DrawImage(imagepkg.Stretch(icon, pingSize, pingSize), 0, 0)

	imagepkg.EraseCircle(dc.Image().(draw.Image), 615, 615, 200)

	dc.DrawImage(imagepkg.Stretch(badge, pingBadgeSize, pingBadgeSize), 475, 475)
	return dc.Image(), nil
}
