package card

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/youruser/cardgen/internal/cover"
	imagepkg "github.com/youruser/cardgen/internal/image"
)

const (
	welcomeWidth  = 750
	welcomeHeight = 400
	welcomeText   = 500
	borderWidth   = 20
	qrSize        = 90
)

type WelcomeFonts struct {
	Title    FontSpec `json:"title"`
	Subtitle FontSpec `json:"subtitle"`
}

// Welcome is a 750x400 card greeting a new member.
type Welcome struct {
	Avatar            string       `json:"avatar,omitempty"`
	AvatarBorderColor string       `json:"avatarBorderColor,omitempty"`
	Background        string       `json:"background,omitempty"`
	BorderColor       string       `json:"borderColor,omitempty"`
	BorderAlpha       *float64     `json:"borderAlpha,omitempty"`
	Fonts             WelcomeFonts `json:"fonts"`
	Subtitle          string       `json:"subtitle,omitempty"`
	Username          string       `json:"username"`
	InviteURL         string       `json:"inviteURL,omitempty"`
}

func (o *Welcome) DefaultName() string {
	return "welcome.png"
}

func (o *Welcome) withDefaults() Welcome {
	v := *o
	if v.AvatarBorderColor == "" {
		v.AvatarBorderColor = "#ffffff"
	}
	if v.BorderAlpha == nil {
		one := 1.0
		v.BorderAlpha = &one
	}
	if v.Fonts.Title.Family == "" {
		v.Fonts.Title.Family = Bold
	}
	if v.Fonts.Title.Size == 0 {
		v.Fonts.Title.Size = 52
	}
	if v.Fonts.Subtitle.Family == "" {
		v.Fonts.Subtitle.Family = Regular
	}
	if v.Fonts.Subtitle.Size == 0 {
		v.Fonts.Subtitle.Size = 28
	}
	if v.Subtitle == "" {
		v.Subtitle = "Welcome to the server!"
	}
	return v
}

func (o *Welcome) Validate() error {
	v := o.withDefaults()

	if strings.TrimSpace(v.Username) == "" {
		return invalid("username is required")
	}
	if !imagepkg.ValidHex(v.AvatarBorderColor) {
		return invalid("avatarBorderColor must be a #rrggbb color, not %q", v.AvatarBorderColor)
	}
	if v.BorderColor != "" && !imagepkg.ValidHex(v.BorderColor) {
		return invalid("borderColor must be a #rrggbb color, not %q", v.BorderColor)
	}
	if a := *v.BorderAlpha; !(a >= 0 && a <= 1) {
		return invalid("borderAlpha must be between 0 and 1, not %v", a)
	}
	for name, f := range map[string]FontSpec{
		"title":    v.Fonts.Title,
		"subtitle": v.Fonts.Subtitle,
	} {
		if !(f.Size > 0 && f.Size <= maxFontSize) {
			return invalid("fonts.%s.size must be in (0, %d], not %v", name, maxFontSize, f.Size)
		}
	}
	return nil
}

func (o *Welcome) draw(ctx context.Context, r *Renderer) (image.Image, error) {
	v := o.withDefaults()

	avatar, err := r.image(ctx, v.Avatar, func() image.Image { return imagepkg.DefaultAvatar(avatarSize) })
	if err != nil {
		return nil, fmt.Errorf("avatar: %w", err)
	}
	bg, err := r.image(ctx, v.Background, func() image.Image { return imagepkg.DefaultBackground(welcomeWidth, welcomeHeight) })
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	dc := gg.NewContext(welcomeWidth, welcomeHeight)

	c, err := cover.New(bg, 0, 0, welcomeWidth, welcomeHeight)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	layer := imagepkg.NewSurface(welcomeWidth, welcomeHeight)
	c.Render(layer)
	dc.DrawImage(layer.Image(), 0, 0)

	fillRect(dc, 0, 0, welcomeWidth, welcomeHeight, imagepkg.MustParseHex("#00000055"))

	dc.SetColor(imagepkg.MustParseHex(v.AvatarBorderColor))
	dc.DrawCircle(welcomeWidth/2, 140, 95)
	dc.Fill()

	if v.BorderColor != "" {
		border := imagepkg.WithAlpha(imagepkg.MustParseHex(v.BorderColor), *v.BorderAlpha)
		fillRect(dc, 0, 0, borderWidth, welcomeHeight, border)
		fillRect(dc, welcomeWidth-borderWidth, 0, borderWidth, welcomeHeight, border)
		fillRect(dc, borderWidth, 0, welcomeWidth-2*borderWidth, 25, border)
		fillRect(dc, borderWidth, welcomeHeight-borderWidth, welcomeWidth-2*borderWidth, borderWidth, border)
	}

	dc.Push()
	dc.DrawCircle(welcomeWidth/2, 140, 90)
	dc.Clip()
	dc.DrawImage(imagepkg.Fill(avatar, avatarSize, avatarSize), welcomeWidth/2-avatarSize/2, 50)
	dc.Pop()

	title := r.Fonts.fitFace(v.Fonts.Title, v.Username, welcomeText)
	text(dc, title, v.Username, welcomeWidth/2, 300, 0.5, color.White)

	subtitle := r.Fonts.fitFace(v.Fonts.Subtitle, v.Subtitle, welcomeText)
	text(dc, subtitle, v.Subtitle, welcomeWidth/2, 345, 0.5, color.White)

	if v.InviteURL != "" {
		qr, err := imagepkg.GenerateQRImage(v.InviteURL, qrSize, color.Black, color.White)
		if err != nil {
			return nil, invalid("inviteURL: %v", err)
		}
		dc.DrawImage(qr, welcomeWidth-borderWidth-10-qrSize, welcomeHeight-borderWidth-10-qrSize)
	}

	return dc.Image(), nil
}
