package card

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/youruser/cardgen/internal/cover"
	imagepkg "github.com/youruser/cardgen/internal/image"
)

const (
	rankWidth  = 1080
	rankHeight = 400
	rankRadius = 30

	avatarSize = 180
	barX       = 390
	barWidth   = 660
	barHeight  = 30
	maxBadges  = 10
	badgeSize  = 50
)

// RoundStyle is the corner radius of the rank card avatar. In JSON it is
// "circle", "roundedSquare", "square" or a number.
type RoundStyle struct {
	Radius float64
	Set    bool
}

var (
	Circle        = RoundStyle{Radius: 100, Set: true}
	RoundedSquare = RoundStyle{Radius: 30, Set: true}
	Square        = RoundStyle{Radius: 0, Set: true}
)

func RoundRadius(r float64) RoundStyle {
	return RoundStyle{Radius: r, Set: true}
}

func (s *RoundStyle) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = RoundStyle{}
		return nil
	}

	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		switch name {
		case "circle":
			*s = Circle
		case "roundedSquare":
			*s = RoundedSquare
		case "square":
			*s = Square
		default:
			return invalid("avatarRoundStyle must be circle, roundedSquare, square or a number, not %q", name)
		}
		return nil
	}

	var r float64
	if err := json.Unmarshal(b, &r); err != nil {
		return invalid("avatarRoundStyle must be a string or a number")
	}
	*s = RoundRadius(r)
	return nil
}

func (s RoundStyle) MarshalJSON() ([]byte, error) {
	if !s.Set {
		return []byte("null"), nil
	}
	return json.Marshal(s.Radius)
}

// Rank is a 1080x400 leaderboard card.
type Rank struct {
	Avatar             string     `json:"avatar,omitempty"`
	AvatarRoundStyle   RoundStyle `json:"avatarRoundStyle"`
	Background         string     `json:"background,omitempty"`
	BarRadius          float64    `json:"barRadius,omitempty"`
	BoxColor           string     `json:"boxColor,omitempty"`
	Level              int64      `json:"level"`
	LevelBarBackground string     `json:"levelBarBackground,omitempty"`
	LevelBarFill       string     `json:"levelBarFill,omitempty"`
	NextLevelTemplate  string     `json:"nextLevelTemplate,omitempty"`
	Rank               int64      `json:"rank"`
	RequiredXP         int64      `json:"requiredXP"`
	TextXPTemplate     string     `json:"textXpTemplate,omitempty"`
	Username           string     `json:"username"`
	XP                 int64      `json:"xp"`
	Badges             []string   `json:"badges,omitempty"`
}

func (o *Rank) DefaultName() string {
	return "rank.png"
}

func (o *Rank) withDefaults() Rank {
	v := *o
	if !v.AvatarRoundStyle.Set {
		v.AvatarRoundStyle = RoundRadius(50)
	}
	if v.BarRadius == 0 {
		v.BarRadius = 15
	}
	if v.BoxColor == "" {
		v.BoxColor = "#323740"
	}
	if v.LevelBarBackground == "" {
		v.LevelBarBackground = "#ffffff"
	}
	if v.LevelBarFill == "" {
		v.LevelBarFill = "#ffffff"
	}
	if v.NextLevelTemplate == "" {
		v.NextLevelTemplate = "Next Level: {requiredXP}"
	}
	if v.TextXPTemplate == "" {
		v.TextXPTemplate = "XP: {current}/{needed}"
	}
	return v
}

func (o *Rank) Validate() error {
	v := o.withDefaults()

	if strings.TrimSpace(v.Username) == "" {
		return invalid("username is required")
	}
	if v.RequiredXP <= 0 {
		return invalid("requiredXP must be positive, not %d", v.RequiredXP)
	}
	if v.XP < 0 {
		return invalid("xp must not be negative, not %d", v.XP)
	}
	if v.AvatarRoundStyle.Radius < 0 {
		return invalid("avatarRoundStyle must not be negative")
	}
	if v.BarRadius < 0 {
		return invalid("barRadius must not be negative")
	}
	for name, c := range map[string]string{
		"boxColor":           v.BoxColor,
		"levelBarBackground": v.LevelBarBackground,
		"levelBarFill":       v.LevelBarFill,
	} {
		if !imagepkg.ValidHex(c) {
			return invalid("%s must be a #rrggbb color, not %q", name, c)
		}
	}
	if !strings.Contains(v.TextXPTemplate, "{current}") || !strings.Contains(v.TextXPTemplate, "{needed}") {
		return invalid("textXpTemplate must include {current} and {needed}")
	}
	return nil
}

func (o *Rank) draw(ctx context.Context, r *Renderer) (image.Image, error) {
	v := o.withDefaults()

	avatar, err := r.image(ctx, v.Avatar, func() image.Image { return imagepkg.DefaultAvatar(avatarSize) })
	if err != nil {
		return nil, fmt.Errorf("avatar: %w", err)
	}
	bg, err := r.image(ctx, v.Background, func() image.Image { return imagepkg.DefaultBackground(rankWidth, rankHeight) })
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	badgeSources := v.Badges
	if len(badgeSources) > maxBadges {
		r.Log.WarnContext(ctx, "Too many badges", "count", len(badgeSources), "max", maxBadges)
		badgeSources = badgeSources[:maxBadges]
	}
	badges := make([]image.Image, 0, len(badgeSources))
	for i, src := range badgeSources {
		b, err := r.image(ctx, src, func() image.Image { return nil })
		if err != nil {
			return nil, fmt.Errorf("badge %d: %w", i, err)
		}
		if b != nil {
			badges = append(badges, b)
		}
	}

	// Everything moves down when there is a badge row.
	upY := -20.0
	if len(badges) > 0 {
		upY = 10
	}

	boxColor := imagepkg.MustParseHex(v.BoxColor)
	boxText := color.Color(color.White)
	if imagepkg.IsLight(boxColor) {
		boxText = color.Black
	}

	dc := gg.NewContext(rankWidth, rankHeight)
	roundedBox(dc, 0, 0, rankWidth, rankHeight, rankRadius)
	dc.Clip()
	fillRect(dc, 0, 0, rankWidth, rankHeight, color.Black)

	c, err := cover.New(bg, 0, 0, rankWidth, rankHeight)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	layer := imagepkg.NewSurface(rankWidth, rankHeight)
	c.Render(layer)
	dc.DrawImage(layer.Image(), 0, 0)

	fillRect(dc, 0, 0, rankWidth, rankHeight, imagepkg.WithAlpha(color.NRGBA{}, 0.7))
	fillRect(dc, 40, 0, 240, rankHeight, imagepkg.WithAlpha(color.NRGBA{}, 0.4))

	clipBox(dc, 70, 30, avatarSize, avatarSize, v.AvatarRoundStyle.Radius)
	dc.DrawImage(imagepkg.Fill(avatar, avatarSize, avatarSize), 70, 30)
	dc.Pop()

	medium := r.Fonts.Face(Medium, 28)
	for _, box := range []struct {
		y     float64
		label string
	}{
		{240, "Lvl " + Abbreviate(v.Level)},
		{320, Abbreviate(v.XP) + " XP"},
	} {
		clipBox(dc, 70, box.y, avatarSize, 50, 10)
		fillRect(dc, 70, box.y, avatarSize, 50, boxColor)
		text(dc, medium, box.label, 70+avatarSize/2, box.y+35, 0.5, boxText)
		dc.Pop()
	}

	shadowText(dc, r.Fonts.Face(Bold, 40), v.Username, barX, 170-upY, 0, color.White)
	shadowText(dc, r.Fonts.Face(Bold, 50), fmt.Sprintf("#%d", v.Rank), rankWidth-45, 170-upY, 1, color.White)

	barY := 195 - upY
	clipBox(dc, barX, barY, barWidth, barHeight, v.BarRadius)
	fillRect(dc, barX, barY, barWidth, barHeight, imagepkg.WithAlpha(imagepkg.MustParseHex(v.LevelBarBackground), 0.3))
	dc.Pop()

	progress := min(max(float64(v.XP)/float64(v.RequiredXP), 0), 1) * barWidth
	if progress > 0 {
		clipBox(dc, barX, barY, progress, barHeight, v.BarRadius)
		fillRect(dc, barX, barY, progress, barHeight, imagepkg.MustParseHex(v.LevelBarFill))
		dc.Pop()
	}

	small := r.Fonts.Face(Medium, 25)
	nextLevel := expand(v.NextLevelTemplate, "{requiredXP}", Abbreviate(v.RequiredXP-v.XP)+" xp")
	text(dc, small, nextLevel, barX, 260-upY, 0, imagepkg.WithAlpha(imagepkg.MustParseHex("#ffffff"), 0.8))

	xpText := expand(v.TextXPTemplate,
		"{needed}", Abbreviate(v.RequiredXP),
		"{current}", Abbreviate(v.XP),
		"{latest}", Abbreviate(v.XP-v.RequiredXP),
	)
	text(dc, small, xpText, barX+barWidth, 260-upY, 1, color.White)

	if len(badges) > 0 {
		x := 400
		for i := 0; i < maxBadges; i++ {
			if i < len(badges) {
				dc.DrawImage(imagepkg.Fill(badges[i], badgeSize, badgeSize), x, 298)
			} else {
				dc.SetColor(imagepkg.WithAlpha(imagepkg.MustParseHex("#ffffff"), 0.5))
				dc.DrawCircle(float64(x)+badgeSize/2, 298+badgeSize/2, 5)
				dc.Fill()
			}
			x += badgeSize + 5
		}
	}

	return dc.Image(), nil
}
