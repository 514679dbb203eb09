package card

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	imagepkg "github.com/youruser/cardgen/internal/image"
	"golang.org/x/image/font"
)

type fakeLoader map[string]image.Image

func (f fakeLoader) Load(_ context.Context, src string) (image.Image, error) {
	if img, ok := f[src]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("%w: %s", imagepkg.ErrLoad, src)
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func newTestRenderer() *Renderer {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRenderer(fakeLoader{
		"avatar": solid(64, 64, color.RGBA{R: 0xff, A: 0xff}),
		"bg":     solid(1920, 1080, color.RGBA{B: 0xff, A: 0xff}),
		"badge":  solid(16, 16, color.RGBA{G: 0xff, A: 0xff}),
		"icon":   solid(128, 128, color.RGBA{R: 0xff, G: 0xff, A: 0xff}),
	}, log)
}

func TestAbbreviate(t *testing.T) {
	for n, s := range map[int64]string{
		0:             "0",
		-5:            "-5",
		999:           "999",
		1000:          "1K",
		1500:          "1.5K",
		12_345:        "12.3K",
		2_000_000:     "2M",
		3_200_000_000: "3.2G",
	} {
		assert.Equal(t, s, Abbreviate(n), "%d", n)
	}
}

func TestAttachment_Spoiler(t *testing.T) {
	a := NewAttachment([]byte{1}, "rank.png", "")
	assert.False(t, a.Spoiler())

	a.SetSpoiler(true).SetSpoiler(true)
	assert.Equal(t, "SPOILER_rank.png", a.Name)
	assert.True(t, a.Spoiler())

	a.SetName("cards/SPOILER_SPOILER_rank.png?v=1")
	assert.True(t, a.Spoiler())
	a.SetSpoiler(false)
	assert.Equal(t, "cards/rank.png?v=1", a.Name)
	assert.False(t, a.Spoiler())

	a.SetSpoiler(true)
	assert.Equal(t, "cards/SPOILER_rank.png?v=1", a.Name)
}

func TestAttachment_JSON(t *testing.T) {
	a := NewAttachment(nil, "welcome.png", "").SetDescription("hello").SetFile([]byte("png"))

	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"welcome.png","description":"hello","attachment":"cG5n"}`, string(b))

	var back Attachment
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, *a, back)
}

func TestRoundStyle_JSON(t *testing.T) {
	for in, want := range map[string]RoundStyle{
		`"circle"`:        Circle,
		`"roundedSquare"`: RoundedSquare,
		`"square"`:        Square,
		`12.5`:            RoundRadius(12.5),
		`null`:            {},
	} {
		var s RoundStyle
		require.NoError(t, json.Unmarshal([]byte(in), &s), in)
		assert.Equal(t, want, s, in)
	}

	var s RoundStyle
	assert.ErrorIs(t, json.Unmarshal([]byte(`"oval"`), &s), ErrInvalidOption)
	assert.ErrorIs(t, json.Unmarshal([]byte(`true`), &s), ErrInvalidOption)
}

func TestRank_Validate(t *testing.T) {
	ok := Rank{Username: "gopher", RequiredXP: 100}
	require.NoError(t, ok.Validate())

	for name, mod := range map[string]func(*Rank){
		"no username":     func(r *Rank) { r.Username = " " },
		"no required xp":  func(r *Rank) { r.RequiredXP = 0 },
		"negative xp":     func(r *Rank) { r.XP = -1 },
		"bad box color":   func(r *Rank) { r.BoxColor = "323740" },
		"bad bar fill":    func(r *Rank) { r.LevelBarFill = "#fff" },
		"bad template":    func(r *Rank) { r.TextXPTemplate = "{current} XP" },
		"negative radius": func(r *Rank) { r.AvatarRoundStyle = RoundRadius(-1) },
		"negative bar":    func(r *Rank) { r.BarRadius = -2 },
	} {
		r := ok
		mod(&r)
		assert.ErrorIs(t, r.Validate(), ErrInvalidOption, name)
	}
}

func TestRank_Defaults(t *testing.T) {
	r := Rank{Username: "gopher", RequiredXP: 100}
	v := r.withDefaults()

	assert.Equal(t, RoundRadius(50), v.AvatarRoundStyle)
	assert.Equal(t, 15.0, v.BarRadius)
	assert.Equal(t, "#323740", v.BoxColor)
	assert.Equal(t, "XP: {current}/{needed}", v.TextXPTemplate)
	assert.Empty(t, r.BoxColor)
}

func TestRank_Render(t *testing.T) {
	r := newTestRenderer()

	for _, badges := range [][]string{nil, {"badge", "badge"}} {
		img, err := r.Render(context.Background(), &Rank{
			Avatar:           "avatar",
			AvatarRoundStyle: Circle,
			Background:       "bg",
			Username:         "gopher",
			Level:            12,
			Rank:             3,
			XP:               1500,
			RequiredXP:       3000,
			Badges:           badges,
		})
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, rankWidth, rankHeight), img.Bounds())

		// rounded corners are clipped
		_, _, _, a := img.At(0, 0).RGBA()
		assert.Equal(t, uint32(0), a)

		// avatar center
		red, _, _, _ := img.At(160, 120).RGBA()
		assert.InDelta(t, 0xffff, float64(red), 0x200)
	}
}

func TestRank_TooManyBadges(t *testing.T) {
	r := newTestRenderer()

	badges := make([]string, 15)
	for i := range badges {
		badges[i] = "badge"
	}

	_, err := r.Render(context.Background(), &Rank{Username: "gopher", RequiredXP: 1, XP: 5, Badges: badges})
	assert.NoError(t, err)
}

func TestRank_LoadError(t *testing.T) {
	r := newTestRenderer()

	_, err := r.Render(context.Background(), &Rank{Username: "gopher", RequiredXP: 10, Background: "missing"})
	assert.ErrorIs(t, err, imagepkg.ErrLoad)
	assert.False(t, errors.Is(err, ErrInvalidOption))
}

func TestWelcome_Validate(t *testing.T) {
	ok := Welcome{Username: "gopher"}
	require.NoError(t, ok.Validate())

	half := 0.5
	ok.BorderAlpha = &half
	ok.BorderColor = "#acb221"
	require.NoError(t, ok.Validate())

	tooMuch := 1.5
	nan := math.NaN()
	for name, mod := range map[string]func(*Welcome){
		"no username":         func(w *Welcome) { w.Username = "" },
		"bad border":          func(w *Welcome) { w.BorderColor = "acb221" },
		"bad avatar border":   func(w *Welcome) { w.AvatarBorderColor = "#acb2211" },
		"alpha out of range":  func(w *Welcome) { w.BorderAlpha = &tooMuch },
		"alpha nan":           func(w *Welcome) { w.BorderAlpha = &nan },
		"negative title size": func(w *Welcome) { w.Fonts.Title.Size = -1 },
		"huge title size":     func(w *Welcome) { w.Fonts.Title.Size = 1e4 },
		"huge subtitle size":  func(w *Welcome) { w.Fonts.Subtitle.Size = maxFontSize + 1 },
		"nan subtitle size":   func(w *Welcome) { w.Fonts.Subtitle.Size = nan },
	} {
		w := ok
		mod(&w)
		assert.ErrorIs(t, w.Validate(), ErrInvalidOption, name)
	}
}

func TestWelcome_Render(t *testing.T) {
	r := newTestRenderer()

	img, err := r.Render(context.Background(), &Welcome{
		Avatar:      "avatar",
		Background:  "bg",
		BorderColor: "#00ff00",
		Username:    "a gopher with a remarkably long display name that will not fit",
		InviteURL:   "https://discord.gg/example",
	})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, welcomeWidth, welcomeHeight), img.Bounds())

	// avatar
	red, _, _, _ := img.At(375, 140).RGBA()
	assert.InDelta(t, 0xffff, float64(red), 0x200)

	// border
	_, green, _, _ := img.At(5, 200).RGBA()
	assert.Equal(t, uint32(0xffff), green)

	// background under the overlay
	r2, g2, b2, _ := img.At(100, 100).RGBA()
	assert.Zero(t, r2)
	assert.Zero(t, g2)
	assert.Greater(t, b2, uint32(0x8000))
}

func TestWelcome_DefaultImages(t *testing.T) {
	r := NewRenderer(nil, nil)

	_, err := r.Render(context.Background(), &Welcome{Username: "gopher"})
	assert.NoError(t, err)
}

func TestPing_Render(t *testing.T) {
	r := newTestRenderer()

	_, err := r.Render(context.Background(), &Ping{})
	assert.ErrorIs(t, err, ErrInvalidOption)

	img, err := r.Render(context.Background(), &Ping{Icon: "icon"})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, pingSize, pingSize), img.Bounds())

	_, _, _, a := img.At(100, 100).RGBA()
	assert.Equal(t, uint32(0xffff), a)

	// erased ring between the badge and the cut-out edge
	_, _, _, a = img.At(615, 430).RGBA()
	assert.Equal(t, uint32(0), a)

	// badge
	red, _, _, _ := img.At(610, 500).RGBA()
	assert.InDelta(t, 0xeded, float64(red), 0x100)
}

func TestRenderer_PNGAndAttachment(t *testing.T) {
	r := newTestRenderer()
	p := &Ping{Icon: "icon", Badge: "badge"}

	b, err := r.PNG(context.Background(), p)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, pingSize, img.Bounds().Dx())

	a, err := r.Attachment(context.Background(), p, "")
	require.NoError(t, err)
	assert.Equal(t, "ping.png", a.Name)
	assert.Equal(t, b, a.Data)

	a, err = r.Attachment(context.Background(), p, "custom.png")
	require.NoError(t, err)
	assert.Equal(t, "custom.png", a.Name)
}

func TestFontBook(t *testing.T) {
	b := NewFontBook(nil)
	assert.Equal(t, []string{Regular, Bold, Medium}, b.Families())

	assert.Equal(t, b.Face(Regular, 20).Metrics(), b.Face("Missing Family", 20).Metrics())

	assert.Equal(t, b.Face(Regular, maxFontSize).Metrics(), b.Face(Regular, 1e4).Metrics())

	assert.Error(t, b.Register("broken", []byte("not a font")))

	n, err := b.LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFontBook_FitFace(t *testing.T) {
	b := NewFontBook(nil)
	spec := FontSpec{Family: Bold, Size: 52}

	short := b.fitFace(spec, "hi", 500)
	assert.Equal(t, b.Face(Bold, 52).Metrics(), short.Metrics())

	long := "a gopher with a remarkably long display name that will not fit"
	face := b.fitFace(spec, long, 500)
	w := float64(font.MeasureString(face, long)) / 64
	assert.LessOrEqual(t, w, 500.0)

	huge := b.fitFace(FontSpec{Family: Bold, Size: 1e4}, "hi", 500)
	assert.Equal(t, b.Face(Bold, maxFontSize).Metrics(), huge.Metrics())
}
