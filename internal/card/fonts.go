package card

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	Regular = "Go"
	Medium  = "Go Medium"
	Bold    = "Go Bold"
)

// FontSpec selects a registered family at a size in pixels.
type FontSpec struct {
	Family string  `json:"family,omitempty"`
	Size   float64 `json:"size,omitempty"`
}

// FontBook holds parsed fonts by family name. Faces are created per call
// because truetype faces are not safe for concurrent use.
type FontBook struct {
	mu    sync.RWMutex
	fonts map[string]*truetype.Font
	log   *slog.Logger
}

func NewFontBook(log *slog.Logger) *FontBook {
	if log == nil {
		log = slog.Default()
	}
	b := &FontBook{fonts: map[string]*truetype.Font{}, log: log}
	for family, ttf := range map[string][]byte{
		Regular: goregular.TTF,
		Medium:  gomedium.TTF,
		Bold:    gobold.TTF,
	} {
		if err := b.Register(family, ttf); err != nil {
			panic(err)
		}
	}
	return b
}

// Register parses ttf and makes it available as family.
func (b *FontBook) Register(family string, ttf []byte) error {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parsing font %s: %w", family, err)
	}

	b.mu.Lock()
	b.fonts[family] = f
	b.mu.Unlock()
	return nil
}

// LoadDir registers every .ttf file in dir under its base name.
func (b *FontBook) LoadDir(dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.ttf"))
	if err != nil {
		return 0, err
	}

	for _, path := range files {
		ttf, err := os.ReadFile(path)
		if err != nil {
			return 0, err
		}
		family := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := b.Register(family, ttf); err != nil {
			return 0, err
		}
		b.log.Info("Registered font", "family", family, "path", path)
	}

	return len(files), nil
}

// Families returns the registered family names, sorted.
func (b *FontBook) Families() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	families := make([]string, 0, len(b.fonts))
	for family := range b.fonts {
		families = append(families, family)
	}
	slices.Sort(families)
	return families
}

// Face returns a face for family at size pixels, falling back to Regular.
// Sizes above maxFontSize are clamped.
func (b *FontBook) Face(family string, size float64) font.Face {
	if !(size <= maxFontSize) {
		size = maxFontSize
	}

	b.mu.RLock()
	f, ok := b.fonts[family]
	if !ok {
		f = b.fonts[Regular]
	}
	b.mu.RUnlock()

	if !ok {
		b.log.Debug("Unknown font family", "family", family)
	}

	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
