package imagepkg

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/youruser/cardgen/internal/util"

	_ "golang.org/x/image/webp"
)

// ErrLoad wraps every failure to resolve an image source.
var ErrLoad = errors.New("failed to load image")

// Loader resolves image sources: http(s) URLs, data URIs, raw base64 and,
// if AllowFiles is set, local paths. MaxBytes bounds the encoded size and
// MaxPixels the decoded width times height; zero means no limit.
type Loader struct {
	Client     *http.Client
	MaxBytes   int64
	MaxPixels  int64
	AllowFiles bool
}

// NewLoader returns a Loader with a client that gives up after timeout.
func NewLoader(timeout time.Duration, maxBytes, maxPixels int64, allowFiles bool) *Loader {
	return &Loader{
		Client:     &http.Client{Timeout: timeout},
		MaxBytes:   maxBytes,
		MaxPixels:  maxPixels,
		AllowFiles: allowFiles,
	}
}

// Load resolves src and decodes it.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	b, err := l.read(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	if l.MaxPixels > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoad, err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > l.MaxPixels {
			return nil, fmt.Errorf("%w: image is %dx%d, limit is %d pixels", ErrLoad, cfg.Width, cfg.Height, l.MaxPixels)
		}
	}

	img, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return img, nil
}

func (l *Loader) read(ctx context.Context, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return nil, errors.New("empty image source")

	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return util.GetBytes(ctx, l.Client, src, l.MaxBytes)

	case strings.HasPrefix(src, "data:"):
		i := strings.Index(src, ",")
		if i < 0 || !strings.HasSuffix(src[:i], ";base64") {
			return nil, errors.New("data URI is not base64 encoded")
		}
		return l.decodeBase64(src[i+1:])
	}

	if l.AllowFiles {
		if _, err := os.Stat(src); err == nil {
			b, err := os.ReadFile(src)
			if err != nil {
				return nil, err
			}
			if l.MaxBytes > 0 && int64(len(b)) > l.MaxBytes {
				return nil, fmt.Errorf("%s is larger than %d bytes", src, l.MaxBytes)
			}
			return b, nil
		}
	}

	return l.decodeBase64(src)
}

func (l *Loader) decodeBase64(s string) ([]byte, error) {
	if l.MaxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(s))) > l.MaxBytes+2 {
		return nil, fmt.Errorf("encoded image is larger than %d bytes", l.MaxBytes)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, fmt.Errorf("not a URL or base64 image: %w", err)
	}
	return b, nil
}

// Decode decodes PNG, JPEG, GIF, BMP, TIFF or WebP data, applying EXIF
// orientation.
func Decode(b []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
}

