package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/youruser/cardgen/internal/card"
	"github.com/youruser/cardgen/internal/config"
	imagepkg "github.com/youruser/cardgen/internal/image"
	"github.com/youruser/cardgen/internal/util"
)

func newCard(kind string) (card.Card, error) {
	switch kind {
	case "rank":
		return &card.Rank{}, nil
	case "welcome":
		return &card.Welcome{}, nil
	case "ping":
		return &card.Ping{}, nil
	default:
		return nil, fmt.Errorf("unknown card type: %s", kind)
	}
}

func run(kind, in, out, fontDir string) error {
	c, err := newCard(kind)
	if err != nil {
		return err
	}

	b, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", in, err)
	}

	var cfg config.Config
	cfg.FillDefaults()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	renderer := card.NewRenderer(imagepkg.NewLoader(cfg.FetchTimeout, cfg.MaxImageBytes, cfg.MaxImagePixels, true), log)
	if fontDir != "" {
		if _, err := renderer.Fonts.LoadDir(fontDir); err != nil {
			return err
		}
	}

	if out == "" {
		out = c.DefaultName()
	} else if info, err := os.Stat(out); err == nil && info.IsDir() {
		out = filepath.Join(out, c.DefaultName())
	}

	png, err := renderer.PNG(context.Background(), c)
	if err != nil {
		return err
	}

	if err := util.WriteFile(out, png); err != nil {
		return err
	}

	log.Info("Wrote card", "type", kind, "path", out, "bytes", len(png))
	return nil
}

func main() {
	kind := flag.String("type", "rank", "Card type: rank, welcome or ping")
	in := flag.String("in", "", "JSON options file")
	out := flag.String("out", "", "Output PNG path or directory")
	fontDir := flag.String("fonts", "", "Directory of .ttf fonts to register")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*kind, *in, *out, *fontDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
