package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youruser/cardgen/internal/api"
	"github.com/youruser/cardgen/internal/card"
	"github.com/youruser/cardgen/internal/config"
	imagepkg "github.com/youruser/cardgen/internal/image"
)

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	cfgPath := flag.String("cfg", "", "Configuration file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	loader := imagepkg.NewLoader(cfg.FetchTimeout, cfg.MaxImageBytes, cfg.MaxImagePixels, cfg.AllowLocalFiles)
	renderer := card.NewRenderer(loader, log)

	// Load fonts at startup (best-effort)
	if cfg.FontDir != "" {
		if n, err := renderer.Fonts.LoadDir(cfg.FontDir); err != nil {
			log.Warn("Failed to load fonts", "dir", cfg.FontDir, "error", err)
		} else {
			log.Info("Loaded fonts", "dir", cfg.FontDir, "count", n, "families", renderer.Fonts.Families())
		}
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewEngine(&api.Server{
		Renderer:      renderer,
		Log:           log,
		MaxBodySize:   cfg.MaxRequestBodySize,
		RenderTimeout: cfg.RenderTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("Starting server", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
