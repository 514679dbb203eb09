package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youruser/cardgen/internal/card"
	imagepkg "github.com/youruser/cardgen/internal/image"
)

// Server holds what the card handlers need.
type Server struct {
	Renderer      *card.Renderer
	Log           *slog.Logger
	MaxBodySize   int64
	RenderTimeout time.Duration
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := 400
	if sizeStr := c.Query("size"); sizeStr != "" {
		v, err := strconv.Atoi(sizeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a number"})
			return
		}
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func (s *Server) rankHandler(c *gin.Context) {
	var opt card.Rank
	s.render(c, &opt)
}

func (s *Server) welcomeHandler(c *gin.Context) {
	var opt card.Welcome
	s.render(c, &opt)
}

func (s *Server) pingHandler(c *gin.Context) {
	var opt card.Ping
	s.render(c, &opt)
}

// render binds the request body into opt and responds with the card as a
// PNG, or as attachment JSON with ?format=attachment.
func (s *Server) render(c *gin.Context, opt card.Card) {
	if err := c.ShouldBindJSON(opt); err != nil {
		c.Error(err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if s.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.RenderTimeout)
		defer cancel()
	}

	if c.Query("format") != "attachment" {
		b, err := s.Renderer.PNG(ctx, opt)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", b)
		return
	}

	a, err := s.Renderer.Attachment(ctx, opt, c.Query("name"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if spoiler, _ := strconv.ParseBool(c.Query("spoiler")); spoiler {
		a.SetSpoiler(true)
	}
	a.SetDescription(c.Query("description"))
	c.JSON(http.StatusOK, a)
}

func (s *Server) fail(c *gin.Context, err error) {
	c.Error(err)

	switch {
	case errors.Is(err, card.ErrInvalidOption):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "rendering timed out"})
	case errors.Is(err, imagepkg.ErrLoad):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		s.Log.Error("Failed to render card", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
