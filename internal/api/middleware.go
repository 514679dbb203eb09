package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

func (s *Server) requestLogger(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	c.Set("request_id", id)
	c.Header(requestIDHeader, id)

	start := time.Now()
	c.Next()

	log := s.Log.With(
		"request_id", id,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
	if len(c.Errors) > 0 {
		log.Warn("Request failed", "error", c.Errors.String())
	} else {
		log.Info("Handled request")
	}
}

func (s *Server) limitBody(c *gin.Context) {
	if s.MaxBodySize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxBodySize)
	}
	c.Next()
}
