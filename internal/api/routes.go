package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/qr", qrHandler)

		cards := api.Group("/cards", s.limitBody)
		cards.POST("/rank", s.rankHandler)
		cards.POST("/welcome", s.welcomeHandler)
		cards.POST("/ping", s.pingHandler)
	}
}

// NewEngine returns a gin engine with request logging, panic recovery and
// the cardgen routes.
func NewEngine(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger, gin.Recovery())
	RegisterRoutes(r, s)
	return r
}
