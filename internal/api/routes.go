package api

import "github.com/gin-gonic/gin"

// PublicPath is where rendered images are served from.
const PublicPath = "/Generated_Images"

func RegisterRoutes(r *gin.Engine, s *Server) {
	r.Static(PublicPath, s.Defaults.OutputDir)
	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/settings", s.settings)
		api.POST("/render", s.renderHandler)
		api.POST("/quotes/filter", s.filterHandler)
		api.GET("/quotes/topics", s.topicsHandler)
		api.GET("/qr", s.qrHandler)
	}
}
