package upload

import "github.com/gin-gonic/gin"

// RegisterRoutes registers upload routes under the protected group.
func RegisterRoutes(protected *gin.RouterGroup, h *Handler) {
	uploads := protected.Group("/upload")
	{
		uploads.POST("", h.Submit)
		uploads.GET("/history", h.History)
		uploads.GET("/stats", h.Stats)
	}
}
