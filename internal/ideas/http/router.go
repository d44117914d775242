package http

import "github.com/gin-gonic/gin"

// Register registers the idea routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.ListIdeas)
	rg.POST("", h.CreateIdea)
	rg.GET("/:id", h.GetIdea)
	rg.PUT("/:id", h.UpdateIdea)
	rg.DELETE("/:id", h.DeleteIdea)
}
