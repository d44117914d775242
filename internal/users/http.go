package users

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dateideas/date-ideas-api/internal/api/http/middleware"
)

type Lister interface {
	List(ctx context.Context) ([]User, error)
}

type Handler struct {
	repo Lister
}

func Register(rg *gin.RouterGroup, repo Lister) {
	h := &Handler{repo: repo}
	rg.GET("", h.list)
}

func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.repo.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "list users failed", "request_id", middleware.GetRequestID(ctx), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users."})
		return
	}
	c.JSON(http.StatusOK, items)
}
