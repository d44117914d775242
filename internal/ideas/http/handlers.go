package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dateideas/date-ideas-api/internal/api/http/middleware"
	"github.com/dateideas/date-ideas-api/internal/ideas/domain"
)

// ListIdeas returns every idea newest first, or only public ones with ?public=true
func (h *Handler) ListIdeas(c *gin.Context) {
	var opts domain.ListOptions
	if raw := c.Query("public"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidFilter})
			return
		}
		opts.PublicOnly = v
	}

	ideas, err := h.repo.List(c.Request.Context(), opts)
	if err != nil {
		h.storageError(c, err, "Failed to retrieve ideas.")
		return
	}
	c.JSON(http.StatusOK, ideas)
}

// GetIdea returns a single idea
func (h *Handler) GetIdea(c *gin.Context) {
	id, ok := ideaID(c)
	if !ok {
		return
	}

	idea, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrIdeaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		h.storageError(c, err, "Failed to retrieve idea.")
		return
	}
	c.JSON(http.StatusOK, idea)
}

// CreateIdea validates the body, attributes it to creator_username when that
// user exists, and stores it as a public idea
func (h *Handler) CreateIdea(c *gin.Context) {
	var req createIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err, msgMissingCreate, req.missing())})
		return
	}
	if req.missing() {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingCreate})
		return
	}

	activity, err := domain.ParseActivityType(req.ActivityType)
	if err != nil {
		validationError(c, err)
		return
	}
	price, err := domain.ParsePrice(req.EstPricePerPerson.text)
	if err != nil {
		validationError(c, err)
		return
	}

	in := domain.NewIdea{
		Title:        strings.TrimSpace(req.Title),
		ActivityType: activity,
		Price:        price,
	}
	if req.CreatorUsername != nil {
		in.CreatorUsername = strings.TrimSpace(*req.CreatorUsername)
	}

	created, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		if domain.IsValidation(err) {
			validationError(c, err)
			return
		}
		h.storageError(c, err, "Failed to create new idea.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateIdea replaces title, type, price and location. Omitted coordinates
// clear the stored location.
func (h *Handler) UpdateIdea(c *gin.Context) {
	id, ok := ideaID(c)
	if !ok {
		return
	}

	var req updateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err, msgMissingUpdate, req.missing())})
		return
	}
	if req.missing() {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingUpdate})
		return
	}

	activity, err := domain.ParseActivityType(req.ActivityType)
	if err != nil {
		validationError(c, err)
		return
	}
	price, err := domain.ParsePrice(req.EstPricePerPerson.text)
	if err != nil {
		validationError(c, err)
		return
	}
	loc, err := domain.ParseLocation(req.Latitude.ptr(), req.Longitude.ptr())
	if err != nil {
		validationError(c, err)
		return
	}

	updated, err := h.repo.Update(c.Request.Context(), id, domain.IdeaUpdate{
		Title:        strings.TrimSpace(req.Title),
		ActivityType: activity,
		Price:        price,
		Location:     loc,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIdeaNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		case domain.IsValidation(err):
			validationError(c, err)
		default:
			h.storageError(c, err, "Failed to update idea.")
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteIdea hard-deletes an idea
func (h *Handler) DeleteIdea(c *gin.Context) {
	id, ok := ideaID(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrIdeaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		h.storageError(c, err, "Failed to delete idea.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Idea successfully deleted."})
}

func ideaID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidID})
		return 0, false
	}
	return id, true
}

func validationError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// storageError logs the cause with the request id and answers with a fixed
// message; driver errors never reach the client.
func (h *Handler) storageError(c *gin.Context, err error, msg string) {
	ctx := c.Request.Context()
	slog.ErrorContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
