package http

import (
	"context"

	"github.com/dateideas/date-ideas-api/internal/ideas/domain"
)

// IdeaRepository is the storage surface the handlers depend on
type IdeaRepository interface {
	List(ctx context.Context, opts domain.ListOptions) ([]domain.Idea, error)
	Get(ctx context.Context, id int64) (*domain.Idea, error)
	Create(ctx context.Context, in domain.NewIdea) (*domain.CreatedIdea, error)
	Update(ctx context.Context, id int64, in domain.IdeaUpdate) (*domain.UpdatedIdea, error)
	Delete(ctx context.Context, id int64) error
}

// Handler handles HTTP requests for date ideas
type Handler struct {
	repo IdeaRepository
}

// New creates a new Handler
func New(repo IdeaRepository) *Handler {
	return &Handler{repo: repo}
}
