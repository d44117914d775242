package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/dateideas/date-ideas-api/internal/ideas/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const returningSummary = "RETURNING idea_id, title, activity_type, est_price_per_person::text AS est_price_per_person"

var ideaColumns = []string{
	"di.idea_id",
	"di.title",
	"di.activity_type",
	"di.est_price_per_person::text AS est_price_per_person",
	"di.latitude::text AS latitude",
	"di.longitude::text AS longitude",
	"di.is_public",
	"u.username AS creator_username",
}

// IdeaRepository handles PostgreSQL operations for date ideas
type IdeaRepository struct {
	db *sql.DB
}

// NewIdeaRepository creates a new IdeaRepository
func NewIdeaRepository(db *sql.DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

func selectIdeas() sq.SelectBuilder {
	return psql.Select(ideaColumns...).
		From("date_ideas di").
		LeftJoin("users u ON di.user_id = u.user_id")
}

// List returns ideas newest first. Private ideas are included unless
// opts.PublicOnly is set.
func (r *IdeaRepository) List(ctx context.Context, opts domain.ListOptions) ([]domain.Idea, error) {
	q := selectIdeas().OrderBy("di.idea_id DESC")
	if opts.PublicOnly {
		q = q.Where(sq.Eq{"di.is_public": true})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	ideas := make([]domain.Idea, 0, 16)
	if err := sqlscan.Select(ctx, r.db, &ideas, query, args...); err != nil {
		return nil, mapError(err, "list ideas")
	}
	if ideas == nil {
		ideas = []domain.Idea{}
	}
	return ideas, nil
}

// Get retrieves a single idea in the same shape List uses
func (r *IdeaRepository) Get(ctx context.Context, id int64) (*domain.Idea, error) {
	query, args, err := selectIdeas().Where(sq.Eq{"di.idea_id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	var idea domain.Idea
	if err := sqlscan.Get(ctx, r.db, &idea, query, args...); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrIdeaNotFound
		}
		return nil, mapError(err, "get idea")
	}
	return &idea, nil
}

// ResolveUserID looks a creator up by username. An empty username or no match
// yields nil. Should duplicates exist, the oldest user wins.
func (r *IdeaRepository) ResolveUserID(ctx context.Context, username string) (*int64, error) {
	return resolveUserID(ctx, r.db, username)
}

func resolveUserID(ctx context.Context, q sqlscan.Querier, username string) (*int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}

	query, args, err := psql.Select("user_id").
		From("users").
		Where(sq.Eq{"username": username}).
		OrderBy("user_id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user lookup: %w", err)
	}

	var id int64
	if err := sqlscan.Get(ctx, q, &id, query, args...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, mapError(err, "resolve user")
	}
	return &id, nil
}

// Create resolves the creator and inserts the idea in one transaction, so a
// user removed between the two steps cannot leave a dangling reference.
func (r *IdeaRepository) Create(ctx context.Context, in domain.NewIdea) (*domain.CreatedIdea, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapError(err, "begin create idea")
	}
	defer tx.Rollback()

	userID, err := resolveUserID(ctx, tx, in.CreatorUsername)
	if err != nil {
		return nil, err
	}

	var userArg any
	if userID != nil {
		userArg = *userID
	}

	query, args, err := psql.Insert("date_ideas").
		Columns("title", "activity_type", "est_price_per_person", "user_id", "is_public").
		Values(in.Title, string(in.ActivityType), sq.Expr("?::numeric", in.Price.String()), userArg, true).
		Suffix(returningSummary).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	var row domain.UpdatedIdea
	if err := sqlscan.Get(ctx, tx, &row, query, args...); err != nil {
		return nil, mapError(err, "create idea")
	}

	if err := tx.Commit(); err != nil {
		return nil, mapError(err, "commit create idea")
	}

	created := &domain.CreatedIdea{
		ID:                row.ID,
		Title:             row.Title,
		ActivityType:      row.ActivityType,
		EstPricePerPerson: row.EstPricePerPerson,
	}
	if userID != nil {
		username := strings.TrimSpace(in.CreatorUsername)
		created.CreatorUsername = &username
	}
	return created, nil
}

// Update replaces title, type, price and location. A nil location clears the
// stored coordinates rather than leaving them untouched.
func (r *IdeaRepository) Update(ctx context.Context, id int64, in domain.IdeaUpdate) (*domain.UpdatedIdea, error) {
	var lat, lon any
	if in.Location != nil {
		lat, lon = in.Location.Latitude, in.Location.Longitude
	}

	query, args, err := psql.Update("date_ideas").
		Set("title", in.Title).
		Set("activity_type", string(in.ActivityType)).
		Set("est_price_per_person", sq.Expr("?::numeric", in.Price.String())).
		Set("latitude", sq.Expr("?::numeric", lat)).
		Set("longitude", sq.Expr("?::numeric", lon)).
		Where(sq.Eq{"idea_id": id}).
		Suffix(returningSummary).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var updated domain.UpdatedIdea
	if err := sqlscan.Get(ctx, r.db, &updated, query, args...); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrIdeaNotFound
		}
		return nil, mapError(err, "update idea")
	}
	return &updated, nil
}

// Delete hard-deletes an idea. Deleting an id that is already gone reports
// ErrIdeaNotFound.
func (r *IdeaRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("date_ideas").Where(sq.Eq{"idea_id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "delete idea")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err, "delete idea")
	}
	if n == 0 {
		return domain.ErrIdeaNotFound
	}
	return nil
}

func isNoRows(err error) bool {
	return sqlscan.NotFound(err) || errors.Is(err, sql.ErrNoRows)
}
