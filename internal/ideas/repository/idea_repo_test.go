package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dateideas/date-ideas-api/internal/ideas/domain"
)

var (
	listColumns    = []string{"idea_id", "title", "activity_type", "est_price_per_person", "latitude", "longitude", "is_public", "creator_username"}
	summaryColumns = []string{"idea_id", "title", "activity_type", "est_price_per_person"}
)

func setupIdeaRepo(t *testing.T) (*IdeaRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewIdeaRepository(db), mock
}

func mustPrice(t *testing.T, s string) domain.Price {
	t.Helper()
	p, err := domain.ParsePrice(s)
	require.NoError(t, err)
	return p
}

func TestIdeaRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns every idea newest first", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"FROM date_ideas di LEFT JOIN users u ON di.user_id = u.user_id ORDER BY di.idea_id DESC")).
			WillReturnRows(sqlmock.NewRows(listColumns).
				AddRow(int64(3), "Stargazing", "GO_OUT", "0.00", "40.7128", "-74.0060", false, "alice").
				AddRow(int64(1), "Movie night", "STAY_IN", "12.50", nil, nil, true, nil))

		ideas, err := repo.List(ctx, domain.ListOptions{})
		require.NoError(t, err)
		require.Len(t, ideas, 2)

		assert.Equal(t, int64(3), ideas[0].ID)
		assert.Equal(t, domain.ActivityGoOut, ideas[0].ActivityType)
		require.NotNil(t, ideas[0].CreatorUsername)
		assert.Equal(t, "alice", *ideas[0].CreatorUsername)
		require.NotNil(t, ideas[0].Latitude)
		assert.Equal(t, "40.7128", *ideas[0].Latitude)
		// private ideas are listed by default
		assert.False(t, ideas[0].IsPublic)

		assert.Equal(t, "12.50", ideas[1].EstPricePerPerson)
		assert.Nil(t, ideas[1].CreatorUsername)
		assert.Nil(t, ideas[1].Latitude)
		assert.Nil(t, ideas[1].Longitude)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("public filter is opt-in", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE di.is_public = $1 ORDER BY di.idea_id DESC")).
			WithArgs(true).
			WillReturnRows(sqlmock.NewRows(listColumns))

		ideas, err := repo.List(ctx, domain.ListOptions{PublicOnly: true})
		require.NoError(t, err)
		assert.NotNil(t, ideas)
		assert.Empty(t, ideas)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates storage failure", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectQuery("FROM date_ideas").WillReturnError(sql.ErrConnDone)

		_, err := repo.List(ctx, domain.ListOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.False(t, domain.IsValidation(err))
	})
}

func TestIdeaRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE di.idea_id = $1")).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(listColumns).
				AddRow(int64(5), "Cook together", "STAY_IN", "8.00", nil, nil, true, nil))

		idea, err := repo.Get(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, "Cook together", idea.Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE di.idea_id = $1")).
			WithArgs(int64(99999)).
			WillReturnRows(sqlmock.NewRows(listColumns))

		_, err := repo.Get(ctx, 99999)
		assert.ErrorIs(t, err, domain.ErrIdeaNotFound)
	})
}

func TestIdeaRepository_ResolveUserID(t *testing.T) {
	ctx := context.Background()
	lookup := regexp.QuoteMeta("SELECT user_id FROM users WHERE username = $1 ORDER BY user_id LIMIT 1")

	t.Run("empty username skips the lookup", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		id, err := repo.ResolveUserID(ctx, "  ")
		require.NoError(t, err)
		assert.Nil(t, id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("match", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectQuery(lookup).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))

		id, err := repo.ResolveUserID(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, int64(7), *id)
	})

	t.Run("no match", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectQuery(lookup).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		id, err := repo.ResolveUserID(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, id)
	})
}

func TestIdeaRepository_Create(t *testing.T) {
	ctx := context.Background()
	lookup := regexp.QuoteMeta("SELECT user_id FROM users WHERE username = $1")

	t.Run("resolves creator and echoes username", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(lookup).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO date_ideas")).
			WithArgs("Picnic", "STAY_IN", "0.00", int64(7), true).
			WillReturnRows(sqlmock.NewRows(summaryColumns).AddRow(int64(12), "Picnic", "STAY_IN", "0.00"))
		mock.ExpectCommit()

		created, err := repo.Create(ctx, domain.NewIdea{
			Title:           "Picnic",
			ActivityType:    domain.ActivityStayIn,
			Price:           mustPrice(t, "0"),
			CreatorUsername: "alice",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(12), created.ID)
		assert.Equal(t, "0.00", created.EstPricePerPerson)
		require.NotNil(t, created.CreatorUsername)
		assert.Equal(t, "alice", *created.CreatorUsername)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown creator inserts a null user", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(lookup).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO date_ideas")).
			WithArgs("Arcade", "GO_OUT", "12.50", nil, true).
			WillReturnRows(sqlmock.NewRows(summaryColumns).AddRow(int64(13), "Arcade", "GO_OUT", "12.50"))
		mock.ExpectCommit()

		created, err := repo.Create(ctx, domain.NewIdea{
			Title:           "Arcade",
			ActivityType:    domain.ActivityGoOut,
			Price:           mustPrice(t, "12.50"),
			CreatorUsername: "ghost",
		})
		require.NoError(t, err)
		assert.Nil(t, created.CreatorUsername)
		assert.Equal(t, "12.50", created.EstPricePerPerson)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no creator skips the lookup", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO date_ideas")).
			WithArgs("Museum", "GO_OUT", "1234567.89", nil, true).
			WillReturnRows(sqlmock.NewRows(summaryColumns).AddRow(int64(14), "Museum", "GO_OUT", "1234567.89"))
		mock.ExpectCommit()

		created, err := repo.Create(ctx, domain.NewIdea{
			Title:        "Museum",
			ActivityType: domain.ActivityGoOut,
			Price:        mustPrice(t, "1234567.89"),
		})
		require.NoError(t, err)
		assert.Equal(t, "1234567.89", created.EstPricePerPerson)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the insert fails", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO date_ideas")).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := repo.Create(ctx, domain.NewIdea{
			Title:        "Bowling",
			ActivityType: domain.ActivityGoOut,
			Price:        mustPrice(t, "20"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create idea")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("constraint violation becomes a validation error", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO date_ideas")).
			WillReturnError(&pgconn.PgError{Code: "23514", ColumnName: "title"})
		mock.ExpectRollback()

		_, err := repo.Create(ctx, domain.NewIdea{
			Title:        " ",
			ActivityType: domain.ActivityStayIn,
			Price:        mustPrice(t, "1"),
		})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestIdeaRepository_Update(t *testing.T) {
	ctx := context.Background()
	update := regexp.QuoteMeta("UPDATE date_ideas SET title = $1, activity_type = $2, est_price_per_person = $3::numeric, latitude = $4::numeric, longitude = $5::numeric WHERE idea_id = $6")

	t.Run("writes location", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectQuery(update).
			WithArgs("Hike", "GO_OUT", "5.00", "46.5", "7.9", int64(4)).
			WillReturnRows(sqlmock.NewRows(summaryColumns).AddRow(int64(4), "Hike", "GO_OUT", "5.00"))

		updated, err := repo.Update(ctx, 4, domain.IdeaUpdate{
			Title:        "Hike",
			ActivityType: domain.ActivityGoOut,
			Price:        mustPrice(t, "5"),
			Location:     &domain.Location{Latitude: "46.5", Longitude: "7.9"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), updated.ID)
		assert.Equal(t, "5.00", updated.EstPricePerPerson)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("omitted location clears coordinates", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectQuery(update).
			WithArgs("Hike", "GO_OUT", "5.00", nil, nil, int64(4)).
			WillReturnRows(sqlmock.NewRows(summaryColumns).AddRow(int64(4), "Hike", "GO_OUT", "5.00"))

		_, err := repo.Update(ctx, 4, domain.IdeaUpdate{
			Title:        "Hike",
			ActivityType: domain.ActivityGoOut,
			Price:        mustPrice(t, "5"),
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing idea", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectQuery(update).
			WithArgs("Hike", "GO_OUT", "5.00", nil, nil, int64(99999)).
			WillReturnRows(sqlmock.NewRows(summaryColumns))

		_, err := repo.Update(ctx, 99999, domain.IdeaUpdate{
			Title:        "Hike",
			ActivityType: domain.ActivityGoOut,
			Price:        mustPrice(t, "5"),
		})
		assert.ErrorIs(t, err, domain.ErrIdeaNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("numeric overflow is a validation error", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectQuery(update).
			WillReturnError(&pgconn.PgError{Code: "22003", ColumnName: "latitude"})

		_, err := repo.Update(ctx, 4, domain.IdeaUpdate{
			Title:        "Hike",
			ActivityType: domain.ActivityGoOut,
			Price:        mustPrice(t, "5"),
		})
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "latitude", ve.Field)
	})
}

func TestIdeaRepository_Delete(t *testing.T) {
	ctx := context.Background()
	del := regexp.QuoteMeta("DELETE FROM date_ideas WHERE idea_id = $1")

	t.Run("second delete reports not found", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectExec(del).WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(del).WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.Delete(ctx, 8))
		assert.ErrorIs(t, repo.Delete(ctx, 8), domain.ErrIdeaNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("context errors pass through", func(t *testing.T) {
		repo, mock := setupIdeaRepo(t)

		mock.ExpectExec(del).WillReturnError(context.DeadlineExceeded)

		err := repo.Delete(ctx, 8)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, domain.ErrIdeaNotFound)
	})
}
