package users

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
)

type User struct {
	ID        int64     `json:"user_id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	FirstName *string   `json:"first_name" db:"first_name"`
	LastName  *string   `json:"last_name" db:"last_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// List returns every user ordered by id.
func (r *Repo) List(ctx context.Context) ([]User, error) {
	query, args, err := sq.Select("user_id", "username", "first_name", "last_name", "created_at").
		From("users").
		OrderBy("user_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}

	out := make([]User, 0, 16)
	if err := sqlscan.Select(ctx, r.db, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if out == nil {
		out = []User{}
	}
	return out, nil
}

type SeedUser struct {
	Username  string
	FirstName string
	LastName  string
}

// EnsureUsers inserts the given users, leaving existing usernames untouched.
// It returns how many rows were actually added.
func (r *Repo) EnsureUsers(ctx context.Context, in []SeedUser) (int64, error) {
	if len(in) == 0 {
		return 0, nil
	}

	b := sq.Insert("users").
		Columns("username", "first_name", "last_name").
		PlaceholderFormat(sq.Dollar).
		Suffix("ON CONFLICT (username) DO NOTHING")
	for _, u := range in {
		b = b.Values(u.Username, u.FirstName, u.LastName)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build seed users: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to seed users: %w", err)
	}
	return res.RowsAffected()
}
