package testhelper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq" // database/sql driver for tests
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dateideas/date-ideas-api/internal/storage/postgres"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// SetupTestDB returns a migrated, empty database. TEST_DB_DSN points the tests
// at an existing server; otherwise a PostgreSQL container is started once for
// the whole run.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	once.Do(func() {
		sharedDSN = os.Getenv("TEST_DB_DSN")
		if sharedDSN == "" {
			sharedDSN, initErr = startContainer()
		}
		if initErr == nil {
			initErr = migrate(sharedDSN)
		}
	})
	if initErr != nil {
		t.Fatalf("testhelper: failed to setup test DB: %v", initErr)
	}

	db, err := sql.Open("postgres", sharedDSN)
	if err != nil {
		t.Fatalf("testhelper: failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	Truncate(t, db)
	return db
}

// Truncate empties both tables and restarts their id sequences.
func Truncate(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "TRUNCATE date_ideas, users RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("testhelper: truncate: %v", err)
	}
}

// InsertUser adds a user and returns its id.
func InsertUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowContext(context.Background(),
		"INSERT INTO users (username, first_name, last_name) VALUES ($1, $2, $3) RETURNING user_id",
		username, username, "Test").Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: insert user %q: %v", username, err)
	}
	return id
}

func startContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "date_ideas_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	return fmt.Sprintf("postgres://testuser:testpass@%s:%s/date_ideas_test?sslmode=disable", host, port.Port()), nil
}

func migrate(dsn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return postgres.MigrateUp(ctx, db)
}
