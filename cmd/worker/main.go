package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/dateideas/date-ideas-api/config"
	"github.com/dateideas/date-ideas-api/internal/bootstrap"
	"github.com/dateideas/date-ideas-api/internal/logging"
	"github.com/dateideas/date-ideas-api/internal/storage/postgres"
	"github.com/dateideas/date-ideas-api/internal/users"
)

const usage = "usage: worker migrate up|down|status | worker seed"

func main() {
	if len(os.Args) < 2 {
		fatal(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenDB(ctx, &cfg.Database, bootstrap.DBOptions{})
	if err != nil {
		fatal("failed to connect to database", "error", err)
	}
	defer store.Close()

	switch os.Args[1] {
	case "migrate":
		err = runMigrate(ctx, store, os.Args[2:])
	case "seed":
		err = runSeed(ctx, store)
	default:
		err = fmt.Errorf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		store.Close()
		fatal(err.Error())
	}
}

func runMigrate(ctx context.Context, store *postgres.Store, args []string) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	switch args[0] {
	case "up":
		return postgres.MigrateUp(ctx, store.DB)
	case "down":
		return postgres.MigrateDown(ctx, store.DB)
	case "status":
		statuses, err := postgres.MigrationStatuses(ctx, store.DB)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tAPPLIED\tFILE")
		for _, s := range statuses {
			fmt.Fprintf(tw, "%d\t%t\t%s\n", s.Version, s.Applied, s.Path)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown migrate command: %s", args[0])
	}
}

var demoUsers = []users.SeedUser{
	{Username: "alice", FirstName: "Alice", LastName: "Nguyen"},
	{Username: "bob", FirstName: "Bob", LastName: "Martin"},
	{Username: "carol", FirstName: "Carol", LastName: "Diaz"},
}

func runSeed(ctx context.Context, store *postgres.Store) error {
	n, err := users.NewRepo(store.DB).EnsureUsers(ctx, demoUsers)
	if err != nil {
		return err
	}
	slog.Info("seeded users", "inserted", n, "requested", len(demoUsers))
	return nil
}

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
