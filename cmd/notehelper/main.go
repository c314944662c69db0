package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/notehelper/notehelper/cli"
	"github.com/notehelper/notehelper/config"
	"github.com/notehelper/notehelper/dburl"
	"github.com/notehelper/notehelper/logging"
	"github.com/notehelper/notehelper/migrate"
	"github.com/notehelper/notehelper/migrations"
)

const usage = `notehelper - sales call logging service

Usage:
  notehelper <command>

Commands:
  migrate    Run idempotent schema migrations against DATABASE_URL
  status     Report which expected tables exist (read-only)

Options:
  -h, --help    Show this help message

Configuration is read from the environment:
  DATABASE_URL  sqlite:, postgres:, or mysql: URL (required)
  LOG_FORMAT    "json" (default) or "pretty"
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "-h", "--help", "help":
		fmt.Print(usage)
		os.Exit(0)

	case "migrate":
		migrateCmd()

	case "status":
		statusCmd()

	default:
		cli.Fatal(fmt.Sprintf("unknown command: %s (run 'notehelper --help' for usage)", os.Args[1]))
	}
}

// openDatabase loads config and opens the configured database.
func openDatabase() (*sql.DB, string, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", config.Config{}, err
	}

	dialect, driver, dsn, err := dburl.DriverDSN(cfg.DatabaseURL)
	if err != nil {
		return nil, "", config.Config{}, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", config.Config{}, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", config.Config{}, fmt.Errorf("connecting to database: %w", err)
	}

	return db, dialect, cfg, nil
}

// migrateCmd runs all schema migration steps. This is the same entry point
// the server calls during startup before it begins serving requests.
func migrateCmd() {
	db, dialect, cfg, err := openDatabase()
	if err != nil {
		cli.FatalErr("opening database", err)
	}
	defer db.Close()

	logger := logging.Default(cfg.LogFormat)
	if err := migrate.Run(context.Background(), db, dialect, logger, migrations.Steps()); err != nil {
		cli.FatalErr("migration failed", err)
	}
}
