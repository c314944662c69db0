// Package migrate executes idempotent schema migrations on application
// startup. There is no version-tracking table: each step inspects the live
// schema and decides for itself whether it still needs to act, so the whole
// list is safe to re-run on every deployment.
//
// The runner assumes a single process instance migrates a given database at a
// time. Two instances racing through the step list concurrently is not
// handled.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/notehelper/notehelper/ddl"
	"github.com/notehelper/notehelper/schema"
)

// Step is one named, ordered, idempotent unit of schema change. Apply must
// check the live schema (via env.Inspector or the If-missing appliers) before
// mutating anything, and must be a no-op when its target state already holds.
type Step struct {
	Name  string
	Apply func(ctx context.Context, env *Env) error
}

// Env is the per-step execution environment. The inspector is constructed
// fresh for every step so that changes made by earlier steps in the same run
// are always visible.
type Env struct {
	DB        *sql.DB
	Dialect   string
	Inspector *schema.Inspector
	Log       *slog.Logger
}

// Run executes all steps in order against the live database. Later steps may
// assume earlier ones already ran. The first failing step aborts the run with
// its error; the schema is left partially advanced, which is safe because the
// next run re-evaluates every step.
func Run(ctx context.Context, db *sql.DB, dialect string, logger *slog.Logger, steps []Step) error {
	switch dialect {
	case ddl.SQLite, ddl.Postgres, ddl.MySQL:
	default:
		return fmt.Errorf("unsupported dialect: %s", dialect)
	}

	seen := make(map[string]bool, len(steps))
	for _, step := range steps {
		if step.Name == "" {
			return fmt.Errorf("migration step with empty name")
		}
		if step.Apply == nil {
			return fmt.Errorf("migration step %s has no apply function", step.Name)
		}
		if seen[step.Name] {
			return fmt.Errorf("duplicate migration step name: %s", step.Name)
		}
		seen[step.Name] = true
	}

	logger.Info("running schema migrations", "dialect", dialect, "steps", len(steps))

	for _, step := range steps {
		env := &Env{
			DB:        db,
			Dialect:   dialect,
			Inspector: schema.NewInspector(db, dialect),
			Log:       logger.With("step", step.Name),
		}
		if err := step.Apply(ctx, env); err != nil {
			return fmt.Errorf("migration step %s: %w", step.Name, err)
		}
	}

	logger.Info("schema migrations complete")
	return nil
}
