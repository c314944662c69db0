package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/notehelper/notehelper/ddl"
)

// ColumnCopy describes how one column's values move into a rebuilt table. An
// empty Expr is a straight copy; otherwise Expr is a SQL expression evaluated
// against the backup table (e.g. a CASE coercing a date string to a datetime).
type ColumnCopy struct {
	Name string
	Expr string
}

// Rebuild replaces a table wholesale to change a column's type or nullability
// on engines without a native in-place ALTER for that change:
//
//	rename live table to <name>_backup
//	create a new table under the original name with the full target shape
//	copy rows from the backup, applying per-column transformations
//	drop the backup
//
// Target must declare every column of the new table, and Copies must name
// every column whose values carry over.
type Rebuild struct {
	Target *ddl.Table
	Copies []ColumnCopy
}

// RebuildTable executes a table rebuild inside a single transaction, so an
// interrupted run leaves either the old table or the new one, never the
// half-migrated state in between. SQLite and Postgres support transactional
// DDL; on MySQL each DDL statement commits implicitly and the window remains.
func (e *Env) RebuildTable(ctx context.Context, r *Rebuild) error {
	name := r.Target.Name
	backup := name + "_backup"

	conn, err := e.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("rebuilding table %q: %w", name, err)
	}
	defer conn.Close()

	if e.Dialect == ddl.SQLite {
		// Stop RENAME from rewriting foreign key clauses in referencing
		// tables to point at the backup name.
		if _, err := conn.ExecContext(ctx, "PRAGMA legacy_alter_table = ON"); err != nil {
			return fmt.Errorf("rebuilding table %q: %w", name, err)
		}
		defer conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA legacy_alter_table = OFF")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("rebuilding table %q: %w", name, err)
	}
	defer tx.Rollback() // no-op once committed

	rename, err := ddl.RenameTable(e.Dialect, name, backup)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, rename); err != nil {
		return fmt.Errorf("rebuilding table %q (rename): %w", name, err)
	}

	stmts, err := ddl.CreateTable(e.Dialect, r.Target)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rebuilding table %q (create): %w", name, err)
		}
	}

	dest := make([]string, len(r.Copies))
	src := make([]string, len(r.Copies))
	for i, c := range r.Copies {
		dest[i] = ddl.QuoteIdent(e.Dialect, c.Name)
		if c.Expr == "" {
			src[i] = ddl.QuoteIdent(e.Dialect, c.Name)
		} else {
			src[i] = c.Expr
		}
	}
	copyStmt := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s",
		ddl.QuoteIdent(e.Dialect, name),
		strings.Join(dest, ", "),
		strings.Join(src, ", "),
		ddl.QuoteIdent(e.Dialect, backup))
	if _, err := tx.ExecContext(ctx, copyStmt); err != nil {
		return fmt.Errorf("rebuilding table %q (copy): %w", name, err)
	}

	drop, err := ddl.DropTable(e.Dialect, backup)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, drop); err != nil {
		return fmt.Errorf("rebuilding table %q (drop backup): %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("rebuilding table %q (commit): %w", name, err)
	}

	e.Log.Info("rebuilt table", "table", name)
	return nil
}
