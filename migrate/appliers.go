package migrate

import (
	"context"
	"fmt"

	"github.com/notehelper/notehelper/ddl"
)

// CreateTableIfMissing creates the table (and its indexes) when it does not
// exist yet. Returns true when the table was created.
func (e *Env) CreateTableIfMissing(ctx context.Context, table *ddl.Table) (bool, error) {
	exists, err := e.Inspector.TableExists(ctx, table.Name)
	if err != nil {
		return false, err
	}
	if exists {
		e.Log.Info("table already exists, skipping", "table", table.Name)
		return false, nil
	}

	stmts, err := ddl.CreateTable(e.Dialect, table)
	if err != nil {
		return false, err
	}
	for _, stmt := range stmts {
		if _, err := e.DB.ExecContext(ctx, stmt); err != nil {
			return false, fmt.Errorf("creating table %q: %w", table.Name, err)
		}
	}

	e.Log.Info("created table", "table", table.Name)
	return true, nil
}

// AddColumnIfMissing adds a column to an existing table when it is absent.
// Pre-existing rows receive the column default, or NULL when none is declared.
// Returns true when the column was added.
func (e *Env) AddColumnIfMissing(ctx context.Context, table string, col ddl.ColumnDefinition) (bool, error) {
	exists, err := e.Inspector.ColumnExists(ctx, table, col.Name)
	if err != nil {
		return false, err
	}
	if exists {
		e.Log.Info("column already exists, skipping", "table", table, "column", col.Name)
		return false, nil
	}

	stmt, err := ddl.AddColumn(e.Dialect, table, &col)
	if err != nil {
		return false, err
	}
	if _, err := e.DB.ExecContext(ctx, stmt); err != nil {
		return false, fmt.Errorf("adding column %q.%q: %w", table, col.Name, err)
	}

	e.Log.Info("added column", "table", table, "column", col.Name)
	return true, nil
}

// AddIndexIfMissing creates a named index when it is absent. The check is
// keyed by index name, not column set: renaming an index in the step list
// creates a second index over the same columns rather than replacing the old
// one. Returns true when the index was created.
func (e *Env) AddIndexIfMissing(ctx context.Context, table string, idx ddl.IndexDefinition) (bool, error) {
	exists, err := e.Inspector.IndexExists(ctx, table, idx.Name)
	if err != nil {
		return false, err
	}
	if exists {
		e.Log.Info("index already exists, skipping", "table", table, "index", idx.Name)
		return false, nil
	}

	stmt, err := ddl.CreateIndex(e.Dialect, table, &idx)
	if err != nil {
		return false, err
	}
	if _, err := e.DB.ExecContext(ctx, stmt); err != nil {
		return false, fmt.Errorf("creating index %q on %q: %w", idx.Name, table, err)
	}

	e.Log.Info("added index", "table", table, "index", idx.Name)
	return true, nil
}
