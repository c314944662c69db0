// Package schema provides a read-only inspector for live database schema
// state: table, column, and index existence plus column metadata. It never
// caches; every call queries the catalog, so changes made by earlier migration
// steps are visible to later ones within the same run.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/notehelper/notehelper/ddl"
)

// ErrColumnNotFound is returned by Column when the table has no such column.
var ErrColumnNotFound = errors.New("column not found")

// Column is the live metadata of one table column.
type Column struct {
	Name     string
	Type     string // declared type, upper-cased (e.g. "DATETIME", "VARCHAR(200)")
	Nullable bool
}

// Inspector reads schema metadata from a live database. All methods are
// read-only.
type Inspector struct {
	db      *sql.DB
	dialect string
}

// NewInspector returns an inspector for the given database handle and dialect.
func NewInspector(db *sql.DB, dialect string) *Inspector {
	return &Inspector{db: db, dialect: dialect}
}

// Tables returns the names of all user tables.
func (in *Inspector) Tables(ctx context.Context) ([]string, error) {
	var query string
	switch in.dialect {
	case ddl.SQLite:
		query = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	case ddl.Postgres:
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name`
	case ddl.MySQL:
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name`
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", in.dialect)
	}

	rows, err := in.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("listing tables: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableExists reports whether the named table exists.
func (in *Inspector) TableExists(ctx context.Context, table string) (bool, error) {
	var query string
	switch in.dialect {
	case ddl.SQLite:
		query = `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`
	case ddl.Postgres:
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`
	case ddl.MySQL:
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`
	default:
		return false, fmt.Errorf("unsupported dialect: %s", in.dialect)
	}

	var name string
	err := in.db.QueryRowContext(ctx, query, table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking table %q: %w", table, err)
	}
	return true, nil
}

// Columns returns the live metadata of all columns of a table, in declaration
// order.
func (in *Inspector) Columns(ctx context.Context, table string) ([]Column, error) {
	switch in.dialect {
	case ddl.SQLite:
		return in.sqliteColumns(ctx, table)
	case ddl.Postgres:
		return in.infoSchemaColumns(ctx, table,
			`SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position`)
	case ddl.MySQL:
		return in.infoSchemaColumns(ctx, table,
			`SELECT column_name, column_type, is_nullable FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position`)
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", in.dialect)
	}
}

// sqliteColumns reads column metadata from PRAGMA table_info. PRAGMA does not
// accept bound parameters, so the table name is interpolated quoted.
func (in *Inspector) sqliteColumns(ctx context.Context, table string) ([]Column, error) {
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, table)

	rows, err := in.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("inspecting columns of %q: %w", table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			cid        int
			name       string
			typ        string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("inspecting columns of %q: %w", table, err)
		}
		columns = append(columns, Column{
			Name:     name,
			Type:     strings.ToUpper(typ),
			Nullable: notNull == 0,
		})
	}
	return columns, rows.Err()
}

// infoSchemaColumns reads column metadata from information_schema for the
// Postgres and MySQL dialects.
func (in *Inspector) infoSchemaColumns(ctx context.Context, table, query string) ([]Column, error) {
	rows, err := in.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("inspecting columns of %q: %w", table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var name, typ, nullable string
		if err := rows.Scan(&name, &typ, &nullable); err != nil {
			return nil, fmt.Errorf("inspecting columns of %q: %w", table, err)
		}
		columns = append(columns, Column{
			Name:     name,
			Type:     strings.ToUpper(typ),
			Nullable: strings.EqualFold(nullable, "YES"),
		})
	}
	return columns, rows.Err()
}

// ColumnExists reports whether the table has the named column.
func (in *Inspector) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	columns, err := in.Columns(ctx, table)
	if err != nil {
		return false, err
	}
	for _, col := range columns {
		if col.Name == column {
			return true, nil
		}
	}
	return false, nil
}

// Column returns the metadata of one column, or ErrColumnNotFound.
func (in *Inspector) Column(ctx context.Context, table, column string) (Column, error) {
	columns, err := in.Columns(ctx, table)
	if err != nil {
		return Column{}, err
	}
	for _, col := range columns {
		if col.Name == column {
			return col, nil
		}
	}
	return Column{}, fmt.Errorf("%q.%q: %w", table, column, ErrColumnNotFound)
}

// IndexExists reports whether the named index exists on the table. Indexes are
// keyed by name: an index created under an old name is not matched by a new
// name even if it covers the same columns.
func (in *Inspector) IndexExists(ctx context.Context, table, index string) (bool, error) {
	var (
		query string
		args  []any
	)
	switch in.dialect {
	case ddl.SQLite:
		query = `SELECT name FROM sqlite_master WHERE type = 'index' AND name = ?`
		args = []any{index}
	case ddl.Postgres:
		query = `SELECT indexname FROM pg_indexes WHERE schemaname = current_schema() AND tablename = $1 AND indexname = $2`
		args = []any{table, index}
	case ddl.MySQL:
		query = `SELECT DISTINCT index_name FROM information_schema.statistics WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?`
		args = []any{table, index}
	default:
		return false, fmt.Errorf("unsupported dialect: %s", in.dialect)
	}

	var name string
	err := in.db.QueryRowContext(ctx, query, args...).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking index %q: %w", index, err)
	}
	return true, nil
}
