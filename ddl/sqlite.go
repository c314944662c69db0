package ddl

import (
	"fmt"
	"strings"
)

// sqliteType maps DDL types to SQLite declared types.
//
// SQLite accepts arbitrary declared type names and reduces them to storage
// affinities, so DATE and DATETIME survive verbatim in the catalog. The
// migration runner's type guards depend on that: a DATE column reads back as
// DATE from PRAGMA table_info, not as TEXT.
func sqliteType(col *ColumnDefinition) string {
	switch col.Type {
	case IntegerType:
		return "INTEGER"
	case BigintType:
		return "BIGINT"
	case FloatType:
		return "FLOAT"
	case BooleanType:
		return "BOOLEAN"
	case StringType:
		length := 255
		if col.Length != nil {
			length = *col.Length
		}
		return fmt.Sprintf("VARCHAR(%d)", length)
	case TextType:
		return "TEXT"
	case DateType:
		return "DATE"
	case DatetimeType:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// escapeSQLiteString escapes single quotes in a string for SQLite.
func escapeSQLiteString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// formatSQLiteDefault formats a default value for SQLite.
func formatSQLiteDefault(col *ColumnDefinition) string {
	defaultVal := *col.Default
	switch col.Type {
	case BooleanType:
		// SQLite stores booleans as 0/1
		if defaultVal == "true" {
			return "1"
		}
		return "0"
	case IntegerType, BigintType, FloatType:
		return defaultVal
	default:
		return fmt.Sprintf("'%s'", escapeSQLiteString(defaultVal))
	}
}

// sqliteColumnDef generates one column definition for CREATE TABLE or
// ALTER TABLE ADD COLUMN.
func sqliteColumnDef(col *ColumnDefinition) string {
	var parts []string

	parts = append(parts, fmt.Sprintf(`"%s"`, col.Name))

	// An integer PK must be declared exactly INTEGER for rowid aliasing
	if col.PrimaryKey && (col.Type == IntegerType || col.Type == BigintType) {
		parts = append(parts, "INTEGER")
	} else {
		parts = append(parts, sqliteType(col))
	}

	// PK implies NOT NULL
	if !col.Nullable && !col.PrimaryKey {
		parts = append(parts, "NOT NULL")
	}

	if col.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}

	if col.Unique && !col.PrimaryKey {
		parts = append(parts, "UNIQUE")
	}

	if col.Default != nil {
		parts = append(parts, "DEFAULT", formatSQLiteDefault(col))
	}

	if col.References != "" {
		parts = append(parts, fmt.Sprintf(`REFERENCES "%s" ("id")`, col.References))
	}

	return strings.Join(parts, " ")
}

// sqliteCreateTable generates the CREATE TABLE statement for a table. Index
// statements are generated separately. Tables with a composite primary key
// (junction tables) get a table-level PRIMARY KEY clause.
func sqliteCreateTable(table *Table) string {
	pk := primaryKeyColumns(table)

	var defs []string
	for i := range table.Columns {
		col := table.Columns[i]
		if len(pk) > 1 {
			col.PrimaryKey = false
			col.Nullable = false
		}
		defs = append(defs, sqliteColumnDef(&col))
	}
	if len(pk) > 1 {
		defs = append(defs, "PRIMARY KEY ("+quoteJoin(pk, `"`)+")")
	}
	return fmt.Sprintf(`CREATE TABLE "%s" (%s)`, table.Name, strings.Join(defs, ", "))
}

// sqliteCreateIndex generates a CREATE INDEX statement.
func sqliteCreateIndex(tableName string, idx *IndexDefinition) string {
	create := "CREATE INDEX"
	if idx.Unique {
		create = "CREATE UNIQUE INDEX"
	}

	cols := make([]string, len(idx.Columns))
	for i, col := range idx.Columns {
		cols[i] = fmt.Sprintf(`"%s"`, col)
	}

	return fmt.Sprintf(`%s "%s" ON "%s" (%s)`, create, idx.Name, tableName, strings.Join(cols, ", "))
}
