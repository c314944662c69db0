package ddl

import (
	"fmt"
	"strings"
)

// postgresType maps DDL types to PostgreSQL types.
func postgresType(col *ColumnDefinition) string {
	switch col.Type {
	case IntegerType:
		return "INTEGER"
	case BigintType:
		return "BIGINT"
	case FloatType:
		return "DOUBLE PRECISION"
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
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// escapePostgresString escapes single quotes in a string for PostgreSQL.
func escapePostgresString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// formatPostgresDefault formats a default value for PostgreSQL.
func formatPostgresDefault(col *ColumnDefinition) string {
	defaultVal := *col.Default
	switch col.Type {
	case BooleanType:
		if defaultVal == "true" {
			return "TRUE"
		}
		return "FALSE"
	case IntegerType, BigintType, FloatType:
		return defaultVal
	default:
		return fmt.Sprintf("'%s'", escapePostgresString(defaultVal))
	}
}

// postgresColumnDef generates one column definition for CREATE TABLE or
// ALTER TABLE ADD COLUMN.
func postgresColumnDef(col *ColumnDefinition) string {
	var parts []string

	parts = append(parts, fmt.Sprintf(`"%s"`, col.Name))

	// Integer PKs get a sequence-backed default
	if col.PrimaryKey && col.Type == IntegerType {
		parts = append(parts, "SERIAL")
	} else if col.PrimaryKey && col.Type == BigintType {
		parts = append(parts, "BIGSERIAL")
	} else {
		parts = append(parts, postgresType(col))
	}

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
		parts = append(parts, "DEFAULT", formatPostgresDefault(col))
	}

	if col.References != "" {
		parts = append(parts, fmt.Sprintf(`REFERENCES "%s" ("id")`, col.References))
	}

	return strings.Join(parts, " ")
}

// postgresCreateTable generates the CREATE TABLE statement for a table.
// Tables with a composite primary key get a table-level PRIMARY KEY clause.
func postgresCreateTable(table *Table) string {
	pk := primaryKeyColumns(table)

	var defs []string
	for i := range table.Columns {
		col := table.Columns[i]
		if len(pk) > 1 {
			col.PrimaryKey = false
			col.Nullable = false
		}
		defs = append(defs, postgresColumnDef(&col))
	}
	if len(pk) > 1 {
		defs = append(defs, "PRIMARY KEY ("+quoteJoin(pk, `"`)+")")
	}
	return fmt.Sprintf(`CREATE TABLE "%s" (%s)`, table.Name, strings.Join(defs, ", "))
}

// postgresCreateIndex generates a CREATE INDEX statement.
func postgresCreateIndex(tableName string, idx *IndexDefinition) string {
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
