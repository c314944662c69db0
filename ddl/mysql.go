package ddl

import (
	"fmt"
	"strings"
)

// mysqlType maps DDL types to MySQL types.
func mysqlType(col *ColumnDefinition) string {
	switch col.Type {
	case IntegerType:
		return "INT"
	case BigintType:
		return "BIGINT"
	case FloatType:
		return "DOUBLE"
	case BooleanType:
		// MySQL uses TINYINT(1) for booleans
		return "TINYINT(1)"
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

// escapeMySQLString escapes single quotes in a string for MySQL.
func escapeMySQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// formatMySQLDefault formats a default value for MySQL.
func formatMySQLDefault(col *ColumnDefinition) string {
	defaultVal := *col.Default
	switch col.Type {
	case BooleanType:
		if defaultVal == "true" {
			return "1"
		}
		return "0"
	case IntegerType, BigintType, FloatType:
		return defaultVal
	default:
		return fmt.Sprintf("'%s'", escapeMySQLString(defaultVal))
	}
}

// mysqlColumnDef generates one column definition. Foreign keys are emitted as
// table-level constraints by mysqlCreateTable because MySQL parses and then
// ignores inline REFERENCES clauses.
func mysqlColumnDef(col *ColumnDefinition) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("`%s`", col.Name))
	parts = append(parts, mysqlType(col))

	if !col.Nullable && !col.PrimaryKey {
		parts = append(parts, "NOT NULL")
	}

	if col.PrimaryKey {
		if col.Type == IntegerType || col.Type == BigintType {
			parts = append(parts, "AUTO_INCREMENT")
		}
		parts = append(parts, "PRIMARY KEY")
	}

	if col.Unique && !col.PrimaryKey {
		parts = append(parts, "UNIQUE")
	}

	if col.Default != nil {
		parts = append(parts, "DEFAULT", formatMySQLDefault(col))
	}

	return strings.Join(parts, " ")
}

// mysqlCreateTable generates the CREATE TABLE statement for a table. Tables
// with a composite primary key get a table-level PRIMARY KEY clause.
func mysqlCreateTable(table *Table) string {
	pk := primaryKeyColumns(table)

	var defs []string
	for i := range table.Columns {
		col := table.Columns[i]
		if len(pk) > 1 {
			col.PrimaryKey = false
			col.Nullable = false
		}
		defs = append(defs, mysqlColumnDef(&col))
	}
	if len(pk) > 1 {
		defs = append(defs, "PRIMARY KEY ("+quoteJoin(pk, "`")+")")
	}
	for i := range table.Columns {
		col := &table.Columns[i]
		if col.References != "" {
			defs = append(defs, fmt.Sprintf("FOREIGN KEY (`%s`) REFERENCES `%s` (`id`)",
				col.Name, col.References))
		}
	}
	return fmt.Sprintf("CREATE TABLE `%s` (%s)", table.Name, strings.Join(defs, ", "))
}

// mysqlCreateIndex generates a CREATE INDEX statement.
func mysqlCreateIndex(tableName string, idx *IndexDefinition) string {
	create := "CREATE INDEX"
	if idx.Unique {
		create = "CREATE UNIQUE INDEX"
	}

	cols := make([]string, len(idx.Columns))
	for i, col := range idx.Columns {
		cols[i] = fmt.Sprintf("`%s`", col)
	}

	return fmt.Sprintf("%s `%s` ON `%s` (%s)", create, idx.Name, tableName, strings.Join(cols, ", "))
}
