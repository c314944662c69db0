package ddl

import "strings"

// Column type constants. These are engine-neutral; each dialect maps them to
// its own declared type in sqlite.go, postgres.go, and mysql.go.
const (
	IntegerType  = "integer"
	BigintType   = "bigint"
	FloatType    = "float"
	BooleanType  = "boolean"
	StringType   = "string"
	TextType     = "text"
	DateType     = "date"
	DatetimeType = "datetime"
)

// Supported database dialects.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
	MySQL    = "mysql"
)

// ColumnDefinition describes one column of a table.
type ColumnDefinition struct {
	Name       string
	Type       string
	Length     *int    // VARCHAR length, nil = dialect default
	Nullable   bool
	Default    *string // nil = no default
	Unique     bool
	PrimaryKey bool
	References string // target table for a foreign key on its "id" column, "" = none
}

// IndexDefinition describes a named index. Indexes are keyed by name: renaming
// an index definition creates a second index rather than replacing the old one.
type IndexDefinition struct {
	Name    string
	Columns []string
	Unique  bool
}

// Table is the full target shape of one database table.
type Table struct {
	Name    string
	Columns []ColumnDefinition
	Indexes []IndexDefinition
}

// Column returns the definition of the named column, or nil if the table has
// no such column.
func (t *Table) Column(name string) *ColumnDefinition {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// IndexName builds the conventional index name for a set of columns.
func IndexName(table string, columns ...string) string {
	return "idx_" + table + "_" + strings.Join(columns, "_")
}

// primaryKeyColumns returns the names of all primary key columns in order.
func primaryKeyColumns(t *Table) []string {
	var names []string
	for _, col := range t.Columns {
		if col.PrimaryKey {
			names = append(names, col.Name)
		}
	}
	return names
}

// quoteJoin joins identifiers with the given quote character.
func quoteJoin(names []string, quote string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote + n + quote
	}
	return strings.Join(quoted, ", ")
}
