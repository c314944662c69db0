package ddl

// TableBuilder owns a table under construction and provides typed methods for
// adding columns and indexes. Columns are NOT NULL unless marked Nullable.
type TableBuilder struct {
	table *Table
}

// ColumnBuilder holds a reference to one column and its parent builder so
// modifiers can be chained after the type method.
type ColumnBuilder struct {
	tb  *TableBuilder
	col *ColumnDefinition
}

// NewTable constructs a builder for a table with no columns.
func NewTable(name string) *TableBuilder {
	return &TableBuilder{
		table: &Table{Name: name},
	}
}

// Build returns the constructed table.
func (tb *TableBuilder) Build() *Table {
	return tb.table
}

func (tb *TableBuilder) addColumn(name, typ string) *ColumnBuilder {
	tb.table.Columns = append(tb.table.Columns, ColumnDefinition{
		Name: name,
		Type: typ,
	})
	return &ColumnBuilder{tb: tb, col: &tb.table.Columns[len(tb.table.Columns)-1]}
}

// ID adds the conventional integer primary key column.
func (tb *TableBuilder) ID() *ColumnBuilder {
	return tb.addColumn("id", IntegerType).PrimaryKey()
}

func (tb *TableBuilder) Integer(name string) *ColumnBuilder {
	return tb.addColumn(name, IntegerType)
}

func (tb *TableBuilder) Bigint(name string) *ColumnBuilder {
	return tb.addColumn(name, BigintType)
}

func (tb *TableBuilder) Float(name string) *ColumnBuilder {
	return tb.addColumn(name, FloatType)
}

func (tb *TableBuilder) Boolean(name string) *ColumnBuilder {
	return tb.addColumn(name, BooleanType)
}

// String adds a VARCHAR column with the given length.
func (tb *TableBuilder) String(name string, length int) *ColumnBuilder {
	cb := tb.addColumn(name, StringType)
	cb.col.Length = &length
	return cb
}

func (tb *TableBuilder) Text(name string) *ColumnBuilder {
	return tb.addColumn(name, TextType)
}

func (tb *TableBuilder) Date(name string) *ColumnBuilder {
	return tb.addColumn(name, DateType)
}

func (tb *TableBuilder) Datetime(name string) *ColumnBuilder {
	return tb.addColumn(name, DatetimeType)
}

// Index adds a named index over the given columns.
func (tb *TableBuilder) Index(columns ...string) *TableBuilder {
	tb.table.Indexes = append(tb.table.Indexes, IndexDefinition{
		Name:    IndexName(tb.table.Name, columns...),
		Columns: columns,
	})
	return tb
}

// Nullable allows NULL values in the column.
func (cb *ColumnBuilder) Nullable() *ColumnBuilder {
	cb.col.Nullable = true
	return cb
}

// Default sets the column default. The value is formatted per dialect based on
// the column type.
func (cb *ColumnBuilder) Default(value string) *ColumnBuilder {
	cb.col.Default = &value
	return cb
}

// Unique adds a UNIQUE constraint to the column.
func (cb *ColumnBuilder) Unique() *ColumnBuilder {
	cb.col.Unique = true
	return cb
}

// PrimaryKey marks the column as the table's primary key.
func (cb *ColumnBuilder) PrimaryKey() *ColumnBuilder {
	cb.col.PrimaryKey = true
	return cb
}

// References adds a foreign key to the id column of the given table.
func (cb *ColumnBuilder) References(table string) *ColumnBuilder {
	cb.col.References = table
	return cb
}
