package ddl

import "fmt"

// CreateTable generates the statements that create a table and its indexes in
// the given dialect: one CREATE TABLE followed by one CREATE INDEX per index.
func CreateTable(dialect string, table *Table) ([]string, error) {
	var stmts []string
	switch dialect {
	case SQLite:
		stmts = append(stmts, sqliteCreateTable(table))
		for i := range table.Indexes {
			stmts = append(stmts, sqliteCreateIndex(table.Name, &table.Indexes[i]))
		}
	case Postgres:
		stmts = append(stmts, postgresCreateTable(table))
		for i := range table.Indexes {
			stmts = append(stmts, postgresCreateIndex(table.Name, &table.Indexes[i]))
		}
	case MySQL:
		stmts = append(stmts, mysqlCreateTable(table))
		for i := range table.Indexes {
			stmts = append(stmts, mysqlCreateIndex(table.Name, &table.Indexes[i]))
		}
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
	return stmts, nil
}

// AddColumn generates an ALTER TABLE ADD COLUMN statement.
func AddColumn(dialect, table string, col *ColumnDefinition) (string, error) {
	switch dialect {
	case SQLite:
		return fmt.Sprintf(`ALTER TABLE "%s" ADD COLUMN %s`, table, sqliteColumnDef(col)), nil
	case Postgres:
		return fmt.Sprintf(`ALTER TABLE "%s" ADD COLUMN %s`, table, postgresColumnDef(col)), nil
	case MySQL:
		return fmt.Sprintf("ALTER TABLE `%s` ADD COLUMN %s", table, mysqlColumnDef(col)), nil
	default:
		return "", fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// CreateIndex generates a CREATE INDEX statement.
func CreateIndex(dialect, table string, idx *IndexDefinition) (string, error) {
	switch dialect {
	case SQLite:
		return sqliteCreateIndex(table, idx), nil
	case Postgres:
		return postgresCreateIndex(table, idx), nil
	case MySQL:
		return mysqlCreateIndex(table, idx), nil
	default:
		return "", fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// RenameTable generates a table rename statement.
func RenameTable(dialect, from, to string) (string, error) {
	switch dialect {
	case SQLite, Postgres:
		return fmt.Sprintf(`ALTER TABLE "%s" RENAME TO "%s"`, from, to), nil
	case MySQL:
		return fmt.Sprintf("RENAME TABLE `%s` TO `%s`", from, to), nil
	default:
		return "", fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// DropTable generates a DROP TABLE statement.
func DropTable(dialect, table string) (string, error) {
	switch dialect {
	case SQLite, Postgres:
		return fmt.Sprintf(`DROP TABLE "%s"`, table), nil
	case MySQL:
		return fmt.Sprintf("DROP TABLE `%s`", table), nil
	default:
		return "", fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// QuoteIdent quotes an identifier for the given dialect.
func QuoteIdent(dialect, name string) string {
	if dialect == MySQL {
		return fmt.Sprintf("`%s`", name)
	}
	return fmt.Sprintf(`"%s"`, name)
}
