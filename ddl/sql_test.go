package ddl

import (
	"strings"
	"testing"
)

func sampleTable() *Table {
	tb := NewTable("customers")
	tb.ID()
	tb.String("name", 200)
	tb.Bigint("tpid")
	tb.String("tpid_url", 500).Nullable()
	tb.Integer("seller_id").Nullable().References("sellers")
	tb.Datetime("created_at")
	return tb.Build()
}

func TestSQLiteCreateTable(t *testing.T) {
	got := sqliteCreateTable(sampleTable())
	want := `CREATE TABLE "customers" (` +
		`"id" INTEGER PRIMARY KEY, ` +
		`"name" VARCHAR(200) NOT NULL, ` +
		`"tpid" BIGINT NOT NULL, ` +
		`"tpid_url" VARCHAR(500), ` +
		`"seller_id" INTEGER REFERENCES "sellers" ("id"), ` +
		`"created_at" DATETIME NOT NULL)`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// SQLite keeps declared type names, so DATE and DATETIME columns must read
// back distinguishably for the runner's type guards.
func TestSQLiteDeclaredDateTypes(t *testing.T) {
	tb := NewTable("call_logs")
	tb.Date("call_date")
	tb.Datetime("created_at")
	got := sqliteCreateTable(tb.Build())

	if !strings.Contains(got, `"call_date" DATE NOT NULL`) {
		t.Errorf("expected DATE declared type, got: %s", got)
	}
	if !strings.Contains(got, `"created_at" DATETIME NOT NULL`) {
		t.Errorf("expected DATETIME declared type, got: %s", got)
	}
}

func TestSQLiteCompositePrimaryKey(t *testing.T) {
	tb := NewTable("call_logs_topics")
	tb.Integer("call_log_id").PrimaryKey().References("call_logs")
	tb.Integer("topic_id").PrimaryKey().References("topics")
	got := sqliteCreateTable(tb.Build())

	want := `CREATE TABLE "call_logs_topics" (` +
		`"call_log_id" INTEGER NOT NULL REFERENCES "call_logs" ("id"), ` +
		`"topic_id" INTEGER NOT NULL REFERENCES "topics" ("id"), ` +
		`PRIMARY KEY ("call_log_id", "topic_id"))`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPostgresCreateTable(t *testing.T) {
	got := postgresCreateTable(sampleTable())

	if !strings.Contains(got, `"id" SERIAL PRIMARY KEY`) {
		t.Errorf("expected SERIAL primary key, got: %s", got)
	}
	if !strings.Contains(got, `"seller_id" INTEGER REFERENCES "sellers" ("id")`) {
		t.Errorf("expected inline foreign key, got: %s", got)
	}
	if !strings.Contains(got, `"created_at" TIMESTAMP NOT NULL`) {
		t.Errorf("expected TIMESTAMP column, got: %s", got)
	}
}

func TestMySQLCreateTable(t *testing.T) {
	got := mysqlCreateTable(sampleTable())

	if !strings.Contains(got, "`id` INT AUTO_INCREMENT PRIMARY KEY") {
		t.Errorf("expected AUTO_INCREMENT primary key, got: %s", got)
	}
	// MySQL ignores inline REFERENCES; the constraint must be table-level
	if !strings.Contains(got, "FOREIGN KEY (`seller_id`) REFERENCES `sellers` (`id`)") {
		t.Errorf("expected table-level foreign key, got: %s", got)
	}
}

func TestAddColumn(t *testing.T) {
	length := 500
	col := ColumnDefinition{Name: "tpid_url", Type: StringType, Length: &length, Nullable: true}

	got, err := AddColumn(SQLite, "customers", &col)
	if err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	want := `ALTER TABLE "customers" ADD COLUMN "tpid_url" VARCHAR(500)`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, err = AddColumn(MySQL, "customers", &col)
	if err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	want = "ALTER TABLE `customers` ADD COLUMN `tpid_url` VARCHAR(500)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAddColumnWithDefault(t *testing.T) {
	def := "false"
	col := ColumnDefinition{Name: "is_hok", Type: BooleanType, Default: &def}

	got, err := AddColumn(SQLite, "msx_tasks", &col)
	if err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	want := `ALTER TABLE "msx_tasks" ADD COLUMN "is_hok" BOOLEAN NOT NULL DEFAULT 0`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCreateIndex(t *testing.T) {
	idx := IndexDefinition{Name: "idx_call_logs_customer_date", Columns: []string{"customer_id", "call_date"}}

	got, err := CreateIndex(SQLite, "call_logs", &idx)
	if err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	want := `CREATE INDEX "idx_call_logs_customer_date" ON "call_logs" ("customer_id", "call_date")`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	idx.Unique = true
	got, err = CreateIndex(Postgres, "call_logs", &idx)
	if err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	if !strings.HasPrefix(got, "CREATE UNIQUE INDEX") {
		t.Errorf("expected unique index, got %q", got)
	}
}

func TestCreateTableUnsupportedDialect(t *testing.T) {
	if _, err := CreateTable("oracle", sampleTable()); err == nil {
		t.Error("expected error for unsupported dialect")
	}
}

func TestIndexName(t *testing.T) {
	got := IndexName("call_logs", "customer_id", "call_date")
	if got != "idx_call_logs_customer_id_call_date" {
		t.Errorf("got %q", got)
	}
}

func TestTableColumnLookup(t *testing.T) {
	table := sampleTable()
	if col := table.Column("tpid"); col == nil || col.Type != BigintType {
		t.Errorf("expected bigint tpid column, got %+v", col)
	}
	if col := table.Column("missing"); col != nil {
		t.Errorf("expected nil for missing column, got %+v", col)
	}
}
