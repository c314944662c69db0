package migrations

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/notehelper/notehelper/ddl"
	"github.com/notehelper/notehelper/migrate"
	"github.com/notehelper/notehelper/schema"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := db.Ping(); err != nil {
		t.Fatalf("failed to ping sqlite: %v", err)
	}
	return db
}

func mustExec(t *testing.T, db *sql.DB, stmt string, args ...any) {
	t.Helper()
	if _, err := db.Exec(stmt, args...); err != nil {
		t.Fatalf("failed to exec %q: %v", stmt, err)
	}
}

func runAll(t *testing.T, db *sql.DB) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := migrate.Run(context.Background(), db, ddl.SQLite, logger, Steps()); err != nil {
		t.Fatalf("migrate.Run: %v", err)
	}
}

// schemaSnapshot dumps the full DDL of every table and index, in a stable
// order. Two runs producing identical snapshots means the second run changed
// nothing structurally.
func schemaSnapshot(t *testing.T, db *sql.DB) string {
	t.Helper()

	rows, err := db.Query(`SELECT type, name, COALESCE(sql, '') FROM sqlite_master WHERE name NOT LIKE 'sqlite_%' ORDER BY type, name`)
	if err != nil {
		t.Fatalf("dumping sqlite_master: %v", err)
	}
	defer rows.Close()

	var snapshot string
	for rows.Next() {
		var typ, name, ddlText string
		if err := rows.Scan(&typ, &name, &ddlText); err != nil {
			t.Fatalf("scanning sqlite_master: %v", err)
		}
		snapshot += typ + " " + name + ": " + ddlText + "\n"
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("reading sqlite_master: %v", err)
	}
	return snapshot
}

func TestFreshDatabaseGetsFullSchema(t *testing.T) {
	db := openTestDB(t)
	runAll(t, db)

	insp := schema.NewInspector(db, ddl.SQLite)
	ctx := context.Background()

	for _, table := range Tables() {
		exists, err := insp.TableExists(ctx, table.Name)
		if err != nil {
			t.Fatalf("TableExists(%s): %v", table.Name, err)
		}
		if !exists {
			t.Errorf("table %s missing after migration", table.Name)
			continue
		}
		for _, col := range table.Columns {
			ok, err := insp.ColumnExists(ctx, table.Name, col.Name)
			if err != nil {
				t.Fatalf("ColumnExists(%s.%s): %v", table.Name, col.Name, err)
			}
			if !ok {
				t.Errorf("column %s.%s missing after migration", table.Name, col.Name)
			}
		}
	}

	// Fresh databases come up in the final shape directly: datetime call_date,
	// nullable seller_id, indexes present.
	col, err := insp.Column(ctx, "call_logs", "call_date")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if col.Type != "DATETIME" {
		t.Errorf("call_date type = %q, want DATETIME", col.Type)
	}
	col, err = insp.Column(ctx, "call_logs", "seller_id")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if !col.Nullable {
		t.Error("seller_id should be nullable")
	}
	for _, idx := range []string{"idx_call_logs_customer_id", "idx_call_logs_call_date", "idx_call_logs_customer_date"} {
		ok, err := insp.IndexExists(ctx, "call_logs", idx)
		if err != nil {
			t.Fatalf("IndexExists(%s): %v", idx, err)
		}
		if !ok {
			t.Errorf("index %s missing", idx)
		}
	}
	ok, err := insp.IndexExists(ctx, "customers", "idx_customers_name")
	if err != nil {
		t.Fatalf("IndexExists: %v", err)
	}
	if !ok {
		t.Error("index idx_customers_name missing")
	}
}

func TestSecondRunChangesNothing(t *testing.T) {
	db := openTestDB(t)
	runAll(t, db)
	before := schemaSnapshot(t, db)

	mustExec(t, db, `INSERT INTO customers (name, tpid, created_at) VALUES ('Contoso', 12345, '2026-01-05 09:00:00')`)

	runAll(t, db)
	after := schemaSnapshot(t, db)

	if before != after {
		t.Errorf("schema changed on second run:\nbefore:\n%s\nafter:\n%s", before, after)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		t.Fatalf("counting customers: %v", err)
	}
	if count != 1 {
		t.Errorf("customer rows = %d, want 1", count)
	}
}

// A database whose milestones table predates the MSX integration has the
// table replaced and its call log links cleared. Everything else survives.
func TestLegacyMilestonesReplaced(t *testing.T) {
	db := openTestDB(t)

	mustExec(t, db, `CREATE TABLE milestones (
		id INTEGER PRIMARY KEY,
		title VARCHAR(300) NOT NULL,
		due_date DATE,
		created_at DATETIME NOT NULL
	)`)
	mustExec(t, db, `CREATE TABLE call_logs_milestones (
		call_log_id INTEGER NOT NULL,
		milestone_id INTEGER NOT NULL,
		PRIMARY KEY ("call_log_id", "milestone_id")
	)`)
	mustExec(t, db, `INSERT INTO milestones (id, title, created_at) VALUES (1, 'hand-entered', '2025-06-01 00:00:00')`)
	mustExec(t, db, `INSERT INTO call_logs_milestones VALUES (10, 1), (11, 1)`)

	runAll(t, db)

	insp := schema.NewInspector(db, ddl.SQLite)
	ctx := context.Background()

	ok, err := insp.ColumnExists(ctx, "milestones", "msx_milestone_id")
	if err != nil {
		t.Fatalf("ColumnExists: %v", err)
	}
	if !ok {
		t.Error("rebuilt milestones table should carry msx_milestone_id")
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM milestones`).Scan(&count); err != nil {
		t.Fatalf("counting milestones: %v", err)
	}
	if count != 0 {
		t.Errorf("legacy milestone rows survived, got %d", count)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM call_logs_milestones`).Scan(&count); err != nil {
		t.Fatalf("counting call_logs_milestones: %v", err)
	}
	if count != 0 {
		t.Errorf("legacy junction rows survived, got %d", count)
	}

	// A second run leaves the replacement table alone
	before := schemaSnapshot(t, db)
	runAll(t, db)
	if after := schemaSnapshot(t, db); before != after {
		t.Error("second run modified the replaced milestones table")
	}
}

func TestLegacyCallLogsUpgraded(t *testing.T) {
	db := openTestDB(t)

	// Earliest deployed shape: DATE call_date, NOT NULL seller_id.
	mustExec(t, db, `CREATE TABLE call_logs (
		"id" INTEGER PRIMARY KEY,
		"customer_id" INTEGER NOT NULL,
		"seller_id" INTEGER NOT NULL,
		"territory_id" INTEGER,
		"call_date" DATE NOT NULL,
		"content" TEXT NOT NULL,
		"created_at" DATETIME NOT NULL,
		"updated_at" DATETIME NOT NULL
	)`)
	mustExec(t, db, `INSERT INTO call_logs (id, customer_id, seller_id, call_date, content, created_at, updated_at) VALUES
		(1, 1, 1, '2026-02-10 14:30:00', 'already datetime', '2026-02-10 14:30:00', '2026-02-10 14:30:00'),
		(2, 1, 1, '2026-02-11T09:15:00', 'iso t separator',  '2026-02-11 09:15:00', '2026-02-11 09:15:00'),
		(3, 1, 1, '2026-02-12',          'date only',        '2026-02-12 08:00:00', '2026-02-12 08:00:00'),
		(4, 1, 1, '2026',                'bare year',        '2026-02-13 08:00:00', '2026-02-13 08:00:00')`)

	runAll(t, db)

	insp := schema.NewInspector(db, ddl.SQLite)
	ctx := context.Background()

	col, err := insp.Column(ctx, "call_logs", "call_date")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if col.Type != "DATETIME" {
		t.Errorf("call_date type = %q, want DATETIME", col.Type)
	}

	col, err = insp.Column(ctx, "call_logs", "seller_id")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if !col.Nullable {
		t.Error("seller_id should be nullable after the rebuild")
	}

	want := map[int]string{
		1: "2026-02-10 14:30:00",
		2: "2026-02-11 09:15:00",
		3: "2026-02-12 00:00:00",
		4: "2026-01-01 00:00:00",
	}
	for id, expected := range want {
		var got string
		if err := db.QueryRow(`SELECT call_date FROM call_logs WHERE id = ?`, id).Scan(&got); err != nil {
			t.Fatalf("querying call_logs %d: %v", id, err)
		}
		if got != expected {
			t.Errorf("row %d: call_date = %q, want %q", id, got, expected)
		}
	}

	var content string
	if err := db.QueryRow(`SELECT content FROM call_logs WHERE id = 2`).Scan(&content); err != nil {
		t.Fatalf("querying content: %v", err)
	}
	if content != "iso t separator" {
		t.Errorf("content = %q, untransformed columns must copy through", content)
	}
}

// Databases stopped at an intermediate deployment pick up only what they are
// missing. Pre-existing tables and their rows are untouched.
func TestPartiallyMigratedDatabase(t *testing.T) {
	db := openTestDB(t)

	mustExec(t, db, `CREATE TABLE "topics" (
		"id" INTEGER PRIMARY KEY,
		"name" VARCHAR(200) NOT NULL,
		"description" TEXT,
		"created_at" DATETIME NOT NULL
	)`)
	mustExec(t, db, `INSERT INTO topics (name, created_at) VALUES ('security', '2025-11-01 10:00:00')`)

	runAll(t, db)

	insp := schema.NewInspector(db, ddl.SQLite)
	ctx := context.Background()

	for _, name := range []string{"territories", "sellers", "customers", "call_logs", "opportunities", "milestones", "msx_tasks"} {
		exists, err := insp.TableExists(ctx, name)
		if err != nil {
			t.Fatalf("TableExists(%s): %v", name, err)
		}
		if !exists {
			t.Errorf("table %s missing", name)
		}
	}

	var name string
	if err := db.QueryRow(`SELECT name FROM topics WHERE id = 1`).Scan(&name); err != nil {
		t.Fatalf("querying topics: %v", err)
	}
	if name != "security" {
		t.Errorf("topic name = %q, pre-existing rows must survive", name)
	}
}

func TestCustomersGainTpidURL(t *testing.T) {
	db := openTestDB(t)

	mustExec(t, db, `CREATE TABLE "customers" (
		"id" INTEGER PRIMARY KEY,
		"name" VARCHAR(200) NOT NULL,
		"tpid" BIGINT NOT NULL,
		"seller_id" INTEGER,
		"territory_id" INTEGER,
		"created_at" DATETIME NOT NULL
	)`)
	mustExec(t, db, `INSERT INTO customers (name, tpid, created_at) VALUES ('Fabrikam', 999, '2025-01-01 00:00:00')`)

	runAll(t, db)

	var url sql.NullString
	if err := db.QueryRow(`SELECT tpid_url FROM customers WHERE id = 1`).Scan(&url); err != nil {
		t.Fatalf("querying tpid_url: %v", err)
	}
	if url.Valid {
		t.Errorf("tpid_url should be NULL on pre-existing rows, got %q", url.String)
	}
}

func TestStepNamesAreUniqueAndOrdered(t *testing.T) {
	steps := Steps()
	seen := make(map[string]bool, len(steps))
	for _, step := range steps {
		if step.Name == "" {
			t.Error("step with empty name")
		}
		if step.Apply == nil {
			t.Errorf("step %s has no apply function", step.Name)
		}
		if seen[step.Name] {
			t.Errorf("duplicate step name %s", step.Name)
		}
		seen[step.Name] = true
	}
	if steps[len(steps)-1].Name != "add_performance_indexes" {
		t.Error("indexes must be created last, after any table rebuilds")
	}
}
