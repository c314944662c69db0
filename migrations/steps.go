// Package migrations holds the application's schema migration steps: the
// hand-maintained, ordered list the runner executes on every startup. Later
// steps may assume earlier ones already ran (create_msx_tasks references the
// milestones table, for example), so order is load-bearing.
package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/notehelper/notehelper/ddl"
	"github.com/notehelper/notehelper/migrate"
)

// Steps returns all migration steps in execution order.
func Steps() []migrate.Step {
	return []migrate.Step{
		{Name: "create_territories", Apply: createTable(territoriesTable)},
		{Name: "create_sellers", Apply: createTable(sellersTable)},
		{Name: "create_customers", Apply: createTable(customersTable)},
		{Name: "create_topics", Apply: createTable(topicsTable)},
		{Name: "create_call_logs", Apply: createTable(callLogsTable)},
		{Name: "create_call_logs_topics", Apply: createTable(callLogsTopicsTable)},
		{Name: "create_opportunities", Apply: createTable(opportunitiesTable)},
		{Name: "rebuild_legacy_milestones", Apply: rebuildLegacyMilestones},
		{Name: "create_milestones", Apply: createTable(milestonesTable)},
		{Name: "create_msx_tasks", Apply: createTable(msxTasksTable)},
		{Name: "create_call_logs_milestones", Apply: createTable(callLogsMilestonesTable)},
		{Name: "add_customer_tpid_url", Apply: addCustomerTpidURL},
		{Name: "add_milestone_sync_columns", Apply: addMilestoneSyncColumns},
		{Name: "upgrade_call_date_to_datetime", Apply: upgradeCallDateToDatetime},
		{Name: "relax_call_logs_seller_id", Apply: relaxCallLogsSellerID},
		{Name: "add_performance_indexes", Apply: addPerformanceIndexes},
	}
}

// createTable wraps a table definition in a create-if-missing step.
func createTable(table func() *ddl.Table) func(context.Context, *migrate.Env) error {
	return func(ctx context.Context, env *migrate.Env) error {
		_, err := env.CreateTableIfMissing(ctx, table())
		return err
	}
}

// rebuildLegacyMilestones replaces a pre-CRM milestones table with the
// CRM-linked shape. Milestones created before the MSX integration have no
// msx_milestone_id and cannot be matched against the external system, so they
// are discarded along with their call-log links. This is the one deliberate
// exception to the no-data-loss policy; the rows were manually entered
// placeholders that the first sync re-creates from MSX.
func rebuildLegacyMilestones(ctx context.Context, env *migrate.Env) error {
	exists, err := env.Inspector.TableExists(ctx, "milestones")
	if err != nil {
		return err
	}
	if !exists {
		// fresh database, create_milestones handles it
		return nil
	}

	hasSyncID, err := env.Inspector.ColumnExists(ctx, "milestones", "msx_milestone_id")
	if err != nil {
		return err
	}
	if hasSyncID {
		env.Log.Info("milestones table already has msx_milestone_id, skipping")
		return nil
	}

	env.Log.Warn("legacy milestones table found, dropping it and its call log links")

	junctionExists, err := env.Inspector.TableExists(ctx, "call_logs_milestones")
	if err != nil {
		return err
	}
	if junctionExists {
		// Drop rather than empty: the junction's foreign key would block
		// dropping milestones on engines that enforce it. The
		// create_call_logs_milestones step recreates it empty.
		drop, err := ddl.DropTable(env.Dialect, "call_logs_milestones")
		if err != nil {
			return err
		}
		if _, err := env.DB.ExecContext(ctx, drop); err != nil {
			return fmt.Errorf("dropping legacy call_logs_milestones: %w", err)
		}
	}

	drop, err := ddl.DropTable(env.Dialect, "milestones")
	if err != nil {
		return err
	}
	if _, err := env.DB.ExecContext(ctx, drop); err != nil {
		return fmt.Errorf("dropping legacy milestones: %w", err)
	}

	// create_milestones runs next and builds the replacement
	return nil
}

func addCustomerTpidURL(ctx context.Context, env *migrate.Env) error {
	length := 500
	_, err := env.AddColumnIfMissing(ctx, "customers", ddl.ColumnDefinition{
		Name:     "tpid_url",
		Type:     ddl.StringType,
		Length:   &length,
		Nullable: true,
	})
	return err
}

// addMilestoneSyncColumns backfills columns that later sync features added to
// the milestones table, for deployments whose milestones table predates them.
func addMilestoneSyncColumns(ctx context.Context, env *migrate.Env) error {
	cols := []ddl.ColumnDefinition{
		{Name: "msx_status_code", Type: ddl.IntegerType, Nullable: true},
		{Name: "monthly_usage", Type: ddl.FloatType, Nullable: true},
		{Name: "last_synced_at", Type: ddl.DatetimeType, Nullable: true},
	}
	for _, col := range cols {
		if _, err := env.AddColumnIfMissing(ctx, "milestones", col); err != nil {
			return err
		}
	}
	return nil
}

// upgradeCallDateToDatetime changes call_logs.call_date from DATE to DATETIME
// so meeting imports can carry a time of day. SQLite has no in-place column
// type change, so the table is rebuilt; Postgres and MySQL alter in place.
func upgradeCallDateToDatetime(ctx context.Context, env *migrate.Env) error {
	col, err := env.Inspector.Column(ctx, "call_logs", "call_date")
	if err != nil {
		return err
	}
	if col.Type != "DATE" {
		env.Log.Info("call_date is already a datetime, skipping", "type", col.Type)
		return nil
	}

	switch env.Dialect {
	case ddl.SQLite:
		return env.RebuildTable(ctx, &migrate.Rebuild{
			Target: callLogsTable(),
			Copies: callLogsCopies(callDateCoercion("call_date")),
		})
	case ddl.Postgres:
		_, err := env.DB.ExecContext(ctx,
			`ALTER TABLE "call_logs" ALTER COLUMN "call_date" TYPE TIMESTAMP USING "call_date"::timestamp`)
		if err != nil {
			return fmt.Errorf("upgrading call_date: %w", err)
		}
	case ddl.MySQL:
		_, err := env.DB.ExecContext(ctx,
			"ALTER TABLE `call_logs` MODIFY `call_date` DATETIME NOT NULL")
		if err != nil {
			return fmt.Errorf("upgrading call_date: %w", err)
		}
	}

	env.Log.Info("upgraded call_date to datetime")
	return nil
}

// relaxCallLogsSellerID drops the NOT NULL constraint that early deployments
// put on call_logs.seller_id. Imported meetings have no seller attached and the
// column has been optional since. On SQLite the call_date rebuild already
// produces the relaxed shape, so this step usually skips there.
func relaxCallLogsSellerID(ctx context.Context, env *migrate.Env) error {
	col, err := env.Inspector.Column(ctx, "call_logs", "seller_id")
	if err != nil {
		return err
	}
	if col.Nullable {
		env.Log.Info("seller_id is already nullable, skipping")
		return nil
	}

	switch env.Dialect {
	case ddl.SQLite:
		return env.RebuildTable(ctx, &migrate.Rebuild{
			Target: callLogsTable(),
			Copies: callLogsCopies(""),
		})
	case ddl.Postgres:
		_, err := env.DB.ExecContext(ctx,
			`ALTER TABLE "call_logs" ALTER COLUMN "seller_id" DROP NOT NULL`)
		if err != nil {
			return fmt.Errorf("relaxing seller_id: %w", err)
		}
	case ddl.MySQL:
		_, err := env.DB.ExecContext(ctx,
			"ALTER TABLE `call_logs` MODIFY `seller_id` INT NULL")
		if err != nil {
			return fmt.Errorf("relaxing seller_id: %w", err)
		}
	}

	env.Log.Info("relaxed seller_id to nullable")
	return nil
}

// callLogsCopies builds the rebuild copy list for call_logs: every target
// column copied straight, except call_date when a coercion expression is
// given.
func callLogsCopies(callDateExpr string) []migrate.ColumnCopy {
	var copies []migrate.ColumnCopy
	for _, col := range callLogsTable().Columns {
		c := migrate.ColumnCopy{Name: col.Name}
		if col.Name == "call_date" {
			c.Expr = callDateExpr
		}
		copies = append(copies, c)
	}
	return copies
}

func addPerformanceIndexes(ctx context.Context, env *migrate.Env) error {
	indexes := []struct {
		table string
		idx   ddl.IndexDefinition
	}{
		{"call_logs", ddl.IndexDefinition{Name: "idx_call_logs_customer_id", Columns: []string{"customer_id"}}},
		{"call_logs", ddl.IndexDefinition{Name: "idx_call_logs_call_date", Columns: []string{"call_date"}}},
		{"call_logs", ddl.IndexDefinition{Name: "idx_call_logs_customer_date", Columns: []string{"customer_id", "call_date"}}},
		{"customers", ddl.IndexDefinition{Name: "idx_customers_name", Columns: []string{"name"}}},
		{"topics", ddl.IndexDefinition{Name: "idx_topics_name", Columns: []string{"name"}}},
		{"milestones", ddl.IndexDefinition{Name: "idx_milestones_customer_id", Columns: []string{"customer_id"}}},
		{"msx_tasks", ddl.IndexDefinition{Name: "idx_msx_tasks_milestone_id", Columns: []string{"milestone_id"}}},
	}
	for _, entry := range indexes {
		if _, err := env.AddIndexIfMissing(ctx, entry.table, entry.idx); err != nil {
			return err
		}
	}
	return nil
}

// callDateCoercion returns the SQLite expression converting a legacy
// call_date value into a datetime string:
//
//	"YYYY-MM-DD HH:MM:SS" passes through unchanged
//	"YYYY-MM-DDTHH:MM:SS" has the T replaced by a space
//	"YYYY-MM-DD" gets " 00:00:00" appended
//	anything else is treated as a bare year: value || "-01-01 00:00:00"
//
// The final branch is a best-effort heuristic, not a correct parse. A
// malformed value like "n/a" becomes "n/a-01-01 00:00:00" silently, so
// unparseable inputs are a data-quality risk rather than a migration failure.
// Kept verbatim for compatibility with previously migrated databases.
func callDateCoercion(column string) string {
	q := `"` + column + `"`
	return strings.Join([]string{
		"CASE",
		"WHEN " + q + " LIKE '____-__-__ %' THEN " + q,
		"WHEN " + q + " LIKE '____-__-__T%' THEN REPLACE(" + q + ", 'T', ' ')",
		"WHEN " + q + " LIKE '____-__-__' THEN " + q + " || ' 00:00:00'",
		"ELSE " + q + " || '-01-01 00:00:00'",
		"END",
	}, " ")
}
