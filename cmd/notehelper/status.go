package main

import (
	"context"

	"github.com/notehelper/notehelper/cli"
	"github.com/notehelper/notehelper/migrations"
	"github.com/notehelper/notehelper/schema"
)

// statusCmd prints the expected schema against the live database without
// changing anything: which tables exist, and which expected columns are still
// missing from the ones that do.
func statusCmd() {
	db, dialect, _, err := openDatabase()
	if err != nil {
		cli.FatalErr("opening database", err)
	}
	defer db.Close()

	ctx := context.Background()
	inspector := schema.NewInspector(db, dialect)

	pending := 0
	for _, table := range migrations.Tables() {
		exists, err := inspector.TableExists(ctx, table.Name)
		if err != nil {
			cli.FatalErr("inspecting schema", err)
		}
		if !exists {
			cli.Infof("  %-24s missing", table.Name)
			pending++
			continue
		}

		var missing []string
		for _, col := range table.Columns {
			ok, err := inspector.ColumnExists(ctx, table.Name, col.Name)
			if err != nil {
				cli.FatalErr("inspecting schema", err)
			}
			if !ok {
				missing = append(missing, col.Name)
			}
		}
		if len(missing) > 0 {
			cli.Infof("  %-24s missing columns: %v", table.Name, missing)
			pending++
		} else {
			cli.Infof("  %-24s ok", table.Name)
		}
	}

	if pending == 0 {
		cli.Successf("schema is up to date")
	} else {
		cli.Infof("%d table(s) pending migration", pending)
	}
}
