package migrations

import "github.com/notehelper/notehelper/ddl"

// Target shapes of the application schema. The create_* steps bring these
// tables into existence on fresh databases; the rebuild steps use them as the
// full target shape when an existing table has to be replaced.

func territoriesTable() *ddl.Table {
	tb := ddl.NewTable("territories")
	tb.ID()
	tb.String("name", 200)
	tb.Datetime("created_at")
	return tb.Build()
}

func sellersTable() *ddl.Table {
	tb := ddl.NewTable("sellers")
	tb.ID()
	tb.String("name", 200)
	tb.Integer("territory_id").Nullable().References("territories")
	tb.Datetime("created_at")
	return tb.Build()
}

func customersTable() *ddl.Table {
	tb := ddl.NewTable("customers")
	tb.ID()
	tb.String("name", 200)
	tb.Bigint("tpid")
	tb.String("tpid_url", 500).Nullable()
	tb.Integer("seller_id").Nullable().References("sellers")
	tb.Integer("territory_id").Nullable().References("territories")
	tb.Datetime("created_at")
	return tb.Build()
}

func topicsTable() *ddl.Table {
	tb := ddl.NewTable("topics")
	tb.ID()
	tb.String("name", 200)
	tb.Text("description").Nullable()
	tb.Datetime("created_at")
	return tb.Build()
}

func callLogsTable() *ddl.Table {
	tb := ddl.NewTable("call_logs")
	tb.ID()
	tb.Integer("customer_id").References("customers")
	tb.Integer("seller_id").Nullable().References("sellers")
	tb.Integer("territory_id").Nullable().References("territories")
	tb.Datetime("call_date")
	tb.Text("content")
	tb.Datetime("created_at")
	tb.Datetime("updated_at")
	return tb.Build()
}

func callLogsTopicsTable() *ddl.Table {
	tb := ddl.NewTable("call_logs_topics")
	tb.Integer("call_log_id").PrimaryKey().References("call_logs")
	tb.Integer("topic_id").PrimaryKey().References("topics")
	return tb.Build()
}

func opportunitiesTable() *ddl.Table {
	tb := ddl.NewTable("opportunities")
	tb.ID()
	tb.String("msx_opportunity_id", 100).Unique()
	tb.String("name", 300)
	tb.Integer("customer_id").Nullable().References("customers")
	tb.Datetime("created_at")
	tb.Datetime("updated_at")
	return tb.Build()
}

func milestonesTable() *ddl.Table {
	tb := ddl.NewTable("milestones")
	tb.ID()
	tb.String("msx_milestone_id", 100).Nullable().Unique()
	tb.String("milestone_number", 50).Nullable()
	tb.String("title", 300)
	tb.String("url", 500).Nullable()
	tb.String("msx_status", 100).Nullable()
	tb.Integer("msx_status_code").Nullable()
	tb.String("opportunity_name", 300).Nullable()
	tb.String("workload", 200).Nullable()
	tb.Float("monthly_usage").Nullable()
	tb.Datetime("due_date").Nullable()
	tb.Float("dollar_value").Nullable()
	tb.Integer("customer_id").Nullable().References("customers")
	tb.Integer("opportunity_id").Nullable().References("opportunities")
	tb.Datetime("last_synced_at").Nullable()
	tb.Datetime("created_at")
	tb.Datetime("updated_at")
	return tb.Build()
}

func msxTasksTable() *ddl.Table {
	tb := ddl.NewTable("msx_tasks")
	tb.ID()
	tb.String("msx_task_id", 100).Unique()
	tb.String("msx_task_url", 500).Nullable()
	tb.String("subject", 300).Nullable()
	tb.Text("description").Nullable()
	tb.Integer("task_category").Nullable()
	tb.String("task_category_name", 200).Nullable()
	tb.Integer("duration_minutes").Nullable()
	tb.Boolean("is_hok").Default("false")
	tb.Datetime("due_date").Nullable()
	tb.Integer("call_log_id").Nullable().References("call_logs")
	tb.Integer("milestone_id").References("milestones")
	tb.Datetime("created_at")
	return tb.Build()
}

func callLogsMilestonesTable() *ddl.Table {
	tb := ddl.NewTable("call_logs_milestones")
	tb.Integer("call_log_id").PrimaryKey().References("call_logs")
	tb.Integer("milestone_id").PrimaryKey().References("milestones")
	return tb.Build()
}

// Tables returns the full expected schema in dependency order. Used by the
// status command to report which tables are still pending.
func Tables() []*ddl.Table {
	return []*ddl.Table{
		territoriesTable(),
		sellersTable(),
		customersTable(),
		topicsTable(),
		callLogsTable(),
		callLogsTopicsTable(),
		opportunitiesTable(),
		milestonesTable(),
		msxTasksTable(),
		callLogsMilestonesTable(),
	}
}
