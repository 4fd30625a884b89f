package sql

import (
	"embed"
)

// Migrations holds the idempotent schema files applied by db.ApplyMigrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_run.sql
var RegisterRun string

//go:embed queries/update_run_status.sql
var UpdateRunStatus string

//go:embed queries/complete_run.sql
var CompleteRun string
