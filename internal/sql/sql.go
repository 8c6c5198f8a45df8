// Package sql holds the embedded schema migrations and the larger queries
// used by the store layer.
package sql

import (
	"embed"
)

//go:embed migrations
var Migrations embed.FS

//go:embed queries/resolve_assets.sql
var ResolveAssets string

//go:embed queries/unresolved_rows.sql
var UnresolvedRows string

//go:embed queries/latest_diesel_readings.sql
var LatestDieselReadings string

//go:embed queries/latest_inspection_readings.sql
var LatestInspectionReadings string

//go:embed queries/create_transactions.sql
var CreateTransactions string

//go:embed queries/upsert_meter_state.sql
var UpsertMeterState string

//go:embed queries/category_counts.sql
var CategoryCounts string
