package sqlengine

import "fmt"

// SchemaStatements returns the DDL that creates the event table and its indexes for the configured dialect.
// Statements are idempotent (IF NOT EXISTS) and meant for tests, demos, and bootstrapping.
// Production schemas are expected to be managed by the surrounding deployment.
func (es EventStore) SchemaStatements() []string {
	table := es.eventTableName

	idColumn := "id BIGSERIAL PRIMARY KEY"
	payloadType := "JSONB"
	timestampType := "TIMESTAMPTZ"

	if es.dialect == DialectSQLite {
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
		payloadType = "TEXT"
		timestampType = "TIMESTAMP"
	}

	return []string{
		fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (
	%s,
	aggregate_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	event_data %s NOT NULL,
	created_utc %s NOT NULL
)`,
			table, idColumn, payloadType, timestampType,
		),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_aggregate_id_idx ON %s (aggregate_id)", table, table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_created_utc_id_idx ON %s (created_utc, id)", table, table),
	}
}
