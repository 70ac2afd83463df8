package shell

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/sqlengine"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

var schemaFileByDialect = map[string]string{
	sqlengine.DialectPostgres: "schema/postgres.sql",
	sqlengine.DialectSQLite:   "schema/sqlite.sql",
}

// SchemaStatements returns the DDL of the three event tables and all projection tables.
func (s EventStores) SchemaStatements() ([]string, error) {
	file, ok := schemaFileByDialect[s.Baskets.Dialect()]
	if !ok {
		return nil, eventstore.ErrUnsupportedDialect
	}

	projectionDDL, err := schemaFiles.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var statements []string
	for _, store := range []sqlengine.EventStore{s.Baskets, s.Users, s.Teams} {
		statements = append(statements, store.SchemaStatements()...)
	}

	for _, statement := range strings.Split(string(projectionDDL), ";") {
		if statement = strings.TrimSpace(statement); statement != "" {
			statements = append(statements, statement)
		}
	}

	return statements, nil
}

// ApplySchema creates all tables and indexes that do not exist yet.
func (s EventStores) ApplySchema(ctx context.Context, q eventstore.DBQuerier) error {
	statements, err := s.SchemaStatements()
	if err != nil {
		return errors.Join(ErrApplyingSchemaFailed, err)
	}

	for i, statement := range statements {
		if _, err = q.Exec(ctx, statement); err != nil {
			return errors.Join(ErrApplyingSchemaFailed, fmt.Errorf("statement %d: %w", i+1, err))
		}
	}

	return nil
}
