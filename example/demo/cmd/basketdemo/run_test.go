package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func givenSQLiteEnv(t *testing.T) {
	t.Helper()

	t.Setenv("EVENTSTORE_DIALECT", "sqlite3")
	t.Setenv("EVENTSTORE_ADAPTER", "sql.db")
	t.Setenv("EVENTSTORE_DSN", filepath.Join(t.TempDir(), "demo.db"))
}

func Test_Run_When_ObservabilityIsEnabled_Then_ScenariosCompleteAndAreReported(t *testing.T) {
	// setup
	givenSQLiteEnv(t)

	var buf bytes.Buffer
	local := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	// act
	err := run(context.Background(), options{observabilityEnabled: true, renamers: 3}, local)

	// assert
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "msg=\"basket summary\"")
	assert.Contains(t, output, "product_count=2")
	assert.Contains(t, output, "distinct_products=1")
	assert.Contains(t, output, "owner_name=\"Ada Lovelace\"")
	assert.Contains(t, output, "msg=\"span finished\" name=command.RenameTeam")
	assert.Contains(t, output, "name=commandhandler_handle_calls_total")
}

func Test_Run_When_RunTwiceOnTheSameDatabase_Then_SecondRunSucceeds(t *testing.T) {
	// setup
	givenSQLiteEnv(t)
	local := slog.NewTextHandler(&bytes.Buffer{}, nil)

	// act
	firstErr := run(context.Background(), options{renamers: 1}, local)
	secondErr := run(context.Background(), options{renamers: 1}, local)

	// assert
	assert.NoError(t, firstErr)
	assert.NoError(t, secondErr)
}

func Test_Run_When_RenamersIsZero_Then_RunFails(t *testing.T) {
	// act
	err := run(context.Background(), options{renamers: 0}, slog.NewTextHandler(&bytes.Buffer{}, nil))

	// assert
	assert.ErrorIs(t, err, errInvalidRenamers)
}
