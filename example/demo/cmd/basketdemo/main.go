// Command basketdemo runs a basket and a team scenario against the database configured via EVENTSTORE_* variables.
//
// Against a throwaway SQLite file:
//
//	EVENTSTORE_DIALECT=sqlite3 EVENTSTORE_ADAPTER=sql.db EVENTSTORE_DSN=demo.db go run ./example/demo/cmd/basketdemo
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const (
	defaultRenamers = 4
)

type options struct {
	observabilityEnabled bool
	renamers             int
}

func main() {
	var (
		observabilityEnabled = flag.Bool("observability-enabled", false, "Record OpenTelemetry metrics and spans and log a summary")
		renamers             = flag.Int("renamers", defaultRenamers, "Number of concurrent renames of the same team")
		verbose              = flag.Bool("verbose", false, "Log at debug level, including SQL")
	)

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	local := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{observabilityEnabled: *observabilityEnabled, renamers: *renamers}

	if err := run(ctx, opts, local); err != nil {
		slog.New(local).Error("basketdemo failed", "error", err.Error())
		os.Exit(1)
	}
}
