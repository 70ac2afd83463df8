package sqlengine_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/adapters"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/sqlengine"
	"github.com/AntonStoeckl/aggregate-eventstore-go/testutil/sqlitedb"
)

const benchmarkStreamLength = 500

func givenBenchmarkStore(b *testing.B) (sqlengine.EventStore, eventstore.DBConn) {
	b.Helper()

	es, err := sqlengine.NewEventStore(sqlengine.WithDialect(sqlengine.DialectSQLite))
	require.NoError(b, err)

	provider, err := adapters.NewSQLDBProvider(sqlitedb.OpenWithSchema(b, es.SchemaStatements()...))
	require.NoError(b, err)

	conn, err := provider.Acquire(context.Background())
	require.NoError(b, err)
	b.Cleanup(func() {
		_ = conn.Release()
	})

	return es, conn
}

func givenStreamOfLength(b *testing.B, es sqlengine.EventStore, conn eventstore.DBConn, aggregateID string, length int) {
	b.Helper()

	for i := 0; i < length; i++ {
		err := es.Append(context.Background(), conn, aggregateID, "item_added_v1", []byte(`{"productId":"apple"}`))
		require.NoError(b, err)
	}
}

func Benchmark_ReadOrdered_With_Long_Stream(b *testing.B) {
	// setup
	ctx := context.Background()
	es, conn := givenBenchmarkStore(b)

	// arrange
	givenStreamOfLength(b, es, conn, "basket-1", benchmarkStreamLength)

	// act
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		events, err := es.ReadOrdered(ctx, conn, "basket-1")
		if err != nil || len(events) != benchmarkStreamLength {
			b.Fatalf("read %d events: %v", len(events), err)
		}
	}
}

func Benchmark_AppendAtVersion_With_Long_Stream(b *testing.B) {
	for _, length := range []int{10, benchmarkStreamLength} {
		b.Run(fmt.Sprintf("stream of %d events", length), func(b *testing.B) {
			// setup
			ctx := context.Background()
			es, conn := givenBenchmarkStore(b)

			// arrange
			givenStreamOfLength(b, es, conn, "basket-1", length)
			version := uint(length)
			var appendTime time.Duration

			// act
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				start := time.Now()
				err := es.AppendAtVersion(ctx, conn, "basket-1", version, "item_added_v1", []byte(`{"productId":"pear"}`))
				appendTime += time.Since(start)

				if err != nil {
					b.Fatal(err)
				}

				version++
			}

			b.ReportMetric(float64(appendTime.Microseconds())/float64(b.N), "µs/append-op")

			// assert
			b.StopTimer()
			events, err := es.ReadOrdered(ctx, conn, "basket-1")
			require.NoError(b, err)
			assert.Len(b, events, int(version))
		})
	}
}
