package shell

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/sqlengine"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/txscope"
)

// ErrNilConnProvider is returned when Services are created without a connection provider.
var ErrNilConnProvider = errors.New("connection provider must not be nil")

// Services bundles everything the feature slices need: the transaction scope, the repositories
// (write side), the projections, and the lookup repositories (read side and prechecks).
type Services struct {
	Scope        txscope.Scope
	Stores       EventStores
	Repositories Repositories
	Projections  Projections
	Lookups      Lookups
	Logger       Logger
	Metrics      MetricsCollector
}

type servicesConfig struct {
	clock       func() time.Time
	idGenerator aggregate.IDGenerator
	logger      Logger
	metrics     MetricsCollector
}

// ServicesOption configures Services.
type ServicesOption func(*servicesConfig)

// WithClock sets the clock that timestamps appended events.
func WithClock(clock func() time.Time) ServicesOption {
	return func(c *servicesConfig) {
		c.clock = clock
	}
}

// WithIDGenerator sets the generator of new aggregate ids.
func WithIDGenerator(newID aggregate.IDGenerator) ServicesOption {
	return func(c *servicesConfig) {
		c.idGenerator = newID
	}
}

// WithLogger sets the logger for all components.
func WithLogger(logger Logger) ServicesOption {
	return func(c *servicesConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collector for the event stores and the handlers.
func WithMetrics(collector MetricsCollector) ServicesOption {
	return func(c *servicesConfig) {
		c.metrics = collector
	}
}

// NewServices wires all components on top of provider for dialect.
func NewServices(provider eventstore.ConnProvider, dialect string, options ...ServicesOption) (Services, error) {
	if provider == nil {
		return Services{}, ErrNilConnProvider
	}

	config := servicesConfig{}
	for _, option := range options {
		option(&config)
	}

	storeOptions := []sqlengine.Option{sqlengine.WithDialect(dialect)}
	repositoryOptions := []aggregate.Option{}
	scopeOptions := []txscope.Option{}

	if config.clock != nil {
		storeOptions = append(storeOptions, sqlengine.WithClock(config.clock))
	}

	if config.idGenerator != nil {
		repositoryOptions = append(repositoryOptions, aggregate.WithIDGenerator(config.idGenerator))
	}

	if config.logger != nil {
		storeOptions = append(storeOptions, sqlengine.WithLogger(config.logger))
		repositoryOptions = append(repositoryOptions, aggregate.WithLogger(config.logger))
		scopeOptions = append(scopeOptions, txscope.WithLogger(config.logger))
	}

	if config.metrics != nil {
		storeOptions = append(storeOptions, sqlengine.WithMetrics(config.metrics))
	}

	scope, err := txscope.NewScope(provider, scopeOptions...)
	if err != nil {
		return Services{}, err
	}

	stores, err := NewEventStores(storeOptions...)
	if err != nil {
		return Services{}, err
	}

	repositories, err := NewRepositories(stores, repositoryOptions...)
	if err != nil {
		return Services{}, err
	}

	projections, err := NewProjections(dialect, config.logger)
	if err != nil {
		return Services{}, err
	}

	lookups, err := NewLookups(dialect)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Scope:        scope,
		Stores:       stores,
		Repositories: repositories,
		Projections:  projections,
		Lookups:      lookups,
		Logger:       config.logger,
		Metrics:      config.metrics,
	}, nil
}

// ApplySchema creates the example's tables on a connection of the scope.
func (s Services) ApplySchema(ctx context.Context) error {
	_, err := txscope.WithConnection(ctx, s.Scope, func(ctx context.Context, conn eventstore.DBConn) (struct{}, error) {
		return struct{}{}, s.Stores.ApplySchema(ctx, conn)
	})

	return err
}
