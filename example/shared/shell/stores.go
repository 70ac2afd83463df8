package shell

import (
	"slices"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/sqlengine"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/core"
)

// Event table names, one table per aggregate type.
const (
	BasketEventsTable = "basket_events"
	UserEventsTable   = "user_events"
	TeamEventsTable   = "team_events"
)

// EventStores holds one event store per aggregate type.
type EventStores struct {
	Baskets sqlengine.EventStore
	Users   sqlengine.EventStore
	Teams   sqlengine.EventStore
}

// NewEventStores creates the event stores. The options apply to all three stores,
// the table name is set per store.
func NewEventStores(options ...sqlengine.Option) (EventStores, error) {
	newStore := func(table string) (sqlengine.EventStore, error) {
		return sqlengine.NewEventStore(append(slices.Clone(options), sqlengine.WithTableName(table))...)
	}

	baskets, err := newStore(BasketEventsTable)
	if err != nil {
		return EventStores{}, err
	}

	users, err := newStore(UserEventsTable)
	if err != nil {
		return EventStores{}, err
	}

	teams, err := newStore(TeamEventsTable)
	if err != nil {
		return EventStores{}, err
	}

	return EventStores{Baskets: baskets, Users: users, Teams: teams}, nil
}

// Repositories holds one aggregate repository per aggregate type.
type Repositories struct {
	Baskets aggregate.Repository[core.Basket]
	Users   aggregate.Repository[core.User]
	Teams   aggregate.Repository[core.Team]
}

// NewRepositories creates the repositories on top of stores.
func NewRepositories(stores EventStores, options ...aggregate.Option) (Repositories, error) {
	baskets, err := aggregate.NewRepository(stores.Baskets, core.BasketReducers, core.BasketCreatedV1, options...)
	if err != nil {
		return Repositories{}, err
	}

	users, err := aggregate.NewRepository(stores.Users, core.UserReducers, core.UserRegisteredV1, options...)
	if err != nil {
		return Repositories{}, err
	}

	teams, err := aggregate.NewRepository(stores.Teams, core.TeamReducers, core.TeamCreatedV1, options...)
	if err != nil {
		return Repositories{}, err
	}

	return Repositories{Baskets: baskets, Users: users, Teams: teams}, nil
}
