package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

const (
	logMsgAggregateCreated    = "aggregate created"
	logMsgAggregateMutated    = "aggregate mutated"
	logMsgAggregateRehydrated = "aggregate rehydrated"
	logMsgRehydrationFailed   = "aggregate rehydration failed"
	logAttrAggregateID        = "aggregate_id"
	logAttrEventType          = "event_type"
	logAttrVersion            = "version"
	logAttrExpectedVersion    = "expected_version"
	logAttrError              = "error"
)

// EventStore is the part of the event store a Repository needs.
// sqlengine.EventStore implements it.
type EventStore interface {
	ReadOrdered(ctx context.Context, q eventstore.DBQuerier, aggregateID string) (eventstore.StoredEvents, error)
	Append(ctx context.Context, q eventstore.DBQuerier, aggregateID string, eventType string, payloadJSON []byte) error
	AppendAtVersion(ctx context.Context, q eventstore.DBQuerier, aggregateID string, expectedVersion uint, eventType string, payloadJSON []byte) error
}

// IDGenerator creates globally unique aggregate ids.
type IDGenerator func() (string, error)

type repositoryConfig struct {
	newID  IDGenerator
	logger eventstore.Logger
}

// Option defines a functional option for configuring a Repository.
type Option func(*repositoryConfig) error

// WithIDGenerator replaces the default UUIDv7 id generator.
func WithIDGenerator(newID IDGenerator) Option {
	return func(c *repositoryConfig) error {
		if newID == nil {
			return ErrNilIDGenerator
		}

		c.newID = newID

		return nil
	}
}

// WithLogger sets the logger for the Repository.
func WithLogger(logger eventstore.Logger) Option {
	return func(c *repositoryConfig) error {
		c.logger = logger
		return nil
	}
}

// NewUUIDv7 is the default IDGenerator: time-ordered UUIDs keep index inserts local.
func NewUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// Repository creates, mutates and rehydrates aggregates of one type.
// Every operation takes the DBQuerier to run on, so a command can bind it to its transaction.
type Repository[S any] struct {
	store            EventStore
	reducers         Reducers[S]
	createdEventType string
	config           repositoryConfig
}

// NewRepository creates a Repository. createdEventType is the event that brings an aggregate into existence
// and must be part of reducers.
func NewRepository[S any](
	store EventStore,
	reducers Reducers[S],
	createdEventType string,
	options ...Option,
) (Repository[S], error) {

	if store == nil {
		return Repository[S]{}, ErrNilEventStore
	}

	if createdEventType == "" {
		return Repository[S]{}, eventstore.ErrEmptyEventType
	}

	if !reducers.Handles(createdEventType) {
		return Repository[S]{}, errors.Join(eventstore.ErrUnknownEventType, fmt.Errorf("creation event type %q", createdEventType))
	}

	config := repositoryConfig{newID: NewUUIDv7}
	for _, option := range options {
		if err := option(&config); err != nil {
			return Repository[S]{}, err
		}
	}

	return Repository[S]{
		store:            store,
		reducers:         reducers,
		createdEventType: createdEventType,
		config:           config,
	}, nil
}

// GetByID reads the aggregate's events and reduces them.
// A never-created id yields found == false and no error.
func (r Repository[S]) GetByID(ctx context.Context, q eventstore.DBQuerier, id string) (Aggregate[S], bool, error) {
	events, err := r.store.ReadOrdered(ctx, q, id)
	if err != nil {
		return Aggregate[S]{}, false, err
	}

	aggregate, found, err := Reduce(events, r.reducers)
	if err != nil {
		if r.config.logger != nil {
			r.config.logger.Error(logMsgRehydrationFailed, logAttrAggregateID, id, logAttrError, err.Error())
		}

		return Aggregate[S]{}, false, err
	}

	if found && r.config.logger != nil {
		r.config.logger.Debug(logMsgAggregateRehydrated, logAttrAggregateID, id, logAttrVersion, aggregate.Version)
	}

	return aggregate, found, nil
}

// GetByIDOrFail is GetByID for callers that treat absence as an error: it returns eventstore.ErrAggregateNotFound.
func (r Repository[S]) GetByIDOrFail(ctx context.Context, q eventstore.DBQuerier, id string) (Aggregate[S], error) {
	aggregate, found, err := r.GetByID(ctx, q, id)
	if err != nil {
		return Aggregate[S]{}, err
	}

	if !found {
		return Aggregate[S]{}, errors.Join(eventstore.ErrAggregateNotFound, fmt.Errorf("aggregate %q", id))
	}

	return aggregate, nil
}

// Create generates a new id, appends the creation event with payload and returns the id.
func (r Repository[S]) Create(ctx context.Context, q eventstore.DBQuerier, payload any) (string, error) {
	payloadJSON, err := encodePayload(payload)
	if err != nil {
		return "", err
	}

	id, err := r.config.newID()
	if err != nil {
		return "", errors.Join(ErrGeneratingIDFailed, err)
	}

	if err = r.store.Append(ctx, q, id, r.createdEventType, payloadJSON); err != nil {
		return "", err
	}

	if r.config.logger != nil {
		r.config.logger.Info(logMsgAggregateCreated, logAttrAggregateID, id, logAttrEventType, r.createdEventType)
	}

	return id, nil
}

// Mutate appends a follow-up event without any version check.
// Concurrent mutations of the same aggregate interleave in store order; use MutateAtVersion to detect them.
func (r Repository[S]) Mutate(ctx context.Context, q eventstore.DBQuerier, id string, eventType string, payload any) error {
	payloadJSON, err := r.checkMutation(eventType, payload)
	if err != nil {
		return err
	}

	if err = r.store.Append(ctx, q, id, eventType, payloadJSON); err != nil {
		return err
	}

	if r.config.logger != nil {
		r.config.logger.Info(logMsgAggregateMutated, logAttrAggregateID, id, logAttrEventType, eventType)
	}

	return nil
}

// MutateAtVersion appends a follow-up event only if the aggregate still has expectedVersion events,
// typically the Version of the Aggregate the decision was based on.
// Otherwise, it returns eventstore.ErrConcurrencyConflict and writes nothing.
func (r Repository[S]) MutateAtVersion(
	ctx context.Context,
	q eventstore.DBQuerier,
	id string,
	expectedVersion uint,
	eventType string,
	payload any,
) error {

	payloadJSON, err := r.checkMutation(eventType, payload)
	if err != nil {
		return err
	}

	if err = r.store.AppendAtVersion(ctx, q, id, expectedVersion, eventType, payloadJSON); err != nil {
		return err
	}

	if r.config.logger != nil {
		r.config.logger.Info(
			logMsgAggregateMutated,
			logAttrAggregateID, id,
			logAttrEventType, eventType,
			logAttrExpectedVersion, expectedVersion,
		)
	}

	return nil
}

// checkMutation refuses event types that could never be replayed or that would re-create the aggregate.
func (r Repository[S]) checkMutation(eventType string, payload any) ([]byte, error) {
	if eventType == r.createdEventType {
		return nil, ErrCreationEventOnMutate
	}

	if !r.reducers.Handles(eventType) {
		return nil, errors.Join(eventstore.ErrUnknownEventType, fmt.Errorf("event type %q has no reducer", eventType))
	}

	return encodePayload(payload)
}

func encodePayload(payload any) ([]byte, error) {
	payloadJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(payload)
	if err != nil {
		return nil, errors.Join(ErrEncodingPayloadFailed, err)
	}

	return payloadJSON, nil
}
