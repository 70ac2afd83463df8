package aggregate

import "errors"

// Construction errors.
var (
	ErrNilEventStore         = errors.New("event store must not be nil")
	ErrEmptyReducerTable     = errors.New("reducer table must register at least one event type")
	ErrDuplicateEventType    = errors.New("event type is registered twice")
	ErrNilIDGenerator        = errors.New("id generator must not be nil")
	ErrGeneratingIDFailed    = errors.New("generating the aggregate id failed")
	ErrEncodingPayloadFailed = errors.New("encoding the event payload failed")
	ErrCreationEventOnMutate = errors.New("the creation event type can only be appended by Create")
)
