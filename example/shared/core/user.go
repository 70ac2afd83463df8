package core

import (
	"time"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
)

// UserRegisteredV1 is the creation event type of the User aggregate.
const UserRegisteredV1 = "user_registered_v1"

// UserRegistered is the payload of UserRegisteredV1.
type UserRegistered struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// User is the materialized state of a user.
type User struct {
	Name       string
	Email      string
	Registered time.Time
}

// UserReducers is the reducer table of the User aggregate.
var UserReducers = aggregate.MustNewReducers(
	aggregate.Register(UserRegisteredV1, onUserRegistered),
)

func onUserRegistered(state User, payload UserRegistered, metadata aggregate.EventMetadata) User {
	state.Name = payload.Name
	state.Email = payload.Email
	state.Registered = metadata.InsertedUTC

	return state
}
