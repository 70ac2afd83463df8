package core

import (
	"time"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
)

// Team event types.
const (
	TeamCreatedV1 = "team_created_v1"
	TeamRenamedV1 = "team_renamed_v1"
)

// TeamCreated is the payload of TeamCreatedV1.
type TeamCreated struct {
	Name    string       `json:"name"`
	OwnerID UserIDString `json:"ownerId"`
}

// TeamRenamed is the payload of TeamRenamedV1.
type TeamRenamed struct {
	Name        string       `json:"name"`
	UpdatedByID UserIDString `json:"updatedById"`
}

// Team is the materialized state of a team.
type Team struct {
	Name        string
	OwnerID     UserIDString
	UpdatedByID UserIDString
	Created     time.Time
	Updated     time.Time
}

// TeamReducers is the reducer table of the Team aggregate.
var TeamReducers = aggregate.MustNewReducers(
	aggregate.Register(TeamCreatedV1, onTeamCreated),
	aggregate.Register(TeamRenamedV1, onTeamRenamed),
)

func onTeamCreated(state Team, payload TeamCreated, metadata aggregate.EventMetadata) Team {
	state.Name = payload.Name
	state.OwnerID = payload.OwnerID
	state.UpdatedByID = payload.OwnerID
	state.Created = metadata.InsertedUTC
	state.Updated = metadata.InsertedUTC

	return state
}

func onTeamRenamed(state Team, payload TeamRenamed, metadata aggregate.EventMetadata) Team {
	state.Name = payload.Name
	state.UpdatedByID = payload.UpdatedByID
	state.Updated = metadata.InsertedUTC

	return state
}
