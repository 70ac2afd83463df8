package findteamsbyowners

import "github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"

// Result holds the matching teams ordered by name.
type Result struct {
	Teams []shell.TeamRow `json:"teams"`
	Count int             `json:"count"`
}
