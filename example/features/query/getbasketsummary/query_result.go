package getbasketsummary

import "github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"

// Result carries the summary if the basket exists.
type Result struct {
	Found   bool                   `json:"found"`
	Summary shell.BasketSummaryRow `json:"summary"`
}
