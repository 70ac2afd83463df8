package findteamsbyowners

import "slices"

const (
	queryType = "FindTeamsByOwners"
)

// Query asks for all teams owned by any of OwnerIDs.
type Query struct {
	OwnerIDs []string
}

// QueryType returns the type of this query for observability and routing purposes.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query. Duplicate and empty owner ids are dropped.
func BuildQuery(ownerIDs ...string) Query {
	unique := make([]string, 0, len(ownerIDs))
	for _, ownerID := range ownerIDs {
		if ownerID != "" && !slices.Contains(unique, ownerID) {
			unique = append(unique, ownerID)
		}
	}

	return Query{OwnerIDs: unique}
}
