// Package findteamsbyowners implements the "Find Teams by Owners" query following Vertical Feature Slice architecture.
//
// The QueryHandler reads team_lookups only. It opens no transaction and never touches the event log,
// so it does not block commands. Owner names come denormalized with each row.
package findteamsbyowners
