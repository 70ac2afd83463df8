// Package createteam implements the "Create Team" use case following Vertical Feature Slice architecture.
//
// The precheck runs outside the transaction and enforces a unique, non-empty team name and an existing owner.
// It also reads the owner's display name, which the team_lookups projection stores next to the team
// so that queries never need to join users.
package createteam
