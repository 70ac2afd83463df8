// Package renameteam implements the "Rename Team" use case following Vertical Feature Slice architecture.
//
// Renaming is the one command in the example that guards against concurrent writers: the precheck
// rehydrates the team, and the rename is appended only if the team still has the version the decision
// was based on. On a concurrency conflict the whole command, precheck included, is retried with backoff.
//
// Renaming a team to its current name is idempotent: nothing is appended.
package renameteam
