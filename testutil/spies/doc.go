// Package spies provides slog and metrics test doubles that capture what the event store
// and the transaction scope report, so tests can assert on log messages, attributes and metric labels.
package spies
