// Package shell wires the pure domain of shared/core to the event store for the example:
// shopping baskets, users, and teams.
//
// It holds the per-aggregate event stores and repositories, the projections that keep the
// lookup tables in sync with aggregate state, the lookup repositories the read side and the
// command prechecks query, and the observability helpers shared by all handlers.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
