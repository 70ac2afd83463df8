// Package core contains the pure domain of the example: shopping baskets, users and teams.
//
// Each aggregate type is a state struct, the payload types of its events, and a reducer table.
// Reducers only look at the prior state, the payload and the event metadata; time-derived
// fields (created, updated) come from the event's insertion timestamp, never from the clock.
//
// Event type names carry a version suffix (_v1). A persisted event type is never renamed
// or reused for a different payload shape; a new shape gets a new version.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
