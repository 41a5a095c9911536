// Package services provides domain services that apply business rules spanning
// an aggregate and the policy that governs it.
//
// The package includes:
//   - OrderStateMachine: validates and applies order transitions against a TransitionPolicy
//
// Services here are pure: they mutate in-memory aggregates and return the
// events to record, leaving persistence to the application layer.
package services
