// Package order provides the Order aggregate of the card printing platform and
// the rules that govern its fulfillment pipeline.
//
// The package includes:
//   - Order: the aggregate root holding quantity, price, shipping and production data
//   - State and Trigger: closed enumerations of pipeline positions and causal actors
//   - TransitionPolicy: the table of legal (from, to, trigger) edges
//   - Event: the immutable ledger entry written for every accepted transition
//
// Key business rules:
//   - An order's state changes only through Order.Transition, which consults a policy
//   - Self transitions are illegal unless the policy lists them explicitly
//   - Fulfilled and Canceled are terminal
//   - Replaying an order's events through the policy reproduces its current state
package order
