// Package errs provides the typed errors shared by the order lifecycle engine.
//
// Every error type follows the same shape:
//   - a sentinel error variable (e.g. ErrObjectNotFound) for errors.Is checks
//   - a struct carrying the offending parameter and an optional cause
//   - constructors with and without a cause
//   - Unwrap returning the sentinel
//
// Repositories report missing rows as ObjectNotFoundError and lost optimistic
// concurrency races as VersionIsInvalidError. Application handlers translate
// those into the stable identifiers exposed to callers.
package errs
