// Package errs provides the typed errors shared by the back-office domain and
// use-case layers.
//
// Every error type follows the same shape:
//   - a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ...) for errors.Is checks
//   - a struct carrying the offending parameter and an optional cause
//   - constructors with and without cause
//   - Unwrap returning the sentinel
//
// Adapters map sentinels to transport concerns (HTTP status codes, AMQP
// ack/nack decisions) so the core never depends on a transport.
package errs
