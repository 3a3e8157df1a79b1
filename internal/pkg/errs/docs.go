// Package errs provides the standardized error types shared by the order desk.
//
// Every type follows the same shape: a sentinel error variable, a struct with
// the offending parameter, constructors with and without a cause, and an
// Unwrap method returning the sentinel so callers can branch with errors.Is.
//
//   - ObjectNotFoundError: an order, sub-order, ticket or batch is unknown
//   - ValueIsInvalidError: a value failed validation
//   - ValueIsOutOfRangeError: a numeric value is outside its bounds
//   - ValueIsRequiredError: a mandatory value (such as a cancellation reason) is missing
package errs
