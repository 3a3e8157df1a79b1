// Package kernel provides the value objects shared by the order desk domain model.
//
// The package includes:
//   - UUID: identifiers minted by the desk itself (bulk batches, tickets, notes)
//   - GeoPoint: a validated latitude/longitude pair used for pickup origins
//   - Money: a non-negative decimal amount for prices, fees and wallet usage
//
// Order and sub-order identifiers are opaque strings owned by the backend and
// are not wrapped here. All value objects are immutable and safe for concurrent use.
package kernel
