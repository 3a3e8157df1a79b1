// Package order provides the order aggregate and its status state machine as
// seen by the admin desk.
//
// The package includes:
//   - Status: the eleven lifecycle states and the permissive legality table
//   - Order: the aggregate root with its append-only status history, sub-orders and notes
//   - SubOrder: a per-store or per-utility-leg fulfillment unit with its own status
//   - Apply / ApplySub: side-effect-free transitions returning a new Order value
//
// Key business rules:
//   - The last history entry always carries the current status; history is only appended
//   - Delivered, Cancelled, Returned and ProcurementFailed are terminal for admin transitions
//   - Admins may jump from most non-terminal states straight to Preparing, OutForDelivery,
//     Delivered, Returned or Cancelled
//   - The procurement sub-flow (AwaitingProcurement -> Procured | ProcurementFailed)
//     only applies to errand orders sourced from SHEIN
//   - Returned, Cancelled and ProcurementFailed require a reason; Procured requires
//     an external order number
//
// Transitions never mutate their input, which lets callers keep the original
// value as an undo snapshot while showing the optimistic copy.
package order
