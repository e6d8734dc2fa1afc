// Package snowflake generates compact, time-sortable 64-bit unique
// identifiers and renders them to a fixed-width textual form.
//
// # Format
//
// An ID packs three fields, most-significant first:
//
//	42 bits  milliseconds since the custom epoch (1288834974657)
//	10 bits  node id (0-1023), caller-supplied per call
//	12 bits  per-millisecond sequence (0-4095)
//
// Comparing IDs as integers therefore orders them by creation time,
// with the sequence breaking ties within a millisecond.
//
// # Monotonicity
//
// A Generator serializes all calls through one mutex and guarantees
// per-node strictly increasing IDs:
//   - If the system clock regresses, it pins to the last observed
//     millisecond and keeps counting sequence numbers.
//   - If the sequence would wrap within one millisecond, it waits for
//     the clock to advance before emitting the next ID. This wait has
//     no timeout; callers needing bounded latency must wrap the call
//     with their own deadline.
//
// # Text form
//
// Encode renders an ID as exactly 13 symbols from a fixed 32-symbol
// alphabet that excludes visually ambiguous characters; Decode is its
// inverse and reports failure through an ok flag.
//
// Usage
//
//	gen := snowflake.NewGenerator()
//	id := gen.Generate(nodeID)
//	s := snowflake.Encode(id)          // 13-character string
//	id2, ok := snowflake.Decode(s)     // id2 == id, ok == true
//	t := id.Time()                     // creation time, ms precision
package snowflake
