// Package kernel provides the value objects shared by the baggage and flight models.
//
// The package includes:
//   - UUID: identifier for baggage records and flights, wrapping github.com/google/uuid
//   - Weight: positive, finite baggage mass in kilograms
//
// Both types are immutable and their zero values fail Validate, so an aggregate that
// accepts them can reject values that never went through a constructor.
package kernel
