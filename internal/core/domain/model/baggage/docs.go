// Package baggage models a checked baggage item and its append-only history ledger.
//
// The Baggage aggregate owns the current status, the held-for-inspection flag and an
// ordered slice of HistoryEntry values. All state changes go through Baggage.Append,
// which enforces the ledger invariants:
//
//   - the current status is the status of the last entry
//   - appending the current status again without details is a no-op
//   - entry timestamps strictly increase, so time order equals insertion order
//
// Status is the closed vocabulary of lifecycle stages. Only DROPPED_OFF through LOADED
// and HELD_FOR_INSPECTION take part in automated processing; the transition table lives
// in the domain services package.
package baggage
