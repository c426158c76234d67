// Package models defines the domain types exchanged with the ledger service.
//
// # Conventions
//
// All monetary fields use money.Money (integer cents) and are encoded as
// two-decimal numbers on the wire. IDs are the int64 identifiers assigned by
// the ledger service; the client never invents them.
//
// # Ownership
//
// Roster, Expense, BalanceRecord and SuggestedSettlement values are owned by
// the group view that fetched them and are treated as stale after any
// mutating operation. The client re-fetches rather than patching them in
// place, so these types carry no mutation helpers.
package models
