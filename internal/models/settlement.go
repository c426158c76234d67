package models

import "github.com/splittab/splittab/internal/money"

// Settlement represents a recorded payment between two members that reduces
// their mutual balance. Once accepted by the server it is an immutable fact.
type Settlement struct {
	// ID is the unique identifier assigned on creation.
	ID int64 `json:"id,omitempty"`

	// GroupID is the group this settlement belongs to.
	GroupID int64 `json:"group_id"`

	// PaidByID is the debtor settling up.
	PaidByID int64 `json:"paid_by_id"`

	// PaidToID is the creditor being paid.
	PaidToID int64 `json:"paid_to_id"`

	// Amount is the payment amount.
	Amount money.Money `json:"amount"`
}

// SuggestedSettlement is a server-computed recommended payment. It is
// ephemeral: recomputed on every balance fetch and never persisted
// client-side beyond the current view.
type SuggestedSettlement struct {
	PaidByID   int64       `json:"paid_by_id"`
	PaidByName string      `json:"paid_by_name"`
	PaidToID   int64       `json:"paid_to_id"`
	PaidToName string      `json:"paid_to_name"`
	Amount     money.Money `json:"amount"`
}
