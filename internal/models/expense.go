package models

import "github.com/splittab/splittab/internal/money"

// Expense is a recorded group expense as returned by the ledger service.
type Expense struct {
	// ID is the unique identifier assigned on creation.
	ID int64 `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID int64 `json:"group_id"`

	// Amount is the total expense amount.
	Amount money.Money `json:"amount"`

	// Description is the human-readable label, e.g. "Dinner".
	Description string `json:"description"`

	// PaidByID is the member who paid the full amount up front.
	PaidByID int64 `json:"paid_by_id"`

	// CreatedAt is the server-side creation timestamp (RFC 3339).
	CreatedAt string `json:"created_at,omitempty"`

	// ReceiptURL points at the attached receipt, if one was uploaded.
	ReceiptURL string `json:"receipt_url,omitempty"`

	// Splits are the per-member shares. Their sum equals Amount to the cent.
	Splits []ExpenseSplit `json:"splits,omitempty"`
}

// ExpenseSplit is one member's share of an expense.
type ExpenseSplit struct {
	// UserID identifies the member carrying this share.
	UserID int64 `json:"user_id"`

	// Amount is the member's share.
	Amount money.Money `json:"amount"`
}

// ExpensePayload is the create-expense request body. It is only submitted
// after the split-sum invariant has been checked locally.
type ExpensePayload struct {
	GroupID     int64          `json:"group_id"`
	Amount      money.Money    `json:"amount"`
	Description string         `json:"description"`
	PaidByID    int64          `json:"paid_by_id"`
	Splits      []ExpenseSplit `json:"splits"`
}
