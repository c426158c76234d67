package service

import (
	"errors"
	"fmt"
)

// Validation errors are local: they are raised before any network call and
// are always recoverable in place by fixing the input.
var (
	ErrSplitMismatch    = errors.New("split amounts must equal the total expense amount")
	ErrNoMembers        = errors.New("cannot create an expense with no members")
	ErrEmptyDescription = errors.New("description is required")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrNotPayer         = errors.New("only the payer can delete an expense")
	ErrNotSuggested     = errors.New("settlement is no longer pending confirmation")
)

// ReceiptAttachError reports that the expense was created but the receipt
// upload afterwards failed. It is a warning, not a rollback: the expense
// exists and remains queryable.
type ReceiptAttachError struct {
	ExpenseID int64
	Cause     error
}

func (e *ReceiptAttachError) Error() string {
	return fmt.Sprintf("expense %d created but receipt upload failed: %v", e.ExpenseID, e.Cause)
}

func (e *ReceiptAttachError) Unwrap() error {
	return e.Cause
}

// SyncError reports that a mutation succeeded but the unconditional refetch
// afterwards did not, so the local view may lag the ledger until the next
// successful sync.
type SyncError struct {
	Cause error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("group view refresh failed: %v", e.Cause)
}

func (e *SyncError) Unwrap() error {
	return e.Cause
}
