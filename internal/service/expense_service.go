package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splittab/splittab/internal/api"
	"github.com/splittab/splittab/internal/calculator"
	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/money"
)

// ExpenseDraft is the form state for a new expense. It is owned by one
// creation attempt and discarded on success; on failure the caller keeps it
// so the user can retry without re-entering data.
type ExpenseDraft struct {
	GroupID     int64
	Amount      money.Money
	Description string
	PaidByID    int64
	Splits      []calculator.DraftSplit

	// Receipt, when non-nil, is attached after the expense is created.
	Receipt *api.Upload
}

// ExpenseState tracks where a creation attempt is in its lifecycle, for
// logging and UI affordances.
type ExpenseState string

const (
	StateIdle             ExpenseState = "idle"
	StateValidating       ExpenseState = "validating"
	StateSubmitting       ExpenseState = "submitting"
	StateAttachingReceipt ExpenseState = "attaching_receipt"
	StateSyncing          ExpenseState = "syncing"
)

// CreateResult is the outcome of a successful (or partially successful)
// expense creation.
type CreateResult struct {
	// Expense is the created resource with its server-assigned ID.
	Expense *models.Expense

	// ReceiptWarning is non-nil when the expense was created but the
	// receipt upload failed. The creation still counts as done.
	ReceiptWarning *ReceiptAttachError

	// View is the refreshed group snapshot, nil when the post-create sync
	// failed (in which case Create also returns a *SyncError).
	View *GroupView
}

// ExpenseService runs the expense lifecycle: validate, submit, optionally
// attach a receipt, then unconditionally re-sync the group view.
type ExpenseService struct {
	ledger Ledger
	groups *GroupService
	state  ExpenseState
}

// NewExpenseService creates an ExpenseService sharing the given group
// service for post-mutation syncs.
func NewExpenseService(ledger Ledger, groups *GroupService) *ExpenseService {
	return &ExpenseService{ledger: ledger, groups: groups, state: StateIdle}
}

// State reports the current lifecycle state.
func (s *ExpenseService) State() ExpenseState {
	return s.state
}

func (s *ExpenseService) setState(state ExpenseState) {
	s.state = state
	slog.Debug("Expense lifecycle", "state", state)
}

// Validate checks the draft locally. It is the single invariant gate
// protecting the ledger from malformed input and never touches the network:
// the split sum must match the amount exactly, and an attached
// receipt must be an image of at most 5 MB.
func (s *ExpenseService) Validate(draft *ExpenseDraft) error {
	if len(draft.Splits) == 0 {
		return ErrNoMembers
	}
	if draft.Description == "" {
		return ErrEmptyDescription
	}
	if draft.Amount <= 0 {
		return ErrInvalidAmount
	}

	sum, err := calculator.SumDraft(draft.Splits)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSplitMismatch, err)
	}
	// Amounts are integer cents, so the sub-cent tolerance the check needs
	// in floating point collapses to exact equality: a full cent off is a
	// mismatch.
	if sum != draft.Amount {
		return fmt.Errorf("%w: splits sum to %s, amount is %s",
			ErrSplitMismatch, sum, draft.Amount)
	}

	if draft.Receipt != nil {
		if err := draft.Receipt.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Create validates and submits the draft, attaches the receipt when one is
// present, and re-syncs the group view.
//
// Outcomes:
//   - validation failure: nil result, error, zero network calls;
//   - submit failure: nil result, error, draft intact for retry;
//   - receipt failure after creation: result with ReceiptWarning set, the
//     lifecycle still proceeds to sync;
//   - sync failure after creation: result with the created expense and a
//     *SyncError, so the caller knows the view is stale, not the mutation.
func (s *ExpenseService) Create(ctx context.Context, draft *ExpenseDraft) (*CreateResult, error) {
	defer s.setState(StateIdle)

	s.setState(StateValidating)
	if err := s.Validate(draft); err != nil {
		return nil, err
	}

	s.setState(StateSubmitting)
	payload := models.ExpensePayload{
		GroupID:     draft.GroupID,
		Amount:      draft.Amount,
		Description: draft.Description,
		PaidByID:    draft.PaidByID,
		Splits:      make([]models.ExpenseSplit, len(draft.Splits)),
	}
	for i, split := range draft.Splits {
		amount, err := money.Parse(split.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSplitMismatch, err)
		}
		payload.Splits[i] = models.ExpenseSplit{UserID: split.UserID, Amount: amount}
	}

	expense, err := s.ledger.CreateExpense(ctx, draft.GroupID, payload)
	if err != nil {
		slog.Error("Expense creation failed", "group_id", draft.GroupID, "error", err)
		return nil, fmt.Errorf("create expense: %w", err)
	}
	slog.Info("Expense created",
		"group_id", draft.GroupID,
		"expense_id", expense.ID,
		"amount", draft.Amount,
	)

	result := &CreateResult{Expense: expense}

	if draft.Receipt != nil {
		s.setState(StateAttachingReceipt)
		receiptURL, err := s.ledger.UploadReceipt(ctx, draft.GroupID, expense.ID, *draft.Receipt)
		if err != nil {
			// The expense already exists; a failed attach is a warning,
			// never a rollback.
			slog.Warn("Receipt upload failed after expense creation",
				"expense_id", expense.ID, "error", err)
			result.ReceiptWarning = &ReceiptAttachError{ExpenseID: expense.ID, Cause: err}
		} else {
			expense.ReceiptURL = receiptURL
		}
	}

	s.setState(StateSyncing)
	view, err := s.groups.LoadView(ctx, draft.GroupID)
	if err != nil {
		return result, &SyncError{Cause: err}
	}
	result.View = view
	return result, nil
}

// Delete removes an expense and re-syncs the group view. Only the payer of
// record may delete; this check is a courtesy for the UI, the server
// enforces it independently.
func (s *ExpenseService) Delete(ctx context.Context, expense models.Expense, requesterID int64) (*GroupView, error) {
	if expense.PaidByID != requesterID {
		return nil, ErrNotPayer
	}

	s.setState(StateSubmitting)
	defer s.setState(StateIdle)

	if err := s.ledger.DeleteExpense(ctx, expense.GroupID, expense.ID); err != nil {
		slog.Error("Expense deletion failed", "expense_id", expense.ID, "error", err)
		return nil, fmt.Errorf("delete expense: %w", err)
	}
	slog.Info("Expense deleted", "group_id", expense.GroupID, "expense_id", expense.ID)

	s.setState(StateSyncing)
	view, err := s.groups.LoadView(ctx, expense.GroupID)
	if err != nil {
		return nil, &SyncError{Cause: err}
	}
	return view, nil
}
