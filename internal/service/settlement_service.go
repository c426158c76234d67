package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splittab/splittab/internal/models"
)

// SettlementService turns server-suggested settlements into recorded ones.
// A settlement is never auto-submitted: Begin snapshots the offered tuple,
// and only an explicit Confirm on that snapshot submits it.
type SettlementService struct {
	ledger Ledger
	groups *GroupService
}

// NewSettlementService creates a SettlementService sharing the given group
// service for post-mutation syncs.
func NewSettlementService(ledger Ledger, groups *GroupService) *SettlementService {
	return &SettlementService{ledger: ledger, groups: groups}
}

// PendingSettlement is a settlement awaiting user confirmation. It holds the
// exact from/to/amount tuple shown at suggestion time, so a concurrent
// balance change can never swap what gets confirmed.
type PendingSettlement struct {
	svc        *SettlementService
	groupID    int64
	suggestion models.SuggestedSettlement
	resolved   bool
}

// Begin takes one suggested settlement and moves it to pending
// confirmation. The other suggestions in the list are unaffected.
func (s *SettlementService) Begin(groupID int64, suggestion models.SuggestedSettlement) *PendingSettlement {
	slog.Info("Settlement pending confirmation",
		"group_id", groupID,
		"paid_by", suggestion.PaidByID,
		"paid_to", suggestion.PaidToID,
		"amount", suggestion.Amount,
	)
	return &PendingSettlement{svc: s, groupID: groupID, suggestion: suggestion}
}

// Suggestion returns the tuple the user is being asked to confirm.
func (p *PendingSettlement) Suggestion() models.SuggestedSettlement {
	return p.suggestion
}

// Confirm submits the snapshotted tuple and re-syncs the group view. The
// recorded settlement is immutable once accepted. On a transport failure
// the pending settlement stays confirmable, but the workflow holds no retry
// state beyond that: the caller re-triggers, typically from a freshly
// fetched suggestion list.
func (p *PendingSettlement) Confirm(ctx context.Context) (*GroupView, error) {
	if p.resolved {
		return nil, ErrNotSuggested
	}

	settlement := models.Settlement{
		GroupID:  p.groupID,
		PaidByID: p.suggestion.PaidByID,
		PaidToID: p.suggestion.PaidToID,
		Amount:   p.suggestion.Amount,
	}

	created, err := p.svc.ledger.CreateSettlement(ctx, settlement)
	if err != nil {
		slog.Error("Settlement submission failed", "group_id", p.groupID, "error", err)
		return nil, fmt.Errorf("create settlement: %w", err)
	}
	p.resolved = true
	slog.Info("Settlement recorded",
		"group_id", p.groupID,
		"settlement_id", created.ID,
		"amount", settlement.Amount,
	)

	// Balances are never patched locally; the ledger recomputes and we
	// refetch.
	view, err := p.svc.groups.LoadView(ctx, p.groupID)
	if err != nil {
		return nil, &SyncError{Cause: err}
	}
	return view, nil
}

// Cancel abandons the pending settlement without any network call. A
// cancelled settlement cannot be confirmed; the user re-triggers from the
// suggestion list instead.
func (p *PendingSettlement) Cancel() {
	p.resolved = true
	slog.Info("Settlement cancelled", "group_id", p.groupID)
}
