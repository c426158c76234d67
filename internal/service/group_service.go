package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/splittab/splittab/internal/calculator"
	"github.com/splittab/splittab/internal/metrics"
	"github.com/splittab/splittab/internal/models"
)

// GroupView is one consistent snapshot of a group: roster, expenses,
// authoritative balances, and the balance rows merged against the roster.
// Every mutation invalidates the whole snapshot; the client refetches
// instead of patching it.
type GroupView struct {
	Group      *models.Group
	Expenses   []models.Expense
	Balances   *models.GroupBalances
	BalanceRow []calculator.MemberBalance
}

// GroupService loads group views and manages roster membership.
type GroupService struct {
	ledger Ledger
}

// NewGroupService creates a GroupService backed by the given transport.
func NewGroupService(ledger Ledger) *GroupService {
	return &GroupService{ledger: ledger}
}

// LoadView fetches group, expenses and balances in parallel and joins them
// into one snapshot. The join is all-or-nothing: if any fetch fails the
// whole view fails, so a partially fresh view is never rendered.
func (s *GroupService) LoadView(ctx context.Context, groupID int64) (*GroupView, error) {
	slog.Debug("Loading group view", "group_id", groupID)

	view := &GroupView{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		group, err := s.ledger.GetGroup(ctx, groupID)
		if err != nil {
			return fmt.Errorf("fetch group: %w", err)
		}
		view.Group = group
		return nil
	})
	g.Go(func() error {
		expenses, err := s.ledger.GetGroupExpenses(ctx, groupID)
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		view.Expenses = expenses
		return nil
	})
	g.Go(func() error {
		balances, err := s.ledger.GetGroupBalances(ctx, groupID)
		if err != nil {
			return fmt.Errorf("fetch balances: %w", err)
		}
		view.Balances = balances
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Group view load failed", "group_id", groupID, "error", err)
		return nil, err
	}

	view.BalanceRow = calculator.MergeBalances(view.Group.Members, view.Balances.Balances)
	metrics.GroupSyncs.Inc()

	slog.Info("Group view loaded",
		"group_id", groupID,
		"members", len(view.Group.Members),
		"expenses", len(view.Expenses),
		"suggested_settlements", len(view.Balances.SuggestedSettlements),
	)
	return view, nil
}

// AddMember adds a user to the roster and reloads the view so the new
// member appears in splits and balances immediately.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID int64) (*GroupView, error) {
	if err := s.ledger.AddMember(ctx, groupID, userID); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	slog.Info("Member added", "group_id", groupID, "user_id", userID)

	view, err := s.LoadView(ctx, groupID)
	if err != nil {
		return nil, &SyncError{Cause: err}
	}
	return view, nil
}
