// Package service orchestrates the client workflows on top of the pure
// calculator functions and the REST transport: group view sync, the expense
// lifecycle, the settlement confirmation flow, and member search.
package service

import (
	"context"

	"github.com/splittab/splittab/internal/api"
	"github.com/splittab/splittab/internal/models"
)

// Ledger is the slice of the transport the workflows depend on. *api.Client
// satisfies it; tests substitute fakes.
type Ledger interface {
	GetGroup(ctx context.Context, groupID int64) (*models.Group, error)
	GetGroupExpenses(ctx context.Context, groupID int64) ([]models.Expense, error)
	GetGroupBalances(ctx context.Context, groupID int64) (*models.GroupBalances, error)
	CreateExpense(ctx context.Context, groupID int64, payload models.ExpensePayload) (*models.Expense, error)
	UploadReceipt(ctx context.Context, groupID, expenseID int64, file api.Upload) (string, error)
	DeleteExpense(ctx context.Context, groupID, expenseID int64) error
	CreateSettlement(ctx context.Context, settlement models.Settlement) (*models.Settlement, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	AddMember(ctx context.Context, groupID, userID int64) error
}

var _ Ledger = (*api.Client)(nil)
