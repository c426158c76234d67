package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/splittab/splittab/internal/models"
)

// CreateExpense records a new expense and returns the created resource with
// its assigned ID.
func (c *Client) CreateExpense(ctx context.Context, groupID int64, payload models.ExpensePayload) (*models.Expense, error) {
	payload.GroupID = groupID
	var expense models.Expense
	path := fmt.Sprintf("/groups/%d/expenses/", groupID)
	if err := c.doJSON(ctx, "create_expense", http.MethodPost, path, payload, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// GetGroupExpenses lists all expenses in a group.
func (c *Client) GetGroupExpenses(ctx context.Context, groupID int64) ([]models.Expense, error) {
	var expenses []models.Expense
	path := fmt.Sprintf("/groups/%d/expenses", groupID)
	if err := c.doJSON(ctx, "get_group_expenses", http.MethodGet, path, nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// GetExpense fetches one expense with its splits and receipt URL.
func (c *Client) GetExpense(ctx context.Context, groupID, expenseID int64) (*models.Expense, error) {
	var expense models.Expense
	path := fmt.Sprintf("/groups/%d/expenses/%d", groupID, expenseID)
	if err := c.doJSON(ctx, "get_expense", http.MethodGet, path, nil, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// UploadReceipt attaches a receipt image to an existing expense and returns
// the absolute URL of the stored file.
func (c *Client) UploadReceipt(ctx context.Context, groupID, expenseID int64, file Upload) (string, error) {
	var resp struct {
		ReceiptURL string `json:"receipt_url"`
	}
	path := fmt.Sprintf("/groups/%d/expenses/%d/receipt", groupID, expenseID)
	if err := c.doUpload(ctx, "upload_receipt", path, file, &resp); err != nil {
		return "", err
	}
	return c.AbsoluteURL(resp.ReceiptURL), nil
}

// DeleteExpense removes an expense and its splits.
func (c *Client) DeleteExpense(ctx context.Context, groupID, expenseID int64) error {
	path := fmt.Sprintf("/groups/%d/expenses/%d", groupID, expenseID)
	return c.doJSON(ctx, "delete_expense", http.MethodDelete, path, nil, nil)
}
