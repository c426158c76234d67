package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/splittab/splittab/internal/models"
)

// CreateSettlement records a payment between two members. The server
// validates that both are members of the group.
func (c *Client) CreateSettlement(ctx context.Context, settlement models.Settlement) (*models.Settlement, error) {
	var resp struct {
		Settlement models.Settlement `json:"settlement"`
		Message    string            `json:"message"`
	}
	if err := c.doJSON(ctx, "create_settlement", http.MethodPost, "/settlements", settlement, &resp); err != nil {
		return nil, err
	}
	return &resp.Settlement, nil
}

// GetGroupBalances fetches the authoritative per-member balances and the
// server's suggested settlements for a group.
func (c *Client) GetGroupBalances(ctx context.Context, groupID int64) (*models.GroupBalances, error) {
	var balances models.GroupBalances
	path := fmt.Sprintf("/settlements/group/%d/balances", groupID)
	if err := c.doJSON(ctx, "get_group_balances", http.MethodGet, path, nil, &balances); err != nil {
		return nil, err
	}
	return &balances, nil
}
