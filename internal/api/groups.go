package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/splittab/splittab/internal/models"
)

// GetGroups lists the groups the current user belongs to.
func (c *Client) GetGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := c.doJSON(ctx, "get_groups", http.MethodGet, "/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroup fetches one group including its full member roster.
func (c *Client) GetGroup(ctx context.Context, groupID int64) (*models.Group, error) {
	var group models.Group
	path := fmt.Sprintf("/groups/%d", groupID)
	if err := c.doJSON(ctx, "get_group", http.MethodGet, path, nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateGroup creates a group with the current user as creator and sole
// initial member.
func (c *Client) CreateGroup(ctx context.Context, name, description string) (*models.Group, error) {
	body := map[string]string{"name": name, "description": description}
	var group models.Group
	if err := c.doJSON(ctx, "create_group", http.MethodPost, "/groups", body, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup removes a group and all of its expenses. Only the creator may
// do this; the server enforces it.
func (c *Client) DeleteGroup(ctx context.Context, groupID int64) error {
	path := fmt.Sprintf("/groups/%d", groupID)
	return c.doJSON(ctx, "delete_group", http.MethodDelete, path, nil, nil)
}

// AddMember adds a user to the group roster.
func (c *Client) AddMember(ctx context.Context, groupID, userID int64) error {
	path := fmt.Sprintf("/groups/%d/members/%d", groupID, userID)
	return c.doJSON(ctx, "add_member", http.MethodPost, path, nil, nil)
}
