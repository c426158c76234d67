package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/splittab/splittab/internal/models"
)

// AuthResponse is the token endpoint's payload.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user,omitempty"`
}

// RegisterRequest is the new-account payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// Login exchanges credentials for a bearer token. The service's token
// endpoint is form-encoded and names the email field "username".
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var auth AuthResponse
	if err := c.doForm(ctx, "login", "/token", form.Encode(), &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Register creates a new account. It does not log the account in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, "register", http.MethodPost, "/users/", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCurrentUser fetches the authoritative identity for the installed token.
func (c *Client) GetCurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, "get_current_user", http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the current user's display name and returns the
// updated resource.
func (c *Client) UpdateProfile(ctx context.Context, fullName string) (*models.User, error) {
	body := map[string]string{"full_name": fullName}
	var user models.User
	if err := c.doJSON(ctx, "update_profile", http.MethodPatch, "/users/me", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword rotates the current user's password.
func (c *Client) ChangePassword(ctx context.Context, current, updated string) error {
	body := map[string]string{
		"current_password": current,
		"new_password":     updated,
	}
	return c.doJSON(ctx, "change_password", http.MethodPost, "/users/me/change-password", body, nil)
}

// SearchUsers finds users matching the query, for adding group members.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	path := "/users/search?q=" + url.QueryEscape(query)
	if err := c.doJSON(ctx, "search_users", http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UploadProfilePicture stores a new profile picture and returns its
// absolute URL.
func (c *Client) UploadProfilePicture(ctx context.Context, file Upload) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.doUpload(ctx, "upload_profile_picture", "/users/me/profile-picture", file, &resp); err != nil {
		return "", err
	}
	return c.AbsoluteURL(resp.URL), nil
}
