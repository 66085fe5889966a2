package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Domenick1991/eventspark/internal/domain"
)

// ListUsers fetches the role buckets from {users:{admin,organizer,user}}.
func (c *Client) ListUsers(ctx context.Context) (domain.Buckets, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/auth/users", nil)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, malformed("users", err)
	}
	raw := env.Users
	if !present(raw) {
		raw = env.Data
	}
	if !startsWith(raw, '{') {
		return nil, malformed("users", nil)
	}

	var buckets domain.Buckets
	if err := json.Unmarshal(raw, &buckets); err != nil {
		return nil, malformed("users", err)
	}
	return buckets.Clone(), nil
}

func (c *Client) CreateUser(ctx context.Context, user domain.NewUser) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/users", user)
	return err
}

func (c *Client) UpdateRole(ctx context.Context, email string, role domain.Role) error {
	_, err := c.do(ctx, http.MethodPatch, "/api/auth/users/role", map[string]string{
		"email": email,
		"role":  string(role),
	})
	return err
}
