package adminapi

import "net/url"

// ListUsers returns up to limit organization users.
func (c *Client) ListUsers(limit int) ([]User, error) {
	items, err := c.fetchAllPages("/users", nil, limit)
	if err != nil {
		return nil, err
	}
	return decodeAll[User](items)
}

// GetUser fetches a single organization user.
func (c *Client) GetUser(userID string) (*User, error) {
	var u User
	if err := c.doJSON("GET", "/users/"+url.PathEscape(userID), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserRole changes an organization user's role (owner or reader).
func (c *Client) UpdateUserRole(userID, role string) (*User, error) {
	var u User
	body := map[string]string{"role": role}
	if err := c.doJSON("POST", "/users/"+url.PathEscape(userID), nil, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user from the organization.
func (c *Client) DeleteUser(userID string) error {
	return c.doJSON("DELETE", "/users/"+url.PathEscape(userID), nil, nil, nil)
}
