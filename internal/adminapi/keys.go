package adminapi

import "net/url"

// ListAdminKeys returns up to limit organization admin API keys.
func (c *Client) ListAdminKeys(limit int) ([]APIKey, error) {
	items, err := c.fetchAllPages("/admin_api_keys", nil, limit)
	if err != nil {
		return nil, err
	}
	return decodeAll[APIKey](items)
}

// ListProjectKeys returns up to limit API keys of a project.
func (c *Client) ListProjectKeys(projectID string, limit int) ([]APIKey, error) {
	items, err := c.fetchAllPages("/projects/"+url.PathEscape(projectID)+"/api_keys", nil, limit)
	if err != nil {
		return nil, err
	}
	return decodeAll[APIKey](items)
}

// GetProjectKey fetches a single project API key.
func (c *Client) GetProjectKey(projectID, keyID string) (*APIKey, error) {
	path := "/projects/" + url.PathEscape(projectID) + "/api_keys/" + url.PathEscape(keyID)
	var k APIKey
	if err := c.doJSON("GET", path, nil, nil, &k); err != nil {
		return nil, err
	}
	return &k, nil
}

// DeleteProjectKey removes an API key from a project.
func (c *Client) DeleteProjectKey(projectID, keyID string) error {
	path := "/projects/" + url.PathEscape(projectID) + "/api_keys/" + url.PathEscape(keyID)
	return c.doJSON("DELETE", path, nil, nil, nil)
}
