package adminapi

import "net/url"

// ListServiceAccounts returns up to limit service accounts of a project.
func (c *Client) ListServiceAccounts(projectID string, limit int) ([]ServiceAccount, error) {
	path := "/projects/" + url.PathEscape(projectID) + "/service_accounts"
	items, err := c.fetchAllPages(path, nil, limit)
	if err != nil {
		return nil, err
	}
	return decodeAll[ServiceAccount](items)
}

// GetServiceAccount fetches a single service account.
func (c *Client) GetServiceAccount(projectID, serviceAccountID string) (*ServiceAccount, error) {
	path := "/projects/" + url.PathEscape(projectID) + "/service_accounts/" + url.PathEscape(serviceAccountID)
	var sa ServiceAccount
	if err := c.doJSON("GET", path, nil, nil, &sa); err != nil {
		return nil, err
	}
	return &sa, nil
}

// CreateServiceAccount creates a service account. The response embeds the
// account's API key with its one-time secret value.
func (c *Client) CreateServiceAccount(projectID, name string) (*CreatedServiceAccount, error) {
	path := "/projects/" + url.PathEscape(projectID) + "/service_accounts"
	var created CreatedServiceAccount
	if err := c.doJSON("POST", path, nil, map[string]string{"name": name}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteServiceAccount removes a service account and its API key.
func (c *Client) DeleteServiceAccount(projectID, serviceAccountID string) error {
	path := "/projects/" + url.PathEscape(projectID) + "/service_accounts/" + url.PathEscape(serviceAccountID)
	return c.doJSON("DELETE", path, nil, nil, nil)
}
