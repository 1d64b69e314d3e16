package adminapi

import "net/url"

// ListRateLimits returns up to limit rate limits of a project.
func (c *Client) ListRateLimits(projectID string, limit int) ([]RateLimit, error) {
	items, err := c.fetchAllPages("/projects/"+url.PathEscape(projectID)+"/rate_limits", nil, limit)
	if err != nil {
		return nil, err
	}
	return decodeAll[RateLimit](items)
}

// UpdateRateLimit applies the non-nil fields of update to a rate limit.
func (c *Client) UpdateRateLimit(projectID, rateLimitID string, update RateLimitUpdate) (*RateLimit, error) {
	path := "/projects/" + url.PathEscape(projectID) + "/rate_limits/" + url.PathEscape(rateLimitID)
	var rl RateLimit
	if err := c.doJSON("POST", path, nil, update, &rl); err != nil {
		return nil, err
	}
	return &rl, nil
}
