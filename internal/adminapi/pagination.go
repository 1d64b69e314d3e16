package adminapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// listEnvelope is the admin API's common list response shape.
type listEnvelope struct {
	Data    []json.RawMessage `json:"data"`
	HasMore bool              `json:"has_more"`
	LastID  string            `json:"last_id"`
}

// fetchAllPages follows the `after` cursor until has_more is false or max
// items have been collected. max <= 0 means no cap.
func (c *Client) fetchAllPages(path string, q url.Values, max int) ([]json.RawMessage, error) {
	if q == nil {
		q = url.Values{}
	}
	pageSize := 100
	if max > 0 && max < pageSize {
		pageSize = max
	}
	q.Set("limit", strconv.Itoa(pageSize))

	var items []json.RawMessage
	for {
		var page listEnvelope
		if err := c.doJSON("GET", path, q, nil, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Data...)
		if max > 0 && len(items) >= max {
			return items[:max], nil
		}
		if !page.HasMore || page.LastID == "" {
			return items, nil
		}
		q.Set("after", page.LastID)
	}
}

// decodeAll unmarshals every raw list item into a T.
func decodeAll[T any](items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, raw := range items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("parse list item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
