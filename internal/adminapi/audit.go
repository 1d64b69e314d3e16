package adminapi

import (
	"net/url"
	"strconv"
)

// AuditLogFilter narrows an audit log listing. Zero values are omitted.
type AuditLogFilter struct {
	After          string
	Before         string
	Limit          int
	EffectiveAtGT  int64
	EffectiveAtGTE int64
	EffectiveAtLT  int64
	EffectiveAtLTE int64
	ProjectIDs     []string
	EventTypes     []string
	ActorIDs       []string
	ActorEmails    []string
	ResourceIDs    []string
}

func (f AuditLogFilter) values() url.Values {
	v := url.Values{}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	v.Set("limit", strconv.Itoa(limit))
	if f.After != "" {
		v.Set("after", f.After)
	}
	if f.Before != "" {
		v.Set("before", f.Before)
	}
	// The effective_at range uses bracketed parameter names.
	if f.EffectiveAtGT > 0 {
		v.Set("effective_at[gt]", strconv.FormatInt(f.EffectiveAtGT, 10))
	}
	if f.EffectiveAtGTE > 0 {
		v.Set("effective_at[gte]", strconv.FormatInt(f.EffectiveAtGTE, 10))
	}
	if f.EffectiveAtLT > 0 {
		v.Set("effective_at[lt]", strconv.FormatInt(f.EffectiveAtLT, 10))
	}
	if f.EffectiveAtLTE > 0 {
		v.Set("effective_at[lte]", strconv.FormatInt(f.EffectiveAtLTE, 10))
	}
	for _, id := range f.ProjectIDs {
		v.Add("project_ids[]", id)
	}
	for _, t := range f.EventTypes {
		v.Add("event_types[]", t)
	}
	for _, id := range f.ActorIDs {
		v.Add("actor_ids[]", id)
	}
	for _, e := range f.ActorEmails {
		v.Add("actor_emails[]", e)
	}
	for _, id := range f.ResourceIDs {
		v.Add("resource_ids[]", id)
	}
	return v
}

// ListAuditLogs returns one page of audit log events plus the cursor for
// the next page.
func (c *Client) ListAuditLogs(f AuditLogFilter) ([]AuditLogEvent, string, error) {
	var resp struct {
		Data    []AuditLogEvent `json:"data"`
		HasMore bool            `json:"has_more"`
		LastID  string          `json:"last_id"`
	}
	if err := c.doJSON("GET", "/audit_logs", f.values(), nil, &resp); err != nil {
		return nil, "", err
	}
	next := ""
	if resp.HasMore {
		next = resp.LastID
	}
	return resp.Data, next, nil
}
