package adminapi

import (
	"fmt"
	"net/url"
	"strconv"
)

// Usage categories accepted by GetUsage.
const (
	UsageCompletions         = "completions"
	UsageEmbeddings          = "embeddings"
	UsageImages              = "images"
	UsageAudioSpeeches       = "audio_speeches"
	UsageAudioTranscriptions = "audio_transcriptions"
)

// UsageQuery selects a time range and grouping for usage or cost data.
// StartTime is required; zero EndTime means "now" server-side.
type UsageQuery struct {
	StartTime  int64
	EndTime    int64
	GroupBy    []string
	Limit      int
	ProjectIDs []string
	Models     []string
}

func (q UsageQuery) values() url.Values {
	v := url.Values{}
	v.Set("start_time", strconv.FormatInt(q.StartTime, 10))
	if q.EndTime > 0 {
		v.Set("end_time", strconv.FormatInt(q.EndTime, 10))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 7
	}
	v.Set("limit", strconv.Itoa(limit))
	for _, g := range q.GroupBy {
		v.Add("group_by", g)
	}
	for _, id := range q.ProjectIDs {
		v.Add("project_ids", id)
	}
	for _, m := range q.Models {
		v.Add("models", m)
	}
	return v
}

// GetUsage fetches usage buckets for one category.
func (c *Client) GetUsage(category string, q UsageQuery) ([]UsageBucket, error) {
	switch category {
	case UsageCompletions, UsageEmbeddings, UsageImages, UsageAudioSpeeches, UsageAudioTranscriptions:
	default:
		return nil, fmt.Errorf("unknown usage category %q", category)
	}
	var resp struct {
		Data []UsageBucket `json:"data"`
	}
	if err := c.doJSON("GET", "/usage/"+category, q.values(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetCosts fetches cost buckets. Models filtering does not apply to costs.
func (c *Client) GetCosts(q UsageQuery) ([]UsageBucket, error) {
	v := q.values()
	v.Del("models")
	var resp struct {
		Data []UsageBucket `json:"data"`
	}
	if err := c.doJSON("GET", "/costs", v, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
