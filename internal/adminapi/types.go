package adminapi

// User is an organization member.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	AddedAt int64  `json:"added_at"`
}

// Project is an organization project.
type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"created_at"`
	ArchivedAt int64  `json:"archived_at,omitempty"`
}

// ProjectUser is a user's membership within a project.
type ProjectUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	AddedAt int64  `json:"added_at"`
}

// ServiceAccount is a project service account. Name is a mutable display
// label; ID and CreatedAt are server-assigned and immutable.
type ServiceAccount struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

// ServiceAccountKey is the one-time credential embedded in a create response.
// Value is only ever present in that response.
type ServiceAccountKey struct {
	ID            string `json:"id"`
	Value         string `json:"value"`
	RedactedValue string `json:"redacted_value,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

// CreatedServiceAccount is the result of creating a service account.
type CreatedServiceAccount struct {
	ServiceAccount
	APIKey *ServiceAccountKey `json:"api_key,omitempty"`
}

// APIKey is a project or admin API key listing entry.
type APIKey struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	RedactedValue string       `json:"redacted_value"`
	CreatedAt     int64        `json:"created_at"`
	LastUsedAt    int64        `json:"last_used_at,omitempty"`
	Owner         *APIKeyOwner `json:"owner,omitempty"`
}

// APIKeyOwner identifies who a project key belongs to.
type APIKeyOwner struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// RateLimit is a per-model project rate limit.
type RateLimit struct {
	ID                          string `json:"id"`
	Model                       string `json:"model"`
	MaxRequestsPer1Minute       int64  `json:"max_requests_per_1_minute"`
	MaxTokensPer1Minute         int64  `json:"max_tokens_per_1_minute"`
	MaxImagesPer1Minute         int64  `json:"max_images_per_1_minute,omitempty"`
	MaxAudioMegabytesPer1Minute int64  `json:"max_audio_megabytes_per_1_minute,omitempty"`
	MaxRequestsPer1Day          int64  `json:"max_requests_per_1_day,omitempty"`
	Batch1DayMaxInputTokens     int64  `json:"batch_1_day_max_input_tokens,omitempty"`
}

// RateLimitUpdate carries the fields of an update; nil fields are omitted.
type RateLimitUpdate struct {
	MaxRequestsPer1Minute       *int64 `json:"max_requests_per_1_minute,omitempty"`
	MaxTokensPer1Minute         *int64 `json:"max_tokens_per_1_minute,omitempty"`
	MaxImagesPer1Minute         *int64 `json:"max_images_per_1_minute,omitempty"`
	MaxAudioMegabytesPer1Minute *int64 `json:"max_audio_megabytes_per_1_minute,omitempty"`
	MaxRequestsPer1Day          *int64 `json:"max_requests_per_1_day,omitempty"`
	Batch1DayMaxInputTokens     *int64 `json:"batch_1_day_max_input_tokens,omitempty"`
}

// AuditLogEvent is one audit log entry. Only the envelope fields are typed;
// event payloads vary per type.
type AuditLogEvent struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	EffectiveAt int64                  `json:"effective_at"`
	Actor       map[string]interface{} `json:"actor,omitempty"`
	Project     *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"project,omitempty"`
}

// UsageBucket is one time bucket of usage or cost results.
type UsageBucket struct {
	StartTime int64                    `json:"start_time"`
	EndTime   int64                    `json:"end_time"`
	Results   []map[string]interface{} `json:"results"`
}
