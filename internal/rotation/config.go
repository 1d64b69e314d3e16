package rotation

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config describes a single rotation unit: one (project, prefix) pair.
type Config struct {
	ProjectID  string     `json:"project_id"`
	Prefix     string     `json:"prefix"`
	DateFormat DateFormat `json:"date_format,omitempty"`
	NotifyUser string     `json:"notify_user,omitempty"`
}

// Validate checks the mandatory fields and defaults the date format.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("project ID is required (use --project-id or a config file)")
	}
	if c.Prefix == "" {
		return fmt.Errorf("naming prefix is required (use --prefix or a config file)")
	}
	if c.DateFormat == "" {
		c.DateFormat = FormatShort
	}
	if !c.DateFormat.Valid() {
		return fmt.Errorf("unsupported date format %q: use %q or %q", c.DateFormat, FormatShort, FormatFull)
	}
	return nil
}

// LoadConfig reads a single-rotation config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rotation config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse rotation config: %w", err)
	}
	return &cfg, nil
}

// BatchKey is one rotated key within a batch project group.
type BatchKey struct {
	Name          string     `json:"name"`
	NotifyUser    string     `json:"notify_user,omitempty"`
	NotifyChannel string     `json:"notify_channel,omitempty"`
	DateFormat    DateFormat `json:"date_format,omitempty"`
}

// BatchProject groups the keys rotated within one project.
type BatchProject struct {
	ProjectName string     `json:"project_name"`
	ProjectID   string     `json:"project_id"`
	Keys        []BatchKey `json:"keys"`
}

// BatchConfig is the batch rotation file shape.
type BatchConfig struct {
	Rotations []BatchProject `json:"rotations"`
}

// LoadBatchConfig reads a batch rotation config file.
func LoadBatchConfig(path string) (*BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch config: %w", err)
	}
	var cfg BatchConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse batch config: %w", err)
	}
	if len(cfg.Rotations) == 0 {
		return nil, fmt.Errorf("no rotations found in %s: expected {\"rotations\": [...]}", path)
	}
	return &cfg, nil
}
