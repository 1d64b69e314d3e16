// Package notify delivers rotation results and ad-hoc command output to
// people, over Mattermost or email, addressed through a local user
// directory file.
package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// User is one directory entry mapping a short ID to delivery addresses.
type User struct {
	Name                string `json:"name"`
	Email               string `json:"email,omitempty"`
	MattermostUserID    string `json:"mattermost_user_id,omitempty"`
	MattermostChannelID string `json:"mattermost_channel_id,omitempty"`
}

// Directory is the parsed users file.
type Directory struct {
	Users map[string]User `json:"users"`
}

// DefaultUsersFile is the directory file name looked up next to the
// profile config when no explicit path is given.
const DefaultUsersFile = "users.json"

// LoadDirectory reads and parses a users file.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var dir Directory
	if err := json.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", path, err)
	}
	if dir.Users == nil {
		dir.Users = map[string]User{}
	}
	return &dir, nil
}

// Lookup returns the entry for id.
func (d *Directory) Lookup(id string) (User, error) {
	u, ok := d.Users[id]
	if !ok {
		return User{}, fmt.Errorf("user %q not found in users file", id)
	}
	return u, nil
}

// IDs returns all user IDs in sorted order.
func (d *Directory) IDs() []string {
	ids := make([]string, 0, len(d.Users))
	for id := range d.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
