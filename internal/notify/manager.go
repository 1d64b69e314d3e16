package notify

import (
	"fmt"
	"os"
	"sort"
)

// Message is a channel-agnostic notification payload. Notifiers apply
// their own formatting on top.
type Message struct {
	Subject string
	Body    string
}

// Notifier sends a message to one directory user over one channel.
type Notifier interface {
	Name() string
	Send(user User, msg Message) error
}

// Manager routes messages to configured notifiers by channel name.
type Manager struct {
	dir       *Directory
	notifiers map[string]Notifier
}

// NewManager builds a manager over an explicit notifier set.
func NewManager(dir *Directory, notifiers ...Notifier) *Manager {
	m := &Manager{dir: dir, notifiers: map[string]Notifier{}}
	for _, n := range notifiers {
		m.notifiers[n.Name()] = n
	}
	return m
}

// NewManagerFromEnv loads the users file and constructs every notifier
// whose environment is configured. Construction fails fast on a missing
// or unparseable users file; unconfigured channels are simply absent.
func NewManagerFromEnv(usersPath string) (*Manager, error) {
	dir, err := LoadDirectory(usersPath)
	if err != nil {
		return nil, err
	}

	var notifiers []Notifier
	if mm := mattermostFromEnv(); mm != nil {
		notifiers = append(notifiers, mm)
	}
	if em := emailFromEnv(); em != nil {
		notifiers = append(notifiers, em)
	}
	return NewManager(dir, notifiers...), nil
}

// Channels returns the configured channel names in sorted order.
func (m *Manager) Channels() []string {
	names := make([]string, 0, len(m.notifiers))
	for name := range m.notifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Available reports whether channel is configured.
func (m *Manager) Available(channel string) bool {
	_, ok := m.notifiers[channel]
	return ok
}

// Directory exposes the loaded user directory.
func (m *Manager) Directory() *Directory {
	return m.dir
}

// Send delivers msg to userID over channel.
func (m *Manager) Send(channel, userID string, msg Message) error {
	n, ok := m.notifiers[channel]
	if !ok {
		return fmt.Errorf("notification channel %q is not configured (have: %v)", channel, m.Channels())
	}
	user, err := m.dir.Lookup(userID)
	if err != nil {
		return err
	}
	if err := n.Send(user, msg); err != nil {
		return fmt.Errorf("send via %s to %s: %w", channel, userID, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
