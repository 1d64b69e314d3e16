package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ChannelMattermost is the channel name used to address the Mattermost
// notifier.
const ChannelMattermost = "mattermost"

// MattermostNotifier posts messages through a Mattermost bot account.
type MattermostNotifier struct {
	BaseURL    string
	BotToken   string
	HTTPClient *http.Client
}

// NewMattermostNotifier constructs a notifier for the given server.
func NewMattermostNotifier(baseURL, botToken string) *MattermostNotifier {
	return &MattermostNotifier{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		BotToken:   botToken,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// mattermostFromEnv returns a notifier when MATTERMOST_BASE_URL and
// MATTERMOST_BOT_TOKEN are both set, nil otherwise.
func mattermostFromEnv() *MattermostNotifier {
	base := os.Getenv("MATTERMOST_BASE_URL")
	token := os.Getenv("MATTERMOST_BOT_TOKEN")
	if base == "" || token == "" {
		return nil
	}
	return NewMattermostNotifier(base, token)
}

func (n *MattermostNotifier) Name() string { return ChannelMattermost }

// Send posts the message to the user's configured channel.
func (n *MattermostNotifier) Send(user User, msg Message) error {
	if user.MattermostChannelID == "" {
		return fmt.Errorf("user %q has no mattermost_channel_id", user.Name)
	}

	payload, err := json.Marshal(map[string]string{
		"channel_id": user.MattermostChannelID,
		"message":    formatMarkdown(msg),
	})
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, n.BaseURL+"/posts", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.BotToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mattermost returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// formatMarkdown renders a message as a bold subject line followed by the
// body in a fenced block when it spans multiple lines.
func formatMarkdown(msg Message) string {
	var b strings.Builder
	if msg.Subject != "" {
		b.WriteString("**" + msg.Subject + "**\n\n")
	}
	if strings.Contains(msg.Body, "\n") {
		b.WriteString("```\n" + strings.TrimRight(msg.Body, "\n") + "\n```")
	} else {
		b.WriteString(msg.Body)
	}
	return b.String()
}
