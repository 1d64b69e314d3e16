package notify

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// ChannelEmail is the channel name used to address the email notifier.
const ChannelEmail = "email"

// EmailNotifier sends plain-text mail over SMTP with STARTTLS.
type EmailNotifier struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string

	// sendMail is swapped in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailNotifier constructs a notifier for the given SMTP account.
func NewEmailNotifier(host, port, username, password string) *EmailNotifier {
	return &EmailNotifier{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     username,
		sendMail: smtp.SendMail,
	}
}

// emailFromEnv returns a notifier when MAIL_HOST, MAIL_USERNAME and
// MAIL_PASSWORD are all set, nil otherwise. MAIL_PORT defaults to 587.
func emailFromEnv() *EmailNotifier {
	host := os.Getenv("MAIL_HOST")
	user := os.Getenv("MAIL_USERNAME")
	pass := os.Getenv("MAIL_PASSWORD")
	if host == "" || user == "" || pass == "" {
		return nil
	}
	return NewEmailNotifier(host, envOr("MAIL_PORT", "587"), user, pass)
}

func (n *EmailNotifier) Name() string { return ChannelEmail }

// Send mails the message to the user's directory address.
func (n *EmailNotifier) Send(user User, msg Message) error {
	if user.Email == "" {
		return fmt.Errorf("user %q has no email address", user.Name)
	}

	auth := smtp.PlainAuth("", n.Username, n.Password, n.Host)
	body := buildMIMEMessage(n.From, user.Email, msg)

	addr := n.Host + ":" + n.Port
	if err := n.sendMail(addr, auth, n.From, []string{user.Email}, body); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	return nil
}

// buildMIMEMessage assembles a minimal plain-text RFC 5322 message with
// CRLF line endings.
func buildMIMEMessage(from, to string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// sanitizeHeader strips CR and LF to keep user-supplied subjects from
// injecting extra headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
