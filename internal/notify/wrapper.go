package notify

import (
	"bytes"
	"fmt"
	"io"
)

// Target addresses one delivery: a directory user over one channel.
type Target struct {
	User    string
	Channel string
}

// ResolveTarget merges command-level and root-level notification flags.
// Command-level values win as a pair; within a level, user and channel
// must be given together or not at all.
func ResolveTarget(cmdUser, cmdChannel, globalUser, globalChannel string) (*Target, error) {
	user, channel := cmdUser, cmdChannel
	if user == "" && channel == "" {
		user, channel = globalUser, globalChannel
	}
	switch {
	case user == "" && channel == "":
		return nil, nil
	case user == "":
		return nil, fmt.Errorf("--notify-channel requires --notify-user")
	case channel == "":
		return nil, fmt.Errorf("--notify-user requires --notify-channel")
	}
	return &Target{User: user, Channel: channel}, nil
}

// Wrapper captures a command's console output and forwards it to a
// notification target after the command finishes.
type Wrapper struct {
	mgr *Manager
}

// NewWrapper builds a wrapper over a configured manager.
func NewWrapper(mgr *Manager) *Wrapper {
	return &Wrapper{mgr: mgr}
}

// Run executes fn. With a nil target fn writes straight to console and
// nothing else happens. With a target, fn's output is buffered, replayed
// to the console exactly once (also when fn panics), and delivered to the
// target in a single attempt. A delivery failure is reported as a console
// warning and never changes fn's result.
func (w *Wrapper) Run(target *Target, label string, console io.Writer, fn func(out io.Writer) error) error {
	if target == nil {
		return fn(console)
	}

	var buf bytes.Buffer
	replayed := false
	replay := func() {
		if !replayed {
			replayed = true
			_, _ = io.Copy(console, &buf)
		}
	}
	defer replay()

	err := fn(&buf)
	body := buf.String()
	replay()

	subject := label
	if err != nil {
		subject = label + " (failed)"
		body = body + fmt.Sprintf("\nError: %v\n", err)
	}
	if sendErr := w.mgr.Send(target.Channel, target.User, Message{Subject: subject, Body: body}); sendErr != nil {
		fmt.Fprintf(console, "warning: could not deliver notification: %v\n", sendErr)
	}
	return err
}
