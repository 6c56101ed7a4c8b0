package models

import "strings"

// Sender identifies who sent an inbound message. The ID is the unique
// identifier assigned by Telegram; it never changes for a given account.
type Sender struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// FullName returns the sender's display name, e.g. "John Doe".
// Either name part may be empty.
func (s Sender) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
}

// Handle returns the sender's @username, or an em-dash placeholder when
// the account has no username set.
func (s Sender) Handle() string {
	if s.Username == "" {
		return "—"
	}
	return "@" + s.Username
}

// IncomingMessage is the transport-independent shape of one inbound
// message, as consumed by the bot pipeline. Command and Args are empty
// for ordinary text messages.
type IncomingMessage struct {
	Sender  Sender
	ChatID  int64
	Text    string
	Command string
	Args    []string
}

// IsCommand reports whether the message is a bot command (e.g. /start).
func (m *IncomingMessage) IsCommand() bool {
	return m.Command != ""
}
