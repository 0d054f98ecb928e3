package models

import "encoding/json"

// MessageRole constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FileRef points at a file shared in a Slack message
type FileRef struct {
	URL      string
	MimeType string
}

// ThreadMessage is a single message read back from a Slack thread
type ThreadMessage struct {
	BotID       string
	Text        string
	Attachments []json.RawMessage
	Files       []FileRef
}

// IsBot reports whether the message was posted by a bot
func (m ThreadMessage) IsBot() bool {
	return m.BotID != ""
}

// Role maps authorship to a prompt role
func (m ThreadMessage) Role() string {
	if m.IsBot() {
		return RoleAssistant
	}
	return RoleUser
}
