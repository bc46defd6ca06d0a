package models

import "strings"

// Role identifies who spoke a turn.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Turn is a single utterance in a practice session transcript.
type Turn struct {
	Role    Role   `json:"role" validate:"required,oneof=assistant user"`
	Content string `json:"content"`
}

// Transcript is the ordered list of turns captured for a session.
// Order is significant: indices define topic boundaries.
type Transcript []Turn

// UserText joins every user turn with a single space.
func (t Transcript) UserText() string {
	parts := make([]string, 0, len(t))
	for _, turn := range t {
		if turn.Role == RoleUser {
			parts = append(parts, turn.Content)
		}
	}
	return strings.Join(parts, " ")
}

// HasUserSpeech reports whether any user turn carries non-blank content.
func (t Transcript) HasUserSpeech() bool {
	return strings.TrimSpace(t.UserText()) != ""
}
