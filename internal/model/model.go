package model

import "time"

// Message roles. These mirror the OpenAI chat-completion roles; the store
// never persists any other value.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Character is a persona template. The system prompt of every conversation
// with this character is synthesized from its fields.
type Character struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Avatar          *string   `json:"avatar,omitempty"` // URI or data-URI
	Description     string    `json:"description"`
	Personality     string    `json:"personality"`
	FirstMessage    string    `json:"first_message"`
	ExampleMessages string    `json:"example_messages"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`
}

// Message is a single entry in a conversation thread. Immutable once
// appended except for tail removal (regenerate) and truncation (clear).
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an ordered message thread tied to exactly one character.
// Messages[0] is always the system message seeded at creation time.
type Conversation struct {
	ID          string    `json:"id"`
	CharacterID string    `json:"character_id"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Messages    []Message `json:"messages"`
}

// VisibleMessages returns the user and assistant turns in stored order,
// skipping system entries. This is what a transcript view shows.
func (c *Conversation) VisibleMessages() []Message {
	visible := make([]Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.Role == RoleUser || m.Role == RoleAssistant {
			visible = append(visible, m)
		}
	}
	return visible
}

// UserMessageCount counts the user turns in the thread.
func (c *Conversation) UserMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// Settings is the single flat record of endpoint, sampling and UI
// preferences. JSON field names match the export document format.
type Settings struct {
	APIURL      string  `json:"apiUrl"`
	APIKey      string  `json:"apiKey"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TopP        float64 `json:"top_p"`
	Theme       string  `json:"theme"`
	AccentColor string  `json:"accentColor"`
	FontSize    int     `json:"fontSize"`
}

// ExportVersion is the literal version tag written into export documents.
// There is no migration logic behind it.
const ExportVersion = "1.0"

// ExportDocument is the full-store backup format. Import treats absent
// collections as "leave untouched". Current-selection pointers are not
// captured.
type ExportDocument struct {
	Characters    []Character    `json:"characters,omitempty"`
	Conversations []Conversation `json:"conversations,omitempty"`
	Settings      *Settings      `json:"settings,omitempty"`
	Version       string         `json:"version"`
}
