package chat

import "time"

// Sender identifies who produced a conversation turn.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderPastor Sender = "pastor"
)

// Turn is a single immutable line of a conversation.
type Turn struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Record persists one exchange (user message + pastor reply) for audit and history.
type Record struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	SessionID   string    `json:"session_id"`
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	BibleVerses []string  `json:"bible_verses"`
	Intent      string    `json:"intent,omitempty"`
	Mood        string    `json:"mood,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Turns expands a record into its user and pastor turns, in that order.
func (r Record) Turns() []Turn {
	return []Turn{
		{Sender: SenderUser, Text: r.UserMessage, CreatedAt: r.CreatedAt},
		{Sender: SenderPastor, Text: r.AIResponse, CreatedAt: r.CreatedAt},
	}
}
