package chat

import "time"

// DefaultTitle is assigned to sessions created without a title.
const DefaultTitle = "New conversation"

// Session is the durable record of a conversation owned by a user.
type Session struct {
	ID        string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
