package models

// Message roles. Anything else is rejected at the API boundary.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	// User is an opaque identity id (clients manage meaning)
	User string `json:"user,omitempty"`
	Role string `json:"role"`
}

// Session is a bounded, ordered conversation transcript. Messages are
// append-only in insertion order; the zero Session with a fresh Created is
// what readers get for an id that was never written.
type Session struct {
	ID       string        `json:"sessionId"`
	Messages []ChatMessage `json:"messages"`
	// Created timestamp (ns)
	Created int64 `json:"created"`
}
