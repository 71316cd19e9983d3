package domain

import "errors"

var ErrSessionNotFound = errors.New("session not found")

// SessionKeyUserID is the only session key the authentication flow relies on.
const SessionKeyUserID = "user_id"

// MessageLevel is the severity of a flash message.
type MessageLevel string

const (
	LevelSuccess MessageLevel = "success"
	LevelError   MessageLevel = "error"
	LevelInfo    MessageLevel = "info"
)

// Message is a one-shot notification shown on the next rendered page.
type Message struct {
	Level MessageLevel `json:"level"`
	Text  string       `json:"text"`
}

// Session is the persisted form of the state referenced by a session cookie.
// The cookie and flash handling live in gorilla/sessions; session stores
// only see this record.
type Session struct {
	ID      string            `json:"-"`
	Values  map[string]string `json:"values"`
	Flashes []Message         `json:"flashes,omitempty"`
}

// NewSession returns an empty, unsaved session.
func NewSession() *Session {
	return &Session{Values: make(map[string]string)}
}

// IsEmpty reports whether there is nothing worth persisting.
func (s *Session) IsEmpty() bool { return len(s.Values) == 0 && len(s.Flashes) == 0 }

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := &Session{
		ID:     s.ID,
		Values: make(map[string]string, len(s.Values)),
	}
	for k, v := range s.Values {
		c.Values[k] = v
	}
	if len(s.Flashes) > 0 {
		c.Flashes = append([]Message(nil), s.Flashes...)
	}
	return c
}
