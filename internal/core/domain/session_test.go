package domain

import "testing"

func TestSession_IsEmpty(t *testing.T) {
	s := NewSession()
	if !s.IsEmpty() {
		t.Fatalf("new session must be empty")
	}

	s.Flashes = append(s.Flashes, Message{Level: LevelInfo, Text: "hello"})
	if s.IsEmpty() {
		t.Fatalf("a pending flash must be persisted")
	}

	s.Flashes = nil
	s.Values[SessionKeyUserID] = "42"
	if s.IsEmpty() {
		t.Fatalf("a stored value must be persisted")
	}
}

func TestSession_CloneIsDeep(t *testing.T) {
	s := NewSession()
	s.ID = "id"
	s.Values["k"] = "v"
	s.Flashes = []Message{{Level: LevelSuccess, Text: "ok"}}

	c := s.Clone()
	c.Values["k"] = "changed"
	c.Flashes[0].Text = "changed"

	if s.Values["k"] != "v" || s.Flashes[0].Text != "ok" {
		t.Fatalf("clone shares state with original")
	}
	if c.ID != "id" {
		t.Fatalf("clone must keep the id, got %q", c.ID)
	}
}
