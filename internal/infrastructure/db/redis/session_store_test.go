package redis

import (
	"encoding/json"
	"testing"

	"github.com/domapp/portal/internal/core/domain"
)

func TestSessionKey(t *testing.T) {
	if got := sessionKey("abc"); got != "session:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestDecodeSession_RoundTrip(t *testing.T) {
	sess := domain.NewSession()
	sess.ID = "abc"
	sess.Values[domain.SessionKeyUserID] = "u-1"
	sess.Flashes = []domain.Message{{Level: domain.LevelSuccess, Text: "Welcome"}}

	raw, err := json.Marshal(sess)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := decodeSession("abc", raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "abc" {
		t.Fatalf("expected id abc, got %q", got.ID)
	}
	if v := got.Values[domain.SessionKeyUserID]; v != "u-1" {
		t.Fatalf("expected user_id u-1, got %q", v)
	}
	if len(got.Flashes) != 1 || got.Flashes[0].Text != "Welcome" {
		t.Fatalf("unexpected flashes: %+v", got.Flashes)
	}
}

func TestDecodeSession_EmptyPayload(t *testing.T) {
	got, err := decodeSession("x", []byte(`{}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Values == nil || !got.IsEmpty() {
		t.Fatalf("expected empty session with initialised values, got %+v", got)
	}
}

func TestDecodeSession_Corrupt(t *testing.T) {
	if _, err := decodeSession("x", []byte("not-json")); err == nil {
		t.Fatalf("expected error for corrupt payload")
	}
}
