package mongo

import (
	"testing"
	"time"

	"github.com/domapp/portal/internal/core/domain"
)

func TestMongoUser_RoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	u := &domain.User{
		ID:           "6f1c",
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    created,
	}

	doc := toMongoUser(u)
	if doc.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp in document, got %v", doc.CreatedAt.Location())
	}

	back := doc.toDomain()
	if back.ID != u.ID || back.Username != u.Username || back.Email != u.Email || !back.IsActive {
		t.Fatalf("unexpected user after round trip: %+v", back)
	}
	if !back.CreatedAt.Equal(created) {
		t.Fatalf("created_at changed: %v != %v", back.CreatedAt, created)
	}
}
