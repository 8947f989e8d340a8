package utils

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := u.NewULIDFromTimestamp(ts)
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp returned error: %v", err)
	}

	parsed, err := ulid.Parse(id)
	if err != nil {
		t.Fatalf("generated ID %q is not a valid ULID: %v", id, err)
	}

	if got := ulid.Timestamp(ts); parsed.Time() != got {
		t.Errorf("ULID timestamp = %d, want %d", parsed.Time(), got)
	}
}

func TestNewULIDFromTimestampOrdering(t *testing.T) {
	u := New()

	early, err := u.NewULIDFromTimestamp(time.Unix(1000, 0))
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp returned error: %v", err)
	}
	late, err := u.NewULIDFromTimestamp(time.Unix(2000, 0))
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp returned error: %v", err)
	}

	if !(early < late) {
		t.Errorf("expected lexicographic ordering, got %q >= %q", early, late)
	}
}
