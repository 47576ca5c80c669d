package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	p.SearchPerformed("rid", "bebop", 3)
	p.AnimeViewed("rid", 1, true)

	New(nil, nil).Publish(SubjectSearchPerformed, "search_performed", "", nil)
}

func TestEventEnvelope(t *testing.T) {
	p := New(nil, nil)
	fixed := time.Date(2024, 4, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	p.now = func() time.Time { return fixed }

	ev := p.event("anime_viewed", "req-1", map[string]any{"anime_id": 5})
	if _, err := uuid.Parse(ev.EventID); err != nil {
		t.Fatalf("expected uuid event id, got %q", ev.EventID)
	}
	if !ev.OccurredAt.Equal(fixed) || ev.OccurredAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", ev.OccurredAt)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["event_name"] != "anime_viewed" || decoded["request_id"] != "req-1" {
		t.Fatalf("unexpected envelope %s", data)
	}
}
