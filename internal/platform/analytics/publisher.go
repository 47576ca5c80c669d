// Package analytics publishes fire-and-forget catalog events to NATS JetStream.
package analytics

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	SubjectSearchPerformed    = "analytics.search.performed"
	SubjectCatalogAnimeViewed = "analytics.catalog.anime_viewed"
)

// Event is the envelope sent to all analytics.* subjects.
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	RequestID  string         `json:"request_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Publisher is safe to use as a nil pointer or with a nil JetStream context;
// both publish nothing.
type Publisher struct {
	js  nats.JetStreamContext
	log *zap.Logger
	now func() time.Time
}

func New(js nats.JetStreamContext, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{js: js, log: log, now: time.Now}
}

// Publish never surfaces failures to the caller; they are logged as warnings.
func (p *Publisher) Publish(subject, eventName, requestID string, props map[string]any) {
	if p == nil || p.js == nil {
		return
	}
	data, err := json.Marshal(p.event(eventName, requestID, props))
	if err != nil {
		p.log.Warn("analytics: marshal failed", zap.String("event", eventName), zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(subject, data); err != nil {
		p.log.Warn("analytics: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

func (p *Publisher) SearchPerformed(requestID, query string, results int) {
	p.Publish(SubjectSearchPerformed, "search_performed", requestID, map[string]any{
		"query":   query,
		"results": results,
	})
}

func (p *Publisher) AnimeViewed(requestID string, animeID int, found bool) {
	p.Publish(SubjectCatalogAnimeViewed, "anime_viewed", requestID, map[string]any{
		"anime_id": animeID,
		"found":    found,
	})
}

func (p *Publisher) event(name, requestID string, props map[string]any) Event {
	return Event{
		EventID:    uuid.NewString(),
		EventName:  name,
		RequestID:  requestID,
		OccurredAt: p.now().UTC(),
		Properties: props,
	}
}
