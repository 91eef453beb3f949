package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// topicByFamily routes recorded domain events onto Kafka topics the bot
// gateway subscribes to. The family is the prefix of the event name, e.g.
// "booking.confirmed" publishes to stayhub.bookings.v1.
var topicByFamily = map[string]string{
	"booking":  "stayhub.bookings.v1",
	"listings": "stayhub.listings.v1",
	"reviews":  "stayhub.reviews.v1",
}

const fallbackTopic = "stayhub.events.v1"

// envelope is the CloudEvents JSON carried on the wire. Subject is the
// aggregate id (listing or booking) so consumers can partition-key on it.
type envelope struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	TraceParent     string          `json:"traceparent,omitempty"`
	Data            json.RawMessage `json:"data"`
}

// Worker drains the outbox collection and publishes each event exactly once
// per claim. Failed publishes are retried on the backoff schedule; the event
// row is never dropped.
type Worker struct {
	Store        *Store
	Producer     Producer
	PollInterval time.Duration
	TopicPrefix  string
	Source       string
	WorkerID     string
	Backoff      []time.Duration
	Logger       *slog.Logger
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.pollInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				return err
			}
		}
	}
}

// drain publishes every claimable event before going back to sleep, so a
// burst of bookings does not trickle out one event per tick.
func (w *Worker) drain(ctx context.Context) error {
	for {
		doc, err := w.Store.Claim(ctx, w.workerID())
		if err != nil {
			return err
		}
		if doc == nil {
			return nil
		}
		w.publishOne(ctx, doc)
	}
}

func (w *Worker) publishOne(ctx context.Context, doc *EventDocument) {
	payload, headers, err := w.wrap(doc)
	if err != nil {
		w.park(ctx, doc, err)
		return
	}
	if err := w.Producer.Publish(ctx, w.topicFor(doc.Name), doc.Aggregate, payload, headers); err != nil {
		w.park(ctx, doc, err)
		return
	}
	if err := w.Store.MarkSent(ctx, doc.ID); err != nil && w.Logger != nil {
		w.Logger.Error("outbox mark sent failed", "event_id", doc.ID, "error", err)
	}
}

func (w *Worker) park(ctx context.Context, doc *EventDocument, cause error) {
	retryAt := w.nextRetry(doc.Attempts)
	if w.Logger != nil {
		w.Logger.Warn("outbox publish failed", "event", doc.Name, "event_id", doc.ID, "retry_at", retryAt, "error", cause)
	}
	_ = w.Store.MarkFailed(ctx, doc.ID, retryAt, cause.Error())
}

func (w *Worker) wrap(doc *EventDocument) ([]byte, map[string]string, error) {
	if !json.Valid(doc.Payload) {
		return nil, nil, errors.New("outbox: event payload is not valid json")
	}
	evt := envelope{
		SpecVersion:     "1.0",
		ID:              uuid.NewString(),
		Type:            doc.Name + ".v1",
		Source:          w.source(),
		Subject:         doc.Aggregate,
		Time:            doc.OccurredAt,
		DataContentType: "application/json",
		TraceParent:     doc.Headers["traceparent"],
		Data:            json.RawMessage(doc.Payload),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{"content-type": "application/cloudevents+json"}
	for k, v := range doc.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}

func (w *Worker) topicFor(name string) string {
	family := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		family = name[:idx]
	}
	topic, ok := topicByFamily[family]
	if !ok {
		topic = fallbackTopic
	}
	return w.TopicPrefix + topic
}

func (w *Worker) workerID() string {
	if w.WorkerID != "" {
		return w.WorkerID
	}
	return uuid.NewString()
}

func (w *Worker) pollInterval() time.Duration {
	if w.PollInterval <= 0 {
		return 500 * time.Millisecond
	}
	return w.PollInterval
}

func (w *Worker) nextRetry(attempts int) time.Time {
	if attempts < len(w.Backoff) {
		return time.Now().Add(w.Backoff[attempts])
	}
	if len(w.Backoff) > 0 {
		return time.Now().Add(w.Backoff[len(w.Backoff)-1])
	}
	return time.Now().Add(5 * time.Second)
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://stayhub"
}
