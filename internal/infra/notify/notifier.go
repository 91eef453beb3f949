// Package notify hands user-facing messages to the delivery pipeline. The
// bot front-end consumes the notify topic and renders templates; this service
// only publishes intents.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stayhub/internal/app/policies"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// KafkaNotifier publishes notification intents to a Kafka topic.
type KafkaNotifier struct {
	Producer Producer
	Topic    string
	Logger   *slog.Logger
}

func (n *KafkaNotifier) Send(ctx context.Context, to string, template string, data any) error {
	body, err := json.Marshal(map[string]any{
		"id":       uuid.NewString(),
		"to":       to,
		"template": template,
		"data":     data,
		"sent_at":  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	topic := n.Topic
	if topic == "" {
		topic = "notify.v1"
	}
	if err := n.Producer.Publish(ctx, topic, to, body, map[string]string{"content-type": "application/json"}); err != nil {
		return err
	}
	if n.Logger != nil {
		n.Logger.Debug("notification published", "to", to, "template", template)
	}
	return nil
}

// LogNotifier is used in dev runs without a broker.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Send(ctx context.Context, to string, template string, data any) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification", "to", to, "template", template)
	return nil
}

var (
	_ policies.Notifier = (*KafkaNotifier)(nil)
	_ policies.Notifier = LogNotifier{}
)
