package risk

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// alertEvent is the payload published per flagged application.
type alertEvent struct {
	ApplicationID string    `json:"appId"`
	Name          string    `json:"name"`
	Messages      []string  `json:"messages"`
	FlaggedAt     time.Time `json:"flaggedAt"`
}

// AlertPublisher pushes at-risk findings to a Kafka topic so downstream
// consumers (paging, dashboards) can react without polling. Publishing is
// best-effort: produce errors are logged and never fail an evaluation pass.
type AlertPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewAlertPublisher wraps a franz-go client. A nil client disables
// publishing by returning a nil publisher.
func NewAlertPublisher(client *kgo.Client, topic string, logger *slog.Logger) *AlertPublisher {
	if client == nil || topic == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertPublisher{client: client, topic: topic, logger: logger}
}

// Publish produces one record per flagged application, keyed by application
// id so a topic consumer sees per-application ordering.
func (p *AlertPublisher) Publish(ctx context.Context, flagged []AppRisk) {
	now := time.Now()
	for _, risk := range flagged {
		payload, err := json.Marshal(alertEvent{
			ApplicationID: risk.ApplicationID,
			Name:          risk.Name,
			Messages:      risk.Messages,
			FlaggedAt:     now,
		})
		if err != nil {
			p.logger.ErrorContext(ctx, "marshal at-risk alert", "app_id", risk.ApplicationID, "error", err)
			continue
		}

		record := &kgo.Record{
			Topic: p.topic,
			Key:   []byte(risk.ApplicationID),
			Value: payload,
		}
		p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
			if err != nil {
				p.logger.Error("produce at-risk alert", "topic", p.topic, "error", err)
			}
		})
	}
}
