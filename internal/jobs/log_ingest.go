package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/investplatform/admin-backend/internal/models"
)

type LogRepository interface {
	CreateLog(ctx context.Context, entry *models.UserLog) error
}

type MessageSource interface {
	Fetch(ctx context.Context) (kafka.Message, error)
}

// LogIngester consumes platform audit events from the logging topic and
// persists them as user log rows, where the back-office queries them.
type LogIngester struct {
	consumer MessageSource
	repo     LogRepository
	log      *slog.Logger
}

func NewLogIngester(consumer MessageSource, repo LogRepository, log *slog.Logger) *LogIngester {
	return &LogIngester{consumer: consumer, repo: repo, log: log}
}

type logEvent struct {
	UserID  string          `json:"userId"`
	Action  string          `json:"action"`
	IP      string          `json:"ip"`
	Payload json.RawMessage `json:"payload"`
}

func (li *LogIngester) Run(ctx context.Context) error {
	for {
		msg, err := li.consumer.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			li.log.Error("log fetch failed", "error", err)
			time.Sleep(time.Second)
			continue
		}

		var event logEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			li.log.Warn("malformed log event dropped", "offset", msg.Offset, "error", err)
			continue
		}
		if event.Action == "" {
			li.log.Warn("log event without action dropped", "offset", msg.Offset)
			continue
		}

		entry := &models.UserLog{
			UserID:  event.UserID,
			Action:  event.Action,
			IP:      event.IP,
			Payload: event.Payload,
		}
		if err := li.repo.CreateLog(ctx, entry); err != nil {
			li.log.Error("log persist failed", "action", event.Action, "error", err)
		}
	}
}
