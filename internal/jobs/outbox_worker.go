package jobs

import (
	"context"
	"time"

	"github.com/investplatform/admin-backend/internal/models"
)

type OutboxRepository interface {
	ClaimPending(ctx context.Context, limit int) ([]models.UserNotification, error)
	MarkDone(ctx context.Context, id string) error
	MarkRetry(ctx context.Context, id string, attempts int, lastErr string, nextAt time.Time) error
	MarkFailed(ctx context.Context, id string, lastErr string) error
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// Worker drains the user notification outbox into the message queue.
// Each row is dispatched at most maxAttempts times with a growing
// backoff before it is parked as failed.
type Worker struct {
	repo         OutboxRepository
	publisher    Publisher
	topic        string
	maxAttempts  int
	now          func() time.Time
	retryBackoff func(attempt int) time.Duration
}

func NewWorker(repo OutboxRepository, publisher Publisher, topic string) *Worker {
	return &Worker{
		repo:        repo,
		publisher:   publisher,
		topic:       topic,
		maxAttempts: 5,
		now:         func() time.Time { return time.Now().UTC() },
		retryBackoff: func(attempt int) time.Duration {
			if attempt < 1 {
				attempt = 1
			}
			return time.Duration(attempt*15) * time.Second
		},
	}
}

func (w *Worker) RunOnce(ctx context.Context, batchSize int) error {
	notifications, err := w.repo.ClaimPending(ctx, batchSize)
	if err != nil {
		return err
	}

	for _, n := range notifications {
		if err := w.process(ctx, n); err != nil {
			return err
		}
	}

	return nil
}

func (w *Worker) process(ctx context.Context, n models.UserNotification) error {
	err := w.publisher.Publish(ctx, w.topic, n.UserID, map[string]any{
		"id":      n.ID,
		"userId":  n.UserID,
		"type":    n.Type,
		"message": n.Message,
		"data":    n.Data,
	})
	if err != nil {
		return w.handleError(ctx, n, err)
	}
	return w.repo.MarkDone(ctx, n.ID)
}

func (w *Worker) handleError(ctx context.Context, n models.UserNotification, err error) error {
	msg := err.Error()
	attempts := n.Attempts + 1
	if attempts >= w.maxAttempts {
		return w.repo.MarkFailed(ctx, n.ID, msg)
	}
	next := w.now().Add(w.retryBackoff(attempts))
	return w.repo.MarkRetry(ctx, n.ID, attempts, msg, next)
}

// Run polls the outbox until ctx is done.
func (w *Worker) Run(ctx context.Context, interval time.Duration, batchSize int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.RunOnce(ctx, batchSize); err != nil {
				return err
			}
		}
	}
}
