package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/investplatform/admin-backend/internal/jobs"
	"github.com/investplatform/admin-backend/internal/models"
)

type fakeOutboxRepo struct {
	pending   []models.UserNotification
	doneIDs   []string
	retryIDs  []string
	retryAt   []time.Time
	failedIDs []string
}

func (r *fakeOutboxRepo) ClaimPending(_ context.Context, _ int) ([]models.UserNotification, error) {
	return r.pending, nil
}

func (r *fakeOutboxRepo) MarkDone(_ context.Context, id string) error {
	r.doneIDs = append(r.doneIDs, id)
	return nil
}

func (r *fakeOutboxRepo) MarkRetry(_ context.Context, id string, _ int, _ string, nextAt time.Time) error {
	r.retryIDs = append(r.retryIDs, id)
	r.retryAt = append(r.retryAt, nextAt)
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(_ context.Context, id string, _ string) error {
	r.failedIDs = append(r.failedIDs, id)
	return nil
}

type fakePublisher struct {
	err       error
	published []string
	keys      []string
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, _ any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, topic)
	p.keys = append(p.keys, key)
	return nil
}

func TestOutboxWorkerMarksDone(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []models.UserNotification{
		{ID: "n1", UserID: "u1", Type: models.NotificationBroadcast, Message: "hi"},
	}}
	pub := &fakePublisher{}
	worker := jobs.NewWorker(repo, pub, "notifications")

	if err := worker.RunOnce(context.Background(), 10); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if len(repo.doneIDs) != 1 || repo.doneIDs[0] != "n1" {
		t.Fatalf("expected notification marked done")
	}
	if len(pub.published) != 1 || pub.published[0] != "notifications" {
		t.Fatalf("expected publish on notifications topic")
	}
	if pub.keys[0] != "u1" {
		t.Fatalf("expected messages keyed by user, got %s", pub.keys[0])
	}
}

func TestOutboxWorkerRetriesOnPublishError(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []models.UserNotification{
		{ID: "n1", UserID: "u1", Attempts: 0},
	}}
	worker := jobs.NewWorker(repo, &fakePublisher{err: errors.New("broker down")}, "notifications")

	before := time.Now().UTC()
	if err := worker.RunOnce(context.Background(), 10); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if len(repo.retryIDs) != 1 || repo.retryIDs[0] != "n1" {
		t.Fatalf("expected retry")
	}
	if !repo.retryAt[0].After(before) {
		t.Fatalf("expected backoff in the future")
	}
}

func TestOutboxWorkerParksAfterMaxAttempts(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []models.UserNotification{
		{ID: "n9", UserID: "u1", Attempts: 4},
	}}
	worker := jobs.NewWorker(repo, &fakePublisher{err: errors.New("broker down")}, "notifications")

	if err := worker.RunOnce(context.Background(), 10); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if len(repo.failedIDs) != 1 || repo.failedIDs[0] != "n9" {
		t.Fatalf("expected terminal failure")
	}
	if len(repo.retryIDs) != 0 {
		t.Fatalf("expected no retry after max attempts")
	}
}
