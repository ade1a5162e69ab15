package unit

import (
	"context"
	"testing"

	"github.com/investplatform/admin-backend/internal/apierr"
	notificationsdomain "github.com/investplatform/admin-backend/internal/domain/notifications"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type fakeNotificationRepo struct {
	created   []models.UserNotification
	broadcast [][]models.UserNotification
	readIDs   []string
}

func (r *fakeNotificationRepo) ListForUser(_ context.Context, _ string, _ listquery.Params) ([]models.UserNotification, int64, error) {
	return nil, 0, nil
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.UserNotification) error {
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) CreateBroadcast(_ context.Context, notifications []models.UserNotification) error {
	r.broadcast = append(r.broadcast, notifications)
	return nil
}

func (r *fakeNotificationRepo) ListForAdmin(_ context.Context, _ string, _ listquery.Params) ([]models.AdminNotification, int64, error) {
	return nil, 0, nil
}

func (r *fakeNotificationRepo) MarkAdminRead(_ context.Context, _ string, ids []string) error {
	r.readIDs = append(r.readIDs, ids...)
	return nil
}

type fakeUserSource struct {
	ids []string
}

func (s *fakeUserSource) ListActiveIDs(_ context.Context) ([]string, error) {
	return s.ids, nil
}

func TestNotificationSendValidates(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := notificationsdomain.NewService(repo, &fakeUserSource{})

	_, err := svc.Send(context.Background(), "", "hello", nil)
	if code := apiCode(t, err); code != apierr.InvalidPayload {
		t.Fatalf("expected %d, got %d", apierr.InvalidPayload, code)
	}

	n, err := svc.Send(context.Background(), "u1", "hello", nil)
	if err != nil {
		t.Fatalf("send error: %v", err)
	}
	if n.UserID != "u1" || n.Type != models.NotificationBroadcast {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one outbox row")
	}
}

func TestNotificationBroadcastFansOut(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := notificationsdomain.NewService(repo, &fakeUserSource{ids: []string{"u1", "u2", "u3"}})

	count, err := svc.Broadcast(context.Background(), "maintenance window", nil)
	if err != nil {
		t.Fatalf("broadcast error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 recipients, got %d", count)
	}
	if len(repo.broadcast) != 1 || len(repo.broadcast[0]) != 3 {
		t.Fatalf("expected a single batch of 3 rows")
	}
}

func TestNotificationMarkReadRequiresIDs(t *testing.T) {
	svc := notificationsdomain.NewService(&fakeNotificationRepo{}, &fakeUserSource{})

	err := svc.MarkRead(context.Background(), "admin-1", nil)
	if code := apiCode(t, err); code != apierr.InvalidPayload {
		t.Fatalf("expected %d, got %d", apierr.InvalidPayload, code)
	}
}
