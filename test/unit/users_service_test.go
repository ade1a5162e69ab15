package unit

import (
	"context"
	"encoding/json"
	"testing"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/apierr"
	usersdomain "github.com/investplatform/admin-backend/internal/domain/users"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) List(_ context.Context, _ listquery.Params) ([]models.User, int64, error) {
	out := []models.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateStatus(_ context.Context, id string, status models.UserStatus, settings json.RawMessage) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Status = status
	u.Settings = settings
	return nil
}

func (r *fakeUserRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (r *fakeUserRepo) CountInvestors(_ context.Context) (int64, error) {
	return 0, nil
}

func (r *fakeUserRepo) ListLogs(_ context.Context, _ listquery.Params) ([]models.UserLog, int64, error) {
	return nil, 0, nil
}

type fakeNotificationSink struct {
	created []models.UserNotification
}

func (s *fakeNotificationSink) Create(_ context.Context, n *models.UserNotification) error {
	s.created = append(s.created, *n)
	return nil
}

func TestUserBanStashesStatusAndNotifies(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "a@b.c", Status: models.UserStatusVerified},
	}}
	sink := &fakeNotificationSink{}
	svc := usersdomain.NewService(repo, sink)

	banned, err := svc.Ban(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ban error: %v", err)
	}
	if banned.Status != models.UserStatusBanned {
		t.Fatalf("expected banned status, got %s", banned.Status)
	}

	settings := map[string]string{}
	if err := json.Unmarshal(repo.users["u1"].Settings, &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings["statusBeforeBan"] != string(models.UserStatusVerified) {
		t.Fatalf("expected stashed status, got %+v", settings)
	}
	if len(sink.created) != 1 || sink.created[0].Type != models.NotificationUserBanned {
		t.Fatalf("expected ban notification, got %+v", sink.created)
	}

	// Banning again is a no-op conflict.
	_, err = svc.Ban(context.Background(), "u1")
	if code := apiCode(t, err); code != apierr.StatusAlreadyAssigned {
		t.Fatalf("expected %d, got %d", apierr.StatusAlreadyAssigned, code)
	}
}

func TestUserUnbanRestoresStashedStatus(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"u1": {
			ID:       "u1",
			Email:    "a@b.c",
			Status:   models.UserStatusBanned,
			Settings: json.RawMessage(`{"statusBeforeBan":"verified"}`),
		},
	}}
	sink := &fakeNotificationSink{}
	svc := usersdomain.NewService(repo, sink)

	restored, err := svc.Unban(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unban error: %v", err)
	}
	if restored.Status != models.UserStatusVerified {
		t.Fatalf("expected verified restored, got %s", restored.Status)
	}
	if len(sink.created) != 1 || sink.created[0].Type != models.NotificationUserUnbanned {
		t.Fatalf("expected unban notification")
	}
}

func TestUserUnbanDefaultsToActive(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "a@b.c", Status: models.UserStatusBanned},
	}}
	svc := usersdomain.NewService(repo, &fakeNotificationSink{})

	restored, err := svc.Unban(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unban error: %v", err)
	}
	if restored.Status != models.UserStatusActive {
		t.Fatalf("expected active fallback, got %s", restored.Status)
	}
}

func TestUserStageAndConfirm(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "a@b.c", FirstName: "Ann", Status: models.UserStatusActive},
	}}
	svc := usersdomain.NewService(repo, &fakeNotificationSink{})

	// Confirm without staged edits is rejected.
	_, err := svc.Confirm(context.Background(), "u1")
	if code := apiCode(t, err); code != apierr.NotAcceptable {
		t.Fatalf("expected %d, got %d", apierr.NotAcceptable, code)
	}

	if _, err := svc.Stage(context.Background(), "u1", map[string]any{"firstName": "Anna"}); err != nil {
		t.Fatalf("stage error: %v", err)
	}
	if repo.users["u1"].FirstName != "Ann" {
		t.Fatalf("staging must not touch the approved column")
	}

	confirmed, err := svc.Confirm(context.Background(), "u1")
	if err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if confirmed.FirstName != "Anna" {
		t.Fatalf("expected staged name applied, got %s", confirmed.FirstName)
	}
	if len(confirmed.Updates) != 0 {
		t.Fatalf("expected updates cleared, got %s", confirmed.Updates)
	}
}

func TestUserRejectDropsStagedEdits(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"u1": {
			ID: "u1", Email: "a@b.c", FirstName: "Ann",
			Updates: json.RawMessage(`{"firstName":"Anna"}`),
		},
	}}
	svc := usersdomain.NewService(repo, &fakeNotificationSink{})

	rejected, err := svc.Reject(context.Background(), "u1")
	if err != nil {
		t.Fatalf("reject error: %v", err)
	}
	if rejected.FirstName != "Ann" || len(rejected.Updates) != 0 {
		t.Fatalf("expected edits dropped and column untouched")
	}
}
