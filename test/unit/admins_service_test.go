package unit

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/auth"
	adminsdomain "github.com/investplatform/admin-backend/internal/domain/admins"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type fakeAdminRepo struct {
	admins         map[string]*models.Admin
	closedSessions []string
	nextID         int
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]*models.Admin{}}
}

func (r *fakeAdminRepo) List(_ context.Context, _ listquery.Params) ([]models.Admin, int64, error) {
	out := []models.Admin{}
	for _, a := range r.admins {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id string) (*models.Admin, error) {
	if a, ok := r.admins[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *models.Admin) error {
	r.nextID++
	admin.ID = "admin-" + string(rune('0'+r.nextID))
	r.admins[admin.ID] = admin
	return nil
}

func (r *fakeAdminRepo) Update(_ context.Context, admin *models.Admin) error {
	r.admins[admin.ID] = admin
	return nil
}

func (r *fakeAdminRepo) Delete(_ context.Context, id string) error {
	delete(r.admins, id)
	return nil
}

func (r *fakeAdminRepo) CloseSessionsForAdmin(_ context.Context, adminID string) error {
	r.closedSessions = append(r.closedSessions, adminID)
	return nil
}

func (r *fakeAdminRepo) ListLogs(_ context.Context, _ listquery.Params) ([]models.AdminLog, int64, error) {
	return nil, 0, nil
}

func TestAdminCreateNormalizesAndHashes(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := adminsdomain.NewService(repo)

	admin, err := svc.Create(context.Background(), adminsdomain.CreateInput{
		Email:    "  OPS@Example.Com ",
		Password: "long-enough-pass",
		Role:     "support",
		Permissions: models.Permissions{
			"users": models.PermissionRead,
		},
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if admin.Email != "ops@example.com" {
		t.Fatalf("expected lowercased email, got %s", admin.Email)
	}
	if admin.Status != models.AdminStatusNew {
		t.Fatalf("expected new status")
	}
	if !auth.CheckPassword(admin.PasswordHash, "long-enough-pass") {
		t.Fatalf("expected bcrypt hash of the password")
	}
}

func TestAdminCreateRejectsShortPassword(t *testing.T) {
	svc := adminsdomain.NewService(newFakeAdminRepo())

	_, err := svc.Create(context.Background(), adminsdomain.CreateInput{Email: "a@b.c", Password: "short"})
	if code := apiCode(t, err); code != apierr.InvalidPayload {
		t.Fatalf("expected %d, got %d", apierr.InvalidPayload, code)
	}
}

func TestAdminCreateDuplicateEmail(t *testing.T) {
	repo := newFakeAdminRepo()
	repo.admins["admin-1"] = &models.Admin{ID: "admin-1", Email: "ops@example.com"}
	svc := adminsdomain.NewService(repo)

	_, err := svc.Create(context.Background(), adminsdomain.CreateInput{Email: "ops@example.com", Password: "long-enough-pass"})
	if code := apiCode(t, err); code != apierr.EmailExists {
		t.Fatalf("expected %d, got %d", apierr.EmailExists, code)
	}
}

func TestAdminBlockClosesSessions(t *testing.T) {
	repo := newFakeAdminRepo()
	repo.admins["admin-1"] = &models.Admin{ID: "admin-1", Email: "ops@example.com", Status: models.AdminStatusVerified}
	svc := adminsdomain.NewService(repo)

	blocked, err := svc.Block(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("block error: %v", err)
	}
	if blocked.Status != models.AdminStatusBlocked {
		t.Fatalf("expected blocked status")
	}
	if len(repo.closedSessions) != 1 || repo.closedSessions[0] != "admin-1" {
		t.Fatalf("expected sessions closed")
	}

	_, err = svc.Block(context.Background(), "admin-1")
	if code := apiCode(t, err); code != apierr.StatusAlreadyAssigned {
		t.Fatalf("expected %d, got %d", apierr.StatusAlreadyAssigned, code)
	}

	unblocked, err := svc.Unblock(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("unblock error: %v", err)
	}
	if unblocked.Status != models.AdminStatusVerified {
		t.Fatalf("expected verified after unblock")
	}
}

func TestAdminDeleteClosesSessionsFirst(t *testing.T) {
	repo := newFakeAdminRepo()
	repo.admins["admin-1"] = &models.Admin{ID: "admin-1", Email: "ops@example.com"}
	svc := adminsdomain.NewService(repo)

	if err := svc.Delete(context.Background(), "admin-1"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if len(repo.closedSessions) != 1 {
		t.Fatalf("expected sessions closed before delete")
	}
	if _, ok := repo.admins["admin-1"]; ok {
		t.Fatalf("expected admin removed")
	}
}
