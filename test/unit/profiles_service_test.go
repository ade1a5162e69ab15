package unit

import (
	"context"
	"encoding/json"
	"testing"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/apierr"
	profilesdomain "github.com/investplatform/admin-backend/internal/domain/profiles"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type fakeProfileRepo struct {
	profiles map[string]*models.UserProfile
	indebted map[string]bool
}

func (r *fakeProfileRepo) ListByRole(_ context.Context, role models.ProfileRole, _ listquery.Params) ([]models.UserProfile, int64, error) {
	out := []models.UserProfile{}
	for _, p := range r.profiles {
		if p.Role == role {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.UserProfile, error) {
	if p, ok := r.profiles[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) UpdateTx(_ context.Context, profile *models.UserProfile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) UpdateStatus(_ context.Context, id string, status models.ProfileStatus) error {
	r.profiles[id].Status = status
	return nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, id string) error {
	delete(r.profiles, id)
	return nil
}

func (r *fakeProfileRepo) OutstandingDebt(_ context.Context, profileID string) (bool, error) {
	return r.indebted[profileID], nil
}

func (r *fakeProfileRepo) CountByRole(_ context.Context, role models.ProfileRole) (int64, error) {
	var n int64
	for _, p := range r.profiles {
		if p.Role == role {
			n++
		}
	}
	return n, nil
}

func TestProfileConfirmAppliesStagedEdits(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.UserProfile{
		"p1": {
			ID: "p1", UserID: "u1", Role: models.RoleInvestor, Type: models.KindIndividual,
			Status:  models.ProfileStatusAccepted,
			Phone:   "111",
			Updates: json.RawMessage(`{"phone":"222"}`),
		},
	}}
	sink := &fakeNotificationSink{}
	svc := profilesdomain.NewService(repo, sink)

	confirmed, err := svc.Confirm(context.Background(), "p1")
	if err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if confirmed.Phone != "222" || len(confirmed.Updates) != 0 {
		t.Fatalf("expected staged phone applied, got %+v", confirmed)
	}
	if confirmed.Status != models.ProfileStatusAccepted {
		t.Fatalf("expected accepted status")
	}
	if len(sink.created) != 1 || sink.created[0].Type != models.NotificationProfileConfirmed {
		t.Fatalf("expected confirmation notification")
	}
}

func TestProfileConfirmWithoutPendingEdits(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.UserProfile{
		"p1": {ID: "p1", UserID: "u1", Role: models.RoleInvestor, Status: models.ProfileStatusAccepted},
	}}
	svc := profilesdomain.NewService(repo, &fakeNotificationSink{})

	_, err := svc.Confirm(context.Background(), "p1")
	if code := apiCode(t, err); code != apierr.NotAcceptable {
		t.Fatalf("expected %d, got %d", apierr.NotAcceptable, code)
	}
}

func TestProfileConfirmAcceptsFreshProfile(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.UserProfile{
		"p1": {ID: "p1", UserID: "u1", Role: models.RoleBorrower, Status: models.ProfileStatusCreated},
	}}
	svc := profilesdomain.NewService(repo, &fakeNotificationSink{})

	confirmed, err := svc.Confirm(context.Background(), "p1")
	if err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if confirmed.Status != models.ProfileStatusAccepted {
		t.Fatalf("expected created profile accepted, got %s", confirmed.Status)
	}
}

func TestProfileRejectFreshProfile(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.UserProfile{
		"p1": {
			ID: "p1", UserID: "u1", Role: models.RoleBorrower,
			Status:  models.ProfileStatusCreated,
			Updates: json.RawMessage(`{"phone":"222"}`),
		},
	}}
	svc := profilesdomain.NewService(repo, &fakeNotificationSink{})

	rejected, err := svc.Reject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("reject error: %v", err)
	}
	if rejected.Status != models.ProfileStatusRejected || len(rejected.Updates) != 0 {
		t.Fatalf("expected rejected with dropped edits, got %+v", rejected)
	}
}

func TestProfileRemoveBorrowerWithDebt(t *testing.T) {
	repo := &fakeProfileRepo{
		profiles: map[string]*models.UserProfile{
			"p1": {ID: "p1", UserID: "u1", Role: models.RoleBorrower, Status: models.ProfileStatusAccepted},
		},
		indebted: map[string]bool{"p1": true},
	}
	svc := profilesdomain.NewService(repo, &fakeNotificationSink{})

	err := svc.Remove(context.Background(), "p1")
	if code := apiCode(t, err); code != apierr.Conflict {
		t.Fatalf("expected %d, got %d", apierr.Conflict, code)
	}

	repo.indebted["p1"] = false
	if err := svc.Remove(context.Background(), "p1"); err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if repo.profiles["p1"].Status != models.ProfileStatusHistory {
		t.Fatalf("expected history status, row kept")
	}
}

func TestProfileSetQualificationInvestorOnly(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.UserProfile{
		"b1": {ID: "b1", UserID: "u1", Role: models.RoleBorrower, Status: models.ProfileStatusAccepted},
		"i1": {ID: "i1", UserID: "u2", Role: models.RoleInvestor, Status: models.ProfileStatusAccepted, Qualification: models.QualificationNone},
	}}
	svc := profilesdomain.NewService(repo, &fakeNotificationSink{})

	_, err := svc.SetQualification(context.Background(), "b1", models.QualificationQualified)
	if code := apiCode(t, err); code != apierr.NotAcceptable {
		t.Fatalf("expected %d, got %d", apierr.NotAcceptable, code)
	}

	updated, err := svc.SetQualification(context.Background(), "i1", models.QualificationQualified)
	if err != nil {
		t.Fatalf("set qualification error: %v", err)
	}
	if updated.Qualification != models.QualificationQualified {
		t.Fatalf("expected qualified, got %s", updated.Qualification)
	}

	_, err = svc.SetQualification(context.Background(), "i1", models.QualificationQualified)
	if code := apiCode(t, err); code != apierr.StatusAlreadyAssigned {
		t.Fatalf("expected %d, got %d", apierr.StatusAlreadyAssigned, code)
	}
}

func TestProfileBlockUnblock(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.UserProfile{
		"p1": {ID: "p1", UserID: "u1", Role: models.RoleInvestor, Status: models.ProfileStatusAccepted},
	}}
	svc := profilesdomain.NewService(repo, &fakeNotificationSink{})

	if err := svc.Block(context.Background(), "p1"); err != nil {
		t.Fatalf("block error: %v", err)
	}
	if repo.profiles["p1"].Status != models.ProfileStatusBlocked {
		t.Fatalf("expected blocked")
	}
	if err := svc.Block(context.Background(), "p1"); err == nil {
		t.Fatalf("expected second block to conflict")
	}

	if err := svc.Unblock(context.Background(), "p1"); err != nil {
		t.Fatalf("unblock error: %v", err)
	}
	if repo.profiles["p1"].Status != models.ProfileStatusAccepted {
		t.Fatalf("expected accepted after unblock")
	}
}
