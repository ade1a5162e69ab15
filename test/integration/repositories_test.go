package integration

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/models"
	postgresrepo "github.com/investplatform/admin-backend/internal/repository/postgres"
	"github.com/investplatform/admin-backend/test/integration/testutil"
)

func TestSettingsUpsert(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	testutil.ResetTables(t, gdb)
	repo := postgresrepo.NewSettingsRepository(gdb)
	ctx := context.Background()

	err := repo.Upsert(ctx, []models.Setting{
		{Key: "minInvestment", Value: json.RawMessage(`"1000"`)},
		{Key: "supportEmail", Value: json.RawMessage(`"help@example.com"`)},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// A second write on the same key replaces the value.
	err = repo.Upsert(ctx, []models.Setting{
		{Key: "minInvestment", Value: json.RawMessage(`"2500"`)},
	})
	if err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	setting, err := repo.Get(ctx, "minInvestment")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(setting.Value) != `"2500"` {
		t.Fatalf("value = %s, want \"2500\"", setting.Value)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].Key != "minInvestment" || all[1].Key != "supportEmail" {
		t.Fatalf("keys not sorted: %s, %s", all[0].Key, all[1].Key)
	}
}

func TestOutboxClaimRetryDone(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	testutil.ResetTables(t, gdb)
	repo := postgresrepo.NewNotificationRepository(gdb)
	ctx := context.Background()

	user := &models.User{Email: "user@example.com"}
	mustCreate(t, gdb, user)

	n := &models.UserNotification{
		UserID:  user.ID,
		Type:    models.NotificationBroadcast,
		Message: "maintenance window",
	}
	if err := repo.Create(ctx, n); err != nil {
		t.Fatalf("create: %v", err)
	}

	claimed, err := repo.ClaimPending(ctx, 10)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(claimed) != 1 || claimed[0].ID != n.ID {
		t.Fatalf("claimed = %+v, want the seeded row", claimed)
	}

	// Pushing the retry out of the window hides the row from the next
	// claim.
	err = repo.MarkRetry(ctx, n.ID, 1, "broker unavailable", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("mark retry: %v", err)
	}
	claimed, err = repo.ClaimPending(ctx, 10)
	if err != nil {
		t.Fatalf("claim after retry: %v", err)
	}
	if len(claimed) != 0 {
		t.Fatalf("claimed %d rows, want 0 while backed off", len(claimed))
	}

	if err := repo.MarkRetry(ctx, n.ID, 2, "broker unavailable", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("mark retry due: %v", err)
	}
	claimed, err = repo.ClaimPending(ctx, 10)
	if err != nil {
		t.Fatalf("claim due: %v", err)
	}
	if len(claimed) != 1 || claimed[0].Attempts != 2 {
		t.Fatalf("claimed = %+v, want one row with 2 attempts", claimed)
	}

	if err := repo.MarkDone(ctx, n.ID); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	claimed, err = repo.ClaimPending(ctx, 10)
	if err != nil {
		t.Fatalf("claim after done: %v", err)
	}
	if len(claimed) != 0 {
		t.Fatalf("claimed %d rows, want 0 after done", len(claimed))
	}
}

func TestUserStatusAndBroadcastTargets(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	testutil.ResetTables(t, gdb)
	repo := postgresrepo.NewUserRepository(gdb)
	ctx := context.Background()

	active := &models.User{Email: "a@example.com", Status: models.UserStatusActive}
	verified := &models.User{Email: "b@example.com", Status: models.UserStatusVerified}
	banned := &models.User{Email: "c@example.com", Status: models.UserStatusVerified}
	mustCreate(t, gdb, active)
	mustCreate(t, gdb, verified)
	mustCreate(t, gdb, banned)

	settings := json.RawMessage(`{"statusBeforeBan":"verified"}`)
	if err := repo.UpdateStatus(ctx, banned.ID, models.UserStatusBanned, settings); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := repo.GetByID(ctx, banned.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.UserStatusBanned {
		t.Fatalf("status = %s, want banned", got.Status)
	}
	var stored map[string]string
	if err := json.Unmarshal(got.Settings, &stored); err != nil {
		t.Fatalf("settings: %v", err)
	}
	if stored["statusBeforeBan"] != "verified" {
		t.Fatalf("statusBeforeBan = %q, want verified", stored["statusBeforeBan"])
	}

	ids, err := repo.ListActiveIDs(ctx)
	if err != nil {
		t.Fatalf("list active ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("active ids = %v, want 2 entries", ids)
	}
	for _, id := range ids {
		if id == banned.ID {
			t.Fatal("banned user included in broadcast targets")
		}
	}
}

func TestExecuteWithdrawalSettlesOnce(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	testutil.ResetTables(t, gdb)
	repo := postgresrepo.NewFinanceRepository(gdb)
	ctx := context.Background()

	wallet := &models.Wallet{
		AccountNumber: "40817810000002",
		Balance:       decimal.NewFromInt(500),
		HoldBalance:   decimal.NewFromInt(200),
	}
	mustCreate(t, gdb, wallet)

	withdrawal := &models.Withdrawal{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(200),
		Status:   models.TransferStatusPending,
	}
	mustCreate(t, gdb, withdrawal)

	if err := repo.ExecuteWithdrawal(ctx, withdrawal); err != nil {
		t.Fatalf("execute: %v", err)
	}

	settled, err := repo.GetWithdrawal(ctx, withdrawal.ID)
	if err != nil {
		t.Fatalf("get withdrawal: %v", err)
	}
	if settled.Status != models.TransferStatusExecuted {
		t.Fatalf("status = %s, want executed", settled.Status)
	}
	if settled.Transaction == nil || settled.Transaction.Direction != "out" {
		t.Fatalf("transaction = %+v, want outgoing posting", settled.Transaction)
	}
	if settled.Wallet == nil || !settled.Wallet.HoldBalance.IsZero() {
		t.Fatalf("wallet = %+v, want hold released", settled.Wallet)
	}

	// A second attempt finds no pending row.
	err = repo.ExecuteWithdrawal(ctx, withdrawal)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second execute err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestRejectWithdrawalReleasesHoldToBalance(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	testutil.ResetTables(t, gdb)
	repo := postgresrepo.NewFinanceRepository(gdb)
	ctx := context.Background()

	wallet := &models.Wallet{
		AccountNumber: "40817810000003",
		Balance:       decimal.NewFromInt(300),
		HoldBalance:   decimal.NewFromInt(150),
	}
	mustCreate(t, gdb, wallet)

	withdrawal := &models.Withdrawal{
		WalletID: wallet.ID,
		Amount:   decimal.NewFromInt(150),
		Status:   models.TransferStatusPending,
	}
	mustCreate(t, gdb, withdrawal)

	if err := repo.RejectWithdrawal(ctx, withdrawal); err != nil {
		t.Fatalf("reject: %v", err)
	}

	var got models.Wallet
	if err := gdb.First(&got, "id = ?", wallet.ID).Error; err != nil {
		t.Fatalf("reload wallet: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("balance = %s, want 450", got.Balance)
	}
	if !got.HoldBalance.IsZero() {
		t.Fatalf("hold = %s, want 0", got.HoldBalance)
	}
}
