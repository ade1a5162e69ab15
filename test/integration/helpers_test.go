package integration

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/auth"
	"github.com/investplatform/admin-backend/internal/banking"
	"github.com/investplatform/admin-backend/internal/config"
	"github.com/investplatform/admin-backend/internal/db"
	adminsdomain "github.com/investplatform/admin-backend/internal/domain/admins"
	financedomain "github.com/investplatform/admin-backend/internal/domain/finance"
	loansdomain "github.com/investplatform/admin-backend/internal/domain/loans"
	notificationsdomain "github.com/investplatform/admin-backend/internal/domain/notifications"
	profilesdomain "github.com/investplatform/admin-backend/internal/domain/profiles"
	usersdomain "github.com/investplatform/admin-backend/internal/domain/users"
	"github.com/investplatform/admin-backend/internal/history"
	"github.com/investplatform/admin-backend/internal/http/handlers"
	"github.com/investplatform/admin-backend/internal/models"
	postgresrepo "github.com/investplatform/admin-backend/internal/repository/postgres"
	"github.com/investplatform/admin-backend/internal/server"
	"github.com/investplatform/admin-backend/internal/ws"
)

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _, _ string, _ any) error {
	return nil
}

type stubBankingClient struct{}

func (stubBankingClient) GetVirtualBalance(_ context.Context) (*banking.VirtualBalance, error) {
	return &banking.VirtualBalance{}, nil
}

func (stubBankingClient) TestDeposit(_ context.Context, _ string, _ decimal.Decimal) (string, error) {
	return "op-test", nil
}

// buildRouter wires the real services against the test database, with
// the queue and banking edges stubbed out.
func buildRouter(t *testing.T, gdb *gorm.DB) http.Handler {
	t.Helper()

	logger := slog.Default()
	cfg := config.Config{Env: "test", MaxRequestBodyBytes: 1 << 20}

	userRepo := postgresrepo.NewUserRepository(gdb)
	profileRepo := postgresrepo.NewProfileRepository(gdb)
	loanRepo := postgresrepo.NewLoanRepository(gdb)
	investmentRepo := postgresrepo.NewInvestmentRepository(gdb)
	financeRepo := postgresrepo.NewFinanceRepository(gdb)
	adminRepo := postgresrepo.NewAdminRepository(gdb)
	supportRepo := postgresrepo.NewSupportRepository(gdb)
	contentRepo := postgresrepo.NewContentRepository(gdb)
	settingsRepo := postgresrepo.NewSettingsRepository(gdb)
	notificationRepo := postgresrepo.NewNotificationRepository(gdb)
	historyRepo := postgresrepo.NewHistoryRepository(gdb)

	jwtManager := auth.NewJWTManager("test-issuer", "test-aud", "test-secret")
	authService := auth.NewService(adminRepo, jwtManager, auth.NewTOTPManager("test"), 15*time.Minute, 24*time.Hour)

	usersService := usersdomain.NewService(userRepo, notificationRepo)
	profilesService := profilesdomain.NewService(profileRepo, notificationRepo)
	loansService := loansdomain.NewService(loanRepo, investmentRepo, notificationRepo)
	financeService := financedomain.NewService(financeRepo, stubBankingClient{})
	notificationsService := notificationsdomain.NewService(notificationRepo, userRepo)
	adminsService := adminsdomain.NewService(adminRepo)
	historyService := history.NewService(historyRepo)

	return server.NewRouter(cfg, logger, server.Dependencies{
		Pinger:        db.Ping{DB: gdb},
		JWTManager:    jwtManager,
		AdminSource:   adminRepo,
		Confirmer:     authService,
		Auth:          handlers.NewAuthHandler(authService, logger),
		Admins:        handlers.NewAdminsHandler(adminsService, noopPublisher{}, "email", logger),
		Users:         handlers.NewUsersHandler(usersService, logger),
		Borrowers:     handlers.NewProfilesHandler(profilesService, loansService, models.RoleBorrower, logger),
		Investors:     handlers.NewProfilesHandler(profilesService, loansService, models.RoleInvestor, logger),
		Loans:         handlers.NewLoansHandler(loansService, logger),
		Investments:   handlers.NewInvestmentsHandler(investmentRepo, logger),
		Finance:       handlers.NewFinanceHandler(financeService, logger),
		History:       handlers.NewHistoryHandler(historyService, logger),
		Support:       handlers.NewSupportHandler(supportRepo, contentRepo, logger),
		Content:       handlers.NewContentHandler(contentRepo, logger),
		Settings:      handlers.NewSettingsHandler(settingsRepo, logger),
		Documents:     handlers.NewDocumentsHandler(contentRepo, models.DocumentKindDocument, logger),
		Templates:     handlers.NewDocumentsHandler(contentRepo, models.DocumentKindTemplate, logger),
		Notifications: handlers.NewNotificationsHandler(notificationsService, logger),
		Registry:      handlers.NewRegistryHandler(financeService, logger),
		Actions:       handlers.NewActionsHandler(usersService, profilesService, financeService, logger),
		WSHandler:     ws.NewHandler(ws.NewHub()),
	})
}
