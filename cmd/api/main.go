package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

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
	"github.com/investplatform/admin-backend/internal/mq"
	"github.com/investplatform/admin-backend/internal/observability"
	postgresrepo "github.com/investplatform/admin-backend/internal/repository/postgres"
	"github.com/investplatform/admin-backend/internal/server"
	"github.com/investplatform/admin-backend/internal/ws"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env, "api")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gdb, err := db.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect postgres", "err", err)
		os.Exit(1)
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

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

	bankingClient, err := banking.NewClient(cfg.BankingRPCURL, cfg.BankingRPCTimeout)
	if err != nil {
		logger.Error("failed to configure banking client", "err", err)
		os.Exit(1)
	}

	producer := mq.NewProducer(cfg.KafkaBrokers, logger)
	defer producer.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSigningKey)
	totpManager := auth.NewTOTPManager(cfg.TOTPIssuer)
	authService := auth.NewService(adminRepo, jwtManager, totpManager, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	usersService := usersdomain.NewService(userRepo, notificationRepo)
	profilesService := profilesdomain.NewService(profileRepo, notificationRepo)
	loansService := loansdomain.NewService(loanRepo, investmentRepo, notificationRepo)
	financeService := financedomain.NewService(financeRepo, bankingClient)
	notificationsService := notificationsdomain.NewService(notificationRepo, userRepo)
	adminsService := adminsdomain.NewService(adminRepo)
	historyService := history.NewService(historyRepo)

	hub := ws.NewHub()
	notifier := ws.NewNotifier(notificationRepo, hub, 2*time.Second)
	notifierCtx, stopNotifier := context.WithCancel(context.Background())
	defer stopNotifier()
	go func() {
		if err := notifier.Run(notifierCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("notification notifier stopped", "err", err)
		}
	}()

	r := server.NewRouter(cfg, logger, server.Dependencies{
		Pinger:        db.Ping{DB: gdb},
		JWTManager:    jwtManager,
		AdminSource:   adminRepo,
		Confirmer:     authService,
		Auth:          handlers.NewAuthHandler(authService, logger),
		Admins:        handlers.NewAdminsHandler(adminsService, producer, cfg.KafkaEmailTopic, logger),
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
		WSHandler:     ws.NewHandler(hub),
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api server starting", "addr", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("api server stopped")
}
