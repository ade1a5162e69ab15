package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/auth"
	"github.com/investplatform/admin-backend/internal/config"
	"github.com/investplatform/admin-backend/internal/http/handlers"
	"github.com/investplatform/admin-backend/internal/http/middleware"
	"github.com/investplatform/admin-backend/internal/models"
	"github.com/investplatform/admin-backend/internal/version"
	"github.com/investplatform/admin-backend/internal/ws"
)

// Permission resource keys, one per route group.
const (
	ResourceAdmins        = "admins"
	ResourceUsers         = "users"
	ResourceProfiles      = "profiles"
	ResourceLoans         = "loans"
	ResourceInvestments   = "investments"
	ResourceFinance       = "finance"
	ResourceHistory       = "history"
	ResourceSupport       = "support"
	ResourceContent       = "content"
	ResourceSettings      = "settings"
	ResourceDocuments     = "documents"
	ResourceNotifications = "notifications"
	ResourceRegistry      = "registry"
	ResourceActions       = "actions"
)

type Dependencies struct {
	Pinger        handlers.Pinger
	JWTManager    *auth.JWTManager
	AdminSource   middleware.AdminSource
	Confirmer     middleware.Confirmer
	Auth          *handlers.AuthHandler
	Admins        *handlers.AdminsHandler
	Users         *handlers.UsersHandler
	Borrowers     *handlers.ProfilesHandler
	Investors     *handlers.ProfilesHandler
	Loans         *handlers.LoansHandler
	Investments   *handlers.InvestmentsHandler
	Finance       *handlers.FinanceHandler
	History       *handlers.HistoryHandler
	Support       *handlers.SupportHandler
	Content       *handlers.ContentHandler
	Settings      *handlers.SettingsHandler
	Documents     *handlers.DocumentsHandler
	Templates     *handlers.DocumentsHandler
	Notifications *handlers.NotificationsHandler
	Registry      *handlers.RegistryHandler
	Actions       *handlers.ActionsHandler
	WSHandler     *ws.Handler
}

func NewRouter(cfg config.Config, logger *slog.Logger, deps Dependencies) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestBodyLimit(cfg.MaxRequestBodyBytes))
	r.Use(corsMiddleware(cfg.CORSAllowOrigins))
	r.Use(func(c *gin.Context) {
		logger.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.Next()
	})

	health := handlers.NewHealthHandler(deps.Pinger)
	meta := handlers.NewMetaHandler(cfg.Env, version.Version)

	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/v1/meta", meta.GetMeta)

	authGroup := r.Group("/v1/auth")
	authGroup.POST("/login", deps.Auth.Login)
	authGroup.POST("/refresh", deps.Auth.Refresh)
	authGroup.POST("/logout", deps.Auth.Logout)

	requireAuth := middleware.RequireAuth(deps.JWTManager, deps.AdminSource)
	confirmed := middleware.RequireConfirmation(deps.Confirmer)

	authProtected := authGroup.Group("")
	authProtected.Use(requireAuth)
	authProtected.GET("/me", deps.Auth.Me)
	authProtected.GET("/sessions", deps.Auth.Sessions)
	authProtected.POST("/totp", deps.Auth.EnableTOTP)
	authProtected.POST("/totp/confirm", deps.Auth.ConfirmTOTP)

	v1 := r.Group("/v1")
	v1.Use(requireAuth)

	read := func(resource string) gin.HandlerFunc {
		return middleware.RequirePermission(resource, models.PermissionRead)
	}
	write := func(resource string) gin.HandlerFunc {
		return middleware.RequirePermission(resource, models.PermissionWrite)
	}

	adminsGroup := v1.Group("/admins")
	adminsGroup.GET("/permissions", deps.Admins.Permissions)
	adminsGroup.GET("", read(ResourceAdmins), deps.Admins.List)
	adminsGroup.GET("/logs", read(ResourceAdmins), deps.Admins.Logs)
	adminsGroup.GET("/:id", read(ResourceAdmins), deps.Admins.Get)
	adminsGroup.POST("", write(ResourceAdmins), confirmed, deps.Admins.Create)
	adminsGroup.PUT("/:id", write(ResourceAdmins), confirmed, deps.Admins.Update)
	adminsGroup.POST("/:id/block", write(ResourceAdmins), confirmed, deps.Admins.Block)
	adminsGroup.POST("/:id/unblock", write(ResourceAdmins), confirmed, deps.Admins.Unblock)
	adminsGroup.DELETE("/:id", write(ResourceAdmins), confirmed, deps.Admins.Delete)

	usersGroup := v1.Group("/users")
	usersGroup.GET("", read(ResourceUsers), deps.Users.List)
	usersGroup.GET("/stats", read(ResourceUsers), deps.Users.Stats)
	usersGroup.GET("/export", read(ResourceUsers), deps.Users.Export)
	usersGroup.GET("/logs", read(ResourceUsers), deps.Users.Logs)
	usersGroup.GET("/logs/export", read(ResourceUsers), deps.Users.ExportLogs)
	usersGroup.GET("/:id", read(ResourceUsers), deps.Users.Get)
	usersGroup.GET("/:id/profiles", read(ResourceUsers), deps.Users.Profiles)
	usersGroup.PUT("/:id", write(ResourceUsers), deps.Users.Update)
	usersGroup.POST("/:id/confirm", write(ResourceUsers), confirmed, deps.Users.Confirm)
	usersGroup.POST("/:id/reject", write(ResourceUsers), confirmed, deps.Users.Reject)

	registerProfileRoutes(v1.Group("/borrowers"), deps.Borrowers, read(ResourceProfiles), write(ResourceProfiles), confirmed)
	investorsGroup := v1.Group("/investors")
	registerProfileRoutes(investorsGroup, deps.Investors, read(ResourceProfiles), write(ResourceProfiles), confirmed)
	investorsGroup.GET("/:id/projects", read(ResourceProfiles), deps.Investors.Projects)

	loansGroup := v1.Group("/loans")
	loansGroup.GET("", read(ResourceLoans), deps.Loans.List)
	loansGroup.GET("/stats", read(ResourceLoans), deps.Loans.Stats)
	loansGroup.GET("/export", read(ResourceLoans), deps.Loans.Export)
	loansGroup.GET("/:id", read(ResourceLoans), deps.Loans.Get)
	loansGroup.GET("/:id/payments", read(ResourceLoans), deps.Loans.Payments)
	loansGroup.PUT("/:id/status", write(ResourceLoans), confirmed, deps.Loans.SetStatus)
	loansGroup.PUT("/:id/arrears", write(ResourceLoans), confirmed, deps.Loans.SetArrearsStatus)

	investmentsGroup := v1.Group("/investments")
	investmentsGroup.GET("", read(ResourceInvestments), deps.Investments.List)
	investmentsGroup.GET("/:id", read(ResourceInvestments), deps.Investments.Get)
	investmentsGroup.POST("", write(ResourceInvestments), confirmed, deps.Investments.Create)

	depositsGroup := v1.Group("/deposits")
	depositsGroup.GET("", read(ResourceFinance), deps.Finance.ListDeposits)
	depositsGroup.GET("/:id", read(ResourceFinance), deps.Finance.GetDeposit)

	withdrawalsGroup := v1.Group("/withdrawals")
	withdrawalsGroup.GET("", read(ResourceFinance), deps.Finance.ListWithdrawals)
	withdrawalsGroup.GET("/:id", read(ResourceFinance), deps.Finance.GetWithdrawal)
	withdrawalsGroup.POST("/:id/approve", write(ResourceFinance), confirmed, deps.Finance.ApproveWithdrawal)
	withdrawalsGroup.POST("/:id/reject", write(ResourceFinance), confirmed, deps.Finance.RejectWithdrawal)

	historyGroup := v1.Group("/history")
	historyGroup.GET("/investor/:userId", read(ResourceHistory), deps.History.Investor)
	historyGroup.GET("/borrower/:userId", read(ResourceHistory), deps.History.Borrower)

	supportGroup := v1.Group("/support")
	supportGroup.GET("", read(ResourceSupport), deps.Support.List)
	supportGroup.GET("/:id", read(ResourceSupport), deps.Support.Get)
	supportGroup.GET("/:id/attachment", read(ResourceSupport), deps.Support.Attachment)
	supportGroup.POST("/:id/reply", write(ResourceSupport), deps.Support.Reply)
	supportGroup.POST("/:id/close", write(ResourceSupport), deps.Support.Close)

	faqGroup := v1.Group("/faq")
	faqGroup.GET("", read(ResourceContent), deps.Content.ListQuestions)
	faqGroup.GET("/:id", read(ResourceContent), deps.Content.GetQuestion)
	faqGroup.POST("", write(ResourceContent), deps.Content.CreateQuestion)
	faqGroup.PUT("/:id", write(ResourceContent), deps.Content.UpdateQuestion)
	faqGroup.DELETE("/:id", write(ResourceContent), confirmed, deps.Content.DeleteQuestion)

	newsGroup := v1.Group("/news")
	newsGroup.GET("", read(ResourceContent), deps.Content.ListNews)
	newsGroup.GET("/:id", read(ResourceContent), deps.Content.GetNews)
	newsGroup.POST("", write(ResourceContent), deps.Content.CreateNews)
	newsGroup.PUT("/:id", write(ResourceContent), deps.Content.UpdateNews)
	newsGroup.DELETE("/:id", write(ResourceContent), confirmed, deps.Content.DeleteNews)

	settingsGroup := v1.Group("/settings")
	settingsGroup.GET("", read(ResourceSettings), deps.Settings.List)
	settingsGroup.PUT("", write(ResourceSettings), confirmed, deps.Settings.Update)

	registerDocumentRoutes(v1.Group("/documents"), deps.Documents, read(ResourceDocuments), write(ResourceDocuments), confirmed)
	registerDocumentRoutes(v1.Group("/platform-documents"), deps.Templates, read(ResourceDocuments), write(ResourceDocuments), confirmed)

	notificationsGroup := v1.Group("/notifications")
	notificationsGroup.GET("", read(ResourceNotifications), deps.Notifications.List)
	notificationsGroup.POST("/read", read(ResourceNotifications), deps.Notifications.MarkRead)
	notificationsGroup.GET("/user/:userId", read(ResourceNotifications), deps.Notifications.UserFeed)
	notificationsGroup.POST("/send", write(ResourceNotifications), confirmed, deps.Notifications.Send)
	notificationsGroup.GET("/ws", deps.WSHandler.HandleWebSocket)

	registryGroup := v1.Group("/registry")
	registryGroup.GET("", read(ResourceRegistry), deps.Registry.List)
	registryGroup.GET("/export", read(ResourceRegistry), deps.Registry.Export)
	registryGroup.GET("/:id", read(ResourceRegistry), deps.Registry.Get)

	reviseGroup := v1.Group("/revise")
	reviseGroup.GET("", read(ResourceRegistry), deps.Registry.Revise)
	reviseGroup.GET("/export", read(ResourceRegistry), deps.Registry.ExportRevise)

	actionsGroup := v1.Group("/actions")
	actionsGroup.POST("/users/:id/ban", write(ResourceActions), confirmed, deps.Actions.BanUser)
	actionsGroup.POST("/users/:id/unban", write(ResourceActions), confirmed, deps.Actions.UnbanUser)
	actionsGroup.PUT("/profiles/:id/qualification", write(ResourceActions), confirmed, deps.Actions.SetQualification)
	actionsGroup.POST("/test-deposit", write(ResourceActions), confirmed, deps.Actions.TestDeposit)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "code": 404000, "data": gin.H{}, "msg": "Not found"})
	})

	return r
}

func registerProfileRoutes(g *gin.RouterGroup, h *handlers.ProfilesHandler, read, write, confirmed gin.HandlerFunc) {
	g.GET("", read, h.List)
	g.GET("/stats", read, h.Stats)
	g.GET("/export", read, h.Export)
	g.GET("/:id", read, h.Get)
	g.PUT("/:id", write, h.Update)
	g.POST("/:id/confirm", write, confirmed, h.Confirm)
	g.POST("/:id/reject", write, confirmed, h.Reject)
	g.POST("/:id/block", write, confirmed, h.Block)
	g.POST("/:id/unblock", write, confirmed, h.Unblock)
	g.DELETE("/:id", write, confirmed, h.Delete)
}

func registerDocumentRoutes(g *gin.RouterGroup, h *handlers.DocumentsHandler, read, write, confirmed gin.HandlerFunc) {
	g.GET("", read, h.List)
	g.GET("/:id", read, h.Get)
	g.GET("/files/:id", read, h.GetFile)
	g.POST("", write, h.Create)
	g.POST("/upload", write, h.Upload)
	g.PUT("/:id", write, h.Update)
	g.DELETE("/:id", write, confirmed, h.Delete)
}

func corsMiddleware(allowOrigins []string) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	allowAll := false
	for _, origin := range allowOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok || allowAll {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				c.Header("Access-Control-Allow-Headers", strings.Join([]string{"Authorization", "Content-Type", "Confirmation"}, ", "))
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
