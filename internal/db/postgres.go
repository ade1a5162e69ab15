package db

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/investplatform/admin-backend/internal/config"
	"github.com/investplatform/admin-backend/internal/models"
)

// Open connects gorm to postgres and configures the underlying pool
// from config.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.Env != "prod" && cfg.Env != "production" {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxConns)
	sqlDB.SetMaxIdleConns(cfg.DBMinConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if log != nil {
		log.Info("postgres connected", "max_conns", cfg.DBMaxConns)
	}
	return gdb, nil
}

// Migrate creates or updates every table and then (re)creates the
// ledger history views on top of them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserDocument{},
		&models.UserLog{},
		&models.UserProfile{},
		&models.Wallet{},
		&models.EntityAccount{},
		&models.EntrepreneurAccount{},
		&models.Loan{},
		&models.Investment{},
		&models.Payment{},
		&models.LoanIssue{},
		&models.Deposit{},
		&models.Withdrawal{},
		&models.BankOperation{},
		&models.Transaction{},
		&models.Fee{},
		&models.Admin{},
		&models.AdminSession{},
		&models.AdminLog{},
		&models.SupportRequest{},
		&models.SupportReply{},
		&models.Question{},
		&models.News{},
		&models.File{},
		&models.PlatformDocument{},
		&models.Setting{},
		&models.UserNotification{},
		&models.AdminNotification{},
	); err != nil {
		return err
	}
	return CreateHistoryViews(db)
}

// Ping adapts gorm to the handlers.Pinger readiness interface.
type Ping struct {
	DB *gorm.DB
}

func (p Ping) Ping(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
