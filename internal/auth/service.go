package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/investplatform/admin-backend/internal/apierr"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	Update(ctx context.Context, admin *models.Admin) error
	CreateSession(ctx context.Context, s *models.AdminSession) error
	GetSession(ctx context.Context, id string) (*models.AdminSession, error)
	UpdateSession(ctx context.Context, s *models.AdminSession) error
	CloseSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, adminID string, q listquery.Params) ([]models.AdminSession, int64, error)
	CreateLog(ctx context.Context, entry *models.AdminLog) error
}

type Service struct {
	repo       Repository
	jwt        *JWTManager
	totp       *TOTPManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
	Admin        *models.Admin
}

func NewService(repo Repository, jwt *JWTManager, totp *TOTPManager, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{repo: repo, jwt: jwt, totp: totp, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Login checks the password and, when two-factor is enabled, the TOTP
// code, then opens a session. Blocked operators cannot log in.
func (s *Service) Login(ctx context.Context, email, password, totpCode, userAgent, ip string) (*Tokens, error) {
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.TokenInvalid)
		}
		return nil, err
	}
	if !CheckPassword(admin.PasswordHash, password) {
		return nil, apierr.New(apierr.TokenInvalid)
	}
	if admin.Status == models.AdminStatusBlocked {
		return nil, apierr.New(apierr.Forbidden)
	}
	if admin.TOTPEnabled {
		if !s.totp.Validate(totpCode, admin.TOTPSecret) {
			return nil, apierr.New(apierr.ConfirmationFailed)
		}
	}

	bundle, err := s.openSession(ctx, admin.ID, userAgent, ip)
	if err != nil {
		return nil, err
	}

	_ = s.repo.CreateLog(ctx, &models.AdminLog{AdminID: admin.ID, Action: "login", IP: ip})

	return &Tokens{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		SessionID:    bundle.SessionID,
		Admin:        admin,
	}, nil
}

// Refresh rotates the session: the presented refresh token is checked
// against the stored hash, the old session is closed and a new one is
// opened. A reused token therefore fails the hash check.
func (s *Service) Refresh(ctx context.Context, refreshToken, userAgent, ip string) (*Tokens, error) {
	claims, err := s.jwt.Parse(refreshToken)
	if err != nil {
		return nil, apierr.New(apierr.TokenInvalid)
	}
	if claims.Type != TokenRefresh {
		return nil, apierr.New(apierr.TokenInvalid)
	}

	session, err := s.repo.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(apierr.SessionNotFound)
		}
		return nil, err
	}
	if session.Status != models.SessionStatusActive {
		return nil, apierr.New(apierr.SessionNotFound)
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, apierr.New(apierr.TokenExpired)
	}
	if session.RefreshTokenHash != HashToken(refreshToken) {
		return nil, apierr.New(apierr.TokenInvalid)
	}

	if err := s.repo.CloseSession(ctx, session.ID); err != nil {
		return nil, err
	}

	bundle, err := s.openSession(ctx, session.AdminID, userAgent, ip)
	if err != nil {
		return nil, err
	}

	admin, err := s.repo.GetByID(ctx, session.AdminID)
	if err != nil {
		return nil, err
	}

	return &Tokens{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		SessionID:    bundle.SessionID,
		Admin:        admin,
	}, nil
}

// Logout closes the session named by the refresh token. An invalid
// token logs out trivially.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.Parse(refreshToken)
	if err != nil {
		return nil
	}
	if claims.Type != TokenRefresh || claims.SessionID == "" {
		return nil
	}
	return s.repo.CloseSession(ctx, claims.SessionID)
}

func (s *Service) Me(ctx context.Context, adminID string) (*models.Admin, error) {
	return s.repo.GetByID(ctx, adminID)
}

func (s *Service) Sessions(ctx context.Context, adminID string, q listquery.Params) ([]models.AdminSession, int64, error) {
	return s.repo.ListSessions(ctx, adminID, q)
}

// EnableTOTP provisions a secret for the operator and returns the
// enrollment URL. The secret becomes active once ConfirmTOTP succeeds.
func (s *Service) EnableTOTP(ctx context.Context, adminID string) (string, error) {
	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return "", err
	}
	secret, url, err := s.totp.Generate(admin.Email)
	if err != nil {
		return "", err
	}
	admin.TOTPSecret = secret
	admin.TOTPEnabled = false
	if err := s.repo.Update(ctx, admin); err != nil {
		return "", err
	}
	return url, nil
}

func (s *Service) ConfirmTOTP(ctx context.Context, adminID, code string) error {
	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if admin.TOTPSecret == "" || !s.totp.Validate(code, admin.TOTPSecret) {
		return apierr.New(apierr.ConfirmationFailed)
	}
	admin.TOTPEnabled = true
	if admin.Status == models.AdminStatusNew {
		admin.Status = models.AdminStatusVerified
	}
	return s.repo.Update(ctx, admin)
}

// Confirm checks the step-up code sent with destructive operations.
func (s *Service) Confirm(ctx context.Context, adminID, code string) error {
	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !admin.TOTPEnabled || !s.totp.Validate(code, admin.TOTPSecret) {
		return apierr.New(apierr.ConfirmationFailed)
	}
	return nil
}

type sessionBundle struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}

func (s *Service) openSession(ctx context.Context, adminID, userAgent, ip string) (*sessionBundle, error) {
	session := &models.AdminSession{
		AdminID:   adminID,
		IP:        ip,
		UserAgent: userAgent,
		Status:    models.SessionStatusActive,
		ExpiresAt: time.Now().UTC().Add(s.refreshTTL),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.Mint(adminID, session.ID, TokenAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwt.Mint(adminID, session.ID, TokenRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	session.RefreshTokenHash = HashToken(refreshToken)
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	return &sessionBundle{AccessToken: accessToken, RefreshToken: refreshToken, SessionID: session.ID}, nil
}

func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
