package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zoomwifi/admin-console/internal/auth"
	"github.com/zoomwifi/admin-console/internal/gateway"
	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

type sessionGateway interface {
	Login(ctx context.Context, req models.LoginRequest) (gateway.LoginResult, error)
	Logout(ctx context.Context, adminID string) error
}

type tokenHolder interface {
	Token() (string, bool)
	ExpiresAt() (time.Time, bool)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// AuthService manages the single operator session.
type AuthService struct {
	gw        sessionGateway
	tokens    tokenHolder
	validator *validator.Validate
	logger    *zap.Logger

	mu    sync.RWMutex
	admin *models.Admin
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(gw sessionGateway, tokens tokenHolder, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{gw: gw, tokens: tokens, validator: validate, logger: logger}
}

// Login exchanges credentials for a token and stores it.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Session{}, appErrors.Validation(err, "invalid login payload")
	}

	res, err := s.gw.Login(ctx, req)
	if err != nil {
		return models.Session{}, err
	}
	if err := s.tokens.Set(ctx, res.Token); err != nil {
		return models.Session{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session token")
	}

	admin := res.Admin
	s.mu.Lock()
	s.admin = &admin
	s.mu.Unlock()

	s.logger.Info("operator signed in", zap.String("admin_id", admin.ID), zap.String("email", admin.Email))
	return s.Session(), nil
}

// Logout notifies the backend and always clears the local token, even when
// the backend call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	if _, ok := s.tokens.Token(); ok {
		if err := s.gw.Logout(ctx, s.OperatorID()); err != nil {
			s.logger.Warn("backend logout failed", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.admin = nil
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session token")
	}
	return nil
}

// Session reports whether a usable token is held.
func (s *AuthService) Session() models.Session {
	if _, ok := s.tokens.Token(); !ok {
		return models.Session{}
	}
	session := models.Session{Authenticated: true}
	if exp, ok := s.tokens.ExpiresAt(); ok {
		session.ExpiresAt = &exp
	}
	s.mu.RLock()
	if s.admin != nil {
		admin := *s.admin
		session.Admin = &admin
	}
	s.mu.RUnlock()
	return session
}

// OperatorID returns the signed-in admin id. After a restart the admin record
// is gone, so the id is read from the token claims instead.
func (s *AuthService) OperatorID() string {
	s.mu.RLock()
	admin := s.admin
	s.mu.RUnlock()
	if admin != nil && admin.ID != "" {
		return admin.ID
	}
	token, ok := s.tokens.Token()
	if !ok {
		return ""
	}
	id, _ := auth.TokenSubject(token)
	return id
}
