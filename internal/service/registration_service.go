package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

type userCreator interface {
	Create(ctx context.Context, req models.CreateClientRequest) (models.Client, error)
}

type partnerRegistrar interface {
	Register(ctx context.Context, req models.RegisterPartnerRequest) (models.Partner, error)
	SendConfirmEmail(ctx context.Context, email string) error
}

type adminRegistrar interface {
	Register(ctx context.Context, req models.RegisterAdminRequest) (models.Admin, error)
}

// Refresher reloads a list after an entity was added to it.
type Refresher interface {
	Refresh()
}

// RegistrationLists are the lists refreshed after a successful creation.
// Any of them may be nil.
type RegistrationLists struct {
	Users    Refresher
	Partners Refresher
	Admins   Refresher
}

// RegistrationService creates users, partners and admins. Payloads are
// validated before any backend call and the owning list is refetched on
// success.
type RegistrationService struct {
	users     userCreator
	partners  partnerRegistrar
	admins    adminRegistrar
	lists     RegistrationLists
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationService constructs the service.
func NewRegistrationService(users userCreator, partners partnerRegistrar, admins adminRegistrar, lists RegistrationLists, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{users: users, partners: partners, admins: admins, lists: lists, validator: validate, logger: logger}
}

// CreateUser registers an end user.
func (s *RegistrationService) CreateUser(ctx context.Context, req models.CreateClientRequest) (models.Client, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return models.Client{}, appErrors.Validation(err, "invalid user payload")
	}
	created, err := s.users.Create(ctx, req)
	if err != nil {
		return models.Client{}, err
	}
	refresh(s.lists.Users)
	s.logger.Info("user created", zap.String("user_id", created.ID))
	return created, nil
}

// RegisterPartner signs up a partner venue and sends the confirmation email.
// A failed email is logged; the partner exists either way.
func (s *RegistrationService) RegisterPartner(ctx context.Context, req models.RegisterPartnerRequest) (models.Partner, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return models.Partner{}, appErrors.Validation(err, "invalid partner payload")
	}
	created, err := s.partners.Register(ctx, req)
	if err != nil {
		return models.Partner{}, err
	}
	if err := s.partners.SendConfirmEmail(ctx, req.Email); err != nil {
		s.logger.Warn("partner confirmation email failed", zap.String("email", req.Email), zap.Error(err))
	}
	refresh(s.lists.Partners)
	s.logger.Info("partner registered", zap.String("partner_id", created.ID))
	return created, nil
}

// RegisterAdmin creates another operator account.
func (s *RegistrationService) RegisterAdmin(ctx context.Context, req models.RegisterAdminRequest) (models.Admin, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return models.Admin{}, appErrors.Validation(err, "invalid admin payload")
	}
	created, err := s.admins.Register(ctx, req)
	if err != nil {
		return models.Admin{}, err
	}
	refresh(s.lists.Admins)
	s.logger.Info("admin registered", zap.String("admin_id", created.ID))
	return created, nil
}

func refresh(r Refresher) {
	if r != nil {
		r.Refresh()
	}
}
