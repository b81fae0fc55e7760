package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

type settingsGateway interface {
	BillingConfig(ctx context.Context, country string) (models.CountryBillingConfig, error)
	UpsertBillingConfig(ctx context.Context, cfg models.CountryBillingConfig) (models.CountryBillingConfig, error)
	Company(ctx context.Context) (models.Company, error)
	UpdateCompany(ctx context.Context, company models.Company) (models.Company, error)
}

// SettingsService edits billing and company settings.
type SettingsService struct {
	gw        settingsGateway
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(gw settingsGateway, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{gw: gw, validator: validate, logger: logger}
}

// Billing loads the pricing for one country.
func (s *SettingsService) Billing(ctx context.Context, country string) (models.CountryBillingConfig, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return models.CountryBillingConfig{}, appErrors.Validation(nil, "country is required")
	}
	return s.gw.BillingConfig(ctx, country)
}

// SaveBilling validates and stores the pricing for cfg.Country.
func (s *SettingsService) SaveBilling(ctx context.Context, cfg models.CountryBillingConfig) (models.CountryBillingConfig, error) {
	cfg.Country = strings.TrimSpace(cfg.Country)
	if err := s.validator.Struct(cfg); err != nil {
		return models.CountryBillingConfig{}, appErrors.Validation(err, "invalid billing configuration")
	}
	saved, err := s.gw.UpsertBillingConfig(ctx, cfg)
	if err != nil {
		return models.CountryBillingConfig{}, err
	}
	s.logger.Info("billing configuration saved", zap.String("country", cfg.Country))
	return saved, nil
}

// Company loads the company record.
func (s *SettingsService) Company(ctx context.Context) (models.Company, error) {
	return s.gw.Company(ctx)
}

// SaveCompany validates and updates the company record.
func (s *SettingsService) SaveCompany(ctx context.Context, company models.Company) (models.Company, error) {
	if strings.TrimSpace(company.ID) == "" {
		current, err := s.gw.Company(ctx)
		if err != nil {
			return models.Company{}, err
		}
		company.ID = current.ID
	}
	if err := s.validator.Struct(company); err != nil {
		return models.Company{}, appErrors.Validation(err, "invalid company settings")
	}
	if company.ID == "" {
		return models.Company{}, appErrors.Clone(appErrors.ErrNotFound, "company record not found")
	}
	saved, err := s.gw.UpdateCompany(ctx, company)
	if err != nil {
		return models.Company{}, err
	}
	s.logger.Info("company settings saved", zap.String("company_id", saved.ID))
	return saved, nil
}
