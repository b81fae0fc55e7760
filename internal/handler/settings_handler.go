package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
	"github.com/zoomwifi/admin-console/pkg/response"
)

type settingsService interface {
	Billing(ctx context.Context, country string) (models.CountryBillingConfig, error)
	SaveBilling(ctx context.Context, cfg models.CountryBillingConfig) (models.CountryBillingConfig, error)
	Company(ctx context.Context) (models.Company, error)
	SaveCompany(ctx context.Context, company models.Company) (models.Company, error)
}

// SettingsHandler edits billing and company settings.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(svc settingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// Billing godoc
// @Summary Billing configuration for a country
// @Tags Settings
// @Produce json
// @Param country path string true "Country"
// @Success 200 {object} response.Envelope
// @Router /settings/billing/{country} [get]
func (h *SettingsHandler) Billing(c *gin.Context) {
	cfg, err := h.service.Billing(c.Request.Context(), c.Param("country"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cfg)
}

// SaveBilling godoc
// @Summary Save billing configuration
// @Tags Settings
// @Accept json
// @Produce json
// @Param country path string true "Country"
// @Param payload body models.CountryBillingConfig true "Billing"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /settings/billing/{country} [put]
func (h *SettingsHandler) SaveBilling(c *gin.Context) {
	var cfg models.CountryBillingConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid billing payload"))
		return
	}
	cfg.Country = c.Param("country")
	saved, err := h.service.SaveBilling(c.Request.Context(), cfg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, saved)
}

// Company godoc
// @Summary Company record
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings/company [get]
func (h *SettingsHandler) Company(c *gin.Context) {
	company, err := h.service.Company(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, company)
}

// SaveCompany godoc
// @Summary Update company record
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body models.Company true "Company"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /settings/company [patch]
func (h *SettingsHandler) SaveCompany(c *gin.Context) {
	var company models.Company
	if err := c.ShouldBindJSON(&company); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid company payload"))
		return
	}
	saved, err := h.service.SaveCompany(c.Request.Context(), company)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, saved)
}
