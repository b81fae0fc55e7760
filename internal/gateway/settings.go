package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

// SettingsGateway covers billing configuration and company records.
type SettingsGateway struct {
	c *Client
}

// NewSettingsGateway binds the settings endpoints to c.
func NewSettingsGateway(c *Client) *SettingsGateway {
	return &SettingsGateway{c: c}
}

// BillingConfig returns the pricing of one country.
func (g *SettingsGateway) BillingConfig(ctx context.Context, country string) (models.CountryBillingConfig, error) {
	var raw json.RawMessage
	if err := g.c.doJSON(ctx, http.MethodGet, pathf("settings/billing/%s", country), nil, nil, &raw, true); err != nil {
		return models.CountryBillingConfig{}, err
	}
	cfg, ok := unwrapEntity[models.CountryBillingConfig](raw, "config", "billing")
	if !ok {
		return models.CountryBillingConfig{}, appErrors.Clone(appErrors.ErrNotFound, "no billing configuration for "+country)
	}
	return cfg, nil
}

// UpsertBillingConfig creates or replaces a country's pricing.
func (g *SettingsGateway) UpsertBillingConfig(ctx context.Context, cfg models.CountryBillingConfig) (models.CountryBillingConfig, error) {
	var raw json.RawMessage
	if err := g.c.doJSON(ctx, http.MethodPut, "settings/billing", nil, cfg, &raw, true); err != nil {
		return models.CountryBillingConfig{}, err
	}
	if saved, ok := unwrapEntity[models.CountryBillingConfig](raw, "config", "billing"); ok {
		return saved, nil
	}
	return cfg, nil
}

// Company returns the company record.
func (g *SettingsGateway) Company(ctx context.Context) (models.Company, error) {
	var raw json.RawMessage
	if err := g.c.doJSON(ctx, http.MethodGet, "company", nil, nil, &raw, true); err != nil {
		return models.Company{}, err
	}
	company, ok := unwrapEntity[models.Company](raw, "company")
	if !ok {
		companies, _ := unwrapEntity[[]models.Company](raw, "companies")
		if len(companies) == 0 {
			return models.Company{}, appErrors.Clone(appErrors.ErrNotFound, "company record not found")
		}
		company = companies[0]
	}
	return company, nil
}

// UpdateCompany saves the company record.
func (g *SettingsGateway) UpdateCompany(ctx context.Context, company models.Company) (models.Company, error) {
	var raw json.RawMessage
	body := map[string]models.Company{"company": company}
	if err := g.c.doJSON(ctx, http.MethodPatch, pathf("company/%s", company.ID), nil, body, &raw, true); err != nil {
		return models.Company{}, err
	}
	if saved, ok := unwrapEntity[models.Company](raw, "company"); ok {
		return saved, nil
	}
	return company, nil
}
