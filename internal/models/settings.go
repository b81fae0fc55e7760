package models

import "time"

// FiberBilling prices fiber sessions.
type FiberBilling struct {
	RatePerMinute  float64 `json:"ratePerMinute" validate:"gte=0"`
	MinimumBalance float64 `json:"minimumBalance" validate:"gte=0"`
}

// DataBilling prices mobile data sessions.
type DataBilling struct {
	RatePerMB       float64 `json:"ratePerMB" validate:"gte=0"`
	HourlyDataLimit float64 `json:"hourlyDataLimit" validate:"gte=0"`
	HourlyCostLimit float64 `json:"hourlyCostLimit" validate:"gte=0"`
	MinimumBalance  float64 `json:"minimumBalance" validate:"gte=0"`
}

// CountryBillingConfig is the per-country pricing configuration.
type CountryBillingConfig struct {
	Country string       `json:"country" validate:"required"`
	Fiber   FiberBilling `json:"fiber"`
	Data    DataBilling  `json:"data"`
}

// Company holds ZOOM WIFI's own company record and commission split.
type Company struct {
	ID                       string     `json:"_id,omitempty"`
	Name                     string     `json:"name" validate:"required"`
	Contact                  string     `json:"contact"`
	Country                  string     `json:"country"`
	City                     string     `json:"city"`
	Email                    string     `json:"email" validate:"omitempty,email"`
	Address                  string     `json:"address"`
	CommissionPercent        float64    `json:"commissionPercent" validate:"gte=0,lte=100"`
	PartnerCommissionPercent float64    `json:"partnerCommissionPercent" validate:"gte=0,lte=100"`
	CreatedAt                *time.Time `json:"createAdAt,omitempty"`
}

// DashboardStats are the headline totals for a date range.
type DashboardStats struct {
	TotalUsers          int     `json:"totalUsers"`
	TotalPartners       int     `json:"totalPartners"`
	TotalTransactions   int     `json:"totalTransactions"`
	TotalRechargeAmount float64 `json:"totalRechargeAmount"`
}

// DateRange bounds dashboard statistics. Dates are calendar days.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}
