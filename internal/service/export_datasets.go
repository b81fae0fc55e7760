package service

import (
	"strconv"
	"time"

	"github.com/zoomwifi/admin-console/internal/models"
	"github.com/zoomwifi/admin-console/pkg/export"
	"github.com/zoomwifi/admin-console/pkg/i18n"
)

// Tabulator turns the loaded rows of a list into an export dataset with
// translated headers.
type Tabulator[T any] func(tr *i18n.Translator, locale string, items []T) export.Dataset

func columns(tr *i18n.Translator, locale string, keys ...string) []export.Column {
	out := make([]export.Column, len(keys))
	for i, k := range keys {
		out[i] = export.Column{Key: k, Label: tr.T(locale, k)}
	}
	return out
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

func stamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

func activeLabel(tr *i18n.Translator, locale string, active bool) string {
	if active {
		return tr.T(locale, "common.active")
	}
	return tr.T(locale, "common.inactive")
}

// UsersDataset tabulates end users.
func UsersDataset(tr *i18n.Translator, locale string, items []models.Client) export.Dataset {
	ds := export.Dataset{
		Title:   tr.T(locale, "users.title"),
		Columns: columns(tr, locale, "common.name", "common.email", "common.phone", "common.country", "common.city", "users.balance", "common.status", "common.created_at"),
		Rows:    make([]map[string]string, 0, len(items)),
	}
	for _, c := range items {
		ds.Rows = append(ds.Rows, map[string]string{
			"common.name":       c.FullName(),
			"common.email":      c.Email,
			"common.phone":      c.Phone,
			"common.country":    c.Country,
			"common.city":       c.City,
			"users.balance":     money(c.Balance),
			"common.status":     activeLabel(tr, locale, c.Active),
			"common.created_at": stamp(c.CreatedAt),
		})
	}
	return ds
}

// PartnersDataset tabulates partner venues.
func PartnersDataset(tr *i18n.Translator, locale string, items []models.Partner) export.Dataset {
	ds := export.Dataset{
		Title: tr.T(locale, "partners.title"),
		Columns: columns(tr, locale, "partners.establishment", "partners.manager", "partners.type", "common.phone", "common.city",
			"partners.connection", "partners.available_balance", "partners.pending_withdrawal", "common.status"),
		Rows: make([]map[string]string, 0, len(items)),
	}
	for _, p := range items {
		ds.Rows = append(ds.Rows, map[string]string{
			"partners.establishment":      p.EstablishmentName,
			"partners.manager":            p.ManagerName(),
			"partners.type":               p.EstablishmentType,
			"common.phone":                p.Phone,
			"common.city":                 p.City,
			"partners.connection":         p.ConnectionType,
			"partners.available_balance":  money(p.Balance),
			"partners.pending_withdrawal": money(p.PendingWithdrawal),
			"common.status":               activeLabel(tr, locale, p.Active),
		})
	}
	return ds
}

// TransactionsDataset tabulates transactions.
func TransactionsDataset(tr *i18n.Translator, locale string, items []models.Transaction) export.Dataset {
	ds := export.Dataset{
		Title: tr.T(locale, "transactions.title"),
		Columns: columns(tr, locale, "transactions.date", "transactions.type", "nav.users", "nav.partners", "transactions.amount",
			"transactions.commission", "transactions.partner_share", "common.status", "transactions.description"),
		Rows: make([]map[string]string, 0, len(items)),
	}
	for _, t := range items {
		ds.Rows = append(ds.Rows, map[string]string{
			"transactions.date":          stamp(t.CreatedAt),
			"transactions.type":          tr.T(locale, "transactions.type."+t.Type),
			"nav.users":                  t.User.DisplayName(),
			"nav.partners":               t.Partner.DisplayName(),
			"transactions.amount":        money(t.Amount),
			"transactions.commission":    money(t.Commission),
			"transactions.partner_share": money(t.PartnerShare),
			"common.status":              transactionStatusLabel(tr, locale, t.Status),
			"transactions.description":   t.Description,
		})
	}
	return ds
}

func transactionStatusLabel(tr *i18n.Translator, locale, status string) string {
	switch status {
	case models.TransactionValidated, models.TransactionRejected:
		return tr.T(locale, "transactions.status."+status)
	case models.TransactionPending:
		return tr.T(locale, "transactions.status.pending")
	default:
		return status
	}
}

// AdminsDataset tabulates operator accounts.
func AdminsDataset(tr *i18n.Translator, locale string, items []models.Admin) export.Dataset {
	ds := export.Dataset{
		Title:   tr.T(locale, "admins.title"),
		Columns: columns(tr, locale, "common.name", "common.email", "common.role", "common.status"),
		Rows:    make([]map[string]string, 0, len(items)),
	}
	for _, a := range items {
		ds.Rows = append(ds.Rows, map[string]string{
			"common.name":   a.FullName(),
			"common.email":  a.Email,
			"common.role":   a.Role,
			"common.status": activeLabel(tr, locale, a.Active),
		})
	}
	return ds
}

// AlertsDataset tabulates alerts.
func AlertsDataset(tr *i18n.Translator, locale string, items []models.Alert) export.Dataset {
	ds := export.Dataset{
		Title:   tr.T(locale, "alerts.title"),
		Columns: columns(tr, locale, "common.created_at", "alerts.type", "alerts.priority", "alerts.message", "common.status"),
		Rows:    make([]map[string]string, 0, len(items)),
	}
	for _, a := range items {
		created := a.CreatedAt
		ds.Rows = append(ds.Rows, map[string]string{
			"common.created_at": stamp(&created),
			"alerts.type":       a.Type,
			"alerts.priority":   a.Priority,
			"alerts.message":    a.Message,
			"common.status":     a.Status,
		})
	}
	return ds
}
