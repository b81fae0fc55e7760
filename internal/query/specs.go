package query

import "github.com/zoomwifi/admin-console/internal/models"

// Partner balance buckets, in FCFA.
var partnerBalanceRanges = map[string]Range{
	"low":    {Min: 0, Max: 100000},
	"medium": {Min: 100000, Max: 500000},
	"high":   {Min: 500000},
}

// Users lists end-user accounts.
func Users() Spec {
	return Spec{
		Resource:     "users",
		SearchFields: []string{"firstName", "lastName", "phone", "email"},
		Mappers: map[string]Mapper{
			"status": ActiveFlag(),
			"city":   Rename("city"),
		},
		Defaults: models.Filters{
			"status": models.StringFilter(models.FilterAll),
			"city":   models.StringFilter(models.FilterAll),
		},
	}
}

// Partners lists partner venues.
func Partners() Spec {
	return Spec{
		Resource:     "partners",
		SearchFields: []string{"establishmentName", "managerFirstName", "managerLastName", "phone", "email"},
		Mappers: map[string]Mapper{
			"status":            ActiveFlag(),
			"city":              Rename("city"),
			"balanceRange":      Ranges("minBalance", "maxBalance", partnerBalanceRanges),
			"pendingWithdrawal": FlagTrue("pendingWithdrawal"),
		},
		Defaults: models.Filters{
			"status":            models.StringFilter(models.FilterAll),
			"city":              models.StringFilter(models.FilterAll),
			"balanceRange":      models.StringFilter(models.FilterAll),
			"pendingWithdrawal": models.BoolFilter(false),
		},
	}
}

// Transactions lists top-ups, payments and withdrawals.
func Transactions() Spec {
	return Spec{
		Resource:     "transactions",
		SearchFields: []string{"description", "partner.establishmentName", "user.firstName", "user.lastName"},
		Mappers: map[string]Mapper{
			"status": Rename("status"),
			"type":   Rename("type"),
		},
		Defaults: models.Filters{
			"status": models.StringFilter(models.FilterAll),
			"type":   models.StringFilter(models.FilterAll),
		},
	}
}

// Admins lists operator accounts.
func Admins() Spec {
	return Spec{
		Resource:     "admins",
		SearchFields: []string{"firstName", "lastName", "email"},
	}
}

// Alerts lists system alerts; the console watches the unread ones.
func Alerts() Spec {
	return Spec{
		Resource: "alerts",
		Mappers: map[string]Mapper{
			"status": Rename("status"),
		},
		Defaults: models.Filters{
			"status": models.StringFilter(models.AlertUnread),
		},
	}
}
