package i18n

var fr = map[string]string{
	"nav.dashboard":    "Tableau de bord",
	"nav.users":        "Utilisateurs",
	"nav.partners":     "Partenaires",
	"nav.transactions": "Transactions",
	"nav.settings":     "Paramètres",
	"nav.admins":       "Administrateurs",
	"nav.alerts":       "Alertes",

	"common.name":       "Nom",
	"common.email":      "Email",
	"common.phone":      "Téléphone",
	"common.city":       "Ville",
	"common.country":    "Pays",
	"common.status":     "Statut",
	"common.created_at": "Créé le",
	"common.active":     "Actif",
	"common.inactive":   "Inactif",
	"common.role":       "Rôle",

	"users.title":   "Gestion des Utilisateurs",
	"users.balance": "Solde",
	"users.gender":  "Genre",

	"partners.title":              "Gestion des Partenaires",
	"partners.establishment":      "Établissement",
	"partners.manager":            "Gérant",
	"partners.type":               "Type d'établissement",
	"partners.connection":         "Type de connexion",
	"partners.available_balance":  "Solde disponible",
	"partners.pending_withdrawal": "Retrait en attente",

	"transactions.title":           "Transactions",
	"transactions.date":            "Date",
	"transactions.type":            "Type",
	"transactions.amount":          "Montant",
	"transactions.commission":      "Commission ZOOM WIFI",
	"transactions.partner_share":   "Part Partenaire",
	"transactions.description":     "Description",
	"transactions.status.valide":   "complété",
	"transactions.status.rejete":   "rejeté",
	"transactions.status.pending":  "en attente",
	"transactions.type.topup":      "Recharge",
	"transactions.type.direct":     "Direct",
	"transactions.type.withdrawal": "Retrait",

	"admins.title": "Gestion des Administrateurs",

	"alerts.title":    "Alertes système",
	"alerts.type":     "Type",
	"alerts.message":  "Message",
	"alerts.priority": "Priorité",

	"dashboard.title":           "Tableau de Bord",
	"dashboard.total_users":     "Utilisateurs Totaux",
	"dashboard.partners":        "Partenaires",
	"dashboard.transactions":    "Transactions",
	"dashboard.recharge_amount": "Montant des recharges",
}

var en = map[string]string{
	"nav.dashboard":    "Dashboard",
	"nav.users":        "Users",
	"nav.partners":     "Partners",
	"nav.transactions": "Transactions",
	"nav.settings":     "Settings",
	"nav.admins":       "Administrators",
	"nav.alerts":       "Alerts",

	"common.name":       "Name",
	"common.email":      "Email",
	"common.phone":      "Phone",
	"common.city":       "City",
	"common.country":    "Country",
	"common.status":     "Status",
	"common.created_at": "Created at",
	"common.active":     "Active",
	"common.inactive":   "Inactive",
	"common.role":       "Role",

	"users.title":   "User Management",
	"users.balance": "Balance",
	"users.gender":  "Gender",

	"partners.title":              "Partner Management",
	"partners.establishment":      "Establishment",
	"partners.manager":            "Manager",
	"partners.type":               "Establishment type",
	"partners.connection":         "Connection type",
	"partners.available_balance":  "Available balance",
	"partners.pending_withdrawal": "Pending withdrawal",

	"transactions.title":           "Transactions",
	"transactions.date":            "Date",
	"transactions.type":            "Type",
	"transactions.amount":          "Amount",
	"transactions.commission":      "ZOOM WIFI commission",
	"transactions.partner_share":   "Partner share",
	"transactions.description":     "Description",
	"transactions.status.valide":   "completed",
	"transactions.status.rejete":   "rejected",
	"transactions.status.pending":  "pending",
	"transactions.type.topup":      "Top-up",
	"transactions.type.direct":     "Direct",
	"transactions.type.withdrawal": "Withdrawal",

	"admins.title": "Administrator Management",

	"alerts.title":    "System alerts",
	"alerts.type":     "Type",
	"alerts.message":  "Message",
	"alerts.priority": "Priority",

	"dashboard.title":           "Dashboard",
	"dashboard.total_users":     "Total users",
	"dashboard.partners":        "Partners",
	"dashboard.transactions":    "Transactions",
	"dashboard.recharge_amount": "Recharge amount",
}
