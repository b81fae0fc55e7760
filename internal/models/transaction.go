package models

import "time"

// Transaction statuses as stored by the backend.
const (
	TransactionValidated = "valide"
	TransactionRejected  = "rejete"
	TransactionPending   = "en attente"
)

// Party is the abbreviated user or partner embedded in a transaction.
type Party struct {
	ID                string `json:"_id"`
	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	EstablishmentName string `json:"establishmentName,omitempty"`
}

// DisplayName prefers the establishment name over the person's name.
func (p *Party) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.EstablishmentName != "" {
		return p.EstablishmentName
	}
	return joinName(p.FirstName, p.LastName)
}

// Transaction is a top-up, direct payment or withdrawal.
type Transaction struct {
	ID           string     `json:"_id"`
	Type         string     `json:"type"`
	Amount       float64    `json:"amount"`
	Balance      float64    `json:"balance,omitempty"`
	Commission   float64    `json:"commission"`
	PartnerShare float64    `json:"partnerShare"`
	Status       string     `json:"status"`
	UserID       string     `json:"userId"`
	Description  string     `json:"description"`
	Reason       string     `json:"reason,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	User         *Party     `json:"user,omitempty"`
	Partner      *Party     `json:"partner,omitempty"`
}

// Key returns the backend identifier.
func (t Transaction) Key() string { return t.ID }

// RechargeRequest credits a user or partner account.
type RechargeRequest struct {
	Amount      float64 `json:"amount" validate:"gt=0"`
	SenderID    string  `json:"senderId"`
	ReceiverID  string  `json:"receiverId" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Description string  `json:"description"`
	IsPartner   bool    `json:"isPartner"`
}

// WithdrawalRequest records an admin cash withdrawal for a partner.
type WithdrawalRequest struct {
	SenderID    string  `json:"senderId" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Type        string  `json:"type" validate:"required"`
	Description string  `json:"description"`
}

// TransactionStatusUpdate validates or rejects a pending transaction.
type TransactionStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=valide rejete"`
	Reason string `json:"reason,omitempty"`
}
