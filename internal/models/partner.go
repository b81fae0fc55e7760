package models

import "time"

// Partner is a venue reselling WiFi access.
type Partner struct {
	ID                string     `json:"_id"`
	EstablishmentName string     `json:"establishmentName"`
	ManagerFirstName  string     `json:"managerFirstName"`
	ManagerLastName   string     `json:"managerLastName"`
	EstablishmentType string     `json:"establishmentType"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	Country           string     `json:"country"`
	City              string     `json:"city"`
	Address           string     `json:"address"`
	ConnectionType    string     `json:"connectionType"`
	Active            bool       `json:"active"`
	Balance           float64    `json:"balance"`
	PendingWithdrawal float64    `json:"pendingWithdrawal"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
}

// Key returns the backend identifier.
func (p Partner) Key() string { return p.ID }

// ManagerName joins the manager's names.
func (p Partner) ManagerName() string { return joinName(p.ManagerFirstName, p.ManagerLastName) }

// RegisterPartnerRequest signs up a new partner venue.
type RegisterPartnerRequest struct {
	EstablishmentName string `json:"establishmentName" validate:"required,max=120"`
	ManagerFirstName  string `json:"managerFirstName" validate:"required,max=80"`
	ManagerLastName   string `json:"managerLastName" validate:"required,max=80"`
	EstablishmentType string `json:"establishmentType" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Phone             string `json:"phone" validate:"required,min=6,max=20"`
	Country           string `json:"country" validate:"required"`
	City              string `json:"city" validate:"required"`
	Address           string `json:"address" validate:"required"`
	ConnectionType    string `json:"connectionType" validate:"required,oneof=fiber data"`
	Password          string `json:"password" validate:"required,min=8"`
	PasswordConfirm   string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}
