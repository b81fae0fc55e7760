package models

import "time"

// Admin is a console operator account.
type Admin struct {
	ID        string     `json:"_id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Active    bool       `json:"active"`
	Role      string     `json:"role,omitempty"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
}

// Key returns the backend identifier.
func (a Admin) Key() string { return a.ID }

// FullName joins first and last names.
func (a Admin) FullName() string { return joinName(a.FirstName, a.LastName) }

// RegisterAdminRequest creates another operator account.
type RegisterAdminRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=80"`
	LastName        string `json:"lastName" validate:"required,max=80"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role,omitempty" validate:"omitempty,oneof=admin superadmin"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// LoginRequest holds operator credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session describes the operator session held by the console.
type Session struct {
	Authenticated bool       `json:"authenticated"`
	Admin         *Admin     `json:"admin,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}
