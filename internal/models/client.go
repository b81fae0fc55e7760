package models

import "time"

// Client is an end user of the WiFi service.
type Client struct {
	ID        string     `json:"_id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Country   string     `json:"country"`
	City      string     `json:"city"`
	Gender    string     `json:"gender,omitempty"`
	Active    bool       `json:"active"`
	Role      string     `json:"role,omitempty"`
	Balance   float64    `json:"balance"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Key returns the backend identifier.
func (c Client) Key() string { return c.ID }

// FullName joins first and last names.
func (c Client) FullName() string { return joinName(c.FirstName, c.LastName) }

// CreateClientRequest registers a new end user.
type CreateClientRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=80"`
	LastName        string `json:"lastName" validate:"required,max=80"`
	Phone           string `json:"phone" validate:"required,min=6,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Country         string `json:"country" validate:"required"`
	City            string `json:"city" validate:"required"`
	Gender          string `json:"gender" validate:"omitempty,oneof=M F"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// Country is reference data used by the user and settings forms.
type Country struct {
	ID                  string   `json:"_id"`
	Name                string   `json:"name"`
	TarifFibrePerMinute float64  `json:"tarifFibrePerMinute"`
	TarifDataPerMo      float64  `json:"tarifDataPerMo"`
	Cities              []string `json:"cities"`
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
