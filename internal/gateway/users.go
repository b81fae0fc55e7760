package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/zoomwifi/admin-console/internal/models"
)

// UserGateway covers end-user endpoints.
type UserGateway struct {
	c *Client
}

// NewUserGateway binds the user endpoints to c.
func NewUserGateway(c *Client) *UserGateway {
	return &UserGateway{c: c}
}

// List implements listsync.Source.
func (g *UserGateway) List(ctx context.Context, params url.Values) (models.ListResult[models.Client], error) {
	return listResource[models.Client](ctx, g.c, "users", params, "clients", "users")
}

// Create registers a new end user.
func (g *UserGateway) Create(ctx context.Context, req models.CreateClientRequest) (models.Client, error) {
	var raw json.RawMessage
	if err := g.c.doJSON(ctx, http.MethodPost, "users/signup", nil, req, &raw, true); err != nil {
		return models.Client{}, err
	}
	client, _ := unwrapEntity[models.Client](raw, "user", "client")
	return client, nil
}

// SetStatus activates or blocks a user and returns the server's copy when
// the response carries one with its active flag.
func (g *UserGateway) SetStatus(ctx context.Context, id string, active bool) (models.Client, bool, error) {
	var raw json.RawMessage
	body := map[string]bool{"active": active}
	if err := g.c.doJSON(ctx, http.MethodPatch, pathf("users/updateClientStatus/%s", id), nil, body, &raw, true); err != nil {
		return models.Client{}, false, err
	}
	client, ok := unwrapEntity[models.Client](raw, "user", "client")
	return client, ok && echoesActive(raw, "user", "client"), nil
}

// Delete removes a user account.
func (g *UserGateway) Delete(ctx context.Context, id string) error {
	return g.c.doJSON(ctx, http.MethodDelete, pathf("users/deleteMe/%s", id), nil, nil, nil, true)
}

// Countries returns the reference list of countries and their cities.
func (g *UserGateway) Countries(ctx context.Context) ([]models.Country, error) {
	var env struct {
		Data struct {
			Countries []models.Country `json:"countries"`
		} `json:"data"`
	}
	if err := g.c.doJSON(ctx, http.MethodGet, "users/countries", nil, nil, &env, true); err != nil {
		return nil, err
	}
	if env.Data.Countries == nil {
		return []models.Country{}, nil
	}
	return env.Data.Countries, nil
}
