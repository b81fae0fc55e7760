package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

const dateLayout = "2006-01-02"

// AdminGateway covers operator authentication and management.
type AdminGateway struct {
	c *Client
}

// NewAdminGateway binds the admin endpoints to c.
func NewAdminGateway(c *Client) *AdminGateway {
	return &AdminGateway{c: c}
}

// LoginResult is the token and operator returned by a successful login.
type LoginResult struct {
	Token string
	Admin models.Admin
}

// Login exchanges credentials for a bearer token.
func (g *AdminGateway) Login(ctx context.Context, req models.LoginRequest) (LoginResult, error) {
	var env struct {
		Status string          `json:"status"`
		Token  string          `json:"token"`
		Data   json.RawMessage `json:"data"`
	}
	if err := g.c.doJSON(ctx, http.MethodPost, "admin/login", nil, req, &env, false); err != nil {
		return LoginResult{}, err
	}
	if strings.TrimSpace(env.Token) == "" {
		return LoginResult{}, appErrors.Server(http.StatusBadGateway, "login response did not include a token")
	}
	admin, _ := unwrapEntity[models.Admin](env.Data, "user", "admin")
	return LoginResult{Token: env.Token, Admin: admin}, nil
}

// Logout tells the backend the session ended.
func (g *AdminGateway) Logout(ctx context.Context, adminID string) error {
	return g.c.doJSON(ctx, http.MethodPost, "admin/logout", nil, map[string]string{"id": adminID}, nil, true)
}

// List implements listsync.Source.
func (g *AdminGateway) List(ctx context.Context, params url.Values) (models.ListResult[models.Admin], error) {
	return listResource[models.Admin](ctx, g.c, "admin", params, "admins")
}

// Register creates an operator account.
func (g *AdminGateway) Register(ctx context.Context, req models.RegisterAdminRequest) (models.Admin, error) {
	var raw json.RawMessage
	if err := g.c.doJSON(ctx, http.MethodPost, "admin/signup", nil, req, &raw, true); err != nil {
		return models.Admin{}, err
	}
	admin, _ := unwrapEntity[models.Admin](raw, "user", "admin")
	return admin, nil
}

// SetActive activates or deactivates an operator. The bool is true only
// when the echoed admin states its active flag.
func (g *AdminGateway) SetActive(ctx context.Context, id string, active bool) (models.Admin, bool, error) {
	var raw json.RawMessage
	body := map[string]bool{"active": active}
	if err := g.c.doJSON(ctx, http.MethodPatch, pathf("admin/activateAdmin/%s", id), nil, body, &raw, true); err != nil {
		return models.Admin{}, false, err
	}
	admin, ok := unwrapEntity[models.Admin](raw, "user", "admin")
	return admin, ok && echoesActive(raw, "user", "admin"), nil
}

// Delete removes an operator account.
func (g *AdminGateway) Delete(ctx context.Context, id string) error {
	return g.c.doJSON(ctx, http.MethodDelete, pathf("admin/deleteMe/%s", id), nil, nil, nil, true)
}

// Dashboard returns headline totals for the date range.
func (g *AdminGateway) Dashboard(ctx context.Context, r models.DateRange) (models.DashboardStats, error) {
	params := url.Values{}
	params.Set("startDate", r.StartDate.Format(dateLayout))
	params.Set("endDate", r.EndDate.Format(dateLayout))

	var env struct {
		Data models.DashboardStats `json:"data"`
	}
	if err := g.c.doJSON(ctx, http.MethodGet, "admin/dashboard", params, nil, &env, true); err != nil {
		return models.DashboardStats{}, err
	}
	return env.Data, nil
}
