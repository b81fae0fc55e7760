package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/zoomwifi/admin-console/internal/models"
)

// PartnerGateway covers partner venue endpoints.
type PartnerGateway struct {
	c *Client
}

// NewPartnerGateway binds the partner endpoints to c.
func NewPartnerGateway(c *Client) *PartnerGateway {
	return &PartnerGateway{c: c}
}

// List implements listsync.Source. The backend spells the list key "partnes".
func (g *PartnerGateway) List(ctx context.Context, params url.Values) (models.ListResult[models.Partner], error) {
	return listResource[models.Partner](ctx, g.c, "partner", params, "partnes", "partners")
}

// Register signs up a partner venue.
func (g *PartnerGateway) Register(ctx context.Context, req models.RegisterPartnerRequest) (models.Partner, error) {
	var raw json.RawMessage
	if err := g.c.doJSON(ctx, http.MethodPost, "partner/signup", nil, req, &raw, true); err != nil {
		return models.Partner{}, err
	}
	partner, _ := unwrapEntity[models.Partner](raw, "partner", "user")
	return partner, nil
}

// SetStatus approves, blocks or unblocks a partner. The bool is true only
// when the echoed partner states its active flag.
func (g *PartnerGateway) SetStatus(ctx context.Context, id string, active bool) (models.Partner, bool, error) {
	var raw json.RawMessage
	body := map[string]bool{"active": active}
	if err := g.c.doJSON(ctx, http.MethodPatch, pathf("partner/%s/status", id), nil, body, &raw, true); err != nil {
		return models.Partner{}, false, err
	}
	partner, ok := unwrapEntity[models.Partner](raw, "partner")
	return partner, ok && echoesActive(raw, "partner"), nil
}

// Delete removes a partner account.
func (g *PartnerGateway) Delete(ctx context.Context, id string) error {
	return g.c.doJSON(ctx, http.MethodDelete, pathf("partner/deleteMe/%s", id), nil, nil, nil, true)
}

// SendConfirmEmail re-sends the account confirmation email.
func (g *PartnerGateway) SendConfirmEmail(ctx context.Context, email string) error {
	return g.c.doJSON(ctx, http.MethodPost, "partner/confirmEmail", nil, map[string]string{"email": email}, nil, false)
}
