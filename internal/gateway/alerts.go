package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/zoomwifi/admin-console/internal/models"
)

// AlertGateway covers system alert endpoints.
type AlertGateway struct {
	c *Client
}

// NewAlertGateway binds the alert endpoints to c.
func NewAlertGateway(c *Client) *AlertGateway {
	return &AlertGateway{c: c}
}

// List implements listsync.Source.
func (g *AlertGateway) List(ctx context.Context, params url.Values) (models.ListResult[models.Alert], error) {
	return listResource[models.Alert](ctx, g.c, "alerts", params, "alerts")
}

// MarkRead flags an alert as read.
func (g *AlertGateway) MarkRead(ctx context.Context, id string) (models.Alert, bool, error) {
	var raw json.RawMessage
	if err := g.c.doJSON(ctx, http.MethodPatch, pathf("alerts/%s/read", id), nil, nil, &raw, true); err != nil {
		return models.Alert{}, false, err
	}
	alert, ok := unwrapEntity[models.Alert](raw, "alert")
	return alert, ok, nil
}
