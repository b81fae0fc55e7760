package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/zoomwifi/admin-console/internal/models"
)

// TransactionGateway covers top-up, withdrawal and status endpoints.
type TransactionGateway struct {
	c *Client
}

// NewTransactionGateway binds the transaction endpoints to c.
func NewTransactionGateway(c *Client) *TransactionGateway {
	return &TransactionGateway{c: c}
}

// List implements listsync.Source.
func (g *TransactionGateway) List(ctx context.Context, params url.Values) (models.ListResult[models.Transaction], error) {
	return listResource[models.Transaction](ctx, g.c, "transaction", params, "transactions")
}

// Recharge credits a user or partner account.
func (g *TransactionGateway) Recharge(ctx context.Context, req models.RechargeRequest) (models.Transaction, error) {
	var raw json.RawMessage
	if err := g.c.doJSON(ctx, http.MethodPost, "transaction/rechargeUser", nil, req, &raw, true); err != nil {
		return models.Transaction{}, err
	}
	tx, _ := unwrapEntity[models.Transaction](raw, "transaction")
	return tx, nil
}

// AdminWithdrawal records a cash withdrawal made by an operator.
func (g *TransactionGateway) AdminWithdrawal(ctx context.Context, req models.WithdrawalRequest) error {
	return g.c.doJSON(ctx, http.MethodPost, "transaction/adminRetrait", nil, req, nil, true)
}

// UpdateStatus validates or rejects a pending transaction. The reason is only
// sent for rejections.
func (g *TransactionGateway) UpdateStatus(ctx context.Context, id string, update models.TransactionStatusUpdate) (models.Transaction, bool, error) {
	if update.Status != models.TransactionRejected {
		update.Reason = ""
	}
	var raw json.RawMessage
	if err := g.c.doJSON(ctx, http.MethodPatch, pathf("transaction/updateStatus/%s", id), nil, update, &raw, true); err != nil {
		return models.Transaction{}, false, err
	}
	tx, ok := unwrapEntity[models.Transaction](raw, "transaction")
	return tx, ok, nil
}
