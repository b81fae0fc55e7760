package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/zoomwifi/admin-console/internal/models"
	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
)

// listEnvelope is the backend list shape: {status, totals, data: {<key>: [...]}}.
type listEnvelope struct {
	Status  string                     `json:"status"`
	Totals  *int                       `json:"totals"`
	Total   *int                       `json:"total"`
	Results *int                       `json:"results"`
	Data    map[string]json.RawMessage `json:"data"`
}

// listResource fetches one page. keys are tried in order to locate the items.
func listResource[T any](ctx context.Context, c *Client, path string, params url.Values, keys ...string) (models.ListResult[T], error) {
	var env listEnvelope
	if err := c.doJSON(ctx, http.MethodGet, path, params, nil, &env, true); err != nil {
		return models.ListResult[T]{}, err
	}

	items := []T{}
	for _, key := range keys {
		raw, ok := env.Data[key]
		if !ok || isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return models.ListResult[T]{}, appErrors.Wrap(err, appErrors.CodeServer, http.StatusBadGateway, "invalid response payload")
		}
		break
	}

	total := len(items)
	for _, candidate := range []*int{env.Totals, env.Total, env.Results} {
		if candidate != nil {
			total = *candidate
			break
		}
	}
	if total < len(items) {
		total = len(items)
	}
	return models.ListResult[T]{Items: items, TotalCount: total}, nil
}

// unwrapEntity finds a single entity in a response that may place it at
// data.<key>, at <key>, or at the root.
func unwrapEntity[T any](raw json.RawMessage, keys ...string) (T, bool) {
	var zero T
	if len(bytes.TrimSpace(raw)) == 0 || isNull(raw) {
		return zero, false
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return zero, false
	}

	var data map[string]json.RawMessage
	if nested, ok := root["data"]; ok {
		_ = json.Unmarshal(nested, &data)
	}
	for _, key := range keys {
		for _, scope := range []map[string]json.RawMessage{data, root} {
			if candidate, ok := scope[key]; ok && !isNull(candidate) {
				var out T
				if err := json.Unmarshal(candidate, &out); err == nil {
					return out, true
				}
			}
		}
	}

	if _, ok := root["_id"]; ok {
		var out T
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, true
		}
	}
	if _, ok := root["id"]; ok {
		var out T
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, true
		}
	}
	return zero, false
}

type activeEcho struct {
	Active *bool `json:"active"`
}

// echoesActive reports whether the echoed entity states its active flag.
// Entities without the key would otherwise decode as inactive.
func echoesActive(raw json.RawMessage, keys ...string) bool {
	echo, ok := unwrapEntity[activeEcho](raw, keys...)
	return ok && echo.Active != nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
