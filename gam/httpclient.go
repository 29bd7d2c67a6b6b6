package gam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/golang/glog"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
)

// HTTPClient implements Client against the inventory bridge's JSON API. One
// instance is constructed per provisioning run and passed explicitly to the
// engine; it holds no cross-call state beyond the underlying http.Client.
type HTTPClient struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

// NewHTTPClient builds a client scoped to one ad-manager network.
func NewHTTPClient(client *http.Client, endpoint, networkCode, apiKey string) *HTTPClient {
	if client == nil {
		glog.Fatalf("The inventory HTTP client requires an http.Client. Please report this as a bug.")
	}
	return &HTTPClient{
		client:   client,
		endpoint: strings.TrimSuffix(endpoint, "/") + "/networks/" + networkCode,
		apiKey:   apiKey,
	}
}

type errorEnvelope struct {
	Error struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		OffendingIndices []int  `json:"offendingIndices,omitempty"`
	} `json:"error"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling %s %s request: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if id, err := uuid.NewV4(); err == nil {
		req.Header.Set("X-Request-ID", id.String())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &errortypes.RemoteUnavailable{Message: fmt.Sprintf("%s %s: %v", method, path, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errortypes.RemoteUnavailable{Message: fmt.Sprintf("%s %s: reading response: %v", method, path, err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return &errortypes.Remote{Message: fmt.Sprintf("%s %s: malformed response body: %v", method, path, err)}
		}
		return nil
	}

	return c.asError(resp.StatusCode, data)
}

// asError translates a non-2xx bridge response into the error taxonomy.
// Duplicate associations are the one class callers handle locally.
func (c *HTTPClient) asError(status int, body []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		env.Error.Message = strings.TrimSpace(string(body))
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &errortypes.RemoteUnavailable{
			Message: fmt.Sprintf("inventory bridge rejected credentials (status %d): %s", status, env.Error.Message),
		}
	case env.Error.Code == "DUPLICATE_ASSOCIATION":
		return &errortypes.AssociationConflict{
			Message:          env.Error.Message,
			OffendingIndices: env.Error.OffendingIndices,
		}
	case status == http.StatusNotFound:
		return &errortypes.NotFound{ID: env.Error.Message, DataType: "Remote entity"}
	default:
		glog.Errorf("inventory bridge error (status %d, code %s): %s", status, env.Error.Code, env.Error.Message)
		return &errortypes.Remote{Message: env.Error.Message, RemoteCode: env.Error.Code}
	}
}

func fetchAllPages[T any](ctx context.Context, c *HTTPClient, path string, query url.Values) ([]T, error) {
	return FetchAll(ctx, func(ctx context.Context, offset, limit int) (Page[T], error) {
		q := url.Values{}
		for k, vs := range query {
			q[k] = vs
		}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(limit))

		var page Page[T]
		err := c.do(ctx, http.MethodGet, path, q, nil, &page)
		return page, err
	})
}

func (c *HTTPClient) OrderByName(ctx context.Context, name string) (*Order, error) {
	orders, err := fetchAllPages[Order](ctx, c, "/orders", url.Values{"name": {name}, "status": {"ACTIVE"}})
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Name == name {
			return &orders[i], nil
		}
	}
	return nil, nil
}

func (c *HTTPClient) CreateOrder(ctx context.Context, name string, advertiserID int64) (Order, error) {
	var order Order
	body := map[string]interface{}{"name": name, "advertiserId": advertiserID}
	err := c.do(ctx, http.MethodPost, "/orders", nil, body, &order)
	return order, err
}

func (c *HTTPClient) ArchiveOrder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/orders/"+strconv.FormatInt(id, 10)+"/archive", nil, nil, nil)
}

func (c *HTTPClient) LineItemsByOrder(ctx context.Context, orderID int64) ([]LineItem, error) {
	return fetchAllPages[LineItem](ctx, c, "/lineitems", url.Values{"orderId": {strconv.FormatInt(orderID, 10)}})
}

func (c *HTTPClient) CreateOrUpdateLineItems(ctx context.Context, specs []LineItemSpec) ([]LineItem, error) {
	var result struct {
		Results []LineItem `json:"results"`
	}
	err := c.do(ctx, http.MethodPost, "/lineitems/batch", nil, map[string]interface{}{"lineItems": specs}, &result)
	return result.Results, err
}

func (c *HTTPClient) Creatives(ctx context.Context, advertiserID int64) ([]Creative, error) {
	return fetchAllPages[Creative](ctx, c, "/creatives", url.Values{"advertiserId": {strconv.FormatInt(advertiserID, 10)}})
}

func (c *HTTPClient) CreateCreatives(ctx context.Context, specs []CreativeSpec) ([]Creative, error) {
	var result struct {
		Results []Creative `json:"results"`
	}
	err := c.do(ctx, http.MethodPost, "/creatives", nil, map[string]interface{}{"creatives": specs}, &result)
	return result.Results, err
}

func (c *HTTPClient) TargetingKeyByName(ctx context.Context, name string) (*TargetingKey, error) {
	keys, err := fetchAllPages[TargetingKey](ctx, c, "/targeting/keys", url.Values{"name": {name}, "status": {"ACTIVE"}})
	if err != nil {
		return nil, err
	}
	for i := range keys {
		if keys[i].Name == name {
			return &keys[i], nil
		}
	}
	return nil, nil
}

func (c *HTTPClient) CreateTargetingKey(ctx context.Context, name string, keyType string) (TargetingKey, error) {
	var key TargetingKey
	body := map[string]interface{}{"name": name, "type": keyType}
	err := c.do(ctx, http.MethodPost, "/targeting/keys", nil, body, &key)
	return key, err
}

func (c *HTTPClient) TargetingValues(ctx context.Context, keyID int64, names []string) ([]TargetingValue, error) {
	query := url.Values{"status": {"ACTIVE"}}
	for _, name := range names {
		query.Add("name", name)
	}
	path := "/targeting/keys/" + strconv.FormatInt(keyID, 10) + "/values"
	return fetchAllPages[TargetingValue](ctx, c, path, query)
}

func (c *HTTPClient) CreateTargetingValues(ctx context.Context, keyID int64, names []string) ([]TargetingValue, error) {
	var result struct {
		Results []TargetingValue `json:"results"`
	}
	path := "/targeting/keys/" + strconv.FormatInt(keyID, 10) + "/values"
	err := c.do(ctx, http.MethodPost, path, nil, map[string]interface{}{"names": names}, &result)
	return result.Results, err
}

func (c *HTTPClient) AssociateCreatives(ctx context.Context, pairs []LicaPair) ([]Lica, error) {
	var result struct {
		Results []Lica `json:"results"`
	}
	err := c.do(ctx, http.MethodPost, "/lica/batch", nil, map[string]interface{}{"associations": pairs}, &result)
	return result.Results, err
}
