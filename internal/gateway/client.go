package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tripgrid/backoffice/internal/domain"
)

// Environment holds the credentials and endpoint for one gateway
// deployment (sandbox or production). It is an explicit value carried by
// the client instance so two callers targeting different environments
// never interfere.
type Environment struct {
	Name       string
	BaseURL    string
	MerchantID string
	APIKey     string
}

// Client speaks the gateway's HTTPS JSON API. Amounts cross the wire in
// the currency's minor unit; conversion happens before a request reaches
// this package.
type Client struct {
	env  Environment
	http *http.Client
}

func NewClient(env Environment) *Client {
	return &Client{
		env:  env,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

type PayRequest struct {
	OrderID     string `json:"merchantOrderId"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
	RedirectURL string `json:"redirectUrl"`
	MerchantID  string `json:"merchantId"`
}

type PayResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// Pay submits an order and returns the hosted-checkout redirect target.
// A response without one is treated as a gateway failure.
func (c *Client) Pay(ctx context.Context, req PayRequest) (*PayResponse, error) {
	req.MerchantID = c.env.MerchantID
	var resp PayResponse
	if err := c.post(ctx, "/pay", req, &resp); err != nil {
		return nil, err
	}
	if resp.RedirectURL == "" {
		return nil, domain.Gatewayf("pay", fmt.Errorf("response has no redirect url"))
	}
	return &resp, nil
}

type OrderStatus struct {
	State string `json:"state"`
}

// OrderStatus fetches the authoritative state of an order in the
// gateway's own vocabulary (COMPLETED, FAILED, PENDING, ...).
func (c *Client) OrderStatus(ctx context.Context, orderID string) (*OrderStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.env.BaseURL+"/order/"+orderID+"/status", nil)
	if err != nil {
		return nil, domain.Gatewayf("order status", err)
	}
	c.authorize(httpReq)

	var status OrderStatus
	if err := c.do(httpReq, &status); err != nil {
		return nil, domain.Gatewayf("order status", err)
	}
	if status.State == "" {
		return nil, domain.Gatewayf("order status", fmt.Errorf("response has no state"))
	}
	return &status, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.Gatewayf("encode request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.env.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return domain.Gatewayf("build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	if err := c.do(httpReq, out); err != nil {
		return domain.Gatewayf("pay", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("X-Api-Key", c.env.APIKey)
	req.Header.Set("X-Merchant-Id", c.env.MerchantID)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
