package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tripgrid/backoffice/internal/domain"
)

func testEnv(baseURL string) Environment {
	return Environment{
		Name:       "sandbox",
		BaseURL:    baseURL,
		MerchantID: "M123",
		APIKey:     "test-key",
	}
}

func TestClient_Pay_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pay", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "M123", r.Header.Get("X-Merchant-Id"))

		var req PayRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ORD-1", req.OrderID)
		assert.Equal(t, int64(50000), req.AmountMinor)
		assert.Equal(t, "M123", req.MerchantID)

		json.NewEncoder(w).Encode(PayResponse{RedirectURL: "https://gw.example/checkout/ORD-1"})
	}))
	defer srv.Close()

	client := NewClient(testEnv(srv.URL))
	resp, err := client.Pay(context.Background(), PayRequest{
		OrderID:     "ORD-1",
		AmountMinor: 50000,
		Currency:    "INR",
		RedirectURL: "https://caller.example/return",
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://gw.example/checkout/ORD-1", resp.RedirectURL)
}

func TestClient_Pay_MissingRedirectIsGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	client := NewClient(testEnv(srv.URL))
	resp, err := client.Pay(context.Background(), PayRequest{OrderID: "ORD-2", AmountMinor: 100})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrGateway)
}

func TestClient_Pay_ServerErrorIsGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testEnv(srv.URL))
	resp, err := client.Pay(context.Background(), PayRequest{OrderID: "ORD-3", AmountMinor: 100})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrGateway)
}

func TestClient_OrderStatus_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/order/ORD-4/status", r.URL.Path)
		json.NewEncoder(w).Encode(OrderStatus{State: "COMPLETED"})
	}))
	defer srv.Close()

	client := NewClient(testEnv(srv.URL))
	status, err := client.OrderStatus(context.Background(), "ORD-4")

	assert.NoError(t, err)
	assert.Equal(t, "COMPLETED", status.State)
}

func TestClient_OrderStatus_EmptyStateIsGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	client := NewClient(testEnv(srv.URL))
	status, err := client.OrderStatus(context.Background(), "ORD-5")

	assert.Error(t, err)
	assert.Nil(t, status)
	assert.ErrorIs(t, err, domain.ErrGateway)
}

func TestClient_OrderStatus_Unreachable(t *testing.T) {
	client := NewClient(testEnv("http://127.0.0.1:1"))
	status, err := client.OrderStatus(context.Background(), "ORD-6")

	assert.Error(t, err)
	assert.Nil(t, status)
	assert.ErrorIs(t, err, domain.ErrGateway)
}
