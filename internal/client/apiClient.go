package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"medifind/internal/dto"
	"medifind/internal/model"
	"net/http"
	"strings"
	"time"
)

// APIClient talks to the medifind HTTP API, for tools that submit cart
// checkouts outside the browser.
type APIClient interface {
	PlaceOrder(ctx context.Context, token string, req *dto.PlaceOrderRequest) (*model.Order, error)
	ListOrders(ctx context.Context, token string) ([]*model.Order, error)
	StoreInventory(ctx context.Context, storeID uint) ([]*model.StoreInventory, error)
}

type apiClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

// APIError is a non-2xx answer from the API. Body holds the raw response for
// error kinds with extra fields, such as insufficient stock.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func NewAPIClient(baseURL string, timeout time.Duration) APIClient {
	return &apiClientImpl{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *apiClientImpl) PlaceOrder(ctx context.Context, token string, req *dto.PlaceOrderRequest) (*model.Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	var order model.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", token, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *apiClientImpl) ListOrders(ctx context.Context, token string) ([]*model.Order, error) {
	var orders []*model.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *apiClientImpl) StoreInventory(ctx context.Context, storeID uint) ([]*model.StoreInventory, error) {
	var records []*model.StoreInventory
	path := fmt.Sprintf("/api/stores/%d/inventory", storeID)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *apiClientImpl) do(ctx context.Context, method, path, token string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: b}
		var errResp dto.ErrorResponse
		if json.Unmarshal(b, &errResp) == nil && errResp.Message != "" {
			apiErr.Message = errResp.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
