package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medifind/internal/client"
	"medifind/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T) client.APIClient {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Unauthorized"}`))
			return
		}
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":4,"status":"ready","totalAmount":"12.5"}]`))
			return
		}

		var req dto.PlaceOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Items[0].Quantity > 5 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Medication with ID 1 is out of stock or has insufficient quantity","medicationId":1,"available":5,"requested":9}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":          7,
			"storeId":     req.Order.StoreID,
			"status":      "pending",
			"totalAmount": req.Order.TotalAmount,
		})
	})
	mux.HandleFunc("/api/stores/1/inventory", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"storeId":1,"medicationId":1,"inStock":true,"quantity":5,"price":"10.00"}]`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return client.NewAPIClient(srv.URL+"/", 5*time.Second)
}

func placeOrderRequest(qty int32) *dto.PlaceOrderRequest {
	return &dto.PlaceOrderRequest{
		Order: dto.OrderDetails{StoreID: 1, TotalAmount: decimal.NewFromInt32(qty * 10), Status: "pending"},
		Items: []*dto.OrderLine{{MedicationID: 1, Quantity: qty, Price: decimal.NewFromInt(10)}},
	}
}

func TestAPIClientPlaceOrder(t *testing.T) {
	api := newAPI(t)

	order, err := api.PlaceOrder(context.Background(), "good", placeOrderRequest(3))
	require.NoError(t, err)
	assert.Equal(t, uint(7), order.ID)
	assert.Equal(t, uint(1), order.StoreID)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(30)))
}

func TestAPIClientErrors(t *testing.T) {
	api := newAPI(t)

	_, err := api.PlaceOrder(context.Background(), "bad", placeOrderRequest(1))
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Unauthorized", apiErr.Message)

	_, err = api.PlaceOrder(context.Background(), "good", placeOrderRequest(9))
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	var stock dto.InsufficientStockResponse
	require.NoError(t, json.Unmarshal(apiErr.Body, &stock))
	assert.Equal(t, int32(5), stock.Available)
	assert.Equal(t, int32(9), stock.Requested)
}

func TestAPIClientReads(t *testing.T) {
	api := newAPI(t)

	orders, err := api.ListOrders(context.Background(), "good")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ready", string(orders[0].Status))

	records, err := api.StoreInventory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int32(5), records[0].Quantity)
	assert.True(t, records[0].Price.Valid)

	_, err = api.StoreInventory(context.Background(), 2)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Not Found", apiErr.Message)
}
