// Command checkout submits one store's part of a saved cart as a pickup order.
//
//	checkout -cart cart.json -token $MEDIFIND_TOKEN [-store 2] [-pickup "Today 5pm"]
//
// The cart file is the JSON array written by the cart package. On success the
// store's lines are removed from the file; the other stores stay in the cart.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"medifind/internal/cart"
	"medifind/internal/client"
	"medifind/internal/config"
	"medifind/internal/logger"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cartPath := flag.String("cart", "cart.json", "path of the saved cart")
	apiURL := flag.String("api", "http://localhost:8080", "medifind API base URL")
	token := flag.String("token", os.Getenv("MEDIFIND_TOKEN"), "bearer token of the purchaser")
	storeID := flag.Uint("store", 0, "store to check out (default: first store in the cart)")
	pickup := flag.String("pickup", "", "requested pickup time")
	notes := flag.String("notes", "", "notes for the pharmacy")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	_ = godotenv.Load()
	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	taxRate, err := decimal.NewFromString(cfg.Cart.TaxRate)
	if err != nil {
		log.Fatal("invalid CART_TAX_RATE", zap.String("value", cfg.Cart.TaxRate), zap.Error(err))
	}

	c := cart.New(taxRate)
	data, err := os.ReadFile(*cartPath)
	if err != nil {
		log.Fatal("read cart", zap.String("path", *cartPath), zap.Error(err))
	}
	if err := c.UnmarshalJSON(data); err != nil {
		log.Fatal("decode cart", zap.String("path", *cartPath), zap.Error(err))
	}

	groups := c.Groups()
	if len(groups) == 0 {
		fmt.Println("cart is empty")
		return
	}

	target := uint(*storeID)
	if target == 0 {
		target = groups[0].StoreID
	}
	for _, g := range groups {
		fmt.Printf("%-30s items=%-3d subtotal=%s tax=%s total=%s\n",
			g.StoreName, len(g.Lines), g.Subtotal.StringFixed(2), g.Tax.StringFixed(2), g.Total.StringFixed(2))
	}

	req, err := c.OrderRequest(target, *pickup, *notes)
	if err != nil {
		log.Fatal("build order", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	api := client.NewAPIClient(*apiURL, *timeout)
	order, err := api.PlaceOrder(ctx, *token, req)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			log.Error("order rejected",
				zap.Int("status", apiErr.StatusCode),
				zap.String("message", apiErr.Message),
				zap.ByteString("body", apiErr.Body),
			)
			os.Exit(2)
		}
		log.Fatal("place order", zap.Error(err))
	}

	c.ClearStore(target)
	out, err := c.MarshalJSON()
	if err != nil {
		log.Fatal("encode cart", zap.Error(err))
	}
	if err := os.WriteFile(*cartPath, out, 0o644); err != nil {
		log.Fatal("write cart", zap.String("path", *cartPath), zap.Error(err))
	}

	fmt.Printf("order #ORD%d placed: status=%s total=%s\n", order.ID, order.Status, order.TotalAmount.StringFixed(2))
}
