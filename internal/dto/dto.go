package dto

import "github.com/shopspring/decimal"

type OrderLine struct {
	MedicationID uint            `json:"medicationId" validate:"required"`
	Quantity     int32           `json:"quantity" validate:"required,gt=0"`
	Price        decimal.Decimal `json:"price"` // unit price shown in the cart
}

type OrderDetails struct {
	StoreID     uint            `json:"storeId" validate:"required"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status" validate:"omitempty,eq=pending"`
	PickupTime  string          `json:"pickupTime" validate:"max=64"`
	Notes       string          `json:"notes" validate:"max=1000"`
}

type PlaceOrderRequest struct {
	Order OrderDetails `json:"order"`
	Items []*OrderLine `json:"items" validate:"required,min=1,dive,required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing ready completed cancelled"`
}

type RestockRequest struct {
	MedicationID uint                `json:"medicationId" validate:"required"`
	Quantity     int32               `json:"quantity" validate:"gte=0"`
	Price        decimal.NullDecimal `json:"price"`
	InStock      *bool               `json:"inStock"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type InsufficientStockResponse struct {
	Message      string `json:"message"`
	MedicationID uint   `json:"medicationId"`
	Available    int32  `json:"available"`
	Requested    int32  `json:"requested"`
}
