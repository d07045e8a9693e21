package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	FirstName string    `gorm:"size:64;not null" json:"firstName"`
	LastName  string    `gorm:"size:64;not null" json:"lastName"`
	Email     string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone,omitempty"`
	Address   string    `gorm:"not null" json:"address"`
	IsStore   bool      `gorm:"not null" json:"isStore"` // pharmacy owner account
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	UserID       uint     `gorm:"index;not null" json:"userId"` // owner
	Name         string   `gorm:"size:128;index;not null" json:"name"`
	Address      string   `gorm:"not null" json:"address"`
	City         string   `gorm:"size:64;index;not null" json:"city"`
	ZipCode      string   `gorm:"size:16;not null" json:"zipCode"`
	Phone        string   `gorm:"size:32;not null" json:"phone"`
	Email        string   `gorm:"size:128;not null" json:"email"`
	OpeningHours string   `gorm:"not null" json:"openingHours"`
	Description  string   `json:"description,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ReviewCount  int32    `gorm:"not null" json:"reviewCount"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// Medication is catalog reference data. Price is the base price used when a
// store does not override it.
type Medication struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"size:128;index;not null" json:"name"`
	Description       string          `json:"description,omitempty"`
	Dosage            string          `gorm:"size:64" json:"dosage,omitempty"`
	Manufacturer      string          `gorm:"size:128" json:"manufacturer,omitempty"`
	Category          string          `gorm:"size:64;index" json:"category,omitempty"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL          string          `json:"imageUrl,omitempty"`
	SideEffects       string          `json:"sideEffects,omitempty"`
	UsageInstructions string          `json:"usageInstructions,omitempty"`
}

// StoreInventory is the per-store stock row of one medication. Quantity is only
// ever lowered through the conditional decrement in the inventory repository.
type StoreInventory struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	StoreID      uint                `gorm:"uniqueIndex:idx_store_medication;not null" json:"storeId"`
	MedicationID uint                `gorm:"uniqueIndex:idx_store_medication;not null" json:"medicationId"`
	InStock      bool                `gorm:"not null" json:"inStock"`
	Quantity     int32               `gorm:"not null;check:quantity >= 0" json:"quantity"`
	Price        decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"` // store override of Medication.Price
	Medication   *Medication         `gorm:"foreignKey:MedicationID" json:"medication,omitempty"`
	CreatedAt    time.Time           `json:"-"`
	UpdatedAt    time.Time           `json:"-"`
}

// Purchasable reports whether any unit can be sold. A zero quantity counts as
// out of stock whatever the flag says.
func (i *StoreInventory) Purchasable() bool {
	return i.InStock && i.Quantity > 0
}

// UnitPrice is the store price, or the medication base price when the store
// has no override. base is only read when Price is null.
func (i *StoreInventory) UnitPrice(base decimal.Decimal) decimal.Decimal {
	if i.Price.Valid {
		return i.Price.Decimal
	}
	return base
}

type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index;not null" json:"userId"`
	StoreID     uint            `gorm:"index;not null" json:"storeId"`
	Status      OrderStatus     `gorm:"size:16;index;not null" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"` // sum of items, fixed at creation
	PickupTime  string          `gorm:"size:64" json:"pickupTime"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Items       []*OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

type OrderItem struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// FK → orders.id
	OrderID uint `gorm:"index;not null" json:"orderId"`
	// FK → medications.id
	MedicationID uint            `gorm:"index;not null" json:"medicationId"`
	Quantity     int32           `gorm:"not null" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"` // unit price snapshot
	Medication   *Medication     `gorm:"foreignKey:MedicationID" json:"medication,omitempty"`
}

type Notification struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"userId"`
	Title          string    `gorm:"size:128;not null" json:"title"`
	Message        string    `gorm:"not null" json:"message"`
	Type           string    `gorm:"size:32;not null" json:"type"`
	Read           bool      `gorm:"column:is_read;not null" json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
	RelatedOrderID *uint     `gorm:"index" json:"relatedOrderId,omitempty"`
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Store{},
		&Medication{},
		&StoreInventory{},
		&Order{},
		&OrderItem{},
		&Notification{},
	}
}
