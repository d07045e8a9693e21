// Package cart holds the client-side shopping cart: the lines a user picked
// across stores, before they are submitted one store at a time as an order.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"medifind/internal/dto"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrStoreNotInCart  = errors.New("cart has no items for store")
)

// Line is one medication from one store. UnitPrice is the store price seen
// when the item was added.
type Line struct {
	MedicationID uint            `json:"medicationId"`
	StoreID      uint            `json:"storeId"`
	StoreName    string          `json:"storeName"`
	Name         string          `json:"name"`
	Dosage       string          `json:"dosage,omitempty"`
	Quantity     int32           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"price"`
}

func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// Group is the part of the cart that can be checked out as one order.
type Group struct {
	StoreID   uint
	StoreName string
	Lines     []Line
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// Cart is keyed by (medication, store); lines keep insertion order. A Cart is
// not safe for concurrent use.
type Cart struct {
	lines   []*Line
	taxRate decimal.Decimal
}

// New returns an empty cart. taxRate is a fraction, 0.05 for 5%.
func New(taxRate decimal.Decimal) *Cart {
	return &Cart{taxRate: taxRate}
}

func (c *Cart) find(medicationID, storeID uint) int {
	for i, l := range c.lines {
		if l.MedicationID == medicationID && l.StoreID == storeID {
			return i
		}
	}
	return -1
}

// Add puts a line in the cart, or raises the quantity of the existing line for
// the same medication and store. The first price seen is kept.
func (c *Cart) Add(line Line) error {
	if line.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if line.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}

	if i := c.find(line.MedicationID, line.StoreID); i >= 0 {
		c.lines[i].Quantity += line.Quantity
		return nil
	}

	c.lines = append(c.lines, &line)
	return nil
}

func (c *Cart) Remove(medicationID, storeID uint) {
	if i := c.find(medicationID, storeID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// SetQuantity replaces a line's quantity; zero or less removes the line.
func (c *Cart) SetQuantity(medicationID, storeID uint, quantity int32) {
	if quantity <= 0 {
		c.Remove(medicationID, storeID)
		return
	}
	if i := c.find(medicationID, storeID); i >= 0 {
		c.lines[i].Quantity = quantity
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// ClearStore drops the lines of one store, after its order went through.
func (c *Cart) ClearStore(storeID uint) {
	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.StoreID != storeID {
			kept = append(kept, l)
		}
	}
	for i := len(kept); i < len(c.lines); i++ {
		c.lines[i] = nil
	}
	c.lines = kept
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = *l
	}
	return out
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) TotalItems() int32 {
	var n int32
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// TotalAmount is the sum of price × quantity over every line, before tax.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Amount())
	}
	return total
}

// Groups splits the cart by store, in the order stores were first added.
// Tax is rounded to cents per group.
func (c *Cart) Groups() []Group {
	var groups []Group
	index := make(map[uint]int)
	for _, l := range c.lines {
		i, ok := index[l.StoreID]
		if !ok {
			i = len(groups)
			index[l.StoreID] = i
			groups = append(groups, Group{StoreID: l.StoreID, StoreName: l.StoreName, Subtotal: decimal.Zero})
		}
		groups[i].Lines = append(groups[i].Lines, *l)
		groups[i].Subtotal = groups[i].Subtotal.Add(l.Amount())
	}

	for i := range groups {
		groups[i].Tax = groups[i].Subtotal.Mul(c.taxRate).Round(2)
		groups[i].Total = groups[i].Subtotal.Add(groups[i].Tax)
	}
	return groups
}

// OrderRequest builds the order submission for one store's lines. An order
// always belongs to a single store. The total is the pre-tax subtotal, which
// is what the server charges.
func (c *Cart) OrderRequest(storeID uint, pickupTime, notes string) (*dto.PlaceOrderRequest, error) {
	for _, g := range c.Groups() {
		if g.StoreID != storeID {
			continue
		}

		items := make([]*dto.OrderLine, len(g.Lines))
		for i, l := range g.Lines {
			items[i] = &dto.OrderLine{
				MedicationID: l.MedicationID,
				Quantity:     l.Quantity,
				Price:        l.UnitPrice,
			}
		}

		return &dto.PlaceOrderRequest{
			Order: dto.OrderDetails{
				StoreID:     storeID,
				TotalAmount: g.Subtotal,
				Status:      "pending",
				PickupTime:  pickupTime,
				Notes:       notes,
			},
			Items: items,
		}, nil
	}

	return nil, fmt.Errorf("%w %d", ErrStoreNotInCart, storeID)
}

// MarshalJSON stores the cart as a plain array of lines, the format kept in
// client storage between sessions.
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Lines())
}

// UnmarshalJSON replaces the cart content. Lines that would fail Add are
// rejected as a whole.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}

	restored := &Cart{taxRate: c.taxRate}
	for _, l := range lines {
		if err := restored.Add(l); err != nil {
			return fmt.Errorf("cart line for medication %d: %w", l.MedicationID, err)
		}
	}

	c.lines = restored.lines
	return nil
}
