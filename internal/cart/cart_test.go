package cart_test

import (
	"testing"

	"medifind/internal/cart"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func paracetamol(storeID uint, qty int32) cart.Line {
	return cart.Line{MedicationID: 1, StoreID: storeID, StoreName: storeName(storeID), Name: "Paracetamol", Quantity: qty, UnitPrice: dec("5.99")}
}

func amoxicillin(storeID uint, qty int32) cart.Line {
	return cart.Line{MedicationID: 2, StoreID: storeID, StoreName: storeName(storeID), Name: "Amoxicillin", Quantity: qty, UnitPrice: dec("12.99")}
}

func storeName(id uint) string {
	return map[uint]string{1: "MediCare Pharmacy", 2: "City Pharmacy"}[id]
}

func TestAddMergesSameStoreAndMedication(t *testing.T) {
	c := cart.New(decimal.Zero)
	require.NoError(t, c.Add(paracetamol(1, 2)))
	require.NoError(t, c.Add(paracetamol(1, 3)))
	require.NoError(t, c.Add(paracetamol(2, 1)))

	lines := c.Lines()
	require.Len(t, lines, 2, "same medication at another store is a separate line")
	assert.Equal(t, int32(5), lines[0].Quantity)
	assert.Equal(t, int32(6), c.TotalItems())
}

func TestAddRejectsBadLines(t *testing.T) {
	c := cart.New(decimal.Zero)

	assert.ErrorIs(t, c.Add(paracetamol(1, 0)), cart.ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(paracetamol(1, -1)), cart.ErrInvalidQuantity)

	negative := paracetamol(1, 1)
	negative.UnitPrice = dec("-1")
	assert.ErrorIs(t, c.Add(negative), cart.ErrInvalidPrice)
	assert.True(t, c.Empty())
}

func TestSetQuantityAndRemove(t *testing.T) {
	c := cart.New(decimal.Zero)
	require.NoError(t, c.Add(paracetamol(1, 2)))
	require.NoError(t, c.Add(amoxicillin(1, 1)))

	c.SetQuantity(1, 1, 4)
	assert.Equal(t, int32(5), c.TotalItems())

	c.SetQuantity(2, 1, 0)
	require.Len(t, c.Lines(), 1)

	c.SetQuantity(9, 1, 3)
	assert.Equal(t, int32(4), c.TotalItems(), "unknown line is ignored")

	c.Remove(1, 1)
	assert.True(t, c.Empty())
}

func TestGroupsAndTax(t *testing.T) {
	c := cart.New(dec("0.05"))
	require.NoError(t, c.Add(paracetamol(1, 2)))
	require.NoError(t, c.Add(amoxicillin(2, 1)))
	require.NoError(t, c.Add(amoxicillin(1, 1)))

	groups := c.Groups()
	require.Len(t, groups, 2)

	first := groups[0]
	assert.Equal(t, uint(1), first.StoreID)
	assert.Equal(t, "MediCare Pharmacy", first.StoreName)
	assert.Len(t, first.Lines, 2)
	assert.True(t, first.Subtotal.Equal(dec("24.97")), "subtotal %s", first.Subtotal)
	assert.True(t, first.Tax.Equal(dec("1.25")), "tax %s", first.Tax)
	assert.True(t, first.Total.Equal(dec("26.22")), "total %s", first.Total)

	assert.True(t, c.TotalAmount().Equal(dec("37.96")))
}

func TestOrderRequestForOneStore(t *testing.T) {
	c := cart.New(dec("0.05"))
	require.NoError(t, c.Add(paracetamol(1, 2)))
	require.NoError(t, c.Add(amoxicillin(2, 1)))

	req, err := c.OrderRequest(1, "Today 5pm", "ring the bell")
	require.NoError(t, err)
	assert.Equal(t, uint(1), req.Order.StoreID)
	assert.Equal(t, "pending", req.Order.Status)
	assert.Equal(t, "Today 5pm", req.Order.PickupTime)
	assert.True(t, req.Order.TotalAmount.Equal(dec("11.98")), "tax is not charged")
	require.Len(t, req.Items, 1)
	assert.Equal(t, uint(1), req.Items[0].MedicationID)
	assert.Equal(t, int32(2), req.Items[0].Quantity)

	_, err = c.OrderRequest(3, "", "")
	assert.ErrorIs(t, err, cart.ErrStoreNotInCart)

	c.ClearStore(1)
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, uint(2), lines[0].StoreID)

	c.Clear()
	assert.True(t, c.Empty())
}

func TestJSONRoundTripKeepsLines(t *testing.T) {
	c := cart.New(decimal.Zero)
	require.NoError(t, c.Add(paracetamol(1, 2)))
	require.NoError(t, c.Add(amoxicillin(2, 1)))

	data, err := c.MarshalJSON()
	require.NoError(t, err)

	restored := cart.New(decimal.Zero)
	require.NoError(t, restored.UnmarshalJSON(data))
	assert.Equal(t, c.TotalItems(), restored.TotalItems())
	assert.True(t, c.TotalAmount().Equal(restored.TotalAmount()))

	err = restored.UnmarshalJSON([]byte(`[{"medicationId":1,"storeId":1,"quantity":0,"price":"1"}]`))
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	assert.Equal(t, int32(3), restored.TotalItems(), "failed load leaves the cart unchanged")
}

func TestCartTotalsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genLine := gopter.CombineGens(
		gen.UIntRange(1, 5),
		gen.UIntRange(1, 3),
		gen.Int32Range(1, 20),
		gen.Int64Range(0, 10000),
	).Map(func(v []interface{}) cart.Line {
		return cart.Line{
			MedicationID: v[0].(uint),
			StoreID:      v[1].(uint),
			Quantity:     v[2].(int32),
			UnitPrice:    decimal.New(v[3].(int64), -2),
		}
	})

	properties.Property("store subtotals add up to the cart total", prop.ForAll(
		func(lines []cart.Line) bool {
			c := cart.New(decimal.Zero)
			for _, l := range lines {
				if err := c.Add(l); err != nil {
					return false
				}
			}

			sum := decimal.Zero
			var items int32
			for _, g := range c.Groups() {
				sum = sum.Add(g.Subtotal)
				for _, l := range g.Lines {
					items += l.Quantity
				}
			}
			return sum.Equal(c.TotalAmount()) && items == c.TotalItems()
		},
		gen.SliceOf(genLine),
	))

	properties.Property("order request total matches its lines", prop.ForAll(
		func(lines []cart.Line) bool {
			c := cart.New(dec("0.08"))
			for _, l := range lines {
				if err := c.Add(l); err != nil {
					return false
				}
			}

			for _, g := range c.Groups() {
				req, err := c.OrderRequest(g.StoreID, "", "")
				if err != nil {
					return false
				}
				sum := decimal.Zero
				for _, item := range req.Items {
					sum = sum.Add(item.Price.Mul(decimal.NewFromInt32(item.Quantity)))
				}
				if !sum.Equal(req.Order.TotalAmount) || !g.Total.Equal(g.Subtotal.Add(g.Tax)) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genLine),
	))

	properties.Property("merging keeps one line per medication and store", prop.ForAll(
		func(lines []cart.Line) bool {
			c := cart.New(decimal.Zero)
			want := make(map[[2]uint]int32)
			for _, l := range lines {
				if err := c.Add(l); err != nil {
					return false
				}
				want[[2]uint{l.MedicationID, l.StoreID}] += l.Quantity
			}

			got := c.Lines()
			if len(got) != len(want) {
				return false
			}
			for _, l := range got {
				if want[[2]uint{l.MedicationID, l.StoreID}] != l.Quantity {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genLine),
	))

	properties.TestingRun(t)
}
