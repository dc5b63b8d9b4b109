// Package cart holds the client-side order-in-progress: line items with
// their customization sets and computed totals. Identity of an item is a
// client-generated id, distinct from the product id, because the same
// product can appear multiple times with different customizations.
package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrItemNotFound = errors.New("cart item not found")

// Option is a chosen customization option with its price delta snapshotted
// at the time it was added.
type Option struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// Customizations is the typed view of an item's modifier set. Store-specific
// options that don't fit the known fields go in Extra; they survive
// round-trips but never affect pricing.
type Customizations struct {
	Temperature string            `json:"temperature,omitempty"`
	SugarLevel  string            `json:"sugar_level,omitempty"`
	MilkType    string            `json:"milk_type,omitempty"`
	Toppings    []string          `json:"toppings,omitempty"`
	Extras      []string          `json:"extras,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Item is one cart line.
type Item struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	BasePrice      decimal.Decimal `json:"base_price"`
	Options        []Option        `json:"options,omitempty"`
	Customizations Customizations  `json:"customizations"`
	Quantity       int32           `json:"quantity"`
	Total          decimal.Decimal `json:"total"`
}

// NewItem builds an item with a fresh client id and a computed total.
func NewItem(productID, productName string, basePrice decimal.Decimal, options []Option, c Customizations, quantity int32) Item {
	item := Item{
		ID:             uuid.NewString(),
		ProductID:      productID,
		ProductName:    productName,
		BasePrice:      basePrice,
		Options:        options,
		Customizations: c,
		Quantity:       quantity,
	}
	item.Recalculate()
	return item
}

// Recalculate restores the pricing invariant:
// total = (base price + sum of option deltas) * quantity.
func (i *Item) Recalculate() {
	unit := i.BasePrice
	for _, opt := range i.Options {
		unit = unit.Add(opt.PriceDelta)
	}
	i.Total = unit.Mul(decimal.NewFromInt32(i.Quantity))
}

// Cart is an ordered sequence of items, unique by item id.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Restore builds a cart from previously persisted items. Duplicate ids keep
// the last occurrence, matching Add semantics.
func Restore(items []Item) *Cart {
	c := New()
	for _, item := range items {
		c.Add(item)
	}
	return c
}

// Items returns a copy of the cart lines in order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Add inserts the item. If an entry with the same id already exists it is
// replaced in place rather than duplicated; callers use the id as a slot key
// when re-adding an edited line.
func (c *Cart) Add(item Item) {
	item.Recalculate()
	for idx, existing := range c.items {
		if existing.ID == item.ID {
			c.items[idx] = item
			return
		}
	}
	c.items = append(c.items, item)
}

// Update replaces the entry with the given id in place, preserving its
// position. A missing id leaves the cart unchanged and returns
// ErrItemNotFound; it never inserts.
func (c *Cart) Update(id string, item Item) error {
	for idx, existing := range c.items {
		if existing.ID == id {
			item.ID = id
			item.Recalculate()
			c.items[idx] = item
			return nil
		}
	}
	return ErrItemNotFound
}

// Remove deletes the entry with the given id; no-op if absent.
func (c *Cart) Remove(id string) {
	for idx, existing := range c.items {
		if existing.ID == id {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			return
		}
	}
}

// Clear empties the cart. Used after a successful order submission.
func (c *Cart) Clear() {
	c.items = nil
}

// Subtotal sums the line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.items {
		sum = sum.Add(item.Total)
	}
	return sum
}
