// Package cart holds the shopping cart as an immutable value. Every mutation
// returns a new Cart and leaves the receiver untouched, so a cart can be
// loaded, reduced and stored without any shared state.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Product is the catalog data a line item is created from.
type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	ImageURL string
}

// Key identifies a line item. Empty Color or Finish means no variant was selected.
type Key struct {
	ProductID int64  `json:"product_id"`
	Color     string `json:"color,omitempty"`
	Finish    string `json:"finish,omitempty"`
}

type LineItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
	Color     string          `json:"color,omitempty"`
	Finish    string          `json:"finish,omitempty"`
}

func (l LineItem) Key() Key {
	return Key{ProductID: l.ProductID, Color: l.Color, Finish: l.Finish}
}

func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	Items []LineItem `json:"items"`
}

func (c Cart) index(key Key) int {
	return slices.IndexFunc(c.Items, func(l LineItem) bool { return l.Key() == key })
}

// Add increments the matching line or appends a new one with quantity 1.
func (c Cart) Add(p Product, color, finish string) Cart {
	key := Key{ProductID: p.ID, Color: color, Finish: finish}
	items := slices.Clone(c.Items)

	if i := c.index(key); i >= 0 {
		items[i].Quantity++
		return Cart{Items: items}
	}

	return Cart{Items: append(items, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  1,
		Color:     color,
		Finish:    finish,
	})}
}

// Remove drops the exact matching line. Missing keys are a no-op.
func (c Cart) Remove(key Key) Cart {
	items := slices.DeleteFunc(slices.Clone(c.Items), func(l LineItem) bool { return l.Key() == key })

	return Cart{Items: items}
}

// UpdateQuantity sets the quantity of a line; n <= 0 removes it.
func (c Cart) UpdateQuantity(key Key, n int) Cart {
	if n <= 0 {
		return c.Remove(key)
	}

	i := c.index(key)
	if i < 0 {
		return Cart{Items: slices.Clone(c.Items)}
	}

	items := slices.Clone(c.Items)
	items[i].Quantity = n

	return Cart{Items: items}
}

func (c Cart) Clear() Cart {
	return Cart{Items: []LineItem{}}
}

func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}

	return total
}

// ItemCount is the number of units across all lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}

	return count
}

func (c Cart) Quantity(key Key) int {
	if i := c.index(key); i >= 0 {
		return c.Items[i].Quantity
	}

	return 0
}

func (c Cart) Find(key Key) (LineItem, bool) {
	if i := c.index(key); i >= 0 {
		return c.Items[i], true
	}

	return LineItem{}, false
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
