// Package cart holds the transient, in-memory order-in-progress for a POS
// session. Carts are never persisted; a restart loses them by design.
package cart

import (
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/domain"

	"github.com/google/uuid"
)

// Line is one selected product with its quantity and the price snapshot taken
// when the product was added.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	ImageURL  string    `json:"image_url"`
	Notes     string    `json:"notes"`
}

// Cart accumulates product selections for a single session. Lines are kept in
// first-add order and keyed by product identity: adding an already-present
// product increments its quantity instead of appending a second line.
type Cart struct {
	lines []Line
	notes string
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddProduct adds one unit of the product. An existing line for the same
// product has its quantity incremented.
func (c *Cart) AddProduct(product *domain.Product) {
	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  1,
		ImageURL:  product.ImageURL,
	})
}

// SetQuantity replaces a line's quantity. A quantity of zero or less removes
// the line entirely; a zero-quantity line never survives.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.RemoveProduct(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveProduct deletes the line for the product; no-op when absent.
func (c *Cart) RemoveProduct(productID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetNotes replaces the cart-wide free-text notes.
func (c *Cart) SetNotes(notes string) {
	c.notes = notes
}

// Notes returns the cart-wide free-text notes.
func (c *Cart) Notes() string {
	return c.notes
}

// Clear empties all lines and resets notes. Called after a confirmed
// successful submission or explicitly by the user, never on failure.
func (c *Cart) Clear() {
	c.lines = nil
	c.notes = ""
}

// Lines returns a copy of the current lines in first-add order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalItems is the sum of quantities over all lines, recomputed on every
// read.
func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// TotalAmount is the cent-rounded sum of price times quantity over all lines,
// recomputed on every read.
func (c *Cart) TotalAmount() float64 {
	total := 0.0
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return domain.RoundCents(total)
}
