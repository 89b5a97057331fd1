package staging

import (
	"sync"

	"mediabrief/internal/domain"
)

// Cart is the in-progress deliverable list of one brief. Confirmed imports
// only ever append to it.
type Cart struct {
	mu      sync.RWMutex
	briefID string
	items   []domain.BriefItem
	ids     map[string]struct{}
}

// NewCart creates a cart seeded with the brief's existing items.
func NewCart(briefID string, existing []domain.BriefItem) *Cart {
	c := &Cart{
		briefID: briefID,
		items:   make([]domain.BriefItem, 0, len(existing)),
		ids:     make(map[string]struct{}, len(existing)),
	}
	c.append(existing)
	return c
}

// BriefID returns the brief this cart belongs to.
func (c *Cart) BriefID() string { return c.briefID }

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []domain.BriefItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.BriefItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items in the cart.
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// HasID reports whether an item with this id is already in the cart.
func (c *Cart) HasID(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.ids[id]
	return ok
}

// Append adds items to the end of the cart. Existing items are untouched.
func (c *Cart) Append(items []domain.BriefItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.append(items)
}

func (c *Cart) append(items []domain.BriefItem) {
	for _, item := range items {
		c.items = append(c.items, item)
		c.ids[item.ID] = struct{}{}
	}
}
