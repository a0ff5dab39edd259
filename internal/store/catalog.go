package store

import (
	"context"
	"fmt"
)

// Catalog is a cursor over the models of a Lister, used to step through
// them in order. Stepping wraps around at both ends.
type Catalog struct {
	items []Metadata
	pos   int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{pos: -1}
}

// Refresh reloads the listing. The cursor stays on the current model when
// it is still listed.
func (c *Catalog) Refresh(ctx context.Context, l Lister) error {
	items, err := l.List(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}

	var current ID
	if c.pos >= 0 && c.pos < len(c.items) {
		current = c.items[c.pos].ID
	}
	c.items = items
	c.pos = -1
	if current != "" {
		c.Seek(current)
	}
	return nil
}

// Len returns the number of listed models.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Current returns the model under the cursor.
func (c *Catalog) Current() (Metadata, bool) {
	if c.pos < 0 || c.pos >= len(c.items) {
		return Metadata{}, false
	}
	return c.items[c.pos], true
}

// Seek moves the cursor to id and reports whether it is listed. An unknown
// id leaves the cursor unchanged.
func (c *Catalog) Seek(id ID) bool {
	for i, m := range c.items {
		if m.ID == id {
			c.pos = i
			return true
		}
	}
	return false
}

// Next advances the cursor and returns the model under it.
func (c *Catalog) Next() (Metadata, bool) {
	return c.step(1)
}

// Prev moves the cursor back and returns the model under it.
func (c *Catalog) Prev() (Metadata, bool) {
	return c.step(-1)
}

func (c *Catalog) step(delta int) (Metadata, bool) {
	n := len(c.items)
	if n == 0 {
		return Metadata{}, false
	}
	switch {
	case c.pos < 0 && delta > 0:
		c.pos = 0
	case c.pos < 0:
		c.pos = n - 1
	default:
		c.pos = ((c.pos+delta)%n + n) % n
	}
	return c.items[c.pos], true
}
