// Package catalog loads the product table and keeps it fresh.
package catalog

import (
	"strings"
	"sync/atomic"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
	"github.com/jdank417/GroceryBarcodeScanner/internal/lookup"
)

// Catalog is an immutable snapshot of the item table in file order
type Catalog struct {
	items []domain.Item
	byKey map[string]int
}

// New builds a catalog, normalizing every item key. The first row wins on duplicate keys.
func New(items []domain.Item) *Catalog {
	c := &Catalog{
		items: make([]domain.Item, 0, len(items)),
		byKey: make(map[string]int, len(items)),
	}
	for _, item := range items {
		item.Key = lookup.NormalizeKey(item.Key)
		if item.Key == "" {
			continue
		}
		if _, dup := c.byKey[item.Key]; !dup {
			c.byKey[item.Key] = len(c.items)
		}
		c.items = append(c.items, item)
	}
	return c
}

// Lookup finds an item by exact normalized key
func (c *Catalog) Lookup(key string) (domain.Item, bool) {
	i, ok := c.byKey[lookup.NormalizeKey(key)]
	if !ok {
		return domain.Item{}, false
	}
	return c.items[i], true
}

// SearchByName returns up to limit items whose name contains substr, ignoring case
func (c *Catalog) SearchByName(substr string, limit int) []domain.Item {
	needle := strings.ToLower(strings.TrimSpace(substr))
	matches := make([]domain.Item, 0)
	if needle == "" {
		return matches
	}
	for _, item := range c.items {
		if limit > 0 && len(matches) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(item.Name), needle) {
			matches = append(matches, item)
		}
	}
	return matches
}

// Keys returns every item key in file order
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.items))
	for i, item := range c.items {
		keys[i] = item.Key
	}
	return keys
}

// Len returns the number of rows
func (c *Catalog) Len() int {
	return len(c.items)
}

// Store holds the current catalog and swaps it atomically on reload
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store serving c. A nil catalog serves an empty table.
func NewStore(c *Catalog) *Store {
	if c == nil {
		c = New(nil)
	}
	s := &Store{}
	s.current.Store(c)
	return s
}

// Current returns the catalog in use
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Replace swaps in a new catalog
func (s *Store) Replace(c *Catalog) {
	s.current.Store(c)
}

func (s *Store) Lookup(key string) (domain.Item, bool) {
	return s.Current().Lookup(key)
}

func (s *Store) SearchByName(substr string, limit int) []domain.Item {
	return s.Current().SearchByName(substr, limit)
}

func (s *Store) Keys() []string {
	return s.Current().Keys()
}
