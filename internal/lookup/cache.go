// Package lookup memoizes barcode resolutions in front of the item table.
package lookup

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
)

// ItemProvider resolves a normalized key against the item table
type ItemProvider interface {
	Lookup(key string) (domain.Item, bool)
}

// Recorder receives one event per resolved miss
type Recorder interface {
	Record(eventType domain.EventType, subjectKey, detail string)
}

// Result is a cached resolution. Found is false for an explicit NotFound.
type Result struct {
	Item  domain.Item
	Found bool
}

// Cache is a fixed-capacity LRU of key resolutions. Entries are never
// invalidated, so a catalog reload is only visible for keys not yet cached.
type Cache struct {
	entries  *lru.Cache[string, Result]
	provider ItemProvider
	recorder Recorder
	log      *zap.Logger
}

// NewCache creates a cache holding at most capacity keys
func NewCache(capacity int, provider ItemProvider, recorder Recorder, log *zap.Logger) (*Cache, error) {
	entries, err := lru.New[string, Result](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}
	return &Cache{
		entries:  entries,
		provider: provider,
		recorder: recorder,
		log:      log,
	}, nil
}

// Resolve returns the cached result for subjectKey, consulting the provider on a miss.
// A hit refreshes recency and emits nothing. A miss emits exactly one
// lookup_success or lookup_failure event; when two goroutines miss the same key
// concurrently only the one that stores the result emits.
func (c *Cache) Resolve(subjectKey string) Result {
	key := NormalizeKey(subjectKey)

	if res, ok := c.entries.Get(key); ok {
		return res
	}

	item, found := c.provider.Lookup(key)
	res := Result{Item: item, Found: found}

	if existed, _ := c.entries.ContainsOrAdd(key, res); existed {
		return res
	}

	if found {
		c.recorder.Record(domain.LookupSuccess, key, item.Name)
	} else {
		c.recorder.Record(domain.LookupFailure, key, "")
	}

	c.log.Debug("Resolved lookup cache miss",
		zap.String("subject_key", key),
		zap.Bool("found", found))

	return res
}

// Len returns the number of cached keys
func (c *Cache) Len() int {
	return c.entries.Len()
}

// NormalizeKey trims whitespace and a trailing ".0" left by spreadsheet number cells
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.TrimSuffix(key, ".0")
	return strings.TrimSpace(key)
}

// SanitizeBarcode keeps only the ASCII digits of raw
func SanitizeBarcode(raw string) string {
	return strings.Map(func(r rune) rune {
		if isDigit(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(raw))
}

// IsNumeric reports whether s is non-empty and made only of ASCII digits,
// exactly the set SanitizeBarcode keeps
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	return true
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
