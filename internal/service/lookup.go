package service

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
	"github.com/jdank417/GroceryBarcodeScanner/internal/lookup"
	"github.com/jdank417/GroceryBarcodeScanner/internal/suggest"
)

const (
	searchLimit          = 5
	detailNonNumeric     = "Non numerical value"
	detailNoMatches      = "No matches found"
	detailSeparator      = "; "
	defaultClientMessage = "No error provided"
)

// OutcomeKind says which path produced a LookupOutcome
type OutcomeKind string

const (
	OutcomeBarcode OutcomeKind = "barcode"
	OutcomeSearch  OutcomeKind = "search"
)

// LookupOutcome is the user-facing result of a scan or lookup.
// A miss is a normal outcome, not an error.
type LookupOutcome struct {
	Kind        OutcomeKind
	Query       string
	Found       bool
	Item        domain.Item
	Suggestions []domain.Item
	Matches     []domain.Item
}

// LookupService turns scans and free-text queries into item results and events
type LookupService struct {
	resolver Resolver
	items    ItemSearcher
	ranker   suggest.Ranker
	recorder EventRecorder
	log      *zap.Logger
}

// NewLookupService creates a new lookup service. ranker may be nil to disable suggestions.
func NewLookupService(resolver Resolver, items ItemSearcher, ranker suggest.Ranker, recorder EventRecorder, log *zap.Logger) *LookupService {
	return &LookupService{
		resolver: resolver,
		items:    items,
		ranker:   ranker,
		recorder: recorder,
		log:      log,
	}
}

// Scan resolves a scanned barcode. Input with no digits is recorded as
// non_numerical_value and rejected with ErrNonNumeric.
func (s *LookupService) Scan(barcode string) (*LookupOutcome, error) {
	sanitized := lookup.SanitizeBarcode(barcode)
	if sanitized == "" {
		s.recorder.Record(domain.NonNumericalValue, strings.TrimSpace(barcode), detailNonNumeric)
		s.log.Info("Rejected non numerical barcode", zap.String("input", barcode))
		return nil, ErrNonNumeric
	}
	return s.resolveBarcode(sanitized), nil
}

// Lookup treats an all-digit query as a barcode and anything else as a name search
func (s *LookupService) Lookup(query string) (*LookupOutcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if lookup.IsNumeric(query) {
		return s.Scan(query)
	}
	return s.search(query), nil
}

// ReportClientError records a barcode_scan_failure reported by the browser
func (s *LookupService) ReportClientError(message, details, sku string) {
	if message == "" {
		message = defaultClientMessage
	}
	s.recorder.Record(domain.BarcodeScanFailure, sku, details)
	s.log.Error("Client error",
		zap.String("error", message),
		zap.String("details", details),
		zap.String("sku", sku))
}

func (s *LookupService) resolveBarcode(key string) *LookupOutcome {
	res := s.resolver.Resolve(key)
	outcome := &LookupOutcome{
		Kind:  OutcomeBarcode,
		Query: key,
		Found: res.Found,
		Item:  res.Item,
	}
	if !res.Found {
		outcome.Suggestions = s.suggest(key)
	}
	return outcome
}

func (s *LookupService) suggest(key string) []domain.Item {
	suggestions := make([]domain.Item, 0)
	if s.ranker == nil {
		return suggestions
	}
	for _, candidate := range s.ranker.Rank(key, s.items.Keys()) {
		if item, ok := s.items.Lookup(candidate); ok {
			suggestions = append(suggestions, item)
		}
	}
	return suggestions
}

func (s *LookupService) search(query string) *LookupOutcome {
	matches := s.items.SearchByName(query, searchLimit)
	outcome := &LookupOutcome{
		Kind:    OutcomeSearch,
		Query:   query,
		Found:   len(matches) > 0,
		Matches: matches,
	}

	if !outcome.Found {
		s.recorder.Record(domain.SearchProductFailure, query, detailNoMatches)
		return outcome
	}

	lines := make([]string, len(matches))
	for i, item := range matches {
		lines[i] = DescribeItem(item)
	}
	s.recorder.Record(domain.SearchProductSuccess, query, strings.Join(lines, detailSeparator))
	return outcome
}

// DescribeItem renders an item as "<name> (UPC: <key>) - Price: $<price>"
func DescribeItem(item domain.Item) string {
	return fmt.Sprintf("%s (UPC: %s) - Price: $%s", item.Name, item.Key, FormatPrice(item.Price))
}

// FormatPrice prints the shortest exact decimal, keeping one fractional digit for whole prices
func FormatPrice(price float64) string {
	s := strconv.FormatFloat(price, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
