// Package suggest ranks candidate keys by similarity to a query.
package suggest

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ranker orders candidates by similarity to query and keeps the best ones
type Ranker interface {
	Rank(query string, candidates []string) []string
}

// DifflibRanker ranks by sequence-matcher ratio
type DifflibRanker struct {
	Limit  int
	Cutoff float64
}

// NewRanker creates a ranker returning at most limit candidates scoring at least cutoff
func NewRanker(limit int, cutoff float64) *DifflibRanker {
	return &DifflibRanker{Limit: limit, Cutoff: cutoff}
}

func (r *DifflibRanker) Rank(query string, candidates []string) []string {
	return CloseMatches(query, candidates, r.Limit, r.Cutoff)
}

type scored struct {
	score float64
	value string
}

// CloseMatches returns up to n possibilities whose similarity ratio to word is at
// least cutoff, best first. Equal scores order by value, descending.
func CloseMatches(word string, possibilities []string, n int, cutoff float64) []string {
	if n <= 0 || cutoff < 0 || cutoff > 1 {
		return []string{}
	}

	m := difflib.NewMatcher(nil, chars(word))
	results := make([]scored, 0)
	for _, p := range possibilities {
		m.SetSeq1(chars(p))
		if m.RealQuickRatio() >= cutoff && m.QuickRatio() >= cutoff {
			if ratio := m.Ratio(); ratio >= cutoff {
				results = append(results, scored{score: ratio, value: p})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].value > results[j].value
	})

	if len(results) > n {
		results = results[:n]
	}

	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.value
	}
	return out
}

func chars(s string) []string {
	return strings.Split(s, "")
}
