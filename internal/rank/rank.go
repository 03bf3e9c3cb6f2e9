// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank pairs fetched records with their perplexity scores, orders
// them from most to least surprising, and renders the result.
package rank

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pdiddy/perplexity-search/pkg/types"
)

// ErrLengthMismatch is returned when records and scores cannot be paired
// position by position.
var ErrLengthMismatch = errors.New("records and scores differ in length")

// Rank pairs records[i] with scores[i] and sorts descending by score. The
// sort is stable: records with equal scores keep their input order. NaN
// scores sort after every number.
func Rank(records []types.Record, scores []float64) ([]types.ScoredRecord, error) {
	if len(records) != len(scores) {
		return nil, fmt.Errorf("%w: %d records, %d scores", ErrLengthMismatch, len(records), len(scores))
	}

	ranked := make([]types.ScoredRecord, len(records))
	for i, r := range records {
		ranked[i] = types.ScoredRecord{Record: r, Perplexity: scores[i]}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return higher(ranked[i].Perplexity, ranked[j].Perplexity)
	})
	return ranked, nil
}

func higher(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}
