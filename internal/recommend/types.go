// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package recommend

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/servicebridge/internal/models"
)

// ErrInsufficientData is returned when there is not enough market or
// history data to produce a meaningful result.
var ErrInsufficientData = errors.New("insufficient data")

// Strategy produces a partial service score map for a customer.
type Strategy interface {
	// Name returns the strategy identifier used for weighting.
	Name() string

	// Score returns service id to score in [0, 1]. Services the strategy has
	// no signal for are absent. An empty map is a valid result.
	Score(ctx context.Context, req StrategyRequest) (ScoreMap, error)
}

// StrategyRequest carries the inputs shared by all strategies.
type StrategyRequest struct {
	Customer *models.Customer
	Now      time.Time
}

// ScoreMap maps an entity id to a score. Excluded entities are removed, not
// zeroed.
type ScoreMap map[int64]float64

// Add accumulates weight*score for every entry of other.
func (m ScoreMap) Add(other ScoreMap, weight float64) {
	for id, s := range other {
		m[id] += weight * s
	}
}

// Remove deletes the given ids.
func (m ScoreMap) Remove(ids map[int64]struct{}) {
	for id := range ids {
		delete(m, id)
	}
}

// Scored is one ranked entry.
type Scored struct {
	ID    int64
	Score float64
}

// Ranked returns the entries sorted by descending score, ties broken by
// ascending id, truncated to limit when limit > 0.
func (m ScoreMap) Ranked(limit int) []Scored {
	out := make([]Scored, 0, len(m))
	for id, s := range m {
		out = append(out, Scored{ID: id, Score: s})
	}
	SortScored(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SortScored sorts by descending score, then ascending id.
func SortScored(s []Scored) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].ID < s[j].ID
	})
}

// Count is an id with an occurrence count.
type Count struct {
	ID    int64
	Count int
}

// TopCounts returns the n largest counts, ties broken by ascending id.
func TopCounts(counts map[int64]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for id, c := range counts {
		out = append(out, Count{ID: id, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// NormalizeByMax divides every count by the largest one. The maximum entry
// scores 1.0.
func NormalizeByMax(counts []Count) ScoreMap {
	scores := make(ScoreMap, len(counts))
	maxCount := 0
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}
	if maxCount == 0 {
		return scores
	}
	for _, c := range counts {
		scores[c.ID] = float64(c.Count) / float64(maxCount)
	}
	return scores
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// scorePrecision strips floating point accumulation noise from merged
// scores so that equal weight sums compare equal.
const scorePrecision = 9

// IDSet converts a slice of ids into a set.
func IDSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// SortedIDs returns the members of set in ascending order.
func SortedIDs(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
