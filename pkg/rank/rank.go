// Package rank orders scored queries and selects the closest K.
package rank

import (
	"github.com/google/btree"
	"github.com/viterin/vek"

	"github.com/orneryd/snprank/pkg/scorer"
)

// DefaultK is the number of results returned when no count is given.
const DefaultK = 20

// Less is the total order used for ranking: ascending distance, then input
// order, then identifier.
func Less(a, b scorer.ScoreRecord) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	return a.ID < b.ID
}

// Rank returns the k records of bag with the smallest distance, in Less
// order. A negative k selects DefaultK; k larger than the bag returns all of
// it. bag is not modified.
func Rank(bag []scorer.ScoreRecord, k int) []scorer.ScoreRecord {
	if k < 0 {
		k = DefaultK
	}
	if k == 0 || len(bag) == 0 {
		return []scorer.ScoreRecord{}
	}

	// Bounded ordered set: never holds more than k records, the current
	// worst candidate is always Max().
	top := btree.NewG(32, Less)
	for _, r := range bag {
		if top.Len() == k {
			worst, _ := top.Max()
			if !Less(r, worst) {
				continue
			}
			top.DeleteMax()
		}
		top.ReplaceOrInsert(r)
	}

	out := make([]scorer.ScoreRecord, 0, top.Len())
	top.Ascend(func(r scorer.ScoreRecord) bool {
		out = append(out, r)
		return true
	})
	return out
}

// IDs returns the identifiers of ranked, in order.
func IDs(ranked []scorer.ScoreRecord) []string {
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	return ids
}

// Summary describes the distance distribution of a scored bag.
type Summary struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
}

// Summarize computes distance statistics over bag. An empty bag yields a
// zero Summary.
func Summarize(bag []scorer.ScoreRecord) Summary {
	if len(bag) == 0 {
		return Summary{}
	}
	d := make([]float64, len(bag))
	for i, r := range bag {
		d[i] = float64(r.Distance)
	}
	return Summary{
		Count: len(bag),
		Min:   vek.Min(d),
		Max:   vek.Max(d),
		Mean:  vek.Mean(d),
	}
}
