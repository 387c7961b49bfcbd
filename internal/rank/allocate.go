package rank

import (
	"sort"

	"github.com/bobmcallan/arkrank/internal/models"
)

// Allocate distributes integer percentages summing to exactly 100 across
// the positive-score results, in place, preserving input order. It uses the
// largest-remainder method with a safety pass so no surviving candidate is
// left at zero while another holds more than one point. Non-positive scores
// keep a zero allocation; when no score is positive nothing is touched.
func Allocate(results []models.ScoreResult) {
	positive := make([]int, 0, len(results))
	total := 0.0
	for i := range results {
		if results[i].Score > 0 {
			positive = append(positive, i)
			total += results[i].Score
		}
	}
	if total <= 0 || len(positive) == 0 {
		return
	}

	raw := make([]float64, len(positive))
	alloc := make([]int, len(positive))
	remainder := 100
	for i, idx := range positive {
		raw[i] = results[idx].Score / total * 100
		alloc[i] = int(raw[i])
		remainder -= alloc[i]
	}

	// Indexes ordered by fractional remainder, largest first.
	order := make([]int, len(raw))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		fa := raw[order[a]] - float64(int(raw[order[a]]))
		fb := raw[order[b]] - float64(int(raw[order[b]]))
		return fa > fb
	})

	if remainder > 0 {
		// Wraparound is defensive; remainder never exceeds the candidate
		// count in practice.
		for i := 0; i < remainder; i++ {
			alloc[order[i%len(order)]]++
		}
	} else if remainder < 0 {
		// Remove excess starting from the smallest fractional parts.
		for i := 0; i < -remainder; i++ {
			idx := order[len(order)-1-(i%len(order))]
			if alloc[idx] > 0 {
				alloc[idx]--
			}
		}
	}

	// No zero allocations while a donor still holds more than one point.
	for zi := range alloc {
		if alloc[zi] != 0 {
			continue
		}
		donor := 0
		for i := range alloc {
			if alloc[i] > alloc[donor] {
				donor = i
			}
		}
		if alloc[donor] > 1 {
			alloc[donor]--
			alloc[zi]++
		}
	}

	for i, idx := range positive {
		results[idx].AllocationPct = alloc[i]
	}
}
