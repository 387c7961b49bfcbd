package rank

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/arkrank/internal/models"
)

func results(scores ...float64) []models.ScoreResult {
	out := make([]models.ScoreResult, len(scores))
	for i, s := range scores {
		out[i] = models.ScoreResult{Symbol: string(rune('A' + i)), Score: s}
	}
	return out
}

func allocationSum(rs []models.ScoreResult) int {
	total := 0
	for _, r := range rs {
		total += r.AllocationPct
	}
	return total
}

func TestAllocateSumsToExactly100(t *testing.T) {
	rs := results(0.9, 0.85, 0.85)
	Allocate(rs)

	// Raw shares 34.6/32.7/32.7 floor to 98; the two largest fractional
	// remainders each gain a point.
	assert.Equal(t, []int{34, 33, 33}, []int{rs[0].AllocationPct, rs[1].AllocationPct, rs[2].AllocationPct})
	assert.Equal(t, 100, allocationSum(rs))
}

func TestAllocateSingleCandidate(t *testing.T) {
	rs := results(55.0)
	Allocate(rs)
	assert.Equal(t, 100, rs[0].AllocationPct)
}

func TestAllocateZeroTotalIsNoOp(t *testing.T) {
	rs := results(0, 0, 0)
	Allocate(rs)
	for _, r := range rs {
		assert.Equal(t, 0, r.AllocationPct)
	}
}

func TestAllocateSkipsNonPositiveScores(t *testing.T) {
	rs := results(80, 0, 20)
	Allocate(rs)

	assert.Equal(t, 80, rs[0].AllocationPct)
	assert.Equal(t, 0, rs[1].AllocationPct)
	assert.Equal(t, 20, rs[2].AllocationPct)
}

func TestAllocateNoZeroWhenDonorCanGive(t *testing.T) {
	// A tiny score floors to 0; the safety pass steals a point from the
	// largest holder.
	rs := results(99.0, 0.4)
	Allocate(rs)

	assert.Equal(t, 100, allocationSum(rs))
	assert.Greater(t, rs[1].AllocationPct, 0)
}

func TestAllocatePreservesInputOrder(t *testing.T) {
	rs := results(0.2, 0.9, 0.5)
	Allocate(rs)

	assert.Equal(t, "A", rs[0].Symbol)
	assert.Equal(t, "B", rs[1].Symbol)
	assert.Equal(t, "C", rs[2].Symbol)
	assert.Equal(t, 100, allocationSum(rs))
	assert.Greater(t, rs[1].AllocationPct, rs[2].AllocationPct)
}

func TestAllocatePropertySum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(10)
		scores := make([]float64, n)
		for i := range scores {
			scores[i] = rng.Float64()*99 + 1
		}
		rs := results(scores...)
		Allocate(rs)

		require.Equal(t, 100, allocationSum(rs), "trial %d scores %v", trial, scores)
		for _, r := range rs {
			require.GreaterOrEqual(t, r.AllocationPct, 0)
			if n <= 100 {
				require.Greater(t, r.AllocationPct, 0, "no survivor should sit at zero")
			}
		}
	}
}
