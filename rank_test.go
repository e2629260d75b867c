package asrank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTransitDegreesCountsTransitNeighbors(t *testing.T) {
	d := NewData()
	require.True(t, IngestPath(d, []AS{1, 2, 3}, nil, nil))
	ComputeTransitDegrees(d)
	// AS 2 transits traffic toward both 1 and 3.
	assert.Equal(t, 2, d.Get(2).TransitDegree)
	assert.Equal(t, 0, d.Get(1).TransitDegree)
	assert.Equal(t, 0, d.Get(3).TransitDegree)
}

func TestComputeRanksOrdersCliqueFirst(t *testing.T) {
	d := NewData()
	d.Ensure(5)
	d.Ensure(1)
	d.Get(5).InClique = true

	byRank := ComputeRanks(d)
	assert.Equal(t, AS(5), byRank[0])
	assert.Equal(t, 1, d.Get(5).Rank)
}

func TestComputeRanksOrdersByTransitDegreeThenNeighborCountThenASNumber(t *testing.T) {
	d := NewData()
	require.True(t, IngestPath(d, []AS{1, 2, 3}, nil, nil))
	require.True(t, IngestPath(d, []AS{4, 2, 5}, nil, nil))
	require.True(t, IngestPath(d, []AS{5, 6}, nil, nil))
	ComputeTransitDegrees(d)
	byRank := ComputeRanks(d)

	// AS 2 has the highest transit degree (4), so it ranks first.
	assert.Equal(t, AS(2), byRank[0])
	// The rest have transit degree 0: AS 5 has two neighbors, the others
	// one each, which are then ordered by AS number.
	assert.Equal(t, []AS{2, 5, 1, 3, 4, 6}, byRank)
}

func TestComputeRanksIsAPermutationWithUniqueRanks(t *testing.T) {
	d := NewData()
	for _, as := range []AS{7, 3, 9, 1, 5} {
		d.Ensure(as)
	}
	byRank := ComputeRanks(d)
	assert.Len(t, byRank, 5)

	seen := make(map[int]bool)
	for _, as := range byRank {
		r := d.Get(as).Rank
		assert.False(t, seen[r], "rank %d assigned twice", r)
		seen[r] = true
	}
}
