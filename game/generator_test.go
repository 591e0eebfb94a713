package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorCardStructure(t *testing.T) {
	t.Parallel()
	gen := NewSeededGenerator(42)

	for i := 0; i < 200; i++ {
		card := gen.Card()
		require.NotEmpty(t, card.ID)

		for col := 0; col < 5; col++ {
			values := card.Column(col)
			require.Len(t, values, 5, "column %s", columnLabels[col])

			lo, hi := columnRange(col)
			seen := make(map[int]bool)
			for row, v := range values {
				if col == ColN && row == FreeRow {
					assert.Equal(t, FreeSpace, v, "free space must sit at N[2]")
					continue
				}
				assert.GreaterOrEqual(t, v, lo)
				assert.LessOrEqual(t, v, hi)
				assert.False(t, seen[v], "duplicate %d in column %s", v, columnLabels[col])
				seen[v] = true
			}
		}
	}
}

func TestGeneratorPoolUniqueIDs(t *testing.T) {
	t.Parallel()
	gen := NewSeededGenerator(7)

	for _, size := range []int{1, 10, 100, 400} {
		pool := gen.Pool(size)
		require.Len(t, pool, size)

		ids := make(map[string]bool, size)
		for _, c := range pool {
			assert.False(t, ids[c.ID], "duplicate card id %s", c.ID)
			ids[c.ID] = true
		}
	}
}

func TestGeneratorDrawSequence(t *testing.T) {
	t.Parallel()
	seq := NewSeededGenerator(1).DrawSequence()
	require.Len(t, seq, MaxNumber)

	seen := make(map[int]bool)
	for _, n := range seq {
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, MaxNumber)
		require.False(t, seen[n])
		seen[n] = true
	}
}

func TestPoolStagingPromote(t *testing.T) {
	t.Parallel()
	staging := NewPoolStaging(NewSeededGenerator(3), 20)

	first := staging.Promote()
	second := staging.Promote()
	require.Len(t, first, 20)
	require.Len(t, second, 20)

	// Consecutive pools must not share identifiers.
	ids := make(map[string]bool)
	for _, c := range first {
		ids[c.ID] = true
	}
	for _, c := range second {
		assert.False(t, ids[c.ID], "pool id %s reused across rounds", c.ID)
	}
}
