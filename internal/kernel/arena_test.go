package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestRegionAllocZeroed verifies that blocks come back zeroed and sized.
func TestRegionAllocZeroed(t *testing.T) {
	t.Parallel()

	var r Region
	b := r.Alloc(10)
	require.Len(t, b, 10)
	for i := range b {
		require.Zero(t, b[i])
		b[i] = ^uint64(0)
	}
	require.Nil(t, r.Alloc(0))
}

// TestRegionReuse verifies that a reused block satisfies the next request of
// its size class, zeroed again.
func TestRegionReuse(t *testing.T) {
	t.Parallel()

	var r Region
	b := r.Alloc(16)
	b[0] = 7
	before := r.Allocated()
	r.Reuse(b)

	c := r.Alloc(12)
	require.Equal(t, before, r.Allocated())
	require.Len(t, c, 12)
	require.Zero(t, c[0])
	// Same backing array: a 12-word request fits the 16-word class.
	require.Same(t, &b[0], &c[0])
}

// TestRegionAllocatedGrows verifies the footprint accounting.
func TestRegionAllocatedGrows(t *testing.T) {
	t.Parallel()

	var r Region
	require.Zero(t, r.Allocated())
	r.Alloc(1)
	require.Equal(t, 8*regionSlabWords, r.Allocated())

	// A fresh slab only appears once the current one is exhausted.
	for i := 0; i < regionSlabWords/2; i++ {
		r.Alloc(2)
	}
	require.GreaterOrEqual(t, r.Allocated(), 2*8*regionSlabWords)

	r.Recycle(100)
	require.Equal(t, 100, r.Recycled())
}

// TestRegionOversized verifies that blocks above the largest class bypass
// the slab and the free lists.
func TestRegionOversized(t *testing.T) {
	t.Parallel()

	var r Region
	n := 1 << regionClasses
	b := r.Alloc(n)
	require.Len(t, b, n)
	require.Equal(t, 8*n, r.Allocated())
	r.Reuse(b)

	c := r.Alloc(n)
	require.NotSame(t, &b[0], &c[0])
}

// TestRegionProperties drives random alloc/reuse sequences and checks that
// handed-out blocks never alias.
func TestRegionProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		var r Region
		live := make(map[*uint64][]uint64)
		for i := 0; i < 50; i++ {
			if len(live) > 0 && rapid.Bool().Draw(rt, "reuse") {
				for k, b := range live {
					delete(live, k)
					r.Reuse(b)
					break
				}
				continue
			}
			n := rapid.IntRange(1, 600).Draw(rt, "n")
			b := r.Alloc(n)
			if len(b) != n {
				rt.Fatalf("got %d words, want %d", len(b), n)
			}
			for j := range b {
				if b[j] != 0 {
					rt.Fatalf("block not zeroed")
				}
				b[j] = ^uint64(0)
			}
			if _, ok := live[&b[0]]; ok {
				rt.Fatalf("aliased live block")
			}
			live[&b[0]] = b
		}
	})
}
