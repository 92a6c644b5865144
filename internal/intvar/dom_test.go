package intvar

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// checkInvariants verifies the range-list representation: sorted, disjoint,
// non-adjacent, nonempty spans.
func checkInvariants(rt *rapid.T, d *domain) {
	if len(d.sp) == 0 {
		rt.Fatalf("empty span list")
	}
	for i, s := range d.sp {
		if s.lo > s.hi {
			rt.Fatalf("empty span %v", s)
		}
		if i > 0 && d.sp[i-1].hi+1 >= s.lo {
			rt.Fatalf("overlapping or adjacent spans %v %v",
				d.sp[i-1], s)
		}
	}
}

// TestDomainProperties drives random mutation sequences against a
// reference value set.
func TestDomainProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-20, 0).Draw(rt, "lo")
		hi := rapid.IntRange(1, 20).Draw(rt, "hi")
		d := newDomain(lo, hi)
		ref := make(map[int]bool)
		for v := lo; v <= hi; v++ {
			ref[v] = true
		}

		for i := 0; i < 30 && len(ref) > 1; i++ {
			v := rapid.IntRange(lo, hi).Draw(rt, "v")
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				if d.min() > v {
					continue
				}
				d.lq(v)
				for w := range ref {
					if w > v {
						delete(ref, w)
					}
				}
			case 1:
				if d.max() < v {
					continue
				}
				d.gq(v)
				for w := range ref {
					if w < v {
						delete(ref, w)
					}
				}
			case 2:
				if !d.in(v) {
					continue
				}
				d.eq(v)
				for w := range ref {
					if w != v {
						delete(ref, w)
					}
				}
			case 3:
				if !d.in(v) || d.size() == 1 {
					continue
				}
				d.nq(v)
				delete(ref, v)
			}
			checkInvariants(rt, d)
			if d.size() != len(ref) {
				rt.Fatalf("size %d, reference %d",
					d.size(), len(ref))
			}
			for w := lo; w <= hi; w++ {
				if d.in(w) != ref[w] {
					rt.Fatalf("membership of %d differs", w)
				}
			}
		}
	})
}

// TestDomainHoles verifies interior removal and bounds around holes.
func TestDomainHoles(t *testing.T) {
	t.Parallel()

	d := newDomain(0, 5)
	d.nq(2)
	d.nq(3)
	require.Equal(t, 0, d.min())
	require.Equal(t, 5, d.max())
	require.Equal(t, 4, d.size())
	require.False(t, d.in(2))
	require.False(t, d.in(3))

	// Clamping below a hole snaps the bound past it.
	d.gq(2)
	require.Equal(t, 4, d.min())
	require.Equal(t, 2, d.size())
}
