package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CarolineSabourin-Jean/projet-upir/internal/intvar"
	"github.com/CarolineSabourin-Jean/projet-upir/internal/kernel"
)

// queensModel holds the column variables of an n-queens instance.
type queensModel struct {
	xs []*intvar.IntVar
}

func (m *queensModel) Copy(dst *kernel.Space, share bool) kernel.Model {
	xs := make([]*intvar.IntVar, len(m.xs))
	for i, x := range m.xs {
		xs[i] = x.Update(dst, share)
	}
	return &queensModel{xs: xs}
}

// queens builds an n-queens Space: one variable per row, disequalities on
// columns and both diagonals.
func queens(n int) *kernel.Space {
	s := kernel.NewSpace()
	xs := make([]*intvar.IntVar, n)
	for i := range xs {
		xs[i] = intvar.New(s, 0, n-1)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			intvar.Neq(s, xs[i], xs[j], 0)
			intvar.Neq(s, xs[i], xs[j], j-i)
			intvar.Neq(s, xs[i], xs[j], i-j)
		}
	}
	intvar.Branch(s, xs)
	s.SetModel(&queensModel{xs: xs})
	return s
}

// TestFirstFindsValidSolution verifies that the first solution of 6-queens
// satisfies all constraints.
func TestFirstFindsValidSolution(t *testing.T) {
	t.Parallel()

	var stats kernel.Statistics
	sol, err := First(queens(6), &stats)
	require.NoError(t, err)
	require.NotNil(t, sol)
	require.Positive(t, stats.Propagations)

	xs := sol.Model().(*queensModel).xs
	for i := range xs {
		require.True(t, xs[i].Assigned())
		for j := i + 1; j < len(xs); j++ {
			require.NotEqual(t, xs[i].Val(), xs[j].Val())
			require.NotEqual(t, xs[i].Val()-xs[j].Val(), j-i)
			require.NotEqual(t, xs[i].Val()-xs[j].Val(), i-j)
		}
	}
}

// TestCountSolutions verifies the known solution counts of small boards.
func TestCountSolutions(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		n, solutions int
	}{
		{n: 3, solutions: 0},
		{n: 4, solutions: 2},
		{n: 5, solutions: 10},
		{n: 6, solutions: 4},
	} {
		var stats kernel.Statistics
		got, err := Count(queens(tc.n), &stats)
		require.NoError(t, err)
		require.Equal(t, tc.solutions, got, "n=%d", tc.n)
	}
}

// TestFirstOnFailedModel verifies that an unsatisfiable root yields no
// solution and no error.
func TestFirstOnFailedModel(t *testing.T) {
	t.Parallel()

	sol, err := First(queens(3), nil)
	require.NoError(t, err)
	require.Nil(t, sol)
}

// TestParMatchesSequential verifies that the parallel driver finds the same
// number of solutions as the sequential one.
func TestParMatchesSequential(t *testing.T) {
	t.Parallel()

	want, err := Count(queens(6), nil)
	require.NoError(t, err)

	got, err := Par(queens(6), 4)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
