package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/CarolineSabourin-Jean/projet-upir/internal/intvar"
	"github.com/CarolineSabourin-Jean/projet-upir/internal/kernel"
	"github.com/CarolineSabourin-Jean/projet-upir/internal/search"
)

var (
	// queensN is the board size.
	queensN int

	// queensCount switches from first-solution to solution counting.
	queensCount bool

	// queensWorkers is the parallel worker count for counting.
	queensWorkers int
)

// queensModel holds the column variable of each row.
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

// newQueens builds the n-queens Space: pairwise disequalities on columns
// and both diagonals, with naive branching over the rows.
func newQueens(n int) *kernel.Space {
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

// queensCmd solves n-queens.
var queensCmd = &cobra.Command{
	Use:   "queens",
	Short: "Solve the n-queens placement problem",
	RunE: func(cmd *cobra.Command, _ []string) error {
		root := newQueens(queensN)

		if queensCount {
			n, err := search.Par(root, queensWorkers)
			if err != nil {
				return err
			}
			cmd.Printf("%d solutions for %d queens\n",
				n, queensN)
			return nil
		}

		var stats kernel.Statistics
		sol, err := search.First(root, &stats)
		if err != nil {
			return err
		}
		if sol == nil {
			cmd.Printf("no solution for %d queens\n", queensN)
			return nil
		}
		cmd.Print(renderBoard(sol.Model().(*queensModel)))
		cmd.Printf("%d propagator executions\n", stats.Propagations)
		return nil
	},
}

// renderBoard draws the placement, one row per line.
func renderBoard(m *queensModel) string {
	var sb strings.Builder
	n := len(m.xs)
	for _, x := range m.xs {
		col := x.Val()
		for c := 0; c < n; c++ {
			if c == col {
				sb.WriteString("Q ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func init() {
	queensCmd.Flags().IntVar(
		&queensN, "n", 8,
		"Board size",
	)
	queensCmd.Flags().BoolVar(
		&queensCount, "count", false,
		"Count all solutions instead of printing the first",
	)
	queensCmd.Flags().IntVar(
		&queensWorkers, "workers", 4,
		"Worker goroutines used with --count",
	)
}
