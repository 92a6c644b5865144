package extensional

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/CarolineSabourin-Jean/projet-upir/internal/intvar"
	"github.com/CarolineSabourin-Jean/projet-upir/internal/kernel"
)

// ErrTableTooLarge indicates a tuple set beyond the fifteen support words a
// SmallBitSet can track.
var ErrTableTooLarge = errors.New("tuple set above bit-set capacity")

// supportTable is the static support data of a table constraint: per
// variable and value, the dense word mask of tuples containing that value.
// Immutable once built; shared across clones through a kernel.Shared handle.
type supportTable struct {
	// words is the number of 64-bit words covering the tuple set.
	words int

	// min holds, per variable, the smallest value with a support row.
	min []int

	// sup holds, per variable and value offset, the tuple mask.
	sup [][][]uint64
}

// row returns the support mask of value v for variable i, or nil when v has
// no supporting tuple at all.
func (t *supportTable) row(i, v int) []uint64 {
	off := v - t.min[i]
	if off < 0 || off >= len(t.sup[i]) {
		return nil
	}
	return t.sup[i][off]
}

// tableProp is a compact positive table propagator: the set of still-valid
// tuples lives in a SmallBitSet, and values whose supports no longer
// intersect it are pruned.
type tableProp struct {
	kernel.PropagatorBase

	xs  []*intvar.IntVar
	sup *kernel.Shared[*supportTable]
	cur SmallBitSet
}

// Table posts the constraint that xs takes one of the given tuples. The
// tuple set is limited to fifteen support words (960 tuples).
func Table(home *kernel.Space, xs []*intvar.IntVar, tuples [][]int) error {
	if home.Failed() {
		return nil
	}
	if len(xs) == 0 {
		return errors.New("table over no variables")
	}
	words := (len(tuples) + 63) / 64
	if words > 15 {
		return fmt.Errorf("%d tuples need %d words: %w",
			len(tuples), words, ErrTableTooLarge)
	}
	st := &supportTable{
		words: words,
		min:   make([]int, len(xs)),
		sup:   make([][][]uint64, len(xs)),
	}
	for i, x := range xs {
		st.min[i] = x.Min()
		st.sup[i] = make([][]uint64, x.Max()-x.Min()+1)
	}
	for j, t := range tuples {
		if len(t) != len(xs) {
			return fmt.Errorf("tuple %d has arity %d, want %d",
				j, len(t), len(xs))
		}
		for i, v := range t {
			off := v - st.min[i]
			if off < 0 || off >= len(st.sup[i]) {
				// Value outside the variable's range: the
				// tuple can never hold and gets no support.
				continue
			}
			if st.sup[i][off] == nil {
				st.sup[i][off] = make([]uint64, words)
			}
			st.sup[i][off][j/64] |= 1 << (j % 64)
		}
	}
	p := &tableProp{
		xs:  xs,
		sup: kernel.NewShared(st),
		cur: NewSmallBitSet(home.Region(), words, words),
	}
	home.PostPropagator(p, kernel.PriorityQuadratic)
	for _, x := range xs {
		x.Subscribe(home, p, intvar.CondDom, true)
	}
	return nil
}

func (p *tableProp) Propagate(home *kernel.Space) kernel.ExecStatus {
	st := p.sup.Data
	r := home.Region()
	mask := r.Alloc(st.words)
	defer r.Reuse(mask)

	// Narrow the valid tuples to those supported by every variable's
	// remaining values.
	for i, x := range p.xs {
		if p.cur.Empty() {
			return kernel.ESFailed
		}
		p.cur.ClearMask(mask)
		for v := range x.Values() {
			if row := st.row(i, v); row != nil {
				p.cur.AddToMask(row, mask)
			}
		}
		p.cur.IntersectWithMask(mask, false)
	}
	if p.cur.Empty() {
		return kernel.ESFailed
	}

	// Prune values whose supports left the valid set.
	for i, x := range p.xs {
		var prune []int
		for v := range x.Values() {
			row := st.row(i, v)
			if row == nil || !p.cur.Intersects(row) {
				prune = append(prune, v)
			}
		}
		for _, v := range prune {
			if !x.Nq(home, v) {
				return kernel.ESFailed
			}
		}
	}

	for _, x := range p.xs {
		if !x.Assigned() {
			return kernel.ESFix
		}
	}
	return home.Subsumed(p)
}

func (p *tableProp) Copy(dst *kernel.Space, share bool) kernel.Actor {
	xs := make([]*intvar.IntVar, len(p.xs))
	for i, x := range p.xs {
		xs[i] = x.Update(dst, share)
	}
	return &tableProp{
		xs:  xs,
		sup: p.sup.Update(dst, share, copySupports),
		cur: p.cur.CopyInto(dst.Region()),
	}
}

// copySupports duplicates the support table for an unshared clone.
func copySupports(t *supportTable) *supportTable {
	nt := &supportTable{
		words: t.words,
		min:   append([]int(nil), t.min...),
		sup:   make([][][]uint64, len(t.sup)),
	}
	for i, rows := range t.sup {
		nt.sup[i] = make([][]uint64, len(rows))
		for off, row := range rows {
			if row != nil {
				nt.sup[i][off] = append([]uint64(nil), row...)
			}
		}
	}
	return nt
}

func (p *tableProp) Dispose(home *kernel.Space) int {
	for _, x := range p.xs {
		x.Cancel(home, p, intvar.CondDom)
	}
	home.Region().Reuse(p.cur.bits)
	return int(unsafe.Sizeof(*p))
}
