package intvar

import (
	"unsafe"

	"github.com/CarolineSabourin-Jean/projet-upir/internal/kernel"
)

// posValDesc describes a two-way decision: variable at position pos equals
// val, or does not.
type posValDesc struct {
	kernel.DescBase

	pos int
	val int
}

// naiveBranch branches over the first unassigned variable, trying its
// minimum value first.
type naiveBranch struct {
	kernel.BranchingBase

	xs  []*IntVar
	cur int
}

// Branch posts a naive branching over xs: pick the first unassigned
// variable, try min then not-min.
func Branch(home *kernel.Space, xs []*IntVar) {
	if home.Failed() {
		return
	}
	home.PostBranching(&naiveBranch{xs: xs})
}

func (b *naiveBranch) Status(*kernel.Space) bool {
	for b.cur < len(b.xs) && b.xs[b.cur].Assigned() {
		b.cur++
	}
	return b.cur < len(b.xs)
}

func (b *naiveBranch) Description(*kernel.Space) kernel.BranchingDesc {
	return &posValDesc{
		DescBase: kernel.NewDescBase(b, 2),
		pos:      b.cur,
		val:      b.xs[b.cur].Min(),
	}
}

func (b *naiveBranch) Commit(home *kernel.Space, d kernel.BranchingDesc,
	alt uint) kernel.ExecStatus {

	pv := d.(*posValDesc)
	x := b.xs[pv.pos]
	if alt == 0 {
		if !x.Eq(home, pv.val) {
			return kernel.ESFailed
		}
	} else {
		if !x.Nq(home, pv.val) {
			return kernel.ESFailed
		}
	}
	return kernel.ESFix
}

func (b *naiveBranch) Copy(dst *kernel.Space, share bool) kernel.Actor {
	xs := make([]*IntVar, len(b.xs))
	for i, x := range b.xs {
		xs[i] = x.Update(dst, share)
	}
	return &naiveBranch{xs: xs, cur: b.cur}
}

func (b *naiveBranch) Dispose(*kernel.Space) int {
	return int(unsafe.Sizeof(*b))
}
