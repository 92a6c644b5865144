package intvar

import (
	"unsafe"

	"github.com/CarolineSabourin-Jean/projet-upir/internal/kernel"
)

// eqProp propagates x = y on bounds.
type eqProp struct {
	kernel.PropagatorBase

	x, y *IntVar
}

// Eq posts the constraint x = y.
func Eq(home *kernel.Space, x, y *IntVar) {
	if home.Failed() {
		return
	}
	p := &eqProp{x: x, y: y}
	home.PostPropagator(p, kernel.PriorityBinary)
	x.Subscribe(home, p, CondBnd, true)
	y.Subscribe(home, p, CondBnd, true)
}

func (p *eqProp) Propagate(home *kernel.Space) kernel.ExecStatus {
	// Clamp both variables to the intersection of their bounds. Holes in
	// a range domain can push a bound past the intersection again, so
	// iterate until a full pass changes nothing.
	for {
		xl, xh := p.x.Min(), p.x.Max()
		yl, yh := p.y.Min(), p.y.Max()
		lo, hi := xl, xh
		if yl > lo {
			lo = yl
		}
		if yh < hi {
			hi = yh
		}
		if !p.x.Gq(home, lo) || !p.x.Lq(home, hi) ||
			!p.y.Gq(home, lo) || !p.y.Lq(home, hi) {
			return kernel.ESFailed
		}
		if p.x.Min() == xl && p.x.Max() == xh &&
			p.y.Min() == yl && p.y.Max() == yh {
			break
		}
	}
	if p.x.Assigned() && p.y.Assigned() {
		return home.Subsumed(p)
	}
	return kernel.ESFix
}

func (p *eqProp) Copy(dst *kernel.Space, share bool) kernel.Actor {
	return &eqProp{x: p.x.Update(dst, share), y: p.y.Update(dst, share)}
}

func (p *eqProp) Dispose(home *kernel.Space) int {
	p.x.Cancel(home, p, CondBnd)
	p.y.Cancel(home, p, CondBnd)
	return int(unsafe.Sizeof(*p))
}

// sumProp propagates x + y = c on bounds.
type sumProp struct {
	kernel.PropagatorBase

	x, y *IntVar
	c    int
}

// Sum posts the constraint x + y = c.
func Sum(home *kernel.Space, x, y *IntVar, c int) {
	if home.Failed() {
		return
	}
	p := &sumProp{x: x, y: y, c: c}
	home.PostPropagator(p, kernel.PriorityBinary)
	x.Subscribe(home, p, CondBnd, true)
	y.Subscribe(home, p, CondBnd, true)
}

func (p *sumProp) Propagate(home *kernel.Space) kernel.ExecStatus {
	for {
		xl, xh := p.x.Min(), p.x.Max()
		yl, yh := p.y.Min(), p.y.Max()
		if !p.x.Lq(home, p.c-yl) || !p.x.Gq(home, p.c-yh) ||
			!p.y.Lq(home, p.c-xl) || !p.y.Gq(home, p.c-xh) {
			return kernel.ESFailed
		}
		if p.x.Min() == xl && p.x.Max() == xh &&
			p.y.Min() == yl && p.y.Max() == yh {
			break
		}
	}
	if p.x.Assigned() && p.y.Assigned() {
		return home.Subsumed(p)
	}
	return kernel.ESFix
}

func (p *sumProp) Copy(dst *kernel.Space, share bool) kernel.Actor {
	return &sumProp{
		x: p.x.Update(dst, share),
		y: p.y.Update(dst, share),
		c: p.c,
	}
}

func (p *sumProp) Dispose(home *kernel.Space) int {
	p.x.Cancel(home, p, CondBnd)
	p.y.Cancel(home, p, CondBnd)
	return int(unsafe.Sizeof(*p))
}

// neqProp propagates x != y + c once either side is assigned.
type neqProp struct {
	kernel.PropagatorBase

	x, y *IntVar
	c    int
}

// Neq posts the constraint x != y + c.
func Neq(home *kernel.Space, x, y *IntVar, c int) {
	if home.Failed() {
		return
	}
	p := &neqProp{x: x, y: y, c: c}
	home.PostPropagator(p, kernel.PriorityBinary)
	x.Subscribe(home, p, CondVal, true)
	y.Subscribe(home, p, CondVal, true)
}

func (p *neqProp) Propagate(home *kernel.Space) kernel.ExecStatus {
	switch {
	case p.x.Assigned():
		if !p.y.Nq(home, p.x.Val()-p.c) {
			return kernel.ESFailed
		}
		return home.Subsumed(p)
	case p.y.Assigned():
		if !p.x.Nq(home, p.y.Val()+p.c) {
			return kernel.ESFailed
		}
		return home.Subsumed(p)
	}
	return kernel.ESFix
}

func (p *neqProp) Copy(dst *kernel.Space, share bool) kernel.Actor {
	return &neqProp{
		x: p.x.Update(dst, share),
		y: p.y.Update(dst, share),
		c: p.c,
	}
}

func (p *neqProp) Dispose(home *kernel.Space) int {
	p.x.Cancel(home, p, CondVal)
	p.y.Cancel(home, p, CondVal)
	return int(unsafe.Sizeof(*p))
}
