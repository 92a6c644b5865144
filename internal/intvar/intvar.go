// Package intvar provides the integer variable implementation for the
// constraint kernel, together with a handful of basic propagators and a
// naive branching. Domains are kept as range lists; modification events
// distinguish assignment, bounds changes, and interior removals.
package intvar

import (
	"iter"

	"github.com/CarolineSabourin-Jean/projet-upir/internal/kernel"
)

// Kind is the registered variable kind of integer variables. Range lists
// hold no external resources, so no disposer is needed.
var Kind = kernel.RegisterVarKind(nil)

// Propagation conditions for integer variables, expressed as the event
// masks a subscription cares about.
const (
	// CondVal triggers only once the variable is assigned.
	CondVal = kernel.MeAssigned

	// CondBnd triggers on bounds changes and assignment.
	CondBnd = kernel.MeAssigned | kernel.MeBounds

	// CondDom triggers on any domain change.
	CondDom = kernel.MeAssigned | kernel.MeBounds | kernel.MeDomain
)

// IntVar is a finite-domain integer variable.
type IntVar struct {
	kernel.VarBase

	dom domain
}

// New creates a variable with domain [lo, hi] on s.
func New(s *kernel.Space, lo, hi int) *IntVar {
	if lo > hi {
		panic("intvar: empty initial domain")
	}
	return &IntVar{dom: newDomain(lo, hi)}
}

// Min returns the smallest value in the domain.
func (x *IntVar) Min() int { return x.dom.min() }

// Max returns the largest value in the domain.
func (x *IntVar) Max() int { return x.dom.max() }

// Size returns the number of values in the domain.
func (x *IntVar) Size() int { return x.dom.size() }

// Assigned reports whether the domain is a single value.
func (x *IntVar) Assigned() bool { return x.dom.assigned() }

// Val returns the assigned value. Only valid once Assigned holds.
func (x *IntVar) Val() int {
	if !x.dom.assigned() {
		panic("intvar: Val on unassigned variable")
	}
	return x.dom.min()
}

// In reports whether v is in the domain.
func (x *IntVar) In(v int) bool { return x.dom.in(v) }

// Values iterates the domain in ascending order.
func (x *IntVar) Values() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, s := range x.dom.sp {
			for v := s.lo; v <= s.hi; v++ {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Lq constrains x <= n. Returns false when this empties the domain; the
// domain is left untouched in that case.
func (x *IntVar) Lq(s *kernel.Space, n int) bool {
	if x.dom.max() <= n {
		return true
	}
	if x.dom.min() > n {
		return false
	}
	x.dom.lq(n)
	me := kernel.MeBounds
	if x.dom.assigned() {
		me |= kernel.MeAssigned
	}
	x.Modified(s, me)
	return true
}

// Gq constrains x >= n. Returns false when this empties the domain.
func (x *IntVar) Gq(s *kernel.Space, n int) bool {
	if x.dom.min() >= n {
		return true
	}
	if x.dom.max() < n {
		return false
	}
	x.dom.gq(n)
	me := kernel.MeBounds
	if x.dom.assigned() {
		me |= kernel.MeAssigned
	}
	x.Modified(s, me)
	return true
}

// Eq assigns x to v. Returns false when v is not in the domain.
func (x *IntVar) Eq(s *kernel.Space, v int) bool {
	if !x.dom.in(v) {
		return false
	}
	if x.dom.assigned() {
		return true
	}
	x.dom.eq(v)
	x.Modified(s, kernel.MeAssigned|kernel.MeBounds)
	return true
}

// Nq removes v from the domain. Returns false when this empties the domain.
func (x *IntVar) Nq(s *kernel.Space, v int) bool {
	if !x.dom.in(v) {
		return true
	}
	if x.dom.assigned() {
		return false
	}
	wasBound := v == x.dom.min() || v == x.dom.max()
	x.dom.nq(v)
	var me kernel.ModEvent
	switch {
	case x.dom.assigned():
		me = kernel.MeAssigned | kernel.MeBounds
	case wasBound:
		me = kernel.MeBounds
	default:
		me = kernel.MeDomain
	}
	x.Modified(s, me)
	return true
}

// Subscribe adds p as a dependent of x for the events in cond. New
// propagators subscribe with schedule set so their first run is guaranteed.
func (x *IntVar) Subscribe(s *kernel.Space, p kernel.Propagator,
	cond kernel.ModEvent, schedule bool) {

	x.VarBase.Subscribe(s, p, cond, x.Assigned(), schedule)
}

// Update forwards x into the clone dst during cloning, copying the domain
// the first time it is reached.
func (x *IntVar) Update(dst *kernel.Space, share bool) *IntVar {
	if f := x.Forwarded(); f != nil {
		return f.(*IntVar)
	}
	y := &IntVar{dom: x.dom.clone()}
	dst.RecordVarCopy(Kind, &x.VarBase, &y.VarBase, y)
	return y
}
