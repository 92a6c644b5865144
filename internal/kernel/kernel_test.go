package kernel

// Test fixtures: a minimal variable kind and a family of recording
// propagators, enough to drive the engine without a concrete variable
// implementation.

// testKind is the variable kind of testVar.
var testKind = RegisterVarKind(nil)

// testVar is a two-state variable: unassigned or assigned.
type testVar struct {
	VarBase

	assigned bool
}

// assign marks the variable assigned and reports the event.
func (v *testVar) assign(s *Space) {
	if !v.assigned {
		v.assigned = true
		v.Modified(s, MeAssigned)
	}
}

// touch reports a bounds event without assigning.
func (v *testVar) touch(s *Space) {
	v.Modified(s, MeBounds)
}

// subscribe wires p to v for the events in cond.
func (v *testVar) subscribe(s *Space, p Propagator, cond ModEvent,
	schedule bool) {

	v.VarBase.Subscribe(s, p, cond, v.assigned, schedule)
}

// update forwards v into a clone.
func (v *testVar) update(dst *Space, share bool) *testVar {
	if f := v.Forwarded(); f != nil {
		return f.(*testVar)
	}
	w := &testVar{assigned: v.assigned}
	dst.RecordVarCopy(testKind, &v.VarBase, &w.VarBase, w)
	return w
}

// recProp records its executions and delegates its verdict to fn (default
// ESFix).
type recProp struct {
	PropagatorBase

	runs *[]*recProp
	fn   func(self *recProp, s *Space) ExecStatus
}

func (p *recProp) Propagate(s *Space) ExecStatus {
	*p.runs = append(*p.runs, p)
	if p.fn == nil {
		return ESFix
	}
	return p.fn(p, s)
}

func (p *recProp) Copy(*Space, bool) Actor {
	return &recProp{runs: p.runs, fn: p.fn}
}

func (p *recProp) Dispose(*Space) int { return 64 }

// varProp is a recProp over testVars, copyable across clones.
type varProp struct {
	recProp

	vars []*testVar
}

func (p *varProp) Copy(dst *Space, share bool) Actor {
	vs := make([]*testVar, len(p.vars))
	for i, v := range p.vars {
		vs[i] = v.update(dst, share)
	}
	return &varProp{
		recProp: recProp{runs: p.runs, fn: p.fn},
		vars:    vs,
	}
}

// advProp is a varProp with advisors.
type advProp struct {
	varProp

	council Council
	advised *[]*Advisor
}

func (p *advProp) Advise(_ *Space, a *Advisor, _ ModEvent) ExecStatus {
	*p.advised = append(*p.advised, a)
	return ESFix
}

func (p *advProp) Copy(dst *Space, share bool) Actor {
	np := &advProp{
		varProp: *(p.varProp.Copy(dst, share).(*varProp)),
		advised: p.advised,
	}
	np.council = p.council.Update(dst, p, np)
	return np
}

// testDesc is the two-way description of testBranch.
type testDesc struct {
	DescBase
}

// testBranch assigns its variable on alternative zero and is exhausted
// after one commit.
type testBranch struct {
	BranchingBase

	v    *testVar
	done bool
}

func (b *testBranch) Status(*Space) bool {
	return !b.done && !b.v.assigned
}

func (b *testBranch) Description(*Space) BranchingDesc {
	return &testDesc{DescBase: NewDescBase(b, 2)}
}

func (b *testBranch) Commit(s *Space, _ BranchingDesc, alt uint) ExecStatus {
	b.done = true
	if alt == 0 {
		b.v.assign(s)
	}
	return ESFix
}

func (b *testBranch) Copy(dst *Space, share bool) Actor {
	return &testBranch{v: b.v.update(dst, share), done: b.done}
}

func (b *testBranch) Dispose(*Space) int { return 32 }

// testModel carries root variable handles across clones.
type testModel struct {
	vars []*testVar
}

func (m *testModel) Copy(dst *Space, share bool) Model {
	vs := make([]*testVar, len(m.vars))
	for i, v := range m.vars {
		vs[i] = v.update(dst, share)
	}
	return &testModel{vars: vs}
}
