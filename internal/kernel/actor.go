package kernel

// ExecStatus is the verdict a propagator or branching commit reports back to
// the engine.
type ExecStatus int8

const (
	// ESFailed signals that the constraint model is inconsistent. The
	// Space transitions to failed permanently.
	ESFailed ExecStatus = -1

	// ESStable is returned by Step when no propagator was ready.
	ESStable ExecStatus = 0

	// ESFix signals that the propagator is at fixpoint: events caused by
	// its own pruning must not reschedule it.
	ESFix ExecStatus = 1

	// ESNofix signals that the propagator may not be at fixpoint: events
	// caused by its own pruning reschedule it.
	ESNofix ExecStatus = 2

	// ESSubsumed signals that the propagator can never prune again. Use
	// Space.Subsumed to produce it so disposal runs.
	ESSubsumed ExecStatus = 3

	// ESFixPartial reschedules the propagator restricted to the event set
	// stored in its PME. Use Space.FixPartial to produce it.
	ESFixPartial ExecStatus = 4

	// ESNofixPartial is like ESFixPartial but also keeps events caused by
	// the propagator's own pruning. Use Space.NofixPartial to produce it.
	ESNofixPartial ExecStatus = 5
)

// Actor is the polymorphic unit of work installed in a Space: either a
// Propagator or a Branching. Implementations embed PropagatorBase or
// BranchingBase, which provide the sealed alink method.
type Actor interface {
	// alink returns the intrusive link placing the actor in the master
	// actor list or a propagation queue. Provided by the embedded base.
	alink() *ActorLink

	// Copy clones the actor into dst during clone stage one. The copy
	// must update all variable handles via their Update methods; the
	// engine links the returned copy into dst's actor list and carries
	// over its priority or branching id, so Copy does not post it.
	Copy(dst *Space, share bool) Actor

	// Dispose releases the actor's external resources and returns the
	// number of bytes handed back to the Space region.
	Dispose(s *Space) int

	// Allocated reports bytes the actor holds outside the Space region.
	Allocated() int
}

// ActorBase carries the intrusive link shared by all actors. It provides the
// default Allocated of zero.
type ActorBase struct {
	link ActorLink
}

func (b *ActorBase) alink() *ActorLink { return &b.link }

// Allocated reports bytes held outside the Space region. The default is
// zero; actors owning host memory override it.
func (b *ActorBase) Allocated() int { return 0 }

// Propagator is an actor enforcing a constraint by pruning variable domains.
type Propagator interface {
	Actor

	// Propagate performs pruning and reports an ExecStatus as in the
	// dispatch table of the propagation loop.
	Propagate(s *Space) ExecStatus

	// Advise is called during event processing for each advisor of the
	// propagator whose variable changed. Returning ESNofix schedules the
	// propagator; ESFix does not; ESFailed fails the Space. The base
	// implementation panics: propagators without advisors are never
	// advised.
	Advise(s *Space, a *Advisor, delta ModEvent) ExecStatus

	// pbase returns the embedded PropagatorBase.
	pbase() *PropagatorBase
}

// PropagatorBase is embedded by every propagator implementation. It holds
// the PME word, the priority, and the clone/subsumption scratch fields.
type PropagatorBase struct {
	ActorBase

	// pme accumulates events delivered since the propagator last ran. A
	// nonzero pme means the propagator is scheduled or latched.
	pme ModEvent

	// prio selects the propagation queue.
	prio Priority

	// size is the byte count reported by Dispose when the propagator was
	// subsumed, recycled by the engine.
	size int

	// advisors temporarily heads the chain of source advisors during
	// clone stage one. Nil at rest.
	advisors *ActorLink
}

func (b *PropagatorBase) pbase() *PropagatorBase { return b }

// Advise panics. Propagators using advisors must override it.
func (b *PropagatorBase) Advise(*Space, *Advisor, ModEvent) ExecStatus {
	panic("kernel: propagator without advisors advised")
}

// Priority returns the propagator's queue priority.
func (b *PropagatorBase) Priority() Priority { return b.prio }

// Branching is an actor generating the alternatives explored by search.
type Branching interface {
	Actor

	// Status reports whether the branching can still produce a
	// description for the current domains.
	Status(s *Space) bool

	// Description returns an immutable decision point. Only called after
	// Status reported true.
	Description(s *Space) BranchingDesc

	// Commit applies alternative alt of d. Returning ESFailed fails the
	// Space; any other status means success.
	Commit(s *Space, d BranchingDesc, alt uint) ExecStatus

	// bbase returns the embedded BranchingBase.
	bbase() *BranchingBase
}

// BranchingBase is embedded by every branching implementation. The id ties
// descriptions back to the branching that created them across clones.
type BranchingBase struct {
	ActorBase

	// id is the monotonic identifier assigned at posting time and
	// preserved by cloning.
	id uint64
}

func (b *BranchingBase) bbase() *BranchingBase { return b }

// Advisor is a lightweight attachment of a propagator to a variable. When a
// subscribed variable changes, the owning propagator's Advise runs with the
// advisor and the event delta. At rest the advisor's link points back at its
// propagator; during cloning the pointer temporarily forwards to the
// advisor's copy.
type Advisor struct {
	link ActorLink

	// Pos identifies the subscription position for the propagator, e.g.
	// the index of the changed view.
	Pos int
}

// Propagator returns the propagator owning this advisor.
func (a *Advisor) Propagator() Propagator {
	return a.link.prev.owner.(Propagator)
}

// Council tracks the advisors of one propagator so they can be copied
// during cloning. Advisors chain through their link's next pointer,
// terminated by nil.
type Council struct {
	first *Advisor
}

// NewAdvisor creates an advisor owned by p and adds it to the council. The
// caller subscribes the advisor to variables separately.
func (c *Council) NewAdvisor(p Propagator, pos int) *Advisor {
	a := &Advisor{Pos: pos}
	a.link.owner = a
	a.link.prev = p.alink()
	if c.first != nil {
		a.link.next = &c.first.link
	}
	c.first = a
	return a
}

// Update copies the council during clone stage one. Source advisors chain
// onto the source propagator's advisors field and forward to their copies
// through the hijacked prev pointer; stage two undoes both.
func (c *Council) Update(dst *Space, src Propagator, cp Propagator) Council {
	var nc Council
	if c.first == nil {
		return nc
	}
	src.pbase().advisors = &c.first.link
	for a := c.first; a != nil; a = nextAdvisor(a) {
		na := &Advisor{Pos: a.Pos}
		na.link.owner = na
		na.link.prev = cp.alink()
		if nc.first != nil {
			na.link.next = &nc.first.link
		}
		nc.first = na
		// Forward the source advisor to its copy.
		a.link.prev = &na.link
	}
	return nc
}

// nextAdvisor follows the council chain.
func nextAdvisor(a *Advisor) *Advisor {
	if a.link.next == nil {
		return nil
	}
	return a.link.next.owner.(*Advisor)
}
