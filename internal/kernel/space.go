package kernel

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// SpaceStatus is the outcome of Status.
type SpaceStatus int8

const (
	// StatusFailed means the constraint model is inconsistent.
	StatusFailed SpaceStatus = iota

	// StatusSolved means propagation is stable and no branching can
	// produce further alternatives.
	StatusSolved

	// StatusBranch means propagation is stable and a branching has
	// alternatives to explore.
	StatusBranch
)

// Statistics accumulates engine counters across Status, Step, and Clone.
type Statistics struct {
	// Propagations counts propagator executions.
	Propagations uint64
}

// Model is the problem definition attached to a Space. Its Copy runs during
// clone stage one, after actors were copied, so it can forward its root
// variable handles into the clone via their Update methods.
type Model interface {
	Copy(dst *Space, share bool) Model
}

// Space is the root container of a constraint-problem instance and the unit
// of cloning. It owns all actors and variables, the region allocator, and
// the propagation queues. All Space operations are single-threaded and
// synchronous.
type Space struct {
	// id correlates the clone tree in logs.
	id uuid.UUID

	// region is the word arena scoped to this Space.
	region Region

	// actors is the sentinel of the master actor list: idle propagators
	// first, then all branchings.
	actors ActorLink

	// bStatus is the first branching not yet known to be exhausted.
	// Points at the sentinel when no branching remains.
	bStatus *ActorLink

	// bCommit is the branching that currently receives commits.
	bCommit *ActorLink

	// pool holds the propagation queues, indexed by priority.
	pool [numPriorities]ActorLink

	// poolNext is the highest priority that may have a nonempty queue.
	poolNext Priority

	// modified heads the queue of variables with pending events.
	modified *VarBase

	// nSub counts live propagator subscriptions, pre-reserving the clone
	// subscription array.
	nSub int

	// branchID numbers branchings in posting order.
	branchID uint64

	// failed is set permanently once the model is inconsistent.
	failed bool

	// forced holds actors whose Dispose must run at Close even if they
	// are never disposed otherwise.
	forced []Actor

	// model is the attached problem definition, cloned alongside.
	model Model

	// varsDispose heads the per-kind lists of variables with disposers.
	varsDispose []*VarBase

	// Clone-time state, populated during stage one on the target and
	// dropped after stage two.

	// subs is the backing array pre-reserved for copied dependency
	// entries, sized from the source's nSub.
	subs []propEntry

	// upd heads the per-kind lists of source variables whose copies need
	// stage-two dependency rewriting.
	upd []*VarBase

	// varsNoIdx chains source variables without dependencies; stage two
	// only clears their forwarding.
	varsNoIdx *VarBase

	// shared are source shared handles forwarded during stage one.
	shared []sharedObject
}

// NewSpace creates an empty Space.
func NewSpace() *Space {
	s := &Space{
		id:          uuid.New(),
		varsDispose: make([]*VarBase, numVarKinds()),
	}
	s.actors.init()
	s.bStatus = &s.actors
	s.bCommit = &s.actors
	for i := range s.pool {
		s.pool[i].init()
	}
	log.Tracef("Space %s created", s.id)
	return s
}

// ID returns the Space's log-correlation identity.
func (s *Space) ID() uuid.UUID { return s.id }

// Failed reports whether the model is inconsistent.
func (s *Space) Failed() bool { return s.failed }

// Fail marks the Space as failed. Idempotent.
func (s *Space) Fail() { s.fail() }

func (s *Space) fail() {
	if !s.failed {
		s.failed = true
		log.Debugf("Space %s failed", s.id)
	}
}

// SetModel attaches the problem definition cloned alongside the Space.
func (s *Space) SetModel(m Model) { s.model = m }

// Model returns the attached problem definition, nil if none.
func (s *Space) Model() Model { return s.model }

// Region returns the Space's word arena.
func (s *Space) Region() *Region { return &s.region }

// PostPropagator installs p with the given priority and links it idle into
// the master actor list. The caller subscribes p to its variables, which
// schedules the first run.
func (s *Space) PostPropagator(p Propagator, prio Priority) {
	b := p.pbase()
	b.prio = prio
	b.link.owner = p
	s.actors.head(&b.link)
}

// PostBranching installs b at the tail of the actor list, after all
// propagators and previously posted branchings, and assigns its id.
func (s *Space) PostBranching(b Branching) {
	bb := b.bbase()
	bb.id = s.branchID
	s.branchID++
	bb.link.owner = b
	s.actors.tail(&bb.link)
	if s.bStatus == &s.actors {
		s.bStatus = &bb.link
	}
	if s.bCommit == &s.actors {
		s.bCommit = &bb.link
	}
}

// ForceDelete registers a for disposal at Close even if the actor is never
// disposed through subsumption or branching discard.
func (s *Space) ForceDelete(a Actor) {
	s.forced = append(s.forced, a)
}

// Unforce removes a from the forced-deletion registry, for actors whose
// disposal already ran through another path.
func (s *Space) Unforce(a Actor) {
	for i, f := range s.forced {
		if f == a {
			last := len(s.forced) - 1
			s.forced[i] = s.forced[last]
			s.forced = s.forced[:last]
			return
		}
	}
}

// RegisterDisposable links x into the per-kind dispose list walked at Close.
func (s *Space) RegisterDisposable(k VarKind, x *VarBase) {
	if int(k) >= len(s.varsDispose) {
		vd := make([]*VarBase, numVarKinds())
		copy(vd, s.varsDispose)
		s.varsDispose = vd
	}
	x.dnext = s.varsDispose[k]
	s.varsDispose[k] = x
}

// Allocated reports the Space's memory footprint: the region plus each
// force-registered actor's own contribution.
func (s *Space) Allocated() int {
	n := s.region.Allocated()
	for _, a := range s.forced {
		n += a.Allocated()
	}
	return n
}

// Close marks the Space failed and runs the pending disposals: forced actors
// first, then the per-kind variable disposers. Further use of the Space is
// limited to Failed.
func (s *Space) Close() {
	s.fail()
	forced := s.forced
	s.forced = nil
	for _, a := range forced {
		a.Dispose(s)
	}
	for k := len(s.varsDispose) - 1; k >= 0; k-- {
		d := disposerFor(VarKind(k))
		if d == nil {
			continue
		}
		for x := s.varsDispose[k]; x != nil; x = x.dnext {
			d(s, x)
		}
		s.varsDispose[k] = nil
	}
}

// schedule delivers events me to p, inserting it into its priority queue if
// it was idle. A propagator with a nonzero PME is already queued or latched
// and is left alone.
func (s *Space) schedule(p Propagator, me ModEvent) {
	if me == MeNone {
		return
	}
	b := p.pbase()
	old := b.pme
	b.pme |= me
	if old == MeNone {
		b.link.unlink()
		s.poolPut(p)
	}
}

// Subsumed reports p as subsumed: its disposal runs now and its block size
// is recycled by the engine. Must be used as the return value of Propagate.
func (s *Space) Subsumed(p Propagator) ExecStatus {
	b := p.pbase()
	b.size = p.Dispose(s)
	return ESSubsumed
}

// FixPartial reschedules p restricted to the given event set, discarding
// events caused by p's own pruning. Must be used as the return value of
// Propagate.
func (s *Space) FixPartial(p Propagator, events ModEvent) ExecStatus {
	p.pbase().pme = events
	return ESFixPartial
}

// NofixPartial reschedules p with the given event set, additionally keeping
// events caused by p's own pruning. Must be used as the return value of
// Propagate.
func (s *Space) NofixPartial(p Propagator, events ModEvent) ExecStatus {
	p.pbase().pme = events
	return ESNofixPartial
}

// Status runs propagation to a fixpoint and reports whether the Space
// failed, is solved, or has a branching with alternatives left.
func (s *Space) Status(stats *Statistics) SpaceStatus {
	if s.failed || !s.propagate(stats) {
		return StatusFailed
	}
	for s.bStatus != &s.actors {
		if s.bStatus.owner.(Branching).Status(s) {
			return StatusBranch
		}
		s.bStatus = s.bStatus.next
	}
	return StatusSolved
}

// Description asks the current branching for a decision point, advancing
// past exhausted branchings. Returns None when no branching can describe,
// which callers observe as StatusSolved.
func (s *Space) Description() fn.Option[BranchingDesc] {
	for s.bStatus != &s.actors {
		b := s.bStatus.owner.(Branching)
		if b.Status(s) {
			return fn.Some(b.Description(s))
		}
		s.bStatus = s.bStatus.next
	}
	return fn.None[BranchingDesc]()
}

// Commit applies alternative alt of description d. Branchings older than the
// description are exhausted by construction and are discarded. On a failed
// Space the commit is a no-op.
//
// Descriptions must be used in creation order: a description always belongs
// to the current or a future branching, never a past one.
func (s *Space) Commit(d BranchingDesc, alt uint) error {
	if s.failed {
		return nil
	}
	for s.bCommit != &s.actors &&
		d.branchingID() != s.bCommit.owner.(Branching).bbase().id {

		l := s.bCommit
		b := l.owner.(Branching)
		s.bCommit = l.next
		if l == s.bStatus {
			s.bStatus = s.bCommit
		}
		l.unlink()
		s.region.Recycle(b.Dispose(s))
	}
	if s.bCommit == &s.actors {
		return fmt.Errorf("commit: %w", ErrNoBranching)
	}
	if alt >= d.Alternatives() {
		return fmt.Errorf("commit alternative %d of %d: %w",
			alt, d.Alternatives(), ErrIllegalAlternative)
	}
	if s.bCommit.owner.(Branching).Commit(s, d, alt) == ESFailed {
		s.fail()
	}
	return nil
}

// Propagators counts the propagators installed in the Space.
func (s *Space) Propagators() (int, error) {
	if s.failed {
		return 0, fmt.Errorf("propagators: %w", ErrSpaceFailed)
	}
	n := 0
	for a := s.actors.next; a != s.bCommit; a = a.next {
		n++
	}
	return n, nil
}

// Branchings counts the branchings that may still produce descriptions.
func (s *Space) Branchings() (int, error) {
	if s.failed {
		return 0, fmt.Errorf("branchings: %w", ErrSpaceFailed)
	}
	n := 0
	for a := s.bStatus; a != &s.actors; a = a.next {
		n++
	}
	return n, nil
}
