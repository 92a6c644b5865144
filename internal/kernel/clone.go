package kernel

import (
	"fmt"

	"github.com/google/uuid"
)

// Clone produces an independent copy of the Space after propagating to a
// fixpoint. A failed Space, or one that fails during that propagation, never
// clones.
//
// Cloning runs in two stages. Stage one copies every actor in list order;
// each source actor's prev pointer is hijacked to point at its copy, actor
// copies forward their variables through the variables' forwarding slots,
// and the attached Model forwards its root handles. Stage two rewrites the
// copied variables' dependency entries to the copied propagators, restores
// all hijacked pointers, and resets the clone's propagation state.
func (s *Space) Clone(share bool, stats *Statistics) (*Space, error) {
	if s.failed || !s.propagate(stats) {
		return nil, fmt.Errorf("clone: %w", ErrSpaceFailed)
	}
	c := s.copySpace(share)
	s.fixup(c)
	log.Debugf("Space %s cloned into %s (share=%v)", s.id, c.id, share)
	return c, nil
}

// copySpace is clone stage one.
func (s *Space) copySpace(share bool) *Space {
	c := &Space{
		id:          uuid.New(),
		varsDispose: make([]*VarBase, numVarKinds()),
		upd:         make([]*VarBase, numVarKinds()),
		// Pre-reserve the subscription array so copying dependency
		// entries never interleaves an allocation with actor copies.
		subs: make([]propEntry, 0, s.nSub),
	}
	c.actors.init()
	for i := range c.pool {
		c.pool[i].init()
	}

	// Copy all actors in list order, hijacking each source actor's prev
	// pointer as the forwarding pointer to its copy.
	p := &c.actors
	for a := s.actors.next; a != &s.actors; a = a.next {
		src := a.owner.(Actor)
		cp := src.Copy(c, share)
		cl := cp.alink()
		cl.owner = cp
		p.next = cl
		cl.prev = p
		a.prev = cl
		p = cl
		// Carry over the base fields the engine owns.
		switch t := src.(type) {
		case Propagator:
			cp.(Propagator).pbase().prio = t.pbase().prio
		case Branching:
			cp.(Branching).bbase().id = t.bbase().id
		}
	}
	p.next = &c.actors
	c.actors.prev = p

	// Duplicate the forced-deletion array, leaving one spare slot.
	if n := len(s.forced); n > 0 {
		c.forced = make([]Actor, 0, n+1)
		for _, f := range s.forced {
			c.forced = append(c.forced,
				f.alink().prev.owner.(Actor))
		}
	}

	// Map the branching cursors through the forwarding pointers.
	if s.bStatus == &s.actors {
		c.bStatus = &c.actors
	} else {
		c.bStatus = s.bStatus.prev
	}
	if s.bCommit == &s.actors {
		c.bCommit = &c.actors
	} else {
		c.bCommit = s.bCommit.prev
	}

	// Let the model forward its root variable handles. Variables only
	// reachable from the model get copied and recorded here.
	if s.model != nil {
		c.model = s.model.Copy(c, share)
	}
	return c
}

// fixup is clone stage two: update subscriptions, reset forwarding.
func (s *Space) fixup(c *Space) {
	// Variables without dependencies only need their forwarding cleared.
	for x := c.varsNoIdx; x != nil; {
		nxt := x.unext
		x.fwd, x.fwdb, x.unext = nil, nil, nil
		x = nxt
	}
	c.varsNoIdx = nil

	// Rewrite the copied dependency entries of indexed variables to the
	// copied propagators and advisors, then clear the forwarding.
	for k := range c.upd {
		for x := c.upd[k]; x != nil; {
			cp := x.fwdb
			for i, e := range cp.props {
				cp.props[i].prop =
					e.prop.alink().prev.owner.(Propagator)
			}
			for i, a := range cp.advs {
				cp.advs[i] = a.link.prev.owner.(*Advisor)
			}
			nxt := x.unext
			x.fwd, x.fwdb, x.unext = nil, nil, nil
			x = nxt
		}
		c.upd[k] = nil
	}
	c.upd = nil

	// Re-establish the source prev chain, hijacked as forwarding during
	// stage one. Propagators first, restoring any advisor chains staged
	// on their advisors field.
	pa := &s.actors
	ca := pa.next
	for ca != s.bCommit {
		p := ca.owner.(Propagator)
		if adv := p.pbase().advisors; adv != nil {
			p.pbase().advisors = nil
			for a := adv; a != nil; a = a.next {
				a.prev = ca
			}
		}
		ca.prev = pa
		pa = ca
		ca = ca.next
	}
	// Now the branchings.
	for ca != &s.actors {
		ca.prev = pa
		pa = ca
		ca = ca.next
	}

	// Reset the forwarding of shared objects.
	for _, o := range c.shared {
		o.clearFwd()
	}
	c.shared = nil

	// The clone starts with empty queues and fresh processing state.
	c.poolNext = 0
	c.subs = nil
	c.nSub = s.nSub
	c.branchID = s.branchID
}

// RecordVarCopy is called by a concrete variable's Update during clone stage
// one. It records the forwarding from src to its copy, carves the copy's
// dependency array out of the pre-reserved subscription backing, and queues
// the pair for stage-two rewriting. Kinds with a disposer get the copy
// registered on the clone's dispose list.
func (c *Space) RecordVarCopy(k VarKind, src, cp *VarBase, owner any) {
	src.fwd = owner
	src.fwdb = cp

	// The copy starts with fresh processing and forwarding state no
	// matter how the concrete implementation built it.
	cp.me = MeNone
	cp.queued = false
	cp.mnext, cp.unext, cp.dnext = nil, nil, nil
	cp.fwd, cp.fwdb = nil, nil

	if len(src.props) == 0 && len(src.advs) == 0 {
		src.unext = c.varsNoIdx
		c.varsNoIdx = src
	} else {
		cp.props = c.takeSubs(len(src.props))
		copy(cp.props, src.props)
		if len(src.advs) > 0 {
			cp.advs = append([]*Advisor(nil), src.advs...)
		} else {
			cp.advs = nil
		}
		if int(k) >= len(c.upd) {
			upd := make([]*VarBase, numVarKinds())
			copy(upd, c.upd)
			c.upd = upd
		}
		src.unext = c.upd[k]
		c.upd[k] = src
	}
	if disposerFor(k) != nil {
		c.RegisterDisposable(k, cp)
	}
}

// takeSubs slices n entries off the pre-reserved subscription backing. A
// fresh array is only needed when subscriptions were added behind the
// reservation's back.
func (c *Space) takeSubs(n int) []propEntry {
	if n == 0 {
		return nil
	}
	if len(c.subs)+n <= cap(c.subs) {
		start := len(c.subs)
		c.subs = c.subs[:start+n]
		return c.subs[start : start+n : start+n]
	}
	return make([]propEntry, n)
}
