package kernel

// poolPut appends p to the queue of its priority and raises poolNext when
// the priority exceeds it.
func (s *Space) poolPut(p Propagator) {
	b := p.pbase()
	s.pool[b.prio].tail(&b.link)
	if b.prio > s.poolNext {
		s.poolNext = b.prio
	}
}

// poolGet returns a propagator from the highest nonempty queue, scanning
// downward from poolNext and lowering it past empty queues. Returns nil when
// all queues are drained. The propagator is left linked; the caller unlinks
// it before execution.
func (s *Space) poolGet() Propagator {
	for {
		l := &s.pool[s.poolNext]
		if fst := l.next; fst != l {
			return fst.owner.(Propagator)
		}
		if s.poolNext == 0 {
			return nil
		}
		s.poolNext--
	}
}

// process drains the modified-variable queue accumulated since the last
// iteration: advisors run immediately, and each subscribed propagator whose
// event mask matches gets the events merged into its PME, scheduling it if
// it was idle.
func (s *Space) process() {
	x := s.modified
	s.modified = nil
	for x != nil {
		nxt := x.mnext
		x.mnext = nil
		x.queued = false
		me := x.me
		x.me = MeNone
		for _, a := range x.advs {
			p := a.Propagator()
			switch p.Advise(s, a, me) {
			case ESFailed:
				s.fail()
			case ESNofix:
				s.schedule(p, me)
			}
		}
		for _, e := range x.props {
			if e.cond&me != MeNone {
				s.schedule(e.prop, me)
			}
		}
		x = nxt
	}
}

// propagate runs the fixpoint loop. It returns true when all queues drained
// (the Space is stable) and false when a propagator failed. Must only be
// called on a non-failed Space.
//
// Across iterations the loop carries a pointer to the previously executed
// propagator's PME and an xor mask: the mask retires exactly the events that
// were latched to block re-scheduling while that propagator's own
// modifications were processed.
func (s *Space) propagate(stats *Statistics) bool {
	var dummy ModEvent
	pmePrev := &dummy
	var pmeMask ModEvent
	for {
		// Process modified variables; in the first iteration these
		// stem from commit or setup.
		s.process()
		if s.failed {
			return false
		}
		*pmePrev ^= pmeMask
		p := s.poolGet()
		if p == nil {
			return true
		}
		if stats != nil {
			stats.Propagations++
		}
		b := p.pbase()
		pmePrev = &b.pme
		b.link.unlink()
		switch p.Propagate(s) {
		case ESFailed:
			s.fail()
			return false
		case ESFix:
			// Propagator is in no queue, put into idle.
			s.actors.head(&b.link)
			// Latch all events so processing cannot reschedule;
			// the mask clears the latch afterwards.
			b.pme = pmeLatched
			pmeMask = pmeLatched
		case ESNofix:
			s.actors.head(&b.link)
			// Idle; events from its own pruning reschedule it.
			b.pme = MeNone
			pmeMask = MeNone
		case ESSubsumed:
			// The propagator may still sit in dependency arrays
			// of assigned variables; only its PME is ever touched
			// there, and the latch keeps it out of the queues for
			// good.
			s.region.Recycle(b.size)
			b.pme = pmeLatched
			pmeMask = MeNone
		case ESFixPartial:
			// Requeue with the requested events; the latch blocks
			// scheduling during processing and the mask restores
			// the requested set.
			s.poolPut(p)
			pmeMask = pmeLatched ^ b.pme
			b.pme = pmeLatched
		case ESNofixPartial:
			// Requeue keeping the requested events and whatever
			// processing adds.
			s.poolPut(p)
			pmeMask = MeNone
		default:
			panic("kernel: invalid propagator status")
		}
	}
}

// Step runs the loop for exactly one propagator execution and returns its
// status, or ESStable when no propagator was ready. The modifications of the
// executed propagator are processed before returning, so consecutive Step
// calls observe the same schedule as propagate.
func (s *Space) Step(stats *Statistics) ExecStatus {
	if s.failed {
		return ESFailed
	}
	var p Propagator
	var pmeMask ModEvent
	es := ESStable
	for {
		s.process()
		if s.failed {
			return ESFailed
		}
		if p != nil {
			b := p.pbase()
			b.pme ^= pmeMask
			return es
		}
		p = s.poolGet()
		if p == nil {
			return ESStable
		}
		if stats != nil {
			stats.Propagations++
		}
		b := p.pbase()
		b.link.unlink()
		es = p.Propagate(s)
		switch es {
		case ESFailed:
			s.fail()
			return ESFailed
		case ESFix:
			s.actors.head(&b.link)
			b.pme = pmeLatched
			pmeMask = pmeLatched
		case ESNofix:
			s.actors.head(&b.link)
			b.pme = MeNone
			pmeMask = MeNone
		case ESSubsumed:
			s.region.Recycle(b.size)
			b.pme = pmeLatched
			pmeMask = MeNone
		case ESFixPartial:
			s.poolPut(p)
			pmeMask = pmeLatched ^ b.pme
			b.pme = pmeLatched
		case ESNofixPartial:
			s.poolPut(p)
			pmeMask = MeNone
		default:
			panic("kernel: invalid propagator status")
		}
	}
}

// Stable reports whether processing the pending events leaves every
// propagation queue empty.
func (s *Space) Stable() bool {
	s.process()
	for pn := s.poolNext; ; pn-- {
		if !s.pool[pn].empty() {
			return false
		}
		if pn == 0 {
			return true
		}
	}
}
