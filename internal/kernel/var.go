package kernel

import "sync"

// VarKind identifies a registered variable kind. Kinds drive the per-kind
// variable lists of a Space: the dispose list walked at Close, and the
// stage-two update list walked during cloning.
type VarKind uint8

// VarDisposer releases external resources of one variable of a kind at
// Space close.
type VarDisposer func(s *Space, x *VarBase)

var (
	kindMu    sync.Mutex
	disposers []VarDisposer
)

// RegisterVarKind registers a variable kind, optionally with a disposer run
// for each registered variable when the owning Space closes. Kinds are
// registered once per concrete variable implementation, typically from an
// init function.
func RegisterVarKind(d VarDisposer) VarKind {
	kindMu.Lock()
	defer kindMu.Unlock()
	disposers = append(disposers, d)
	return VarKind(len(disposers) - 1)
}

// numVarKinds returns the number of registered kinds.
func numVarKinds() int {
	kindMu.Lock()
	defer kindMu.Unlock()
	return len(disposers)
}

// disposerFor returns the disposer of kind k, or nil.
func disposerFor(k VarKind) VarDisposer {
	kindMu.Lock()
	defer kindMu.Unlock()
	return disposers[k]
}

// propEntry is one dependency of a variable: a subscribed propagator and the
// events it cares about.
type propEntry struct {
	prop Propagator
	cond ModEvent
}

// VarBase is the abstract variable embedded by concrete variable
// implementations. It carries the dependency list, the pending event word,
// the link into the Space's modified queue, and the forwarding slots used
// during cloning.
type VarBase struct {
	// me accumulates modification events since the last processing run.
	me ModEvent

	// queued is set while the variable sits on the modified queue.
	queued bool

	// mnext chains the modified queue.
	mnext *VarBase

	// unext chains the clone-time update list of the target Space.
	unext *VarBase

	// dnext chains the per-kind dispose list of the owning Space.
	dnext *VarBase

	// fwd forwards to the concrete copy while a clone is in progress.
	fwd any

	// fwdb is the copy's base, used for stage-two dependency rewriting.
	fwdb *VarBase

	// props are the subscribed propagators with their event masks.
	props []propEntry

	// advs are the subscribed advisors.
	advs []*Advisor
}

// Degree returns the number of subscribed propagators.
func (x *VarBase) Degree() int { return len(x.props) }

// Forwarded returns the concrete copy recorded for x during an in-progress
// clone, or nil.
func (x *VarBase) Forwarded() any { return x.fwd }

// Subscribe adds p as a dependent of x for the events in cond. When the
// variable is already assigned no entry is added, since assigned variables
// never produce further events. With schedule set the propagator is
// scheduled immediately, which new propagators use to guarantee their first
// run.
func (x *VarBase) Subscribe(s *Space, p Propagator, cond ModEvent,
	assigned, schedule bool) {

	if !assigned {
		x.props = append(x.props, propEntry{prop: p, cond: cond})
		s.nSub++
	}
	if schedule || assigned {
		s.schedule(p, cond)
	}
}

// Cancel removes the subscription of p with mask cond. Propagators cancel
// their subscriptions on disposal; entries on variables that were assigned
// in the meantime may already be gone, which is fine.
func (x *VarBase) Cancel(s *Space, p Propagator, cond ModEvent) {
	for i, e := range x.props {
		if e.prop == p && e.cond == cond {
			last := len(x.props) - 1
			x.props[i] = x.props[last]
			x.props = x.props[:last]
			s.nSub--
			return
		}
	}
}

// SubscribeAdvisor attaches advisor a to x. Assigned variables take no
// advisors.
func (x *VarBase) SubscribeAdvisor(a *Advisor, assigned bool) {
	if !assigned {
		x.advs = append(x.advs, a)
	}
}

// CancelAdvisor detaches advisor a from x.
func (x *VarBase) CancelAdvisor(a *Advisor) {
	for i, e := range x.advs {
		if e == a {
			last := len(x.advs) - 1
			x.advs[i] = x.advs[last]
			x.advs = x.advs[:last]
			return
		}
	}
}

// Modified records that events me happened on x and queues x for the next
// processing run. Concrete variable operations call this after a successful
// domain change.
func (x *VarBase) Modified(s *Space, me ModEvent) {
	x.me |= me
	if !x.queued {
		x.queued = true
		x.mnext = s.modified
		s.modified = x
	}
}
