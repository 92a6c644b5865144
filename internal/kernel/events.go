package kernel

// ModEvent is a bitmask of variable modification events. Concrete variable
// kinds assign meaning to individual bits; the kernel only ever combines and
// filters masks. A propagator's pending-modification-event word (PME) is the
// union of the events delivered to it since it last ran.
type ModEvent uint8

const (
	// MeNone is the empty event set.
	MeNone ModEvent = 0

	// MeAssigned signals that a variable became assigned.
	MeAssigned ModEvent = 1 << 0

	// MeBounds signals that a variable's bounds changed.
	MeBounds ModEvent = 1 << 1

	// MeDomain signals an interior domain change.
	MeDomain ModEvent = 1 << 2
)

// pmeLatched is the all-events mask written into a propagator's PME to block
// rescheduling while the engine processes the events the propagator itself
// produced. The xor mask retired on the following iteration erases exactly
// these bits again (see propagate).
const pmeLatched ModEvent = 0xff

// Priority indexes the propagation queues. Higher priorities run first;
// cheap propagators get high priorities so their pruning is available before
// expensive propagators execute.
type Priority uint8

const (
	// PriorityCrazy is for propagators with exponential-ish cost.
	PriorityCrazy Priority = iota

	// PriorityCubic is for cubic-cost propagators.
	PriorityCubic

	// PriorityQuadratic is for quadratic-cost propagators.
	PriorityQuadratic

	// PriorityLinear is for linear-cost propagators.
	PriorityLinear

	// PriorityTernary is for propagators over three variables.
	PriorityTernary

	// PriorityBinary is for propagators over two variables.
	PriorityBinary

	// PriorityUnary is for single-variable propagators; runs first.
	PriorityUnary

	// PriorityMax is the highest queue index.
	PriorityMax = PriorityUnary

	// numPriorities is the number of propagation queues.
	numPriorities = int(PriorityMax) + 1
)
