package kernel

// ActorLink is an intrusive doubly-linked node forming circular lists. The
// master actor list, the idle list, and every propagation queue are built
// from these nodes, so linking and unlinking never allocates.
//
// The owner field points back at the entity embedding the link (an Actor or
// an Advisor); it is nil for sentinel heads. During cloning the prev pointer
// of a source node is temporarily hijacked to point at the node's copy, and
// restored in stage two.
type ActorLink struct {
	next, prev *ActorLink

	// owner is the entity this link belongs to. Sentinels leave it nil.
	owner any
}

// init makes the link a singleton circular list (self-loop). Used for
// sentinel heads of the actor list and the propagation queues.
func (l *ActorLink) init() {
	l.next = l
	l.prev = l
}

// head inserts x immediately after l.
func (l *ActorLink) head(x *ActorLink) {
	x.prev = l
	x.next = l.next
	l.next.prev = x
	l.next = x
}

// tail inserts x immediately before l. With l as a queue sentinel this
// appends x, giving FIFO order when paired with taking l.next.
func (l *ActorLink) tail(x *ActorLink) {
	x.next = l
	x.prev = l.prev
	l.prev.next = x
	l.prev = x
}

// unlink removes l from whatever list it is on. l's own pointers are left
// dangling; the node must be re-linked before further list use.
func (l *ActorLink) unlink() {
	l.prev.next = l.next
	l.next.prev = l.prev
}

// empty reports whether l, taken as a sentinel, heads an empty list.
func (l *ActorLink) empty() bool {
	return l.next == l
}
