package kernel

// BranchingDesc is an immutable description of a decision point. A
// description names the branching that created it and the number of
// alternatives search may commit. Descriptions outlive the Space they were
// created on and are applied to clones.
type BranchingDesc interface {
	// branchingID names the originating branching. Provided by the
	// embedded DescBase.
	branchingID() uint64

	// Alternatives returns the number of alternatives, at least one.
	Alternatives() uint
}

// DescBase is embedded by concrete descriptions. It records the originating
// branching's id and the alternative count.
type DescBase struct {
	bid  uint64
	alts uint
}

// NewDescBase captures b's identity for a description with alts
// alternatives.
func NewDescBase(b Branching, alts uint) DescBase {
	return DescBase{bid: b.bbase().id, alts: alts}
}

func (d DescBase) branchingID() uint64 { return d.bid }

// Alternatives returns the number of alternatives of the description.
func (d DescBase) Alternatives() uint { return d.alts }
