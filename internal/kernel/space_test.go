package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCommitIllegalAlternative verifies the range check on alternatives.
func TestCommitIllegalAlternative(t *testing.T) {
	t.Parallel()

	s := NewSpace()
	x := &testVar{}
	b := &testBranch{v: x}
	s.PostBranching(b)

	require.Equal(t, StatusBranch, s.Status(nil))
	d := s.Description().UnwrapOr(nil)
	require.NotNil(t, d)

	err := s.Commit(d, 2)
	require.ErrorIs(t, err, ErrIllegalAlternative)

	// A legal alternative never errors.
	require.NoError(t, s.Commit(d, 0))
}

// TestCommitDiscardsStaleBranchings verifies that committing a description
// of a later branching unlinks and disposes the exhausted earlier ones, and
// that running out of branchings reports ErrNoBranching.
func TestCommitDiscardsStaleBranchings(t *testing.T) {
	t.Parallel()

	s := NewSpace()
	x := &testVar{}
	y := &testVar{}
	b0 := &testBranch{v: x}
	b1 := &testBranch{v: y}
	s.PostBranching(b0)
	s.PostBranching(b1)

	d0 := b0.Description(s)
	d1 := b1.Description(s)

	// Committing d1 discards b0 entirely.
	require.NoError(t, s.Commit(d1, 0))
	require.Equal(t, 32, s.region.Recycled())
	n, err := s.Branchings()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// d0's branching is gone; committing it runs past the remaining
	// branchings and fails.
	err = s.Commit(d0, 0)
	require.ErrorIs(t, err, ErrNoBranching)
}

// TestCommitOnFailedSpaceIsNoop verifies commit's failure-mode contract.
func TestCommitOnFailedSpaceIsNoop(t *testing.T) {
	t.Parallel()

	s := NewSpace()
	x := &testVar{}
	b := &testBranch{v: x}
	s.PostBranching(b)
	d := b.Description(s)

	s.Fail()
	require.NoError(t, s.Commit(d, 5))
	require.False(t, b.done)
}

// TestStatusSolved verifies that exhausted branchings resolve to solved.
func TestStatusSolved(t *testing.T) {
	t.Parallel()

	s := NewSpace()

	require.Equal(t, StatusSolved, s.Status(nil))
	require.True(t, s.Description().IsNone())
}

// TestBranchingCursorAdvances verifies that Status skips branchings that
// cannot describe anymore.
func TestBranchingCursorAdvances(t *testing.T) {
	t.Parallel()

	s := NewSpace()
	x := &testVar{assigned: true}
	y := &testVar{}
	s.PostBranching(&testBranch{v: x})
	s.PostBranching(&testBranch{v: y})

	// The first branching has nothing to do; Status lands on the second.
	require.Equal(t, StatusBranch, s.Status(nil))
	d := s.Description().UnwrapOr(nil)
	require.NotNil(t, d)
	require.NoError(t, s.Commit(d, 0))
	require.True(t, y.assigned)
}

// disposable is an actor observing its disposal.
type disposable struct {
	ActorBase

	disposed *bool
}

func (d *disposable) Copy(*Space, bool) Actor { return &disposable{} }

func (d *disposable) Dispose(*Space) int {
	*d.disposed = true
	return 16
}

// Allocated reports a fixed external footprint for the accounting test.
func (d *disposable) Allocated() int { return 128 }

// TestForceDeleteRunsAtClose verifies the forced-deletion registry and its
// removal path.
func TestForceDeleteRunsAtClose(t *testing.T) {
	t.Parallel()

	s := NewSpace()
	var disposed, skipped bool
	d := &disposable{disposed: &disposed}
	e := &disposable{disposed: &skipped}
	s.ForceDelete(d)
	s.ForceDelete(e)

	require.GreaterOrEqual(t, s.Allocated(), 256)

	s.Unforce(e)
	s.Close()
	require.True(t, disposed)
	require.False(t, skipped)
	require.True(t, s.Failed())
}

// TestVarDisposerRunsAtClose verifies the per-kind variable dispose lists.
func TestVarDisposerRunsAtClose(t *testing.T) {
	t.Parallel()

	var disposed int
	kind := RegisterVarKind(func(*Space, *VarBase) {
		disposed++
	})

	s := NewSpace()
	a := &VarBase{}
	b := &VarBase{}
	s.RegisterDisposable(kind, a)
	s.RegisterDisposable(kind, b)

	s.Close()
	require.Equal(t, 2, disposed)
}

// TestSubscribeAssignedSchedulesOnly verifies that subscribing to an
// assigned variable schedules the propagator without adding an entry.
func TestSubscribeAssignedSchedulesOnly(t *testing.T) {
	t.Parallel()

	s := NewSpace()
	v := &testVar{assigned: true}
	var runs []*recProp
	p := &recProp{runs: &runs}
	s.PostPropagator(p, PriorityBinary)
	v.subscribe(s, p, MeAssigned, false)

	require.Equal(t, 0, v.Degree())
	require.True(t, s.propagate(nil))
	require.Len(t, runs, 1)
}

// TestCancelRemovesSubscription verifies Cancel bookkeeping.
func TestCancelRemovesSubscription(t *testing.T) {
	t.Parallel()

	s := NewSpace()
	v := &testVar{}
	var runs []*recProp
	p := &recProp{runs: &runs}
	s.PostPropagator(p, PriorityBinary)
	v.subscribe(s, p, MeAssigned, false)
	require.Equal(t, 1, v.Degree())
	require.Equal(t, 1, s.nSub)

	v.Cancel(s, p, MeAssigned)
	require.Equal(t, 0, v.Degree())
	require.Equal(t, 0, s.nSub)

	v.assign(s)
	require.True(t, s.propagate(nil))
	require.Empty(t, runs)
}
