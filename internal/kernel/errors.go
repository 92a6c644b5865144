package kernel

import "errors"

// ErrSpaceFailed indicates an operation that requires a non-failed Space was
// attempted on a failed one.
var ErrSpaceFailed = errors.New("space failed")

// ErrNoBranching indicates a commit with no branching left to consume the
// description.
var ErrNoBranching = errors.New("no branching left to commit")

// ErrIllegalAlternative indicates a commit with an alternative index outside
// the description's range.
var ErrIllegalAlternative = errors.New("alternative out of range")
