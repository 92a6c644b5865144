package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// collect returns the owners of the list headed by sentinel l.
func collect(l *ActorLink) []any {
	var out []any
	for a := l.next; a != l; a = a.next {
		out = append(out, a.owner)
	}
	return out
}

// TestLinkHeadTailUnlink verifies the intrusive list primitives.
func TestLinkHeadTailUnlink(t *testing.T) {
	t.Parallel()

	var l ActorLink
	l.init()
	require.True(t, l.empty())

	a := &ActorLink{owner: "a"}
	b := &ActorLink{owner: "b"}
	c := &ActorLink{owner: "c"}

	l.head(a)
	l.tail(b)
	l.head(c)
	require.Equal(t, []any{"c", "a", "b"}, collect(&l))

	a.unlink()
	require.Equal(t, []any{"c", "b"}, collect(&l))

	c.unlink()
	b.unlink()
	require.True(t, l.empty())

	// Unlinked nodes can be re-linked.
	l.tail(a)
	require.Equal(t, []any{"a"}, collect(&l))
}

// TestLinkFIFO verifies that tail insertion with head removal is FIFO.
func TestLinkFIFO(t *testing.T) {
	t.Parallel()

	var q ActorLink
	q.init()
	for _, n := range []string{"1", "2", "3"} {
		q.tail(&ActorLink{owner: n})
	}

	var got []any
	for !q.empty() {
		f := q.next
		f.unlink()
		got = append(got, f.owner)
	}
	require.Equal(t, []any{"1", "2", "3"}, got)
}
