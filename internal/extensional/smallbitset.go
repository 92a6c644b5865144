// Package extensional implements table (extensional) constraint support for
// the kernel: a compact bit-set over the allowed-tuple set and a positive
// table propagator filtering with it.
package extensional

import "github.com/CarolineSabourin-Jean/projet-upir/internal/kernel"

// SmallBitSet is a sparse bit-set over at most fifteen data words. Only the
// first limit slots hold words, all of them nonzero; a packed index word
// maps each active slot to the original word column it represents.
//
// The index word packs seventeen 4-bit fields into 64 bits: field 0 is the
// limit, field p+1 the column of slot p. Zeroed words are retired by
// swapping in the last active slot, so the active region stays a prefix of
// nonzero words in unordered form.
type SmallBitSet struct {
	bits []uint64
	idx  uint64
}

// NewSmallBitSet creates a bit-set with capacity sz and n active slots, the
// active words all-ones under the identity mapping. Requires sz <= 15 and
// n <= sz; words come from the Space region r.
func NewSmallBitSet(r *kernel.Region, sz, n int) SmallBitSet {
	if sz > 15 {
		panic("extensional: bit-set capacity above 15 words")
	}
	if n > sz {
		panic("extensional: more active slots than capacity")
	}
	b := SmallBitSet{bits: r.Alloc(sz)}
	b.setLimit(n)
	for i := 0; i < n; i++ {
		b.setIndex(i, i)
		b.bits[i] = ^uint64(0)
	}
	return b
}

// CopyInto duplicates the bit-set with words from region r.
func (b *SmallBitSet) CopyInto(r *kernel.Region) SmallBitSet {
	nb := SmallBitSet{bits: r.Alloc(len(b.bits)), idx: b.idx}
	copy(nb.bits, b.bits)
	return nb
}

// limit returns the number of active slots.
func (b *SmallBitSet) limit() int {
	return int(b.idx & 15)
}

func (b *SmallBitSet) setLimit(n int) {
	b.idx = b.idx&^15 | uint64(n)
}

// Index returns the original column mapped to slot p.
func (b *SmallBitSet) Index(p int) int {
	shift := uint(p+1) << 2
	return int((b.idx >> shift) & 15)
}

func (b *SmallBitSet) setIndex(p, i int) {
	shift := uint(p+1) << 2
	b.idx = b.idx&^(15<<shift) | uint64(i)<<shift
}

// Word returns the data word in slot p.
func (b *SmallBitSet) Word(p int) uint64 { return b.bits[p] }

// Words returns the number of active slots.
func (b *SmallBitSet) Words() int { return b.limit() }

// Empty reports whether no active slot remains.
func (b *SmallBitSet) Empty() bool { return b.limit() == 0 }

// Width returns one past the largest active column. Requires a non-empty
// set; Width bounds the dense mask size needed by the mask operations.
func (b *SmallBitSet) Width() int {
	w := b.Index(0)
	for i := b.limit() - 1; i >= 0; i-- {
		if c := b.Index(i); c > w {
			w = c
		}
	}
	return w + 1
}

// replaceAndDecrease writes w into slot i; a zero word retires the slot by
// swapping in the last active one and decrementing the limit.
func (b *SmallBitSet) replaceAndDecrease(i int, w uint64) {
	if w == b.bits[i] {
		return
	}
	b.bits[i] = w
	if w == 0 {
		last := b.limit() - 1
		b.bits[i] = b.bits[last]
		b.bits[last] = 0
		b.setIndex(i, b.Index(last))
		b.setLimit(last)
	}
}

// ClearMask zeroes the first limit words of mask.
func (b *SmallBitSet) ClearMask(mask []uint64) {
	for i := b.limit() - 1; i >= 0; i-- {
		mask[i] = 0
	}
}

// AddToMask ors the words of the dense, column-indexed set d into the
// slot-indexed mask.
func (b *SmallBitSet) AddToMask(d, mask []uint64) {
	for i := b.limit() - 1; i >= 0; i-- {
		mask[i] |= d[b.Index(i)]
	}
}

// IntersectWithMask intersects the active slots with mask. A sparse mask is
// column-indexed, a non-sparse one slot-indexed (as built by AddToMask).
func (b *SmallBitSet) IntersectWithMask(mask []uint64, sparse bool) {
	if sparse {
		for i := b.limit() - 1; i >= 0; i-- {
			b.replaceAndDecrease(i, b.bits[i]&mask[b.Index(i)])
		}
	} else {
		for i := b.limit() - 1; i >= 0; i-- {
			b.replaceAndDecrease(i, b.bits[i]&mask[i])
		}
	}
}

// IntersectWithMasks intersects the active slots with the union of the two
// column-indexed masks.
func (b *SmallBitSet) IntersectWithMasks(d, e []uint64) {
	for i := b.limit() - 1; i >= 0; i-- {
		o := b.Index(i)
		b.replaceAndDecrease(i, b.bits[i]&(d[o]|e[o]))
	}
}

// Intersects reports whether any active slot intersects the column-indexed
// set d.
func (b *SmallBitSet) Intersects(d []uint64) bool {
	for i := b.limit() - 1; i >= 0; i-- {
		if b.bits[i]&d[b.Index(i)] != 0 {
			return true
		}
	}
	return false
}

// NandWithMask removes the bits of the column-indexed set d from the active
// slots.
func (b *SmallBitSet) NandWithMask(d []uint64) {
	for i := b.limit() - 1; i >= 0; i-- {
		b.replaceAndDecrease(i, b.bits[i]&^d[b.Index(i)])
	}
}
