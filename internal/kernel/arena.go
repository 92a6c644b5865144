package kernel

// Region is the bump allocator scoped to a Space. Word blocks are carved
// from slabs; blocks handed back through Reuse land on a size-class free
// list and satisfy later allocations of the same class. Slab memory is only
// released when the Space itself is dropped.
//
// Actor and variable structs live on the Go heap; the region serves the
// word-array workloads of the kernel (bit-set storage, scratch masks) and
// keeps the byte accounting that Allocated reports.

const (
	// regionSlabWords is the number of words reserved per slab.
	regionSlabWords = 4096

	// regionClasses is the number of size classes. Class c holds blocks
	// of exactly 1<<c words; requests above the largest class are
	// allocated directly and never recycled.
	regionClasses = 10
)

// Region allocates word blocks for a single Space.
type Region struct {
	// slab is the remainder of the current slab.
	slab []uint64

	// free holds recycled blocks per size class.
	free [regionClasses][][]uint64

	// allocated is the total number of bytes reserved from the host,
	// including slab space not yet handed out.
	allocated int

	// recycled is the total number of bytes returned through Recycle.
	recycled int
}

// sizeClass returns the class index for a block of n words, and the rounded
// block size. Requests beyond the largest class return class -1.
func sizeClass(n int) (int, int) {
	for c, sz := 0, 1; c < regionClasses; c, sz = c+1, sz*2 {
		if n <= sz {
			return c, sz
		}
	}
	return -1, n
}

// Alloc returns a zeroed block of n words. Small blocks come from the free
// list of their size class when available, otherwise from the current slab.
func (r *Region) Alloc(n int) []uint64 {
	if n == 0 {
		return nil
	}
	c, sz := sizeClass(n)
	if c < 0 {
		// Oversized block, allocated directly.
		r.allocated += 8 * n
		return make([]uint64, n)
	}
	if l := r.free[c]; len(l) > 0 {
		b := l[len(l)-1]
		r.free[c] = l[:len(l)-1]
		b = b[:n]
		for i := range b {
			b[i] = 0
		}
		return b
	}
	if len(r.slab) < sz {
		r.slab = make([]uint64, regionSlabWords)
		r.allocated += 8 * regionSlabWords
	}
	b := r.slab[:sz:sz]
	r.slab = r.slab[sz:]
	return b[:n]
}

// Reuse returns a block obtained from Alloc to its size-class free list.
// Oversized blocks are dropped for the collector to reclaim.
func (r *Region) Reuse(b []uint64) {
	if cap(b) == 0 {
		return
	}
	c, sz := sizeClass(cap(b))
	if c < 0 || sz != cap(b) {
		return
	}
	r.free[c] = append(r.free[c], b[:cap(b)])
}

// Recycle records that n bytes owned by an actor were released back to the
// Space. The bytes stay part of the region footprint until the Space goes
// away, matching the arena lifetime rule.
func (r *Region) Recycle(n int) {
	r.recycled += n
}

// Allocated reports the total bytes reserved by the region.
func (r *Region) Allocated() int {
	return r.allocated
}

// Recycled reports the total bytes returned through Recycle.
func (r *Region) Recycled() int {
	return r.recycled
}
