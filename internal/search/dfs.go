// Package search provides copy-based depth-first search over the kernel's
// Space API. The kernel itself is strictly single-threaded; parallelism
// comes from handing independent clones to worker goroutines, which is what
// Par does for the alternatives of the root decision.
package search

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/CarolineSabourin-Jean/projet-upir/internal/kernel"
)

// First explores s depth-first and returns the first solved descendant, or
// nil when the subtree has no solution. The passed Space is driven to its
// fixpoint and may itself be the solution.
func First(s *kernel.Space, stats *kernel.Statistics) (*kernel.Space, error) {
	switch s.Status(stats) {
	case kernel.StatusFailed:
		return nil, nil
	case kernel.StatusSolved:
		return s, nil
	}
	d := s.Description().UnwrapOr(nil)
	if d == nil {
		return s, nil
	}
	for alt := uint(0); alt < d.Alternatives(); alt++ {
		c, err := s.Clone(true, stats)
		if err != nil {
			return nil, err
		}
		if err := c.Commit(d, alt); err != nil {
			return nil, err
		}
		sol, err := First(c, stats)
		if err != nil || sol != nil {
			return sol, err
		}
	}
	return nil, nil
}

// Count explores s depth-first and returns the number of solutions in its
// subtree.
func Count(s *kernel.Space, stats *kernel.Statistics) (int, error) {
	switch s.Status(stats) {
	case kernel.StatusFailed:
		return 0, nil
	case kernel.StatusSolved:
		return 1, nil
	}
	d := s.Description().UnwrapOr(nil)
	if d == nil {
		return 1, nil
	}
	n := 0
	for alt := uint(0); alt < d.Alternatives(); alt++ {
		c, err := s.Clone(true, stats)
		if err != nil {
			return 0, err
		}
		if err := c.Commit(d, alt); err != nil {
			return 0, err
		}
		m, err := Count(c, stats)
		if err != nil {
			return 0, err
		}
		n += m
	}
	return n, nil
}

// Par counts the solutions below root, fanning the alternatives of the root
// decision out to at most workers goroutines. Each worker owns an unshared
// clone, so no Space is ever touched by two goroutines.
func Par(root *kernel.Space, workers int) (int, error) {
	var stats kernel.Statistics
	switch root.Status(&stats) {
	case kernel.StatusFailed:
		return 0, nil
	case kernel.StatusSolved:
		return 1, nil
	}
	d := root.Description().UnwrapOr(nil)
	if d == nil {
		return 1, nil
	}
	if workers < 1 {
		workers = 1
	}

	// Clone before spawning: cloning is a Space operation and must stay
	// on this goroutine.
	clones := make([]*kernel.Space, d.Alternatives())
	for alt := uint(0); alt < d.Alternatives(); alt++ {
		c, err := root.Clone(false, &stats)
		if err != nil {
			return 0, err
		}
		if err := c.Commit(d, alt); err != nil {
			return 0, err
		}
		clones[alt] = c
	}

	var total atomic.Int64
	var g errgroup.Group
	g.SetLimit(workers)
	for alt, c := range clones {
		alt, c := alt, c
		g.Go(func() error {
			var ws kernel.Statistics
			n, err := Count(c, &ws)
			if err != nil {
				return err
			}
			log.Debugf("Worker for alternative %d found %d "+
				"solutions (%d propagations)",
				alt, n, ws.Propagations)
			total.Add(int64(n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return int(total.Load()), nil
}
