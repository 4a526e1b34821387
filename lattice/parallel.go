package lattice

import "golang.org/x/sync/errgroup"

// minParallelStates is the level width below which fan-out costs more than it saves.
const minParallelStates = 64

// forEachState calls fn for every state j in [-i, i]. States of one step are independent, so
// with more than one worker the range is split into contiguous chunks run on an errgroup.
func (l *Lattice) forEachState(i int, fn func(j int) error) error {
	width := 2*i + 1
	if l.workers <= 1 || width < minParallelStates {
		for j := -i; j <= i; j++ {
			if err := fn(j); err != nil {
				return err
			}
		}
		return nil
	}

	chunk := (width + l.workers - 1) / l.workers
	var g errgroup.Group
	g.SetLimit(l.workers)
	for lo := -i; lo <= i; lo += chunk {
		lo := lo // per-iteration copy (pre-Go 1.22 loop semantics)
		hi := min(lo+chunk-1, i)
		g.Go(func() error {
			for j := lo; j <= hi; j++ {
				if err := fn(j); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
