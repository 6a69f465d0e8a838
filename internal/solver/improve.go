package solver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/ports"
)

// improve runs a 2-opt pass over each route. Routes are independent, so
// they improve concurrently up to nbThread workers; each route's search
// is exhaustive and order-stable, keeping the result deterministic.
// Routes carrying shipment pairs are left untouched to preserve
// pickup-before-delivery ordering.
func (s *solver) improve(ctx context.Context, p ports.Problem, routes [][]int, explorationLevel, nbThread int) error {
	if explorationLevel <= 0 {
		return nil
	}
	if nbThread < 1 {
		nbThread = 1
	}

	jobs := p.Jobs()
	vehicles := p.Vehicles()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(nbThread)

	for v := range routes {
		g.Go(func() error {
			seq := routes[v]
			if len(seq) < 3 {
				return nil
			}
			for _, r := range seq {
				if jobs[r].Type != domain.JobSingle {
					return nil
				}
			}

			m := p.Matrix(vehicles[v].Profile)
			best := seq
			bestCost := sequenceCost(jobs, vehicles[v], m, best)

			for it := 0; it < explorationLevel; it++ {
				if err := ctx.Err(); err != nil {
					return err
				}

				improved := false
				for i := 0; i < len(best)-1; i++ {
					for k := i + 1; k < len(best); k++ {
						candidate := twoOptSwap(best, i, k)
						if s.tw && !TWFeasible(p, vehicles[v], m, candidate) {
							continue
						}
						c := sequenceCost(jobs, vehicles[v], m, candidate)
						if c < bestCost {
							best = candidate
							bestCost = c
							improved = true
						}
					}
				}
				if !improved {
					break
				}
			}

			routes[v] = best
			return nil
		})
	}

	return g.Wait()
}

// twoOptSwap reverses the i..k segment.
func twoOptSwap(ord []int, i, k int) []int {
	out := make([]int, len(ord))
	copy(out, ord[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = ord[j]
		pos++
	}
	copy(out[pos:], ord[k+1:])
	return out
}
