package solver

import (
	"context"
	"math"

	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/ports"
)

// solver is a deterministic greedy cheapest-insertion heuristic with
// optional time-window handling and a 2-opt improvement pass. It trades
// solution quality for predictability.
type solver struct {
	tw bool
}

// NewCVRP returns the capacitated variant.
func NewCVRP() ports.Solver { return &solver{tw: false} }

// NewVRPTW returns the time-window variant.
func NewVRPTW() ports.Solver { return &solver{tw: true} }

// unit is what gets inserted atomically: a single job, or a shipment's
// consecutive (pickup, delivery) rank pair.
type unit struct {
	ranks []int
}

type insertion struct {
	vehicle int
	unit    int
	// positions in the target route; pos2 only meaningful for pairs and
	// counts within the sequence after the pickup was inserted at pos.
	pos  int
	pos2 int
	cost int64
}

func (s *solver) Solve(ctx context.Context, p ports.Problem, explorationLevel, nbThread int) (domain.Solution, error) {
	jobs := p.Jobs()
	vehicles := p.Vehicles()

	units := make([]unit, 0, len(jobs))
	for r := range jobs {
		switch jobs[r].Type {
		case domain.JobSingle:
			units = append(units, unit{ranks: []int{r}})
		case domain.JobPickup:
			units = append(units, unit{ranks: []int{r, r + 1}})
		}
	}

	routes := make([][]int, len(vehicles))
	placed := make([]bool, len(units))

	for {
		if err := ctx.Err(); err != nil {
			return domain.Solution{}, err
		}

		best, ok := s.bestInsertion(p, routes, units, placed)
		if !ok {
			break
		}

		routes[best.vehicle] = insertUnit(routes[best.vehicle], units[best.unit], best.pos, best.pos2)
		placed[best.unit] = true
	}

	if err := s.improve(ctx, p, routes, explorationLevel, nbThread); err != nil {
		return domain.Solution{}, err
	}

	return s.assemble(p, routes, units, placed), nil
}

// bestInsertion scans every unplaced unit, vehicle and position for the
// cheapest feasible insertion. Ties resolve to the lowest unit rank,
// then vehicle rank, then position, which keeps the search deterministic.
func (s *solver) bestInsertion(p ports.Problem, routes [][]int, units []unit, placed []bool) (insertion, bool) {
	jobs := p.Jobs()
	vehicles := p.Vehicles()

	best := insertion{cost: math.MaxInt64}
	found := false

	for u := range units {
		if placed[u] {
			continue
		}
		for v := range vehicles {
			if !s.unitCompatible(p, v, units[u]) {
				continue
			}

			m := p.Matrix(vehicles[v].Profile)
			current := routes[v]
			base := sequenceCost(jobs, vehicles[v], m, current)

			if len(units[u].ranks) == 1 {
				for pos := 0; pos <= len(current); pos++ {
					candidate := insertUnit(current, units[u], pos, 0)
					if !s.feasible(p, vehicles[v], m, candidate) {
						continue
					}
					delta := sequenceCost(jobs, vehicles[v], m, candidate) - base
					if delta < best.cost {
						best = insertion{vehicle: v, unit: u, pos: pos, cost: delta}
						found = true
					}
				}
				continue
			}

			for pos := 0; pos <= len(current); pos++ {
				for pos2 := pos + 1; pos2 <= len(current)+1; pos2++ {
					candidate := insertUnit(current, units[u], pos, pos2)
					if !s.feasible(p, vehicles[v], m, candidate) {
						continue
					}
					delta := sequenceCost(jobs, vehicles[v], m, candidate) - base
					if delta < best.cost {
						best = insertion{vehicle: v, unit: u, pos: pos, pos2: pos2, cost: delta}
						found = true
					}
				}
			}
		}
	}

	return best, found
}

func (s *solver) unitCompatible(p ports.Problem, v int, u unit) bool {
	for _, r := range u.ranks {
		if !p.VehicleOKWithJob(v, r) {
			return false
		}
	}
	return true
}

func (s *solver) feasible(p ports.Problem, v domain.Vehicle, m domain.Matrix, seq []int) bool {
	if !CapacityFeasible(p, v, seq) {
		return false
	}
	if s.tw && !TWFeasible(p, v, m, seq) {
		return false
	}
	return true
}

// insertUnit places a unit's ranks into seq: singles at pos, pairs with
// the pickup at pos and the delivery at pos2 of the intermediate
// sequence.
func insertUnit(seq []int, u unit, pos, pos2 int) []int {
	out := make([]int, 0, len(seq)+len(u.ranks))
	out = append(out, seq[:pos]...)
	out = append(out, u.ranks[0])
	out = append(out, seq[pos:]...)

	if len(u.ranks) == 1 {
		return out
	}

	withDelivery := make([]int, 0, len(out)+1)
	withDelivery = append(withDelivery, out[:pos2]...)
	withDelivery = append(withDelivery, u.ranks[1])
	withDelivery = append(withDelivery, out[pos2:]...)
	return withDelivery
}

// sequenceCost sums the travel arcs of serving the given job ranks on an
// empty route of v, including the start and end legs when present.
func sequenceCost(jobs []domain.Job, v domain.Vehicle, m domain.Matrix, seq []int) int64 {
	var cost int64

	prev := -1
	if v.HasStart() {
		prev = v.Start.Index()
	}
	for _, r := range seq {
		idx := jobs[r].Index()
		if prev >= 0 {
			cost += int64(m[prev][idx])
		}
		prev = idx
	}
	if v.HasEnd() && prev >= 0 {
		cost += int64(m[prev][v.End.Index()])
	}
	return cost
}

// assemble turns the final routes into a solution with full step detail
// and aggregated totals.
func (s *solver) assemble(p ports.Problem, routes [][]int, units []unit, placed []bool) domain.Solution {
	jobs := p.Jobs()
	vehicles := p.Vehicles()

	var sol domain.Solution
	amountSize := 0
	if len(vehicles) > 0 {
		amountSize = len(vehicles[0].Capacity)
	}
	sol.Summary.Delivery = domain.ZeroAmount(amountSize)
	sol.Summary.Pickup = domain.ZeroAmount(amountSize)

	for v, seq := range routes {
		if len(seq) == 0 {
			continue
		}
		r := buildRoute(p, vehicles[v], seq)
		sol.Routes = append(sol.Routes, r)

		sol.Summary.Cost += r.Cost
		sol.Summary.Routes++
		sol.Summary.Service += r.Service
		sol.Summary.Duration += r.Duration
		sol.Summary.WaitingTime += r.WaitingTime
		sol.Summary.Priority += r.Priority
		sol.Summary.Delivery = sol.Summary.Delivery.Add(r.Delivery)
		sol.Summary.Pickup = sol.Summary.Pickup.Add(r.Pickup)
	}

	for u := range units {
		if placed[u] {
			continue
		}
		for _, rank := range units[u].ranks {
			j := jobs[rank]
			sol.Unassigned = append(sol.Unassigned, domain.UnassignedJob{
				ID:       j.ID,
				Type:     j.Type,
				Location: j.Location,
			})
		}
	}
	sol.Summary.Unassigned = len(sol.Unassigned)

	return sol
}
