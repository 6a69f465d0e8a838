package solver

import (
	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/ports"
)

// CapacityFeasible simulates serving the given job ranks in order on an
// otherwise empty route of v and reports whether the load stays within
// capacity at every point. Deliveries whose shipment pickup rides along
// are picked up en route; everything else is loaded at the start.
func CapacityFeasible(p ports.Problem, v domain.Vehicle, ranks []int) bool {
	jobs := p.Jobs()

	inRoute := make(map[int]struct{}, len(ranks))
	for _, r := range ranks {
		inRoute[r] = struct{}{}
	}

	load := initialLoad(jobs, ranks, inRoute, len(v.Capacity))
	if !load.LTE(v.Capacity) {
		return false
	}

	for _, r := range ranks {
		j := jobs[r]
		load = load.Sub(j.Delivery).Add(j.Pickup)
		if !load.LTE(v.Capacity) {
			return false
		}
	}
	return true
}

// initialLoad is what the vehicle carries when leaving its start: every
// delivery except those whose shipment pickup is on the same route. The
// shipment pickup sits at the rank right before its delivery in the job
// sequence.
func initialLoad(jobs []domain.Job, ranks []int, inRoute map[int]struct{}, size int) domain.Amount {
	load := domain.ZeroAmount(size)
	for _, r := range ranks {
		j := jobs[r]
		switch j.Type {
		case domain.JobSingle:
			load = load.Add(j.Delivery)
		case domain.JobDelivery:
			if _, ok := inRoute[r-1]; !ok {
				load = load.Add(j.Delivery)
			}
		}
	}
	return load
}

// TWFeasible walks the given job ranks on an empty route of v and reports
// whether every service can begin inside one of its windows and the
// vehicle is back within its own working window.
func TWFeasible(p ports.Problem, v domain.Vehicle, m domain.Matrix, ranks []int) bool {
	jobs := p.Jobs()

	t := v.TW.Start
	prev := -1
	if v.HasStart() {
		prev = v.Start.Index()
	}

	for _, r := range ranks {
		j := jobs[r]
		if prev >= 0 {
			t += int64(m[prev][j.Index()])
		}

		begin, ok := earliestServiceStart(j, t)
		if !ok {
			return false
		}
		t = begin + j.Service
		prev = j.Index()
	}

	if v.HasEnd() && prev >= 0 {
		t += int64(m[prev][v.End.Index()])
	}
	return t <= v.TW.End
}

// earliestServiceStart returns the earliest time >= arrival at which
// service may begin under the job's time windows. Windows are half-open,
// ordered, and an empty list means no constraint.
func earliestServiceStart(j domain.Job, arrival int64) (int64, bool) {
	if len(j.TWs) == 0 {
		return arrival, true
	}
	for _, tw := range j.TWs {
		if arrival < tw.End {
			if arrival < tw.Start {
				return tw.Start, true
			}
			return arrival, true
		}
	}
	return 0, false
}
