package solver

import (
	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/ports"
)

func stepKind(t domain.JobType) domain.StepKind {
	switch t {
	case domain.JobPickup:
		return domain.StepPickup
	case domain.JobDelivery:
		return domain.StepDelivery
	default:
		return domain.StepJob
	}
}

// buildRoute expands a feasible rank sequence into a full route: steps
// with arrivals, waiting times and load snapshots, plus the aggregated
// cost, service, duration and amounts.
func buildRoute(p ports.Problem, v domain.Vehicle, seq []int) domain.Route {
	jobs := p.Jobs()
	m := p.Matrix(v.Profile)

	inRoute := make(map[int]struct{}, len(seq))
	for _, r := range seq {
		inRoute[r] = struct{}{}
	}
	load := initialLoad(jobs, seq, inRoute, len(v.Capacity))

	route := domain.Route{
		Vehicle:     v.ID,
		Profile:     v.Profile,
		Description: v.Description,
		Delivery:    domain.ZeroAmount(len(v.Capacity)),
		Pickup:      domain.ZeroAmount(len(v.Capacity)),
	}

	t := v.TW.Start
	prev := -1

	if v.HasStart() {
		prev = v.Start.Index()
		route.Steps = append(route.Steps, domain.SolutionStep{
			Type:     domain.StepStart,
			Location: *v.Start,
			Arrival:  t,
			Load:     load,
		})
	}

	for _, r := range seq {
		j := jobs[r]

		if prev >= 0 {
			travel := int64(m[prev][j.Index()])
			t += travel
			route.Duration += travel
			route.Cost += domain.Cost(travel)
		}

		arrival := t
		begin, _ := earliestServiceStart(j, arrival)
		waiting := begin - arrival

		route.WaitingTime += waiting
		route.Service += j.Service
		route.Priority += j.Priority
		route.Delivery = route.Delivery.Add(j.Delivery)
		route.Pickup = route.Pickup.Add(j.Pickup)

		load = load.Sub(j.Delivery).Add(j.Pickup)

		route.Steps = append(route.Steps, domain.SolutionStep{
			Type:        stepKind(j.Type),
			Location:    j.Location,
			ID:          j.ID,
			Service:     j.Service,
			WaitingTime: waiting,
			Arrival:     arrival,
			Load:        load,
			Description: j.Description,
		})

		t = begin + j.Service
		prev = j.Index()
	}

	if v.HasEnd() {
		if prev >= 0 {
			travel := int64(m[prev][v.End.Index()])
			t += travel
			route.Duration += travel
			route.Cost += domain.Cost(travel)
		}
		route.Steps = append(route.Steps, domain.SolutionStep{
			Type:     domain.StepEnd,
			Location: *v.End,
			Arrival:  t,
			Load:     load,
		})
	}

	return route
}
