package validation

import (
	"context"

	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/ports"
)

// Validator assigns ETAs to pre-planned routes and records constraint
// violations instead of failing: the plan is taken as fixed and judged,
// not repaired.
type Validator struct{}

func New() *Validator { return &Validator{} }

func (*Validator) Check(ctx context.Context, p ports.Problem, steps [][]ports.StepRank) (domain.Solution, error) {
	if err := ctx.Err(); err != nil {
		return domain.Solution{}, err
	}

	jobs := p.Jobs()
	vehicles := p.Vehicles()

	var sol domain.Solution
	amountSize := 0
	if len(vehicles) > 0 {
		amountSize = len(vehicles[0].Capacity)
	}
	sol.Summary.Delivery = domain.ZeroAmount(amountSize)
	sol.Summary.Pickup = domain.ZeroAmount(amountSize)

	assigned := make(map[int]struct{})

	for vi, v := range vehicles {
		if len(steps[vi]) == 0 {
			continue
		}

		route := walkRoute(p, v, steps[vi])
		for _, sr := range steps[vi] {
			if sr.Kind != domain.StepBreak {
				assigned[sr.Rank] = struct{}{}
			}
		}

		sol.Routes = append(sol.Routes, route)
		sol.Summary.Cost += route.Cost
		sol.Summary.Routes++
		sol.Summary.Service += route.Service
		sol.Summary.Duration += route.Duration
		sol.Summary.WaitingTime += route.WaitingTime
		sol.Summary.Priority += route.Priority
		sol.Summary.Delivery = sol.Summary.Delivery.Add(route.Delivery)
		sol.Summary.Pickup = sol.Summary.Pickup.Add(route.Pickup)
		sol.Summary.Violations = append(sol.Summary.Violations, route.Violations...)
	}

	for r, j := range jobs {
		if _, ok := assigned[r]; !ok {
			sol.Unassigned = append(sol.Unassigned, domain.UnassignedJob{ID: j.ID, Type: j.Type, Location: j.Location})
		}
	}
	sol.Summary.Unassigned = len(sol.Unassigned)

	return sol, nil
}

// beginWithin returns the earliest service start >= arrival inside one of
// the windows, or, when arrival is past them all, the arrival itself plus
// the delay against the last window's end.
func beginWithin(tws []domain.TimeWindow, arrival int64) (begin int64, delay int64) {
	if len(tws) == 0 {
		return arrival, 0
	}
	for _, tw := range tws {
		if arrival < tw.End {
			if arrival < tw.Start {
				return tw.Start, 0
			}
			return arrival, 0
		}
	}
	return arrival, arrival - tws[len(tws)-1].End
}

// walkRoute replays one vehicle's fixed plan, assigning arrival times and
// collecting delay, load, skills and precedence violations.
func walkRoute(p ports.Problem, v domain.Vehicle, ranks []ports.StepRank) domain.Route {
	jobs := p.Jobs()
	m := p.Matrix(v.Profile)

	inRoute := make(map[int]struct{}, len(ranks))
	for _, sr := range ranks {
		if sr.Kind != domain.StepBreak {
			inRoute[sr.Rank] = struct{}{}
		}
	}

	// Everything delivered from the start except shipment deliveries
	// whose pickup rides along (the pickup sits at the preceding rank of
	// the job sequence).
	load := domain.ZeroAmount(len(v.Capacity))
	for _, sr := range ranks {
		if sr.Kind == domain.StepBreak {
			continue
		}
		j := jobs[sr.Rank]
		switch j.Type {
		case domain.JobSingle:
			load = load.Add(j.Delivery)
		case domain.JobDelivery:
			if _, ok := inRoute[sr.Rank-1]; !ok {
				load = load.Add(j.Delivery)
			}
		}
	}

	route := domain.Route{
		Vehicle:     v.ID,
		Profile:     v.Profile,
		Description: v.Description,
		Delivery:    domain.ZeroAmount(len(v.Capacity)),
		Pickup:      domain.ZeroAmount(len(v.Capacity)),
	}

	addViolation := func(step *domain.SolutionStep, cause string, duration int64) {
		vl := domain.Violation{Cause: cause, Duration: duration}
		step.Violations = append(step.Violations, vl)
		route.Violations = append(route.Violations, vl)
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

	served := make(map[int]struct{})

	for _, sr := range ranks {
		if sr.Kind == domain.StepBreak {
			b := v.Breaks[sr.Rank]
			arrival := t
			begin, delay := beginWithin(b.TWs, arrival)

			step := domain.SolutionStep{
				Type:        domain.StepBreak,
				ID:          b.ID,
				Service:     b.Service,
				WaitingTime: begin - arrival,
				Arrival:     arrival,
				Load:        load,
				Description: b.Description,
			}
			if delay > 0 {
				addViolation(&step, "delay", delay)
			}

			route.WaitingTime += begin - arrival
			route.Service += b.Service
			route.Steps = append(route.Steps, step)
			t = begin + b.Service
			continue
		}

		j := jobs[sr.Rank]

		if prev >= 0 {
			travel := int64(m[prev][j.Index()])
			t += travel
			route.Duration += travel
			route.Cost += domain.Cost(travel)
		}

		arrival := t
		begin, delay := beginWithin(j.TWs, arrival)
		waiting := begin - arrival

		load = load.Sub(j.Delivery).Add(j.Pickup)

		step := domain.SolutionStep{
			Type:        stepKind(j.Type),
			Location:    j.Location,
			ID:          j.ID,
			Service:     j.Service,
			WaitingTime: waiting,
			Arrival:     arrival,
			Load:        load,
			Description: j.Description,
		}

		if delay > 0 {
			addViolation(&step, "delay", delay)
		}
		if !load.LTE(v.Capacity) {
			addViolation(&step, "load", 0)
		}
		if p.HasSkills() && !v.Skills.Contains(j.Skills) {
			addViolation(&step, "skills", 0)
		}
		if j.Type == domain.JobDelivery {
			if _, ok := inRoute[sr.Rank-1]; ok {
				if _, done := served[sr.Rank-1]; !done {
					addViolation(&step, "precedence", 0)
				}
			} else {
				addViolation(&step, "precedence", 0)
			}
		}

		served[sr.Rank] = struct{}{}

		route.WaitingTime += waiting
		route.Service += j.Service
		route.Priority += j.Priority
		route.Delivery = route.Delivery.Add(j.Delivery)
		route.Pickup = route.Pickup.Add(j.Pickup)
		route.Steps = append(route.Steps, step)

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
		step := domain.SolutionStep{
			Type:     domain.StepEnd,
			Location: *v.End,
			Arrival:  t,
			Load:     load,
		}
		if t > v.TW.End {
			addViolation(&step, "lateness", t-v.TW.End)
		}
		route.Steps = append(route.Steps, step)
	}

	return route
}

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
