package dto

import "github.com/sgvandijk/vroom/internal/domain"

// Solution is the JSON rendering of a solving or checking run.
type Solution struct {
	Code       int             `json:"code"`
	Error      string          `json:"error,omitempty"`
	Summary    *Summary        `json:"summary,omitempty"`
	Unassigned []Unassigned    `json:"unassigned"`
	Routes     []SolutionRoute `json:"routes"`
}

type ComputingTimes struct {
	Loading int64 `json:"loading"`
	Solving int64 `json:"solving"`
	Routing int64 `json:"routing,omitempty"`
}

type Violation struct {
	Cause    string `json:"cause"`
	Duration int64  `json:"duration,omitempty"`
}

type Summary struct {
	Cost           uint32         `json:"cost"`
	Routes         int            `json:"routes"`
	Unassigned     int            `json:"unassigned"`
	Delivery       []int64        `json:"delivery,omitempty"`
	Pickup         []int64        `json:"pickup,omitempty"`
	Service        int64          `json:"service"`
	Duration       int64          `json:"duration"`
	WaitingTime    int64          `json:"waiting_time"`
	Priority       int            `json:"priority"`
	Violations     []Violation    `json:"violations"`
	Distance       int64          `json:"distance,omitempty"`
	ComputingTimes ComputingTimes `json:"computing_times"`
}

type Unassigned struct {
	ID       uint64      `json:"id"`
	Type     string      `json:"type"`
	Location *[2]float64 `json:"location,omitempty"`
}

type SolutionStep struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Location    *[2]float64 `json:"location,omitempty"`
	ID          uint64      `json:"id,omitempty"`
	Service     int64       `json:"service"`
	WaitingTime int64       `json:"waiting_time"`
	Arrival     int64       `json:"arrival"`
	Load        []int64     `json:"load,omitempty"`
	Violations  []Violation `json:"violations,omitempty"`
	Distance    int64       `json:"distance,omitempty"`
}

type SolutionRoute struct {
	Vehicle     uint64         `json:"vehicle"`
	Steps       []SolutionStep `json:"steps"`
	Cost        uint32         `json:"cost"`
	Service     int64          `json:"service"`
	Duration    int64          `json:"duration"`
	WaitingTime int64          `json:"waiting_time"`
	Priority    int            `json:"priority"`
	Delivery    []int64        `json:"delivery,omitempty"`
	Pickup      []int64        `json:"pickup,omitempty"`
	Profile     string         `json:"profile,omitempty"`
	Description string         `json:"description,omitempty"`
	Violations  []Violation    `json:"violations"`
	Distance    int64          `json:"distance,omitempty"`
	Geometry    string         `json:"geometry,omitempty"`
}

func coordsOf(l domain.Location) *[2]float64 {
	if !l.HasCoordinates() {
		return nil
	}
	c := l.Coordinates()
	return &[2]float64{c.Lon, c.Lat}
}

func violations(vs []domain.Violation) []Violation {
	out := make([]Violation, 0, len(vs))
	for _, v := range vs {
		out = append(out, Violation{Cause: v.Cause, Duration: v.Duration})
	}
	return out
}

// FromDomain renders a solution for output.
func FromDomain(sol domain.Solution) Solution {
	out := Solution{
		Code:       sol.Code,
		Error:      sol.Error,
		Unassigned: make([]Unassigned, 0, len(sol.Unassigned)),
		Routes:     make([]SolutionRoute, 0, len(sol.Routes)),
	}

	out.Summary = &Summary{
		Cost:        uint32(sol.Summary.Cost),
		Routes:      sol.Summary.Routes,
		Unassigned:  sol.Summary.Unassigned,
		Delivery:    sol.Summary.Delivery,
		Pickup:      sol.Summary.Pickup,
		Service:     sol.Summary.Service,
		Duration:    sol.Summary.Duration,
		WaitingTime: sol.Summary.WaitingTime,
		Priority:    sol.Summary.Priority,
		Violations:  violations(sol.Summary.Violations),
		Distance:    sol.Summary.Distance,
		ComputingTimes: ComputingTimes{
			Loading: sol.Summary.ComputingTimes.Loading,
			Solving: sol.Summary.ComputingTimes.Solving,
			Routing: sol.Summary.ComputingTimes.Routing,
		},
	}

	for _, u := range sol.Unassigned {
		out.Unassigned = append(out.Unassigned, Unassigned{
			ID:       u.ID,
			Type:     u.Type.String(),
			Location: coordsOf(u.Location),
		})
	}

	for _, r := range sol.Routes {
		route := SolutionRoute{
			Vehicle:     r.Vehicle,
			Steps:       make([]SolutionStep, 0, len(r.Steps)),
			Cost:        uint32(r.Cost),
			Service:     r.Service,
			Duration:    r.Duration,
			WaitingTime: r.WaitingTime,
			Priority:    r.Priority,
			Delivery:    r.Delivery,
			Pickup:      r.Pickup,
			Profile:     r.Profile,
			Description: r.Description,
			Violations:  violations(r.Violations),
			Distance:    r.Distance,
			Geometry:    r.Geometry,
		}
		for _, s := range r.Steps {
			route.Steps = append(route.Steps, SolutionStep{
				Type:        s.Type.String(),
				Description: s.Description,
				Location:    coordsOf(s.Location),
				ID:          s.ID,
				Service:     s.Service,
				WaitingTime: s.WaitingTime,
				Arrival:     s.Arrival,
				Load:        s.Load,
				Violations:  violations(s.Violations),
				Distance:    s.Distance,
			})
		}
		out.Routes = append(out.Routes, route)
	}

	return out
}

// FromError renders a failed run with the conventional error code.
func FromError(err error) Solution {
	return Solution{Code: ErrorCode(err), Error: err.Error()}
}
