package dto

import (
	"errors"

	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/services"
)

// Problem is the JSON description of a routing problem.
type Problem struct {
	Jobs      []Job             `json:"jobs,omitempty"`
	Shipments []Shipment        `json:"shipments,omitempty"`
	Vehicles  []Vehicle         `json:"vehicles"`
	Matrices  map[string]Matrix `json:"matrices,omitempty"`

	// Matrix is the legacy single-profile durations matrix.
	Matrix [][]uint32 `json:"matrix,omitempty"`
}

type Matrix struct {
	Durations [][]uint32 `json:"durations,omitempty"`
}

type Job struct {
	ID            uint64      `json:"id"`
	Description   string      `json:"description,omitempty"`
	Location      *[2]float64 `json:"location,omitempty"`
	LocationIndex *int        `json:"location_index,omitempty"`
	Service       int64       `json:"service,omitempty"`
	Amount        []int64     `json:"amount,omitempty"` // legacy alias for delivery
	Delivery      []int64     `json:"delivery,omitempty"`
	Pickup        []int64     `json:"pickup,omitempty"`
	Skills        []string    `json:"skills,omitempty"`
	Priority      int         `json:"priority,omitempty"`
	TimeWindows   [][2]int64  `json:"time_windows,omitempty"`
}

type ShipmentStep struct {
	ID            uint64      `json:"id"`
	Description   string      `json:"description,omitempty"`
	Location      *[2]float64 `json:"location,omitempty"`
	LocationIndex *int        `json:"location_index,omitempty"`
	Service       int64       `json:"service,omitempty"`
	TimeWindows   [][2]int64  `json:"time_windows,omitempty"`
}

type Shipment struct {
	Amount   []int64      `json:"amount,omitempty"`
	Skills   []string     `json:"skills,omitempty"`
	Priority int          `json:"priority,omitempty"`
	Pickup   ShipmentStep `json:"pickup"`
	Delivery ShipmentStep `json:"delivery"`
}

type VehicleBreak struct {
	ID          uint64     `json:"id"`
	Description string     `json:"description,omitempty"`
	TimeWindows [][2]int64 `json:"time_windows,omitempty"`
	Service     int64      `json:"service,omitempty"`
}

type VehicleStep struct {
	Type        string `json:"type"`
	ID          uint64 `json:"id,omitempty"`
	ServiceAt   *int64 `json:"service_at,omitempty"`
	Description string `json:"description,omitempty"`
}

type Vehicle struct {
	ID          uint64         `json:"id"`
	Description string         `json:"description,omitempty"`
	Profile     string         `json:"profile,omitempty"`
	Start       *[2]float64    `json:"start,omitempty"`
	StartIndex  *int           `json:"start_index,omitempty"`
	End         *[2]float64    `json:"end,omitempty"`
	EndIndex    *int           `json:"end_index,omitempty"`
	Capacity    []int64        `json:"capacity,omitempty"`
	Skills      []string       `json:"skills,omitempty"`
	TimeWindow  *[2]int64      `json:"time_window,omitempty"`
	Breaks      []VehicleBreak `json:"breaks,omitempty"`
	Steps       []VehicleStep  `json:"steps,omitempty"`
}

// location builds a domain location from the optional coordinate pair
// and explicit index; with neither, the zero location is returned and
// ingestion rejects it.
func location(coords *[2]float64, index *int) domain.Location {
	switch {
	case index != nil && coords != nil:
		return domain.NewLocationIndexCoords(*index, domain.Coordinates{Lon: coords[0], Lat: coords[1]})
	case index != nil:
		return domain.NewLocationIndex(*index)
	case coords != nil:
		return domain.NewLocationCoords(domain.Coordinates{Lon: coords[0], Lat: coords[1]})
	default:
		return domain.Location{}
	}
}

func timeWindows(tws [][2]int64) []domain.TimeWindow {
	out := make([]domain.TimeWindow, 0, len(tws))
	for _, tw := range tws {
		out = append(out, domain.TimeWindow{Start: tw[0], End: tw[1]})
	}
	return out
}

func (j Job) toDomain() domain.Job {
	delivery := j.Delivery
	if delivery == nil {
		delivery = j.Amount
	}
	return domain.Job{
		ID:          j.ID,
		Type:        domain.JobSingle,
		Location:    location(j.Location, j.LocationIndex),
		Service:     j.Service,
		Delivery:    domain.Amount(delivery),
		Pickup:      domain.Amount(j.Pickup),
		Skills:      domain.NewSkills(j.Skills...),
		Priority:    j.Priority,
		TWs:         timeWindows(j.TimeWindows),
		Description: j.Description,
	}
}

func (s Shipment) toDomain() (pickup, delivery domain.Job) {
	pickup = domain.Job{
		ID:          s.Pickup.ID,
		Type:        domain.JobPickup,
		Location:    location(s.Pickup.Location, s.Pickup.LocationIndex),
		Service:     s.Pickup.Service,
		Pickup:      domain.Amount(s.Amount),
		Skills:      domain.NewSkills(s.Skills...),
		Priority:    s.Priority,
		TWs:         timeWindows(s.Pickup.TimeWindows),
		Description: s.Pickup.Description,
	}
	delivery = domain.Job{
		ID:          s.Delivery.ID,
		Type:        domain.JobDelivery,
		Location:    location(s.Delivery.Location, s.Delivery.LocationIndex),
		Service:     s.Delivery.Service,
		Delivery:    domain.Amount(s.Amount),
		Skills:      domain.NewSkills(s.Skills...),
		Priority:    s.Priority,
		TWs:         timeWindows(s.Delivery.TimeWindows),
		Description: s.Delivery.Description,
	}
	return pickup, delivery
}

func stepKindFromString(s string) (domain.StepKind, bool) {
	switch s {
	case "start":
		return domain.StepStart, true
	case "job":
		return domain.StepJob, true
	case "pickup":
		return domain.StepPickup, true
	case "delivery":
		return domain.StepDelivery, true
	case "break":
		return domain.StepBreak, true
	case "end":
		return domain.StepEnd, true
	default:
		return 0, false
	}
}

func (v Vehicle) toDomain() (domain.Vehicle, error) {
	out := domain.Vehicle{
		ID:          v.ID,
		Profile:     v.Profile,
		Capacity:    domain.Amount(v.Capacity),
		Skills:      domain.NewSkills(v.Skills...),
		Description: v.Description,
	}

	if v.Start != nil || v.StartIndex != nil {
		l := location(v.Start, v.StartIndex)
		out.Start = &l
	}
	if v.End != nil || v.EndIndex != nil {
		l := location(v.End, v.EndIndex)
		out.End = &l
	}
	if v.TimeWindow != nil {
		out.TW = domain.TimeWindow{Start: v.TimeWindow[0], End: v.TimeWindow[1]}
	}

	for _, b := range v.Breaks {
		out.Breaks = append(out.Breaks, domain.Break{
			ID:          b.ID,
			TWs:         timeWindows(b.TimeWindows),
			Service:     b.Service,
			Description: b.Description,
		})
	}

	for _, s := range v.Steps {
		kind, ok := stepKindFromString(s.Type)
		if !ok {
			return domain.Vehicle{}, domain.NewInputError("Invalid step type \"%s\" for vehicle %d.", s.Type, v.ID)
		}
		out.Steps = append(out.Steps, domain.VehicleStep{
			Kind:        kind,
			ID:          s.ID,
			ServiceAt:   s.ServiceAt,
			Description: s.Description,
		})
	}

	return out, nil
}

func toDomainMatrix(rows [][]uint32) domain.Matrix {
	m := make(domain.Matrix, len(rows))
	for i, row := range rows {
		m[i] = make([]domain.Cost, len(row))
		for j, c := range row {
			m[i][j] = domain.Cost(c)
		}
	}
	return m
}

// Apply feeds the problem description into an instance in a fixed order:
// matrices first, then jobs, shipments and vehicles.
func (p Problem) Apply(in *services.Input) error {
	if len(p.Vehicles) == 0 {
		return domain.NewInputError("No vehicle defined.")
	}

	if p.Matrix != nil {
		if err := in.SetMatrix(domain.DefaultProfile, toDomainMatrix(p.Matrix)); err != nil {
			return err
		}
	}
	for profile, m := range p.Matrices {
		if m.Durations == nil {
			return domain.NewInputError("Missing durations matrix for profile \"%s\".", profile)
		}
		if err := in.SetMatrix(profile, toDomainMatrix(m.Durations)); err != nil {
			return err
		}
	}

	for _, j := range p.Jobs {
		if err := in.AddJob(j.toDomain()); err != nil {
			return err
		}
	}
	for _, s := range p.Shipments {
		pickup, delivery := s.toDomain()
		if err := in.AddShipment(pickup, delivery); err != nil {
			return err
		}
	}
	for _, v := range p.Vehicles {
		dv, err := v.toDomain()
		if err != nil {
			return err
		}
		if err := in.AddVehicle(dv); err != nil {
			return err
		}
	}

	if !in.HasJobs() && !in.HasShipments() {
		return domain.NewInputError("No task defined.")
	}

	return nil
}

// ErrorCode maps an error to the exit/report code convention: 1 for
// internal errors, 2 for input errors, 3 for routing errors.
func ErrorCode(err error) int {
	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		return 2
	}
	var routingErr *domain.RoutingError
	if errors.As(err, &routingErr) {
		return 3
	}
	return 1
}
