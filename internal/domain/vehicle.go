package domain

// DefaultProfile is assumed for vehicles that do not name a routing
// profile.
const DefaultProfile = "car"

// StepKind labels a step in a pre-planned vehicle route or in a solution
// route.
type StepKind int

const (
	StepStart StepKind = iota
	StepJob
	StepPickup
	StepDelivery
	StepBreak
	StepEnd
)

func (k StepKind) String() string {
	switch k {
	case StepStart:
		return "start"
	case StepJob:
		return "job"
	case StepPickup:
		return "pickup"
	case StepDelivery:
		return "delivery"
	case StepBreak:
		return "break"
	default:
		return "end"
	}
}

// VehicleStep is one entry of a pre-planned route, consulted only when
// validating an existing plan instead of solving.
type VehicleStep struct {
	Kind        StepKind
	ID          uint64
	ServiceAt   *int64
	Description string
}

// Break is a driver pause the plan validator accounts for between tasks.
type Break struct {
	ID          uint64
	TWs         []TimeWindow
	Service     int64
	Description string
}

// Vehicle describes one vehicle of the fleet: optional start and end
// locations, capacity, skills, a single working time window, and the
// routing profile selecting its cost matrix.
type Vehicle struct {
	ID          uint64
	Start       *Location
	End         *Location
	Profile     string
	Capacity    Amount
	Skills      Skills
	TW          TimeWindow
	Breaks      []Break
	Steps       []VehicleStep
	Description string

	// Costs is a non-owning view of the profile's cost matrix, wired by
	// the dispatcher once matrices are materialized.
	Costs Matrix
}

func (v Vehicle) HasStart() bool { return v.Start != nil }

func (v Vehicle) HasEnd() bool { return v.End != nil }

// SameLocations reports whether both vehicles share start and end
// locations.
func (v Vehicle) SameLocations(o Vehicle) bool {
	if v.HasStart() != o.HasStart() || v.HasEnd() != o.HasEnd() {
		return false
	}
	if v.HasStart() && !v.Start.Equal(*o.Start) {
		return false
	}
	if v.HasEnd() && !v.End.Equal(*o.End) {
		return false
	}
	return true
}
