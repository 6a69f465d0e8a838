package domain

// Violation records a constraint broken by a checked plan.
type Violation struct {
	Cause    string
	Duration int64
}

// SolutionStep is one stop of a computed or validated route.
type SolutionStep struct {
	Type        StepKind
	Location    Location
	ID          uint64
	Service     int64
	WaitingTime int64
	Arrival     int64
	Load        Amount
	Violations  []Violation
	Distance    int64
	Description string
}

// Route is the itinerary assigned to one vehicle.
type Route struct {
	Vehicle     uint64
	Steps       []SolutionStep
	Cost        Cost
	Service     int64
	Duration    int64
	WaitingTime int64
	Priority    int
	Delivery    Amount
	Pickup      Amount
	Profile     string
	Description string
	Violations  []Violation
	Distance    int64
	Geometry    string
}

// ComputingTimes reports the three phases of a run in milliseconds.
type ComputingTimes struct {
	Loading int64
	Solving int64
	Routing int64
}

// Summary aggregates totals over all routes.
type Summary struct {
	Cost           Cost
	Routes         int
	Unassigned     int
	Delivery       Amount
	Pickup         Amount
	Service        int64
	Duration       int64
	WaitingTime    int64
	Priority       int
	Violations     []Violation
	Distance       int64
	ComputingTimes ComputingTimes
}

// UnassignedJob identifies a job no route serves.
type UnassignedJob struct {
	ID       uint64
	Type     JobType
	Location Location
}

// Solution is what the solver or the plan validator hands back.
type Solution struct {
	Code       int
	Error      string
	Summary    Summary
	Routes     []Route
	Unassigned []UnassignedJob
}
