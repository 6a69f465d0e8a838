package domain

// JobType distinguishes standalone jobs from the two halves of a shipment.
type JobType int

const (
	JobSingle JobType = iota
	JobPickup
	JobDelivery
)

func (t JobType) String() string {
	switch t {
	case JobPickup:
		return "pickup"
	case JobDelivery:
		return "delivery"
	default:
		return "job"
	}
}

// Job is a service task at a single location. Shipments are represented as
// a (pickup, delivery) job pair stored at consecutive ranks in the
// instance's job sequence.
type Job struct {
	ID          uint64
	Type        JobType
	Location    Location
	Service     int64
	Delivery    Amount
	Pickup      Amount
	Skills      Skills
	Priority    int
	TWs         []TimeWindow
	Description string
}

// Index returns the job location's matrix index.
func (j Job) Index() int { return j.Location.Index() }

// HasTimeWindows reports whether the job constrains service start at all.
// A single default window is equivalent to no constraint.
func (j Job) HasTimeWindows() bool {
	if len(j.TWs) == 0 {
		return false
	}
	return len(j.TWs) > 1 || !j.TWs[0].IsDefault()
}
