package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/ports"
)

// Options configures an Input at construction time.
type Options struct {
	// AmountSize fixes the dimensionality of amounts and capacities up
	// front; when zero it is captured from the first ingestion instead.
	AmountSize int

	// Geometry asks for polylines and distances on output routes.
	Geometry bool

	// NewRouter builds the routing adapter for a profile. Required for
	// every profile not covered by a user-supplied matrix.
	NewRouter func(profile string) (ports.Router, error)

	// Solver overrides the CVRP/VRPTW selection; used by tests.
	Solver ports.Solver

	// Validator resolves pre-planned routes in Check.
	Validator ports.PlanValidator

	Logger *logrus.Logger
}

// Input assembles a routing problem: jobs, shipments and vehicles are
// ingested append-only, then matrices and compatibility tables are
// materialized once and the prepared instance is handed to a solver.
//
// Shipment adjacency contract: a shipment's pickup and delivery jobs sit
// at consecutive ranks of the job sequence, pickup first. The
// compatibility engine, solver and plan validator all locate a
// shipment's partner through this adjacency.
type Input struct {
	opts Options
	log  *logrus.Entry

	jobs     []domain.Job
	vehicles []domain.Vehicle

	registry *locationRegistry

	amountSize int
	sizeFixed  bool

	skillsSeen   bool
	hasSkills    bool
	locationSeen bool
	customIndex  bool

	hasTW                  bool
	hasJobs                bool
	hasShipments           bool
	homogeneousLocations   bool
	homogeneousProfiles    bool
	allLocationsHaveCoords bool

	usedIndex    map[int]struct{}
	maxUsedIndex int

	matrices     map[string]domain.Matrix
	userMatrices map[string]struct{}
	routers      map[string]ports.Router

	singleIDs   map[uint64]struct{}
	pickupIDs   map[uint64]struct{}
	deliveryIDs map[uint64]struct{}
	vehicleIDs  map[uint64]struct{}

	compatVJ [][]bool
	compatVV [][]bool

	startLoading time.Time
}

// New returns an empty instance ready for ingestion.
func New(opts Options) *Input {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Input{
		opts:                   opts,
		log:                    logger.WithField("component", "input"),
		registry:               newLocationRegistry(),
		amountSize:             opts.AmountSize,
		sizeFixed:              opts.AmountSize > 0,
		homogeneousLocations:   true,
		homogeneousProfiles:    true,
		allLocationsHaveCoords: true,
		maxUsedIndex:           -1,
		usedIndex:              make(map[int]struct{}),
		matrices:               make(map[string]domain.Matrix),
		userMatrices:           make(map[string]struct{}),
		routers:                make(map[string]ports.Router),
		singleIDs:              make(map[uint64]struct{}),
		pickupIDs:              make(map[uint64]struct{}),
		deliveryIDs:            make(map[uint64]struct{}),
		vehicleIDs:             make(map[uint64]struct{}),
		startLoading:           time.Now(),
	}
}

// checkAmountSize captures the instance-wide dimensionality on the first
// call and enforces it afterwards.
func (in *Input) checkAmountSize(size int) error {
	if !in.sizeFixed {
		in.amountSize = size
		in.sizeFixed = true
		return nil
	}
	if size != in.amountSize {
		return domain.NewInputError("Inconsistent amount/capacity lengths: %d and %d.", size, in.amountSize)
	}
	return nil
}

// checkSkills enforces the all-or-nothing skills convention.
func (in *Input) checkSkills(s domain.Skills) error {
	if !in.skillsSeen {
		in.skillsSeen = true
		in.hasSkills = !s.Empty()
		return nil
	}
	if in.hasSkills == s.Empty() {
		return domain.NewInputError("Missing skills.")
	}
	return nil
}

// checkLocation enforces the all-or-nothing explicit-index convention and
// rejects locations carrying neither an index nor coordinates.
func (in *Input) checkLocation(l domain.Location) error {
	if !l.UserIndex() && !l.HasCoordinates() {
		return domain.NewInputError("Invalid location: missing index and coordinates.")
	}
	if !in.locationSeen {
		in.locationSeen = true
		in.customIndex = l.UserIndex()
		return nil
	}
	if in.customIndex != l.UserIndex() {
		return domain.NewInputError("Missing location index.")
	}
	return nil
}

func validTimeWindows(tws []domain.TimeWindow) bool {
	for i, tw := range tws {
		if tw.Start >= tw.End {
			return false
		}
		if i > 0 && tw.Start < tws[i-1].End {
			return false
		}
	}
	return true
}

// normalizeAmounts zero-fills a job's missing amount vectors so both
// always carry the instance dimensionality.
func (in *Input) normalizeAmounts(j *domain.Job) {
	size := in.amountSize
	if !in.sizeFixed {
		if j.Delivery != nil {
			size = len(j.Delivery)
		} else if j.Pickup != nil {
			size = len(j.Pickup)
		}
	}
	if j.Delivery == nil {
		j.Delivery = domain.ZeroAmount(size)
	}
	if j.Pickup == nil {
		j.Pickup = domain.ZeroAmount(size)
	}
}

// intern delegates to the registry and maintains the used-index set and
// coordinate bookkeeping.
func (in *Input) intern(l *domain.Location) {
	idx := in.registry.intern(l)
	in.usedIndex[idx] = struct{}{}
	if idx > in.maxUsedIndex {
		in.maxUsedIndex = idx
	}
	if !l.HasCoordinates() {
		in.allLocationsHaveCoords = false
	}
}

// validateJob runs the checks shared by single jobs and shipment halves.
func (in *Input) validateJob(j *domain.Job) error {
	in.normalizeAmounts(j)
	if err := in.checkAmountSize(len(j.Delivery)); err != nil {
		return err
	}
	if err := in.checkAmountSize(len(j.Pickup)); err != nil {
		return err
	}
	if err := in.checkSkills(j.Skills); err != nil {
		return err
	}
	if !validTimeWindows(j.TWs) {
		return domain.NewInputError("Invalid time windows for %s %d.", j.Type, j.ID)
	}
	return in.checkLocation(j.Location)
}

// AddJob ingests a single job. Pickups and deliveries only enter through
// AddShipment.
func (in *Input) AddJob(j domain.Job) error {
	if j.Type != domain.JobSingle {
		return domain.NewInputError("Invalid type for job %d.", j.ID)
	}
	if _, ok := in.singleIDs[j.ID]; ok {
		return domain.NewInputError("Duplicate job id: %d.", j.ID)
	}
	if err := in.validateJob(&j); err != nil {
		return err
	}

	in.intern(&j.Location)
	in.singleIDs[j.ID] = struct{}{}
	in.jobs = append(in.jobs, j)
	in.hasJobs = true
	if j.HasTimeWindows() {
		in.hasTW = true
	}
	return nil
}

// AddShipment ingests a pickup/delivery pair. The two jobs are stored at
// consecutive ranks, pickup first (see the adjacency contract above).
func (in *Input) AddShipment(pickup, delivery domain.Job) error {
	if pickup.Type != domain.JobPickup || delivery.Type != domain.JobDelivery {
		return domain.NewInputError("Invalid job types within shipment %d.", pickup.ID)
	}
	if _, ok := in.pickupIDs[pickup.ID]; ok {
		return domain.NewInputError("Duplicate pickup id: %d.", pickup.ID)
	}
	if _, ok := in.deliveryIDs[delivery.ID]; ok {
		return domain.NewInputError("Duplicate delivery id: %d.", delivery.ID)
	}
	if pickup.Priority != delivery.Priority {
		return domain.NewInputError("Inconsistent priorities within shipment %d.", pickup.ID)
	}
	if !pickup.Skills.Equal(delivery.Skills) {
		return domain.NewInputError("Inconsistent skills within shipment %d.", pickup.ID)
	}

	if err := in.validateJob(&pickup); err != nil {
		return err
	}
	if err := in.validateJob(&delivery); err != nil {
		return err
	}

	if !pickup.Pickup.Equal(delivery.Delivery) {
		return domain.NewInputError("Inconsistent amounts within shipment %d.", pickup.ID)
	}

	in.intern(&pickup.Location)
	in.intern(&delivery.Location)

	in.pickupIDs[pickup.ID] = struct{}{}
	in.deliveryIDs[delivery.ID] = struct{}{}
	in.jobs = append(in.jobs, pickup, delivery)
	in.hasShipments = true
	if pickup.HasTimeWindows() || delivery.HasTimeWindows() {
		in.hasTW = true
	}
	return nil
}

// AddVehicle ingests a vehicle.
func (in *Input) AddVehicle(v domain.Vehicle) error {
	if _, ok := in.vehicleIDs[v.ID]; ok {
		return domain.NewInputError("Duplicate vehicle id: %d.", v.ID)
	}
	if v.Profile == "" {
		v.Profile = domain.DefaultProfile
	}
	if v.Capacity == nil {
		size := 0
		if in.sizeFixed {
			size = in.amountSize
		}
		v.Capacity = domain.ZeroAmount(size)
	}
	if err := in.checkAmountSize(len(v.Capacity)); err != nil {
		return err
	}
	if err := in.checkSkills(v.Skills); err != nil {
		return err
	}

	if v.TW == (domain.TimeWindow{}) {
		v.TW = domain.DefaultTimeWindow()
	}
	if v.TW.Start >= v.TW.End {
		return domain.NewInputError("Invalid time window for vehicle %d.", v.ID)
	}

	if !v.HasStart() && !v.HasEnd() {
		return domain.NewInputError("No start or end specified for vehicle %d.", v.ID)
	}
	if v.HasStart() && v.HasEnd() && v.Start.UserIndex() != v.End.UserIndex() {
		return domain.NewInputError("Missing location index.")
	}

	if v.HasStart() {
		if err := in.checkLocation(*v.Start); err != nil {
			return err
		}
	}
	if v.HasEnd() {
		if err := in.checkLocation(*v.End); err != nil {
			return err
		}
	}

	if v.HasStart() {
		in.intern(v.Start)
	}
	if v.HasEnd() {
		in.intern(v.End)
	}

	if len(in.vehicles) > 0 {
		first := in.vehicles[0]
		if !v.SameLocations(first) {
			in.homogeneousLocations = false
		}
		if v.Profile != first.Profile {
			in.homogeneousProfiles = false
		}
	}

	if !v.TW.IsDefault() {
		in.hasTW = true
	}

	in.vehicleIDs[v.ID] = struct{}{}
	in.vehicles = append(in.vehicles, v)
	return nil
}

// SetMatrix registers a user-supplied cost matrix for a profile,
// bypassing the routing backend for it.
func (in *Input) SetMatrix(profile string, m domain.Matrix) error {
	if profile == "" {
		profile = domain.DefaultProfile
	}
	for _, row := range m {
		if len(row) != m.Size() {
			return domain.NewInputError("Unsquare matrix for profile \"%s\".", profile)
		}
	}
	in.matrices[profile] = m
	in.userMatrices[profile] = struct{}{}
	return nil
}

// Read-only view consumed by the solver and the plan validator.

func (in *Input) Jobs() []domain.Job { return in.jobs }

func (in *Input) Vehicles() []domain.Vehicle { return in.vehicles }

func (in *Input) HasTW() bool { return in.hasTW }

func (in *Input) HasJobs() bool { return in.hasJobs }

func (in *Input) HasShipments() bool { return in.hasShipments }

func (in *Input) HasSkills() bool { return in.hasSkills }

func (in *Input) HasHomogeneousLocations() bool { return in.homogeneousLocations }

func (in *Input) HasHomogeneousProfiles() bool { return in.homogeneousProfiles }

func (in *Input) Matrix(profile string) domain.Matrix { return in.matrices[profile] }

func (in *Input) VehicleOKWithJob(v, j int) bool { return in.compatVJ[v][j] }

func (in *Input) VehicleOKWithVehicle(v1, v2 int) bool { return in.compatVV[v1][v2] }

// MaxMatricesUsedIndex reports the largest matrix index referenced by any
// job or vehicle, bounding the required matrix size.
func (in *Input) MaxMatricesUsedIndex() int { return in.maxUsedIndex }

// Locations returns the registry's locations in first-seen order.
func (in *Input) Locations() []domain.Location { return in.registry.list() }
