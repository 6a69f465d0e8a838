package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgvandijk/vroom/internal/domain"
)

// testProblem is a minimal ports.Problem for exercising the solver in
// isolation.
type testProblem struct {
	jobs     []domain.Job
	vehicles []domain.Vehicle
	matrix   domain.Matrix
	tw       bool
	skills   bool
	vj       [][]bool
}

func (p *testProblem) Jobs() []domain.Job { return p.jobs }

func (p *testProblem) Vehicles() []domain.Vehicle { return p.vehicles }

func (p *testProblem) HasTW() bool { return p.tw }

func (p *testProblem) HasJobs() bool { return len(p.jobs) > 0 }

func (p *testProblem) HasShipments() bool { return false }

func (p *testProblem) HasSkills() bool { return p.skills }

func (p *testProblem) HasHomogeneousLocations() bool { return true }

func (p *testProblem) HasHomogeneousProfiles() bool { return true }

func (p *testProblem) Matrix(string) domain.Matrix { return p.matrix }

func (p *testProblem) VehicleOKWithVehicle(a, b int) bool { return true }

func (p *testProblem) VehicleOKWithJob(v, j int) bool {
	if p.vj == nil {
		return true
	}
	return p.vj[v][j]
}

func lineMatrix(n int) domain.Matrix {
	m := domain.NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := i - j
			if d < 0 {
				d = -d
			}
			m[i][j] = domain.Cost(10 * d)
		}
	}
	return m
}

func job(id uint64, idx int) domain.Job {
	return domain.Job{
		ID:       id,
		Type:     domain.JobSingle,
		Location: domain.NewLocationIndex(idx),
		Delivery: domain.Amount{},
		Pickup:   domain.Amount{},
	}
}

func vehicle(id uint64, startIdx int) domain.Vehicle {
	start := domain.NewLocationIndex(startIdx)
	return domain.Vehicle{ID: id, Start: &start, TW: domain.DefaultTimeWindow()}
}

func TestCapacityFeasibleSingle(t *testing.T) {
	j := job(1, 1)
	j.Delivery = domain.Amount{3}
	j.Pickup = domain.Amount{1}

	v := vehicle(1, 0)
	v.Capacity = domain.Amount{3}

	p := &testProblem{jobs: []domain.Job{j}, vehicles: []domain.Vehicle{v}, matrix: lineMatrix(2)}
	assert.True(t, CapacityFeasible(p, v, []int{0}))

	v.Capacity = domain.Amount{2}
	assert.False(t, CapacityFeasible(p, v, []int{0}))
}

func TestCapacityFeasibleShipmentPair(t *testing.T) {
	pickup := domain.Job{ID: 1, Type: domain.JobPickup, Location: domain.NewLocationIndex(1), Pickup: domain.Amount{3}, Delivery: domain.Amount{0}}
	delivery := domain.Job{ID: 2, Type: domain.JobDelivery, Location: domain.NewLocationIndex(2), Delivery: domain.Amount{3}, Pickup: domain.Amount{0}}

	v := vehicle(1, 0)
	v.Capacity = domain.Amount{3}

	p := &testProblem{jobs: []domain.Job{pickup, delivery}, vehicles: []domain.Vehicle{v}, matrix: lineMatrix(3)}

	// Goods are picked up en route: nothing is loaded at the start.
	assert.True(t, CapacityFeasible(p, v, []int{0, 1}))

	v.Capacity = domain.Amount{2}
	assert.False(t, CapacityFeasible(p, v, []int{0, 1}))
}

func TestTWFeasible(t *testing.T) {
	j := job(1, 1)
	j.TWs = []domain.TimeWindow{{Start: 20, End: 40}}
	j.Service = 5

	v := vehicle(1, 0)

	p := &testProblem{jobs: []domain.Job{j}, vehicles: []domain.Vehicle{v}, matrix: lineMatrix(2), tw: true}

	// Arrives at 10, waits until 20.
	assert.True(t, TWFeasible(p, v, p.matrix, []int{0}))

	// Vehicle window too short to finish service.
	v.TW = domain.TimeWindow{Start: 0, End: 15}
	assert.False(t, TWFeasible(p, v, p.matrix, []int{0}))

	// Window already closed on arrival.
	late := job(2, 1)
	late.TWs = []domain.TimeWindow{{Start: 0, End: 10}}
	p2 := &testProblem{jobs: []domain.Job{late}, vehicles: []domain.Vehicle{v}, matrix: lineMatrix(2), tw: true}
	v.TW = domain.DefaultTimeWindow()
	assert.False(t, TWFeasible(p2, v, p2.matrix, []int{0}))
}

func TestEarliestServiceStartPicksLaterWindow(t *testing.T) {
	j := job(1, 1)
	j.TWs = []domain.TimeWindow{{Start: 0, End: 10}, {Start: 50, End: 60}}

	begin, ok := earliestServiceStart(j, 30)
	assert.True(t, ok)
	assert.Equal(t, int64(50), begin)

	_, ok = earliestServiceStart(j, 70)
	assert.False(t, ok)
}
