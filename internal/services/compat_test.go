package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgvandijk/vroom/internal/domain"
)

func prepared(t *testing.T, in *Input, nbThread int) {
	t.Helper()
	require.NoError(t, in.setMatrices(context.Background(), nbThread))
	in.setCompatibility()
}

func TestCompatibilityAllTrue(t *testing.T) {
	in := New(Options{})

	require.NoError(t, in.AddJob(singleJob(1, idxLoc(1))))
	require.NoError(t, in.AddJob(singleJob(2, idxLoc(2))))
	require.NoError(t, in.AddVehicle(vehicleAt(1, idxLoc(0))))
	require.NoError(t, in.SetMatrix("car", identityMatrix(3)))

	prepared(t, in, 1)

	assert.True(t, in.VehicleOKWithJob(0, 0))
	assert.True(t, in.VehicleOKWithJob(0, 1))
	assert.False(t, in.HasTW())
}

func TestCompatibilitySkills(t *testing.T) {
	in := New(Options{})

	j1 := singleJob(1, idxLoc(1))
	j1.Skills = domain.NewSkills("A")
	require.NoError(t, in.AddJob(j1))

	j2 := singleJob(2, idxLoc(2))
	j2.Skills = domain.NewSkills("C")
	require.NoError(t, in.AddJob(j2))

	v := vehicleAt(1, idxLoc(0))
	v.Skills = domain.NewSkills("A", "B")
	require.NoError(t, in.AddVehicle(v))
	require.NoError(t, in.SetMatrix("car", identityMatrix(3)))

	prepared(t, in, 1)

	assert.True(t, in.VehicleOKWithJob(0, 0))
	assert.False(t, in.VehicleOKWithJob(0, 1))
}

func TestCompatibilityShipmentCapacity(t *testing.T) {
	in := New(Options{})

	pickup := domain.Job{ID: 1, Type: domain.JobPickup, Location: idxLoc(1), Pickup: domain.Amount{3}}
	delivery := domain.Job{ID: 2, Type: domain.JobDelivery, Location: idxLoc(2), Delivery: domain.Amount{3}}
	require.NoError(t, in.AddShipment(pickup, delivery))

	v := vehicleAt(1, idxLoc(0))
	v.Capacity = domain.Amount{2}
	require.NoError(t, in.AddVehicle(v))
	require.NoError(t, in.SetMatrix("car", identityMatrix(3)))

	prepared(t, in, 1)

	// The pair exceeds capacity even on an empty route; both halves share
	// the same bit.
	assert.False(t, in.VehicleOKWithJob(0, 0))
	assert.False(t, in.VehicleOKWithJob(0, 1))
}

func TestCompatibilityTimeWindows(t *testing.T) {
	in := New(Options{})

	reachable := singleJob(1, idxLoc(1))
	reachable.TWs = []domain.TimeWindow{{Start: 0, End: 100}}
	require.NoError(t, in.AddJob(reachable))

	// Closed before the vehicle can get there.
	missed := singleJob(2, idxLoc(2))
	missed.TWs = []domain.TimeWindow{{Start: 0, End: 5}}
	require.NoError(t, in.AddJob(missed))

	require.NoError(t, in.AddVehicle(vehicleAt(1, idxLoc(0))))
	require.NoError(t, in.SetMatrix("car", identityMatrix(3)))

	prepared(t, in, 1)

	assert.True(t, in.VehicleOKWithJob(0, 0))
	assert.False(t, in.VehicleOKWithJob(0, 1))
}

func TestVehicleCompatibilitySymmetricReflexive(t *testing.T) {
	in := New(Options{})

	j1 := singleJob(1, idxLoc(1))
	j1.Skills = domain.NewSkills("A")
	require.NoError(t, in.AddJob(j1))

	j2 := singleJob(2, idxLoc(2))
	j2.Skills = domain.NewSkills("B")
	require.NoError(t, in.AddJob(j2))

	vA := vehicleAt(1, idxLoc(0))
	vA.Skills = domain.NewSkills("A")
	require.NoError(t, in.AddVehicle(vA))

	vB := vehicleAt(2, idxLoc(0))
	vB.Skills = domain.NewSkills("B")
	require.NoError(t, in.AddVehicle(vB))

	vAB := vehicleAt(3, idxLoc(0))
	vAB.Skills = domain.NewSkills("A", "B")
	require.NoError(t, in.AddVehicle(vAB))

	require.NoError(t, in.SetMatrix("car", identityMatrix(3)))

	prepared(t, in, 1)

	for v1 := 0; v1 < 3; v1++ {
		assert.True(t, in.VehicleOKWithVehicle(v1, v1), "reflexive at %d", v1)
		for v2 := 0; v2 < 3; v2++ {
			assert.Equal(t, in.VehicleOKWithVehicle(v1, v2), in.VehicleOKWithVehicle(v2, v1), "symmetric at %d,%d", v1, v2)
		}
	}

	// No job both A-only and B-only vehicles could share.
	assert.False(t, in.VehicleOKWithVehicle(0, 1))
	assert.True(t, in.VehicleOKWithVehicle(0, 2))
	assert.True(t, in.VehicleOKWithVehicle(1, 2))
}

// Implicit and explicit index conventions must produce identical
// compatibility tables when the explicit indices match ingestion order.
func TestCompatibilityIndexConventionEquivalence(t *testing.T) {
	matrix := identityMatrix(3)

	implicit := New(Options{NewRouter: newMockFactory(func(profile string, locations []domain.Location) (domain.Matrix, error) {
		return matrix, nil
	}).newRouter})

	jc1 := singleJob(1, coordsLoc(0, 0))
	jc1.Skills = domain.NewSkills("A")
	jc1.TWs = []domain.TimeWindow{{Start: 0, End: 100}}
	require.NoError(t, implicit.AddJob(jc1))

	jc2 := singleJob(2, coordsLoc(1, 0))
	jc2.Skills = domain.NewSkills("B")
	jc2.TWs = []domain.TimeWindow{{Start: 0, End: 5}}
	require.NoError(t, implicit.AddJob(jc2))

	vc := vehicleAt(1, coordsLoc(2, 0))
	vc.Skills = domain.NewSkills("A", "B")
	require.NoError(t, implicit.AddVehicle(vc))

	prepared(t, implicit, 1)

	explicit := New(Options{})

	je1 := singleJob(1, idxLoc(0))
	je1.Skills = domain.NewSkills("A")
	je1.TWs = []domain.TimeWindow{{Start: 0, End: 100}}
	require.NoError(t, explicit.AddJob(je1))

	je2 := singleJob(2, idxLoc(1))
	je2.Skills = domain.NewSkills("B")
	je2.TWs = []domain.TimeWindow{{Start: 0, End: 5}}
	require.NoError(t, explicit.AddJob(je2))

	ve := vehicleAt(1, idxLoc(2))
	ve.Skills = domain.NewSkills("A", "B")
	require.NoError(t, explicit.AddVehicle(ve))

	require.NoError(t, explicit.SetMatrix("car", matrix))
	prepared(t, explicit, 1)

	for j := 0; j < 2; j++ {
		assert.Equal(t, implicit.VehicleOKWithJob(0, j), explicit.VehicleOKWithJob(0, j), "job %d", j)
	}
}
