package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgvandijk/vroom/internal/adapters/routing"
	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/ports"
)

// mockFactory hands out one MockRouter per profile and remembers them.
type mockFactory struct {
	mu      sync.Mutex
	routers map[string]*routing.MockRouter
	matrix  func(profile string, locations []domain.Location) (domain.Matrix, error)
}

func newMockFactory(matrix func(profile string, locations []domain.Location) (domain.Matrix, error)) *mockFactory {
	return &mockFactory{routers: make(map[string]*routing.MockRouter), matrix: matrix}
}

func (f *mockFactory) newRouter(profile string) (ports.Router, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := &routing.MockRouter{
		ProfileName: profile,
		MatrixFn: func(ctx context.Context, locations []domain.Location) (domain.Matrix, error) {
			return f.matrix(profile, locations)
		},
	}
	f.routers[profile] = r
	return r, nil
}

func identityMatrix(n int) domain.Matrix {
	m := domain.NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				m[i][j] = 10
			}
		}
	}
	return m
}

func TestSetMatricesPerProfile(t *testing.T) {
	factory := newMockFactory(func(profile string, locations []domain.Location) (domain.Matrix, error) {
		return identityMatrix(len(locations)), nil
	})

	in := New(Options{NewRouter: factory.newRouter})

	require.NoError(t, in.AddJob(singleJob(1, coordsLoc(0, 0))))

	car := vehicleAt(1, coordsLoc(1, 0))
	car.Profile = "car"
	require.NoError(t, in.AddVehicle(car))

	bike := vehicleAt(2, coordsLoc(2, 0))
	bike.Profile = "bike"
	require.NoError(t, in.AddVehicle(bike))

	require.NoError(t, in.setMatrices(context.Background(), 2))

	require.Len(t, factory.routers, 2)
	assert.Equal(t, 1, factory.routers["car"].MatrixCalls())
	assert.Equal(t, 1, factory.routers["bike"].MatrixCalls())

	// Both matrices cover the three known locations (P3).
	assert.Greater(t, in.Matrix("car").Size(), in.MaxMatricesUsedIndex())
	assert.Greater(t, in.Matrix("bike").Size(), in.MaxMatricesUsedIndex())

	// Vehicles borrow their profile's matrix.
	assert.Equal(t, in.Matrix("car").Size(), in.Vehicles()[0].Costs.Size())
}

func TestSetMatricesFirstErrorSurfacedOnce(t *testing.T) {
	boom := domain.NewRoutingError(nil, "car backend down")
	factory := newMockFactory(func(profile string, locations []domain.Location) (domain.Matrix, error) {
		if profile == "car" {
			return nil, boom
		}
		return identityMatrix(len(locations)), nil
	})

	in := New(Options{NewRouter: factory.newRouter})

	car := vehicleAt(1, coordsLoc(0, 0))
	car.Profile = "car"
	require.NoError(t, in.AddVehicle(car))

	bike := vehicleAt(2, coordsLoc(1, 0))
	bike.Profile = "bike"
	require.NoError(t, in.AddVehicle(bike))

	err := in.setMatrices(context.Background(), 2)
	require.Error(t, err)

	var routingErr *domain.RoutingError
	require.ErrorAs(t, err, &routingErr)
	assert.ErrorContains(t, err, "car backend down")
}

func TestSetMatricesUserMatrixSkipsBackend(t *testing.T) {
	factory := newMockFactory(func(profile string, locations []domain.Location) (domain.Matrix, error) {
		t.Fatalf("backend should not be queried for profile %q", profile)
		return nil, nil
	})

	in := New(Options{NewRouter: factory.newRouter})

	require.NoError(t, in.AddJob(singleJob(1, idxLoc(0))))
	v := vehicleAt(1, idxLoc(1))
	require.NoError(t, in.AddVehicle(v))
	require.NoError(t, in.SetMatrix("car", identityMatrix(2)))

	require.NoError(t, in.setMatrices(context.Background(), 1))
	assert.Empty(t, factory.routers)
}

func TestSetMatricesRemapsUserIndices(t *testing.T) {
	// Registry order is job first, then the vehicle start; the backend
	// answers densely in that order.
	factory := newMockFactory(func(profile string, locations []domain.Location) (domain.Matrix, error) {
		require.Len(t, locations, 2)
		m := domain.NewMatrix(2)
		m[0][1] = 7
		m[1][0] = 9
		return m, nil
	})

	in := New(Options{NewRouter: factory.newRouter})

	j := singleJob(1, domain.NewLocationIndexCoords(2, domain.Coordinates{Lon: 1, Lat: 0}))
	require.NoError(t, in.AddJob(j))
	v := vehicleAt(1, domain.NewLocationIndexCoords(0, domain.Coordinates{Lon: 0, Lat: 0}))
	require.NoError(t, in.AddVehicle(v))

	require.NoError(t, in.setMatrices(context.Background(), 1))

	m := in.Matrix(domain.DefaultProfile)
	require.Equal(t, 3, m.Size())
	assert.Equal(t, domain.Cost(7), m[2][0])
	assert.Equal(t, domain.Cost(9), m[0][2])
}

func TestSetMatricesTooSmall(t *testing.T) {
	in := New(Options{})

	require.NoError(t, in.AddJob(singleJob(1, idxLoc(5))))
	require.NoError(t, in.AddVehicle(vehicleAt(1, idxLoc(0))))
	require.NoError(t, in.SetMatrix("car", identityMatrix(3)))

	err := in.setMatrices(context.Background(), 1)
	require.EqualError(t, err, "Matrix too small for profile \"car\".")
}

func TestSetMatricesCustomMatrixNeedsIndices(t *testing.T) {
	in := New(Options{})

	require.NoError(t, in.AddJob(singleJob(1, coordsLoc(0, 0))))
	require.NoError(t, in.AddVehicle(vehicleAt(1, coordsLoc(1, 0))))
	require.NoError(t, in.SetMatrix("car", identityMatrix(2)))

	err := in.setMatrices(context.Background(), 1)
	var inputErr *domain.InputError
	require.ErrorAs(t, err, &inputErr)
}

func TestCheckCostBoundOverflow(t *testing.T) {
	in := New(Options{})

	require.NoError(t, in.AddJob(singleJob(1, idxLoc(1))))
	require.NoError(t, in.AddVehicle(vehicleAt(1, idxLoc(0))))

	m := domain.NewMatrix(2)
	for i := range m {
		for j := range m[i] {
			m[i][j] = domain.MaxCost
		}
	}
	require.NoError(t, in.SetMatrix("car", m))

	err := in.setMatrices(context.Background(), 1)
	require.Error(t, err)

	var internalErr *domain.InternalError
	require.True(t, errors.As(err, &internalErr), "expected InternalError, got %v", err)
}
