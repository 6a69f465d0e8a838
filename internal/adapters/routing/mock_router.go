package routing

import (
	"context"
	"sync"

	"github.com/sgvandijk/vroom/internal/domain"
)

// MockRouter implements ports.Router from canned responses, for tests.
type MockRouter struct {
	ProfileName string
	MatrixFn    func(ctx context.Context, locations []domain.Location) (domain.Matrix, error)
	RouteInfoFn func(ctx context.Context, route *domain.Route) error

	mu          sync.Mutex
	matrixCalls int
}

func (m *MockRouter) Profile() string { return m.ProfileName }

func (m *MockRouter) GetMatrix(ctx context.Context, locations []domain.Location) (domain.Matrix, error) {
	m.mu.Lock()
	m.matrixCalls++
	m.mu.Unlock()

	return m.MatrixFn(ctx, locations)
}

func (m *MockRouter) AddRouteInfo(ctx context.Context, route *domain.Route) error {
	if m.RouteInfoFn == nil {
		return nil
	}
	return m.RouteInfoFn(ctx, route)
}

// MatrixCalls reports how many times GetMatrix ran.
func (m *MockRouter) MatrixCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matrixCalls
}
