package ports

import (
	"context"

	"github.com/sgvandijk/vroom/internal/domain"
)

// Router is the contract a routing backend adapter satisfies for one
// profile: materialize a cost matrix for a set of locations, and enrich a
// finished route with distance and geometry.
type Router interface {
	// Profile names the routing configuration this adapter serves.
	Profile() string

	// GetMatrix returns a square matrix of travel costs between the given
	// locations, in input order. Safe to call concurrently across distinct
	// adapter instances.
	GetMatrix(ctx context.Context, locations []domain.Location) (domain.Matrix, error)

	// AddRouteInfo populates the route's distance, per-step distances and
	// geometry from the backend.
	AddRouteInfo(ctx context.Context, route *domain.Route) error
}
