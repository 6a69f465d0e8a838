package ports

import (
	"context"

	"github.com/sgvandijk/vroom/internal/domain"
)

// Problem is the read-only view of a fully prepared instance the solver
// and the plan validator consume.
type Problem interface {
	Jobs() []domain.Job
	Vehicles() []domain.Vehicle

	HasTW() bool
	HasJobs() bool
	HasShipments() bool
	HasSkills() bool
	HasHomogeneousLocations() bool
	HasHomogeneousProfiles() bool

	// Matrix returns the cost matrix for a profile.
	Matrix(profile string) domain.Matrix

	// VehicleOKWithJob reports compatibility by rank into Vehicles() and
	// Jobs().
	VehicleOKWithJob(v, j int) bool

	// VehicleOKWithVehicle reports whether some job is compatible with
	// both vehicles, by rank into Vehicles().
	VehicleOKWithVehicle(v1, v2 int) bool
}

// Solver searches for routes over a prepared problem.
type Solver interface {
	Solve(ctx context.Context, p Problem, explorationLevel, nbThread int) (domain.Solution, error)
}
