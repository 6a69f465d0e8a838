package services

import (
	"context"
	"time"

	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/ports"
	"github.com/sgvandijk/vroom/internal/solver"
)

// Solve prepares the instance (matrices, cost-table wiring,
// compatibility), hands it to the CVRP or VRPTW solver, optionally
// enriches routes with geometry, and records the loading/solving/routing
// timings.
func (in *Input) Solve(ctx context.Context, explorationLevel, nbThread int) (domain.Solution, error) {
	if nbThread < 1 {
		nbThread = 1
	}

	if err := in.prepare(ctx, nbThread); err != nil {
		return domain.Solution{}, err
	}

	loading := time.Since(in.startLoading).Milliseconds()
	in.log.Infof("[Loading] Done, took %d ms.", loading)

	s := in.opts.Solver
	if s == nil {
		if in.hasTW {
			s = solver.NewVRPTW()
		} else {
			s = solver.NewCVRP()
		}
	}

	endLoading := time.Now()
	sol, err := s.Solve(ctx, in, explorationLevel, nbThread)
	if err != nil {
		return domain.Solution{}, err
	}
	solving := time.Since(endLoading).Milliseconds()

	sol.Summary.ComputingTimes.Loading = loading
	sol.Summary.ComputingTimes.Solving = solving

	if in.opts.Geometry {
		if err := in.addRouteGeometry(ctx, &sol); err != nil {
			return domain.Solution{}, err
		}
	}

	return sol, nil
}

// prepare runs the shared pre-solver pipeline: geometry precheck, matrix
// materialization and compatibility tables.
func (in *Input) prepare(ctx context.Context, nbThread int) error {
	if in.opts.Geometry && !in.allLocationsHaveCoords {
		return domain.NewInputError("Route geometry request with missing coordinates.")
	}
	if err := in.setMatrices(ctx, nbThread); err != nil {
		return err
	}
	in.setCompatibility()
	return nil
}

// addRouteGeometry asks each route's routing adapter for distance and
// polyline and accumulates the total distance and routing time.
func (in *Input) addRouteGeometry(ctx context.Context, sol *domain.Solution) error {
	in.log.Info("[Route] Start computing detailed route.")
	start := time.Now()

	for i := range sol.Routes {
		router, err := in.routerFor(sol.Routes[i].Profile)
		if err != nil {
			return err
		}
		if err := router.AddRouteInfo(ctx, &sol.Routes[i]); err != nil {
			return err
		}
		sol.Summary.Distance += sol.Routes[i].Distance
	}

	routing := time.Since(start).Milliseconds()
	sol.Summary.ComputingTimes.Routing = routing
	in.log.Infof("[Route] Done, took %d ms.", routing)
	return nil
}

// routerFor returns the adapter owned for a profile, constructing it on
// first use for profiles whose matrix was user-supplied.
func (in *Input) routerFor(profile string) (ports.Router, error) {
	if r, ok := in.routers[profile]; ok {
		return r, nil
	}
	if in.opts.NewRouter == nil {
		return nil, domain.NewInputError("No routing engine set for profile \"%s\".", profile)
	}
	r, err := in.opts.NewRouter(profile)
	if err != nil {
		return nil, err
	}
	in.routers[profile] = r
	return r, nil
}
