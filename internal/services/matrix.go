package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/platform/metrics"
	"github.com/sgvandijk/vroom/internal/ports"
)

// profileList returns the distinct vehicle profiles in stable order.
func (in *Input) profileList() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range in.vehicles {
		if _, ok := seen[v.Profile]; !ok {
			seen[v.Profile] = struct{}{}
			out = append(out, v.Profile)
		}
	}
	sort.Strings(out)
	return out
}

// setMatrices materializes one cost matrix per profile: user-supplied
// matrices are kept as-is, missing ones are fetched from the routing
// backend with up to min(nbThread, missing) concurrent workers. All
// workers are waited for; the first failure is surfaced exactly once.
func (in *Input) setMatrices(ctx context.Context, nbThread int) error {
	if len(in.userMatrices) > 0 && !in.customIndex && in.locationSeen {
		return domain.NewInputError("Custom matrix provided without location indices.")
	}

	profiles := in.profileList()

	var missing []string
	for _, p := range profiles {
		if _, ok := in.matrices[p]; !ok {
			missing = append(missing, p)
		}
	}

	if len(missing) > 0 {
		if in.opts.NewRouter == nil {
			return domain.NewInputError("No routing engine to compute matrix for profile \"%s\".", missing[0])
		}

		in.log.Info("[Loading] Start matrix computing.")

		k := nbThread
		if k > len(missing) {
			k = len(missing)
		}
		if k < 1 {
			k = 1
		}

		// Workers write disjoint slice slots; the shared matrices map is
		// only touched after the join.
		fetched := make([]domain.Matrix, len(missing))
		routers := make([]ports.Router, len(missing))
		locations := in.registry.list()

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(k)

		for i, profile := range missing {
			g.Go(func() error {
				// Best-effort abort once another fetch failed.
				if err := gctx.Err(); err != nil {
					return err
				}

				router, err := in.opts.NewRouter(profile)
				if err != nil {
					return err
				}

				timer := prometheus.NewTimer(metrics.MatrixFetchDuration.WithLabelValues(profile))
				m, err := router.GetMatrix(gctx, locations)
				timer.ObserveDuration()
				if err != nil {
					return fmt.Errorf("matrix for profile \"%s\": %w", profile, err)
				}

				if in.customIndex {
					m = remapMatrix(m, locations, in.maxUsedIndex)
				}

				fetched[i] = m
				routers[i] = router
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		for i, profile := range missing {
			in.matrices[profile] = fetched[i]
			in.routers[profile] = routers[i]
		}
	}

	for _, profile := range profiles {
		if in.matrices[profile].Size() <= in.maxUsedIndex {
			return domain.NewInputError("Matrix too small for profile \"%s\".", profile)
		}
		if err := in.checkCostBound(in.matrices[profile]); err != nil {
			return err
		}
	}

	// Vehicles borrow their profile's matrix for the solver's lifetime.
	for i := range in.vehicles {
		in.vehicles[i].Costs = in.matrices[in.vehicles[i].Profile]
	}

	return nil
}

// remapMatrix turns a backend matrix, dense in registry order, into one
// indexed by the user-supplied indices. Entries for index pairs no known
// location carries are left unspecified.
func remapMatrix(m domain.Matrix, locations []domain.Location, maxUsedIndex int) domain.Matrix {
	out := domain.NewMatrix(maxUsedIndex + 1)
	for i, li := range locations {
		for j, lj := range locations {
			out[li.Index()][lj.Index()] = m[i][j]
		}
	}
	return out
}

// checkCostBound computes an upper bound for any solution cost over the
// used matrix indices and fails with an InternalError if the computation
// itself would overflow the cost range. The bound is only logged; its
// purpose is the overflow check.
func (in *Input) checkCostBound(m domain.Matrix) error {
	maxCostPerLine := make([]domain.Cost, m.Size())
	maxCostPerColumn := make([]domain.Cost, m.Size())

	for i := range in.usedIndex {
		for j := range in.usedIndex {
			if m[i][j] > maxCostPerLine[i] {
				maxCostPerLine[i] = m[i][j]
			}
			if m[i][j] > maxCostPerColumn[j] {
				maxCostPerColumn[j] = m[i][j]
			}
		}
	}

	var err error
	var jobsDepartureBound, jobsArrivalBound domain.Cost
	for _, j := range in.jobs {
		jobsDepartureBound, err = domain.CheckedAdd(jobsDepartureBound, maxCostPerLine[j.Index()])
		if err != nil {
			return err
		}
		jobsArrivalBound, err = domain.CheckedAdd(jobsArrivalBound, maxCostPerColumn[j.Index()])
		if err != nil {
			return err
		}
	}

	jobsBound := jobsDepartureBound
	if jobsArrivalBound > jobsBound {
		jobsBound = jobsArrivalBound
	}

	var startBound, endBound domain.Cost
	for _, v := range in.vehicles {
		if v.HasStart() {
			startBound, err = domain.CheckedAdd(startBound, maxCostPerLine[v.Start.Index()])
			if err != nil {
				return err
			}
		}
		if v.HasEnd() {
			endBound, err = domain.CheckedAdd(endBound, maxCostPerColumn[v.End.Index()])
			if err != nil {
				return err
			}
		}
	}

	bound, err := domain.CheckedAdd(startBound, jobsBound)
	if err != nil {
		return err
	}
	bound, err = domain.CheckedAdd(bound, endBound)
	if err != nil {
		return err
	}

	in.log.Debugf("[Loading] solution cost upper bound: %d.", bound)
	return nil
}
