package services

import (
	"context"
	"time"

	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/ports"
)

// Check runs the same preparation as Solve, then resolves every
// vehicle's pre-planned step list into job ranks and hands the fixed
// plan to the validator for ETAs and violations.
func (in *Input) Check(ctx context.Context, nbThread int) (domain.Solution, error) {
	if nbThread < 1 {
		nbThread = 1
	}
	if in.opts.Validator == nil {
		return domain.Solution{}, domain.NewInputError("Support for solution checking not available.")
	}

	if err := in.prepare(ctx, nbThread); err != nil {
		return domain.Solution{}, err
	}

	loading := time.Since(in.startLoading).Milliseconds()
	in.log.Infof("[Loading] Done, took %d ms.", loading)

	ranks, err := in.resolveStepRanks()
	if err != nil {
		return domain.Solution{}, err
	}

	endLoading := time.Now()
	sol, err := in.opts.Validator.Check(ctx, in, ranks)
	if err != nil {
		return domain.Solution{}, err
	}
	sol.Summary.ComputingTimes.Loading = loading
	sol.Summary.ComputingTimes.Solving = time.Since(endLoading).Milliseconds()

	if in.opts.Geometry {
		if err := in.addRouteGeometry(ctx, &sol); err != nil {
			return domain.Solution{}, err
		}
	}

	return sol, nil
}

// resolveStepRanks maps the step ids of every vehicle's pre-planned
// route back to ranks in the job sequence (or the vehicle's break list),
// refusing unknown and duplicate ids.
func (in *Input) resolveStepRanks() ([][]ports.StepRank, error) {
	singleRank := make(map[uint64]int)
	pickupRank := make(map[uint64]int)
	deliveryRank := make(map[uint64]int)
	for r, j := range in.jobs {
		switch j.Type {
		case domain.JobSingle:
			singleRank[j.ID] = r
		case domain.JobPickup:
			pickupRank[j.ID] = r
		case domain.JobDelivery:
			deliveryRank[j.ID] = r
		}
	}

	// A task can appear in at most one route, once.
	seenJob := make(map[int]struct{})

	out := make([][]ports.StepRank, len(in.vehicles))
	for vi, v := range in.vehicles {
		seenBreak := make(map[uint64]struct{})

		for _, step := range v.Steps {
			var rank int

			switch step.Kind {
			case domain.StepStart, domain.StepEnd:
				continue
			case domain.StepJob:
				r, ok := singleRank[step.ID]
				if !ok {
					return nil, domain.NewInputError("Invalid job id %d for vehicle %d.", step.ID, v.ID)
				}
				rank = r
			case domain.StepPickup:
				r, ok := pickupRank[step.ID]
				if !ok {
					return nil, domain.NewInputError("Invalid pickup id %d for vehicle %d.", step.ID, v.ID)
				}
				rank = r
			case domain.StepDelivery:
				r, ok := deliveryRank[step.ID]
				if !ok {
					return nil, domain.NewInputError("Invalid delivery id %d for vehicle %d.", step.ID, v.ID)
				}
				rank = r
			case domain.StepBreak:
				r := -1
				for bi, b := range v.Breaks {
					if b.ID == step.ID {
						r = bi
						break
					}
				}
				if r < 0 {
					return nil, domain.NewInputError("Invalid break id %d for vehicle %d.", step.ID, v.ID)
				}
				if _, dup := seenBreak[step.ID]; dup {
					return nil, domain.NewInputError("Duplicate break id %d for vehicle %d.", step.ID, v.ID)
				}
				seenBreak[step.ID] = struct{}{}
				out[vi] = append(out[vi], ports.StepRank{Kind: domain.StepBreak, Rank: r})
				continue
			}

			if _, dup := seenJob[rank]; dup {
				return nil, domain.NewInputError("Duplicate %s id %d in input steps.", step.Kind, step.ID)
			}
			seenJob[rank] = struct{}{}
			out[vi] = append(out[vi], ports.StepRank{Kind: step.Kind, Rank: rank})
		}
	}

	return out, nil
}
