package ports

import (
	"context"

	"github.com/sgvandijk/vroom/internal/domain"
)

// StepRank is one resolved entry of a vehicle's pre-planned step list.
// For job, pickup and delivery steps Rank indexes Problem.Jobs(); for
// break steps it indexes the vehicle's Breaks.
type StepRank struct {
	Kind domain.StepKind
	Rank int
}

// PlanValidator computes ETAs and violations for pre-planned routes
// instead of searching for new ones.
type PlanValidator interface {
	Check(ctx context.Context, p Problem, steps [][]StepRank) (domain.Solution, error)
}
