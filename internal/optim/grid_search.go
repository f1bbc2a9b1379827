// Package optim fits pendulum parameters by exhaustive grid search.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/sim"
)

var ErrNoFeasiblePoint = errors.New("optim: no grid point produced a finite objective")

// Objective scores one parameter assignment; lower is better. A NaN or
// infinite score marks the point as infeasible.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every combination of the grid and returns the best one.
// Objective errors abort the search.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoFeasiblePoint
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := objective(ctx, current)
		if err != nil {
			return err
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, objective, best, bestParams); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}

// PeriodObjective scores damping "k" by the distance between the measured
// period from release angle theta0 and target. Runs without a period are
// infeasible.
func PeriodObjective(p *physics.Pendulum, theta0, target float64, cfg sim.Config) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		traj, err := sim.Simulate(p, theta0, cfg.WithDamping(params["k"]))
		if err != nil {
			return 0, err
		}
		T := analysis.EstimatePeriod(traj.Times, traj.Angles)
		if !analysis.HasPeriod(T) {
			return math.NaN(), nil
		}
		return math.Abs(T - target), nil
	}
}

// FitDamping returns the damping on grid ks whose period from theta0 best
// matches target, and the remaining absolute period error.
func FitDamping(ctx context.Context, p *physics.Pendulum, theta0, target float64, ks []float64, cfg sim.Config) (float64, float64, error) {
	g := NewGridSearch([]string{"k"}, [][]float64{ks})
	params, residual, err := g.Search(ctx, PeriodObjective(p, theta0, target, cfg))
	if err != nil {
		return 0, 0, err
	}
	return params["k"], residual, nil
}
