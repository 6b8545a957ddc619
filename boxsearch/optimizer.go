// strgt: a maximum-likelihood genotyper for short tandem repeat loci.
// Copyright (c) 2024 bioinfo-tools contributors.
// Licensed under the GNU Affero General Public License, version 3 or later.

// Package boxsearch implements the derivative-free, box-constrained
// local minimizer the AlleleSearch candidate-seeding step uses. It is
// built on gonum's NelderMead method (no gradient required), with
// bounds enforced by a penalty wrapper and convergence judged on
// relative x movement rather than gonum's default function-value
// convergers, per the design's 1e-5 relative-x tolerance contract.
package boxsearch

import (
	"fmt"
	"math"

	"github.com/bioinfo-tools/strgt/config"
	"gonum.org/v1/gonum/optimize"
)

// Objective1D and Objective2D are the plain, gradient-free callbacks
// the search evaluates. They must be pure functions of x: the
// optimizer will never request a gradient.
type Objective1D func(x float64) float64
type Objective2D func(x, y float64) float64

// xRelTolConverger declares convergence once the simplex's best point
// moves, between two consecutive major iterations, by a nonzero amount
// smaller than tol relative to max(|x|, 1). An iteration that leaves
// the best point exactly where it was (including the first simplex
// iteration, which reports the starting point again) does not count as
// convergence; the search then goes on until this test passes or the
// evaluation budget runs out. gonum's built-in convergers
// (FunctionConvergence) watch the objective value; this one watches x,
// as the design requires.
type xRelTolConverger struct {
	tol     float64
	last    []float64
	hasLast bool
}

func (c *xRelTolConverger) Init(dim int) {
	c.last = make([]float64, dim)
	c.hasLast = false
}

func (c *xRelTolConverger) Converged(loc *optimize.Location) optimize.Status {
	if !c.hasLast {
		copy(c.last, loc.X)
		c.hasLast = true
		return optimize.NotTerminated
	}
	maxRel := 0.0
	for i, x := range loc.X {
		denom := math.Abs(c.last[i])
		if denom < 1 {
			denom = 1
		}
		if rel := math.Abs(x-c.last[i]) / denom; rel > maxRel {
			maxRel = rel
		}
	}
	copy(c.last, loc.X)
	if maxRel > 0 && maxRel < c.tol {
		return optimize.Success
	}
	return optimize.NotTerminated
}

func clamp(x, lb, ub float64) float64 {
	if x < lb {
		return lb
	}
	if x > ub {
		return ub
	}
	return x
}

func boxPenalize(f func(x []float64) float64, lb, ub []float64) func(x []float64) float64 {
	return func(x []float64) float64 {
		for i, v := range x {
			if v < lb[i] || v > ub[i] {
				return math.Inf(1)
			}
		}
		return f(x)
	}
}

func roundNonNegativeInt(x float64) int {
	r := math.Round(x)
	if r < 0 {
		return 0
	}
	return int(r)
}

func run(initX, lb, ub []float64, f func(x []float64) float64) (*optimize.Result, error) {
	problem := optimize.Problem{Func: boxPenalize(f, lb, ub)}
	settings := &optimize.Settings{
		Converger:       &xRelTolConverger{tol: config.XRelTol},
		FuncEvaluations: config.MaxFuncEvaluations,
	}
	return optimize.Minimize(problem, initX, settings, &optimize.NelderMead{})
}

// resultOK reports whether a gonum optimize Result carries a usable,
// finite minimum, regardless of exactly which terminal status it
// stopped at (budget exhaustion is expected and still usable: "returns
// best-seen on budget exhaustion" per the design).
func resultOK(res *optimize.Result, err error) bool {
	if err != nil || res == nil {
		return false
	}
	if res.Status == optimize.Failure {
		return false
	}
	return !math.IsInf(res.F, 0) && !math.IsNaN(res.F)
}

// Minimize1D searches one free allele in [lb, ub] starting at start,
// with the objective evaluated only at that one coordinate. Returns
// the rounded non-negative integer candidate and the objective value
// there.
func Minimize1D(obj Objective1D, lb, ub, start float64) (int, float64, error) {
	lbv, ubv := []float64{lb}, []float64{ub}
	x0 := []float64{clamp(start, lb, ub)}
	res, err := run(x0, lbv, ubv, func(x []float64) float64 { return obj(x[0]) })
	if !resultOK(res, err) {
		return 0, 0, fmt.Errorf("%w: 1-D search from x0=%v over [%v,%v]: %v", config.ErrOptimizerDiverged, start, lb, ub, err)
	}
	return roundNonNegativeInt(res.X[0]), res.F, nil
}

// Minimize2D searches both alleles jointly in [lb, ub]^2 starting at
// (startX, startY).
func Minimize2D(obj Objective2D, lb, ub, startX, startY float64) (int, int, float64, error) {
	lbv, ubv := []float64{lb, lb}, []float64{ub, ub}
	x0 := []float64{clamp(startX, lb, ub), clamp(startY, lb, ub)}
	res, err := run(x0, lbv, ubv, func(x []float64) float64 { return obj(x[0], x[1]) })
	if !resultOK(res, err) {
		return 0, 0, 0, fmt.Errorf("%w: 2-D search from x0=%v over [%v,%v]: %v", config.ErrOptimizerDiverged, []float64{startX, startY}, lb, ub, err)
	}
	return roundNonNegativeInt(res.X[0]), roundNonNegativeInt(res.X[1]), res.F, nil
}
