// Package optimize searches bounded boxes for minima of noisy black box functions.
//
// References:
//   - Optimization by Direct Search: New Perspectives on Some Classical and Modern Methods, Kolda, Lewis, Torczon
package optimize

import (
	"math"
	"slices"

	"github.com/pkg/errors"
)

// Status is the reason a search terminated.
type Status int

const (
	// Converged means proposals stopped moving by more than the step tolerance.
	Converged Status = iota
	// BudgetExhausted means the evaluation budget ran out first.
	BudgetExhausted
	// Aborted means the very first evaluation failed and no progress was possible.
	Aborted
)

var statusNames = [...]string{"converged", "budget exhausted", "aborted"}

func (s Status) String() string {
	return statusNames[s]
}

// Config holds search settings.
type Config struct {
	// MaxEvaluations is the objective evaluation budget.
	MaxEvaluations int
	// StepTolerance terminates the search once no step exceeds it.
	StepTolerance float64
	// Observe, when non-nil, is called after every objective evaluation.
	// x is reused between calls and must be copied if retained.
	Observe func(eval int, x []float64, f float64, err error)
}

// Result is the best point observed during a search.
// Because the objective is noisy, the best point is tracked explicitly
// rather than assumed to be the final one.
type Result struct {
	X           []float64
	F           float64
	Evaluations int
	Status      Status
}

// state is the search state between iterations.
// It is owned exclusively by Search.
type state struct {
	x      []float64
	fx     float64
	step   []float64
	bounds [][2]float64

	bestX []float64
	bestF float64
	evals int
}

// Search minimizes objective over the box given by bounds using compass
// search: from the current point, each coordinate is probed one step in both
// directions, the first improving probe becomes the new current point, and
// the step is halved whenever a full sweep fails to improve.
//
// No gradients are used. Repeated evaluations at the same point may differ
// (sampling noise); termination depends only on how little proposals move
// and on the budget, never on exact objective repeatability.
// An evaluation error is treated as a non-improving probe, except for the
// initial point whose failure aborts the search.
// Every proposed point is clipped into bounds.
func Search(objective func([]float64) (float64, error), initial []float64, bounds [][2]float64, cfg Config) (Result, error) {
	if len(initial) != len(bounds) {
		return Result{}, errors.Errorf("%d initial values for %d bounds", len(initial), len(bounds))
	}
	if cfg.MaxEvaluations <= 0 {
		return Result{}, errors.Errorf("non-positive budget %d", cfg.MaxEvaluations)
	}
	tol := cfg.StepTolerance
	if tol <= 0 {
		tol = 1e-3
	}

	s := state{
		x:      make([]float64, len(initial)),
		step:   make([]float64, len(initial)),
		bounds: bounds,
	}
	for d, b := range bounds {
		if b[0] >= b[1] {
			return Result{}, errors.Errorf("bad bound %d: %v", d, b)
		}
		s.x[d] = clip(initial[d], b)
		s.step[d] = (b[1] - b[0]) / 4
	}

	eval := func(x []float64) (float64, error) {
		f, err := objective(x)
		s.evals++
		if cfg.Observe != nil {
			cfg.Observe(s.evals, x, f, err)
		}
		return f, err
	}

	var err error
	s.fx, err = eval(s.x)
	if err != nil {
		return Result{X: s.x, F: math.NaN(), Evaluations: s.evals, Status: Aborted}, errors.Wrap(err, "")
	}
	s.bestX = slices.Clone(s.x)
	s.bestF = s.fx

	for s.evals < cfg.MaxEvaluations && maxStep(s.step) > tol {
		if !s.sweep(eval, cfg.MaxEvaluations) {
			for d := range s.step {
				s.step[d] /= 2
			}
		}
	}

	status := Converged
	if maxStep(s.step) > tol {
		status = BudgetExhausted
	}
	return Result{X: s.bestX, F: s.bestF, Evaluations: s.evals, Status: status}, nil
}

// sweep probes every coordinate direction once and reports whether the
// current point moved.
func (s *state) sweep(eval func([]float64) (float64, error), budget int) bool {
	cand := make([]float64, len(s.x))
	for d := range s.x {
		for _, sign := range [2]float64{1, -1} {
			if s.evals >= budget {
				return false
			}

			copy(cand, s.x)
			cand[d] = clip(s.x[d]+sign*s.step[d], s.bounds[d])
			if cand[d] == s.x[d] {
				continue
			}

			f, err := eval(cand)
			if err != nil {
				// A failed probe never improves, and never counts as zero.
				continue
			}
			if f < s.bestF {
				s.bestF = f
				copy(s.bestX, cand)
			}
			if f < s.fx {
				copy(s.x, cand)
				s.fx = f
				return true
			}
		}
	}
	return false
}

func clip(v float64, bound [2]float64) float64 {
	return math.Min(math.Max(v, bound[0]), bound[1])
}

func maxStep(step []float64) float64 {
	var m float64
	for _, v := range step {
		m = math.Max(m, v)
	}
	return m
}
