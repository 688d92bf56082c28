// Package qvqe estimates the minimum eigenvalue of a 2-qubit hamiltonian
// with the Variational Quantum Eigensolver: a classical optimizer tunes the
// parameters of a state-preparing circuit while a sampling backend estimates
// the energy of the prepared state.
//
// References:
//   - A variational eigenvalue solver on a photonic quantum processor, Peruzzo et al.
package qvqe

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"

	"qvqe/circuit"
	"qvqe/optimize"
	"qvqe/pauli"
)

var (
	// ErrNotHermitian is a precondition violation detected before any backend call.
	ErrNotHermitian = errors.New("hamiltonian is not hermitian")
	// ErrDegenerateSampling means an expectation estimate collected no outcomes.
	ErrDegenerateSampling = errors.New("no measurement outcomes collected")
)

const (
	hermitianTol = 1e-9
	// coeffTol skips Pauli terms by magnitude, not by exact zero equality,
	// so that near-zero-but-present weights are not silently dropped.
	coeffTol = 1e-12
)

// Backend prepares and samples quantum states.
// Submit runs the circuit shots times and returns a mapping from outcome
// bitstrings to occurrence counts summing to exactly shots.
// The least-significant reported bit, which is the leftmost character of the
// bitstring, corresponds to qubit 0. Outcomes that never occurred are absent.
//
// A backend may be slow and may fail. Failed submissions are not retried by
// this package, since repeated sampling changes the statistical result.
type Backend interface {
	Submit(ctx context.Context, c circuit.Circuit, shots int) (map[string]int, error)
}

// Config holds the settings of a minimization run.
// The zero value is usable, every field has a default.
type Config struct {
	// Shots is the sample count per expectation estimate.
	Shots int
	// MaxEvaluations is the energy evaluation budget of the optimizer.
	MaxEvaluations int
	// Bounds holds one [low, high] pair per ansatz parameter.
	Bounds [][2]float64
	// Seed drives the initial parameter draw.
	Seed uint64
	// StepTolerance is the optimizer convergence tolerance.
	StepTolerance float64
	// Observe, when non-nil, receives every energy evaluation.
	Observe func(eval int, params []float64, energy float64, err error)
}

func (c Config) withDefaults() Config {
	if c.Shots == 0 {
		c.Shots = 1000
	}
	if c.MaxEvaluations == 0 {
		c.MaxEvaluations = 200
	}
	if len(c.Bounds) == 0 {
		c.Bounds = [][2]float64{{0, 2 * math.Pi}}
	}
	return c
}

// Result is the outcome of a minimization run.
type Result struct {
	// Params is the best ansatz parameter vector observed.
	Params []float64
	// Energy is the estimated minimum eigenvalue at Params.
	// It is a sampled quantity and carries shot noise.
	Energy float64
	// Evaluations is the number of energy evaluations spent.
	Evaluations int
	// Status distinguishes convergence from budget exhaustion.
	Status optimize.Status
}

// Minimize estimates the minimum eigenvalue of h.
//
// h is validated to be hermitian before any backend call, then decomposed
// over the Pauli tensor basis once. The optimizer proposes parameter vectors
// within cfg.Bounds and observes their sampled energies until convergence or
// budget exhaustion; the best observed point is returned either way.
// A failed energy evaluation aborts only that evaluation, the optimizer
// carries on with the remaining budget.
func Minimize(ctx context.Context, b Backend, h pauli.Matrix, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	if !pauli.IsHermitian(h, hermitianTol) {
		return Result{}, errors.Wrap(ErrNotHermitian, "")
	}
	terms := pauli.Decompose(h).Terms(coeffTol)

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1))
	initial := make([]float64, len(cfg.Bounds))
	for d, bound := range cfg.Bounds {
		initial[d] = bound[0] + rng.Float64()*(bound[1]-bound[0])
	}

	objective := func(params []float64) (float64, error) {
		return Energy(ctx, b, terms, params, cfg.Shots)
	}
	res, err := optimize.Search(objective, initial, cfg.Bounds, optimize.Config{
		MaxEvaluations: cfg.MaxEvaluations,
		StepTolerance:  cfg.StepTolerance,
		Observe:        cfg.Observe,
	})
	if err != nil {
		return Result{Evaluations: res.Evaluations, Status: res.Status}, errors.Wrap(err, "")
	}

	return Result{Params: res.X, Energy: res.F, Evaluations: res.Evaluations, Status: res.Status}, nil
}
