package qvqe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"qvqe/circuit"
	"qvqe/pauli"
)

// fakeBackend returns fixed counts and tallies submissions.
type fakeBackend struct {
	counts map[string]int
	err    error

	calls int
}

func (b *fakeBackend) Submit(ctx context.Context, c circuit.Circuit, shots int) (map[string]int, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return b.counts, nil
}

func testHamiltonian() pauli.Matrix {
	var h pauli.Matrix
	h[0][0] = 1
	h[1][2], h[2][1] = -1, -1
	h[3][3] = 1
	return h
}

func TestExpectation(t *testing.T) {
	t.Parallel()
	ansatz := circuit.Ansatz([]float64{1})
	tests := []struct {
		counts map[string]int
		first  pauli.Pauli
		second pauli.Pauli
		e      float64
	}{
		{counts: map[string]int{"00": 600, "11": 400}, first: pauli.Z, second: pauli.Z, e: 1},
		{counts: map[string]int{"00": 600, "11": 400}, first: pauli.I, second: pauli.I, e: 1},
		// "10" is qubit 0 measured 1, distribution index 1.
		{counts: map[string]int{"10": 500, "01": 500}, first: pauli.Z, second: pauli.Z, e: -1},
		{counts: map[string]int{"10": 500, "01": 500}, first: pauli.Z, second: pauli.I, e: 0},
		{counts: map[string]int{"10": 750, "01": 250}, first: pauli.I, second: pauli.Z, e: -0.5},
		{counts: map[string]int{"00": 250, "10": 250, "01": 250, "11": 250}, first: pauli.X, second: pauli.X, e: 0},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%s%s %v", test.first, test.second, test.counts), func(t *testing.T) {
			t.Parallel()
			b := &fakeBackend{counts: test.counts}
			e, err := Expectation(context.Background(), b, ansatz, test.first, test.second, 1000)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if math.Abs(e-test.e) > 1e-12 {
				t.Fatalf("%f, expected %f", e, test.e)
			}
		})
	}
}

func TestExpectationBound(t *testing.T) {
	t.Parallel()
	ansatz := circuit.Ansatz([]float64{2})
	counts := map[string]int{"00": 1, "10": 2, "01": 3, "11": 4}
	for _, first := range pauli.Paulis {
		for _, second := range pauli.Paulis {
			b := &fakeBackend{counts: counts}
			e, err := Expectation(context.Background(), b, ansatz, first, second, 10)
			if err != nil {
				t.Fatalf("%s%s: %+v", first, second, err)
			}
			if e < -1 || e > 1 {
				t.Fatalf("%s%s: %f", first, second, e)
			}
		}
	}
}

func TestExpectationDegenerateSampling(t *testing.T) {
	t.Parallel()
	ansatz := circuit.Ansatz([]float64{0})

	// Zero shots fail before any backend call.
	b := &fakeBackend{counts: map[string]int{"00": 1}}
	if _, err := Expectation(context.Background(), b, ansatz, pauli.Z, pauli.Z, 0); !errors.Is(err, ErrDegenerateSampling) {
		t.Fatalf("%+v", err)
	}
	if b.calls != 0 {
		t.Fatalf("%d", b.calls)
	}

	// A backend reporting no outcomes fails, it never yields a silent zero.
	b = &fakeBackend{counts: map[string]int{}}
	if _, err := Expectation(context.Background(), b, ansatz, pauli.Z, pauli.Z, 100); !errors.Is(err, ErrDegenerateSampling) {
		t.Fatalf("%+v", err)
	}
}

func TestExpectationBadOutcome(t *testing.T) {
	t.Parallel()
	ansatz := circuit.Ansatz([]float64{0})
	for _, counts := range []map[string]int{
		{"0": 10},
		{"002": 10},
		{"2x": 10},
	} {
		b := &fakeBackend{counts: counts}
		if _, err := Expectation(context.Background(), b, ansatz, pauli.Z, pauli.Z, 10); err == nil {
			t.Fatalf("%#v: expected error", counts)
		}
	}
}

func TestOutcomeIndex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		outcome string
		idx     int
	}{
		{outcome: "00", idx: 0},
		{outcome: "10", idx: 1},
		{outcome: "01", idx: 2},
		{outcome: "11", idx: 3},
	}
	for _, test := range tests {
		idx, err := outcomeIndex(test.outcome)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if idx != test.idx {
			t.Fatalf("%q: %d, expected %d", test.outcome, idx, test.idx)
		}
	}
}

func TestEnergy(t *testing.T) {
	t.Parallel()
	terms := pauli.Decompose(testHamiltonian()).Terms(1e-12)

	// All shots land on outcome 00, so every expectation is +1 and the
	// energy is the coefficient sum.
	b := &fakeBackend{counts: map[string]int{"00": 100}}
	energy, err := Energy(context.Background(), b, terms, []float64{1}, 100)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if math.Abs(energy-0) > 1e-12 {
		t.Fatalf("%f", energy)
	}

	// One submission per nonzero term, zero-coefficient pairs are skipped.
	if b.calls != len(terms) {
		t.Fatalf("%d, expected %d", b.calls, len(terms))
	}
	if len(terms) != 4 {
		t.Fatalf("%d", len(terms))
	}
}

func TestEnergyBackendError(t *testing.T) {
	t.Parallel()
	terms := pauli.Decompose(testHamiltonian()).Terms(1e-12)
	b := &fakeBackend{err: errors.New("backend out of capacity")}
	if _, err := Energy(context.Background(), b, terms, []float64{1}, 100); err == nil {
		t.Fatalf("expected error")
	}
}
