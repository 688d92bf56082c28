package qvqe

import (
	"context"

	"github.com/pkg/errors"

	"qvqe/circuit"
	"qvqe/pauli"
)

// Expectation estimates the expectation value of the observable
// P_first kron P_second on the state prepared by ansatz, using shots samples.
// The returned value lies in [-1, 1].
//
// The ansatz is composed with the basis rotation of the Pauli pair, submitted
// to the backend, and the outcome counts are reduced to a probability
// distribution whose dot product with the pair's eigenvalue sign vector is
// the estimate.
func Expectation(ctx context.Context, b Backend, ansatz circuit.Circuit, first, second pauli.Pauli, shots int) (float64, error) {
	if shots <= 0 {
		return 0, errors.Wrapf(ErrDegenerateSampling, "shots %d", shots)
	}

	circ := circuit.Compose(ansatz, circuit.MeasurementRotation(first, second))
	counts, err := b.Submit(ctx, circ, shots)
	if err != nil {
		return 0, errors.Wrap(err, "")
	}

	probs, err := distribution(counts)
	if err != nil {
		return 0, errors.Wrap(err, "")
	}

	signs := signVector(first, second)
	var e float64
	for i, p := range probs {
		e += signs[i] * p
	}
	return e, nil
}

// Energy estimates the energy of the ansatz state prepared from params,
// summing coefficient times expectation over the nonzero Pauli terms.
// One backend submission is spent per term.
func Energy(ctx context.Context, b Backend, terms []pauli.Term, params []float64, shots int) (float64, error) {
	ansatz := circuit.Ansatz(params)
	var energy float64
	for _, t := range terms {
		e, err := Expectation(ctx, b, ansatz, t.First, t.Second, shots)
		if err != nil {
			return 0, errors.Wrapf(err, "%s%s", t.First, t.Second)
		}
		energy += t.Coeff * e
	}
	return energy, nil
}

// distribution normalizes outcome counts into the 4-outcome probability
// distribution indexed by b1*2 + b0.
func distribution(counts map[string]int) ([4]float64, error) {
	var sums [4]int
	total := 0
	for outcome, n := range counts {
		idx, err := outcomeIndex(outcome)
		if err != nil {
			return [4]float64{}, errors.Wrap(err, "")
		}
		sums[idx] += n
		total += n
	}
	if total == 0 {
		return [4]float64{}, errors.Wrap(ErrDegenerateSampling, "")
	}

	var probs [4]float64
	for i, n := range sums {
		probs[i] = float64(n) / float64(total)
	}
	return probs, nil
}

// outcomeIndex interprets the reversal of a reported bitstring as an integer.
// The backend reports qubit 0 leftmost, so character i carries bit i.
func outcomeIndex(outcome string) (int, error) {
	if len(outcome) != 2 {
		return -1, errors.Errorf("%q", outcome)
	}
	idx := 0
	for i := 0; i < len(outcome); i++ {
		switch outcome[i] {
		case '0':
		case '1':
			idx |= 1 << i
		default:
			return -1, errors.Errorf("%q", outcome)
		}
	}
	return idx, nil
}

// signVector is the tensor product of the eigenvalue pairs of the two
// Paulis, indexed like the probability distribution.
func signVector(first, second pauli.Pauli) [4]float64 {
	s1, s0 := first.Signs(), second.Signs()
	var sv [4]float64
	for b1 := 0; b1 < 2; b1++ {
		for b0 := 0; b0 < 2; b0++ {
			sv[b1*2+b0] = s1[b1] * s0[b0]
		}
	}
	return sv
}
