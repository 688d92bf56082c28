// Package sim is an in-process sampling backend for 2-qubit circuits.
package sim

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/pkg/errors"

	"qvqe/circuit"
)

const numQubits = 2

// Simulator executes circuits on a statevector and samples measurement
// outcomes. It is seedable for reproducibility and safe for concurrent
// submissions.
//
// Reported bitstrings place qubit 0 in the least-significant, leftmost
// position: outcome "10" means qubit 0 measured 1 and qubit 1 measured 0.
// Outcomes with zero occurrences are not reported.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a simulator whose sampling is driven by seed.
func New(seed uint64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Submit runs the circuit shots times and returns the outcome counts.
// The counts sum to exactly shots.
func (s *Simulator) Submit(ctx context.Context, c circuit.Circuit, shots int) (map[string]int, error) {
	if shots <= 0 {
		return nil, errors.Errorf("shots must be positive: %d", shots)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}

	probs, err := run(c)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	counts := make([]int, 1<<numQubits)
	s.mu.Lock()
	for i := 0; i < shots; i++ {
		counts[sample(probs, s.rng.Float64())]++
	}
	s.mu.Unlock()

	out := make(map[string]int, len(counts))
	for i, n := range counts {
		if n == 0 {
			continue
		}
		out[bitstring(i)] = n
	}
	return out, nil
}

// run applies the gates and returns the outcome probabilities.
func run(c circuit.Circuit) ([]float64, error) {
	var amps [1 << numQubits]complex128
	amps[0] = 1

	measured := [numQubits]bool{}
	for _, g := range c.Gates {
		if g.Target < 0 || g.Target >= numQubits {
			return nil, errors.Errorf("bad target %#v", g)
		}
		switch g.Op {
		case circuit.OpH:
			applyH(&amps, g.Target)
		case circuit.OpCX:
			if g.Control < 0 || g.Control >= numQubits || g.Control == g.Target {
				return nil, errors.Errorf("bad control %#v", g)
			}
			applyCX(&amps, g.Control, g.Target)
		case circuit.OpRX:
			applyRX(&amps, g.Target, g.Theta)
		case circuit.OpSdg:
			applySdg(&amps, g.Target)
		case circuit.OpMeasure:
			measured[g.Target] = true
		default:
			return nil, errors.Errorf("unknown gate %#v", g)
		}
	}
	for q, m := range measured {
		if !m {
			return nil, errors.Errorf("qubit %d not measured", q)
		}
	}

	probs := make([]float64, len(amps))
	for i, a := range amps {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs, nil
}

func sample(probs []float64, r float64) int {
	var cum float64
	for i, p := range probs {
		cum += p
		if r < cum {
			return i
		}
	}
	// Cumulative probabilities may fall just short of 1.
	return len(probs) - 1
}

func bitstring(i int) string {
	b := make([]byte, numQubits)
	for q := 0; q < numQubits; q++ {
		b[q] = '0' + byte((i>>q)&1)
	}
	return string(b)
}

func applyH(amps *[4]complex128, q int) {
	f := complex(1/math.Sqrt2, 0)
	bit := 1 << q
	for i := range amps {
		if i&bit == 0 {
			j := i | bit
			amps[i], amps[j] = f*(amps[i]+amps[j]), f*(amps[i]-amps[j])
		}
	}
}

func applyCX(amps *[4]complex128, control, target int) {
	cBit, tBit := 1<<control, 1<<target
	for i := range amps {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			amps[i], amps[j] = amps[j], amps[i]
		}
	}
}

func applyRX(amps *[4]complex128, q int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	bit := 1 << q
	for i := range amps {
		if i&bit == 0 {
			j := i | bit
			amps[i], amps[j] = c*amps[i]+js*amps[j], js*amps[i]+c*amps[j]
		}
	}
}

func applySdg(amps *[4]complex128, q int) {
	bit := 1 << q
	for i := range amps {
		if i&bit != 0 {
			amps[i] *= -1i
		}
	}
}
