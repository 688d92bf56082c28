// Package circuit describes 2-qubit gate sequences for a sampling backend.
package circuit

import (
	"fmt"
	"strings"

	"qvqe/pauli"
)

// Op is a gate kind.
type Op int

const (
	// OpH is the Hadamard gate.
	OpH Op = iota
	// OpCX is the controlled-NOT gate.
	OpCX
	// OpRX is a rotation around the X axis by Theta.
	OpRX
	// OpSdg is the inverse phase gate S dagger.
	OpSdg
	// OpMeasure declares a computational basis measurement of Target.
	OpMeasure
)

var opNames = [...]string{"H", "CX", "RX", "SDG", "MEASURE"}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Gate is one gate application.
// Control is only meaningful for OpCX, and Theta for OpRX.
type Gate struct {
	Op      Op
	Target  int
	Control int
	Theta   float64
}

// Circuit is an ordered gate sequence on qubits 0 and 1.
// It is a pure value, the backend executes it.
type Circuit struct {
	Gates []Gate
}

func (c Circuit) String() string {
	ss := make([]string, 0, len(c.Gates))
	for _, g := range c.Gates {
		switch g.Op {
		case OpCX:
			ss = append(ss, fmt.Sprintf("CX %d %d", g.Control, g.Target))
		case OpRX:
			ss = append(ss, fmt.Sprintf("RX(%f) %d", g.Theta, g.Target))
		default:
			ss = append(ss, fmt.Sprintf("%s %d", g.Op, g.Target))
		}
	}
	return strings.Join(ss, "; ")
}

// Ansatz builds the parameterized state preparation:
// a Hadamard on qubit 0, an entangling CX from qubit 0 to qubit 1, and an
// RX rotation on qubit 1 by params[0].
//
// As params[0] sweeps [0, 2pi) this one-parameter family reaches the ground
// state of hamiltonians diagonal in the Bell-like test basis. It is not
// universal for all 2-qubit hamiltonians.
// Parameters beyond index 0 are accepted but unused by this fixed topology.
// No measurement is declared, callers compose one in later.
func Ansatz(params []float64) Circuit {
	return Circuit{Gates: []Gate{
		{Op: OpH, Target: 0},
		{Op: OpCX, Control: 0, Target: 1},
		{Op: OpRX, Target: 1, Theta: params[0]},
	}}
}

// MeasurementRotation rotates a computational basis measurement into the
// eigenbasis of the Pauli pair and declares the measurement of both qubits.
// first addresses qubit 1, second addresses qubit 0, matching the basis
// index convention of pauli.Matrix.
//
// X needs a Hadamard, Y needs S dagger then Hadamard, and Z or I need no
// rotation since the computational basis already diagonalizes Z while the
// identity outcome is ignored by the sign vector.
func MeasurementRotation(first, second pauli.Pauli) Circuit {
	var c Circuit
	for _, qp := range [2]struct {
		qubit int
		p     pauli.Pauli
	}{{0, second}, {1, first}} {
		qubit, p := qp.qubit, qp.p
		switch p {
		case pauli.X:
			c.Gates = append(c.Gates, Gate{Op: OpH, Target: qubit})
		case pauli.Y:
			c.Gates = append(c.Gates, Gate{Op: OpSdg, Target: qubit})
			c.Gates = append(c.Gates, Gate{Op: OpH, Target: qubit})
		}
	}
	c.Gates = append(c.Gates, Gate{Op: OpMeasure, Target: 0})
	c.Gates = append(c.Gates, Gate{Op: OpMeasure, Target: 1})
	return c
}

// Compose concatenates circuits in order.
func Compose(cs ...Circuit) Circuit {
	var n int
	for _, c := range cs {
		n += len(c.Gates)
	}
	out := Circuit{Gates: make([]Gate, 0, n)}
	for _, c := range cs {
		out.Gates = append(out.Gates, c.Gates...)
	}
	return out
}
