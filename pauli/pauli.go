// Package pauli decomposes 2-qubit hamiltonians over the tensor-product Pauli basis.
//
// References:
//   - Quantum Computation and Quantum Information, section 2.1.9, Nielsen and Chuang
package pauli

import (
	"math"
	"math/cmplx"
)

// Pauli is a single-qubit Pauli operator.
type Pauli int

const (
	I Pauli = iota
	X
	Y
	Z
)

// Paulis are the four Pauli operators in enum order.
var Paulis = [4]Pauli{I, X, Y, Z}

var names = [4]string{"I", "X", "Y", "Z"}

func (p Pauli) String() string {
	return names[p]
}

var matrices = [4][2][2]complex128{
	{
		{1, 0},
		{0, 1},
	},
	{
		{0, 1},
		{1, 0},
	},
	{
		{0, -1i},
		{1i, 0},
	},
	{
		{1, 0},
		{0, -1},
	},
}

// Matrix returns the 2x2 matrix of p.
func (p Pauli) Matrix() [2][2]complex128 {
	return matrices[p]
}

// Signs returns the eigenvalues of p attached to the computational basis
// outcomes 0 and 1 after rotating measurements into the eigenbasis of p.
// They are {+1, +1} for the identity and {+1, -1} otherwise.
func (p Pauli) Signs() [2]float64 {
	if p == I {
		return [2]float64{1, 1}
	}
	return [2]float64{1, -1}
}

// Matrix is a 2-qubit operator.
// Index b of the underlying basis is b1*2 + b0,
// where b1 is the bit of the first tensor factor.
type Matrix [4][4]complex128

// Kron returns the tensor product of two single-qubit operators.
func Kron(a, b [2][2]complex128) Matrix {
	var m Matrix
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				for l := 0; l < 2; l++ {
					m[i*2+k][j*2+l] = a[i][j] * b[k][l]
				}
			}
		}
	}
	return m
}

// IsHermitian reports whether m equals its conjugate transpose within tol.
func IsHermitian(m Matrix, tol float64) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if cmplx.Abs(m[i][j]-cmplx.Conj(m[j][i])) > tol {
				return false
			}
		}
	}
	return true
}

// Grid holds the coefficients of a hamiltonian over the sixteen
// tensor-product Pauli operators P_i kron P_j.
type Grid [4][4]complex128

// Decompose projects a hermitian hamiltonian onto the Pauli tensor basis
// using the Hilbert-Schmidt inner product.
// The orthogonality constant of 2-qubit tensor Paulis under the trace inner
// product is 4, so that h = sum_ij g[i][j] * (P_i kron P_j).
//
// h must be hermitian. This is a precondition, not a runtime check.
func Decompose(h Matrix) Grid {
	var g Grid
	for i, pi := range Paulis {
		for j, pj := range Paulis {
			pij := Kron(pi.Matrix(), pj.Matrix())

			// Trace of pij times h.
			var tr complex128
			for a := 0; a < 4; a++ {
				for b := 0; b < 4; b++ {
					tr += pij[a][b] * h[b][a]
				}
			}

			g[i][j] = tr / 4
		}
	}
	return g
}

// Reconstruct sums the weighted Pauli tensor products back into a matrix.
func Reconstruct(g Grid) Matrix {
	var h Matrix
	for i, pi := range Paulis {
		for j, pj := range Paulis {
			pij := Kron(pi.Matrix(), pj.Matrix())
			for a := 0; a < 4; a++ {
				for b := 0; b < 4; b++ {
					h[a][b] += g[i][j] * pij[a][b]
				}
			}
		}
	}
	return h
}

// Term is one nonzero entry of a Grid.
// First acts on the first tensor factor, which is qubit 1,
// and Second acts on qubit 0.
type Term struct {
	First  Pauli
	Second Pauli
	// Coeff is the real part of the grid entry.
	// For hermitian hamiltonians the imaginary part is finite-precision
	// residue from the trace computation and is discarded.
	Coeff float64
}

// Terms lists the grid entries whose magnitude exceeds tol.
// A tolerance is used instead of an exact-zero comparison so that
// near-zero-but-present Pauli weights are not silently dropped.
func (g Grid) Terms(tol float64) []Term {
	terms := make([]Term, 0, 16)
	for i, pi := range Paulis {
		for j, pj := range Paulis {
			if math.Abs(real(g[i][j])) <= tol {
				continue
			}
			terms = append(terms, Term{First: pi, Second: pj, Coeff: real(g[i][j])})
		}
	}
	return terms
}
