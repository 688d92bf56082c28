package pauli

import (
	"gonum.org/v1/gonum/mat"
)

// ValVec is an eigenvalue and its eigenvector.
type ValVec struct {
	Val float64
	Vec [4]complex128
}

// Eigen returns the eigenvalues and eigenvectors of a hermitian matrix in
// ascending eigenvalue order.
// It is a diagnostic reference and is never on the optimization critical path.
//
// A hermitian h is embedded as the real symmetric 8x8 matrix
// [[Re(h), -Im(h)], [Im(h), Re(h)]], whose spectrum is that of h with every
// eigenvalue doubled, and whose eigenvector (x, y) maps back to x + iy.
func Eigen(h Matrix) []ValVec {
	data := make([]float64, 8*8)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			re, im := real(h[i][j]), imag(h[i][j])
			data[i*8+j] = re
			data[i*8+(j+4)] = -im
			data[(i+4)*8+j] = im
			data[(i+4)*8+(j+4)] = re
		}
	}
	sym := mat.NewSymDense(8, data)

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		panic("eig.Factorize failed")
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come doubled, take one of each pair.
	vvs := make([]ValVec, 0, 4)
	for k := 0; k < 8; k += 2 {
		vv := ValVec{Val: vals[k]}
		for a := 0; a < 4; a++ {
			vv.Vec[a] = complex(vecs.At(a, k), vecs.At(a+4, k))
		}
		vvs = append(vvs, vv)
	}
	return vvs
}
