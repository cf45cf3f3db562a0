package sstable

// internal Float64 matrix representation
type Float64Matrix struct {
	nrow uint32
	ncol uint32
	data []float64
}

// NewFloat64Matrix creates a new Float64Matrix with r rows and c columns
// which is mainly used for accumulated sample counts and posterior
// point estimates
func NewFloat64Matrix(r, c uint32) *Float64Matrix {
	if r == 0 || c == 0 {
		panic(ErrBadShape)
	}
	return &Float64Matrix{
		nrow: r,
		ncol: c,
		data: make([]float64, r*c),
	}
}

// get the shape of the matrix
func (m *Float64Matrix) Shape() (uint32, uint32) {
	return m.nrow, m.ncol
}

// get the [r, c]-th element of the matrix
func (m *Float64Matrix) Get(r, c uint32) float64 {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	return m.data[r*m.ncol+c]
}

// set val to the [r, c]-th element of the matrix
func (m *Float64Matrix) Set(r, c uint32, val float64) {
	if r >= m.nrow || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	m.data[r*m.ncol+c] = val
}

// get the r-th row of the matrix as a slice backed by the matrix storage
func (m *Float64Matrix) RawRow(r uint32) []float64 {
	if r >= m.nrow {
		panic(ErrIndexOutOfRange)
	}
	return m.data[r*m.ncol : (r+1)*m.ncol]
}

// get the whole storage as a flat slice in row major order
func (m *Float64Matrix) RawData() []float64 {
	return m.data
}
