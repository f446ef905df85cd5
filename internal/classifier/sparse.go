package classifier

import "sort"

// SparseVector is one row of a sparse matrix. Indices are strictly
// increasing.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// At returns the value stored at column j, or 0.
func (v SparseVector) At(j int) float64 {
	k := sort.SearchInts(v.Indices, j)
	if k < len(v.Indices) && v.Indices[k] == j {
		return v.Values[k]
	}
	return 0
}

// SparseMatrix is a row-major (CSR style) matrix of SparseVectors.
type SparseMatrix struct {
	NumCols int
	Rows    []SparseVector
}

// Dims returns the number of rows and columns.
func (m *SparseMatrix) Dims() (r, c int) {
	return len(m.Rows), m.NumCols
}

// At returns element (i, j).
func (m *SparseMatrix) At(i, j int) float64 {
	return m.Rows[i].At(j)
}

// SelectRows returns a matrix sharing the selected rows of m.
func (m *SparseMatrix) SelectRows(idx []int) *SparseMatrix {
	out := &SparseMatrix{NumCols: m.NumCols, Rows: make([]SparseVector, len(idx))}
	for i, r := range idx {
		out.Rows[i] = m.Rows[r]
	}
	return out
}

// columnEntry is a nonzero cell seen from its column.
type columnEntry struct {
	row   int
	value float64
}

// columnIndex is the column-major view of a SparseMatrix with each column
// sorted by value. Boosting rounds reuse it since only weights change.
type columnIndex struct {
	numRows int
	cols    [][]columnEntry
}

func newColumnIndex(m *SparseMatrix) *columnIndex {
	counts := make([]int, m.NumCols)
	for _, r := range m.Rows {
		for _, j := range r.Indices {
			counts[j]++
		}
	}
	ci := &columnIndex{numRows: len(m.Rows), cols: make([][]columnEntry, m.NumCols)}
	for j, n := range counts {
		if n > 0 {
			ci.cols[j] = make([]columnEntry, 0, n)
		}
	}
	for i, r := range m.Rows {
		for k, j := range r.Indices {
			if r.Values[k] != 0 {
				ci.cols[j] = append(ci.cols[j], columnEntry{row: i, value: r.Values[k]})
			}
		}
	}
	for _, col := range ci.cols {
		sort.SliceStable(col, func(a, b int) bool { return col[a].value < col[b].value })
	}
	return ci
}
