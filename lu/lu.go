// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lu computes LU factorizations with partial pivoting.
package lu

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/gx-org/linalg/permutation"
	"golang.org/x/exp/constraints"
)

var (
	// ErrInvalidShape is returned when the matrix dimensions do not match its data.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrSingular is returned when solving a system with a singular matrix.
	ErrSingular = errors.New("singular matrix")
)

// Factorization of a m x n matrix A such that P A = L U where:
//   - P is the row permutation given by the pivots,
//   - L is a m x min(m, n) lower triangular matrix with a unit diagonal,
//   - U is a min(m, n) x n upper triangular matrix.
type Factorization[T constraints.Float] struct {
	m, n int
	// lu stores L below the diagonal (without its unit diagonal) and U above.
	lu     []T
	pivots []int32
}

func abs[T constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Factorize computes the LU factorization of a m x n matrix stored in row-major order.
// The input is not modified.
//
// At step k, the row with the largest absolute value in column k (on or below
// the diagonal) is swapped with row k and its index is recorded as pivot k.
// If the column is zero, the step is skipped and the pivot is k.
func Factorize[T constraints.Float](a []T, m, n int) (*Factorization[T], error) {
	if m < 0 || n < 0 {
		return nil, errors.Wrapf(ErrInvalidShape, "negative dimensions %dx%d", m, n)
	}
	if len(a) != m*n {
		return nil, errors.Wrapf(ErrInvalidShape, "%dx%d matrix requires %d values but got %d", m, n, m*n, len(a))
	}
	f := &Factorization[T]{
		m:      m,
		n:      n,
		lu:     slices.Clone(a),
		pivots: make([]int32, min(m, n)),
	}
	if f.lu == nil {
		f.lu = []T{}
	}
	f.factorize()
	return f, nil
}

func (f *Factorization[T]) row(i int) []T {
	return f.lu[i*f.n : (i+1)*f.n]
}

func (f *Factorization[T]) factorize() {
	for k := range f.pivots {
		pivot, pivotAbs := k, abs(f.lu[k*f.n+k])
		for i := k + 1; i < f.m; i++ {
			if v := abs(f.lu[i*f.n+k]); v > pivotAbs {
				pivot, pivotAbs = i, v
			}
		}
		f.pivots[k] = int32(pivot)
		if pivotAbs == 0 {
			continue
		}
		rowK := f.row(k)
		if pivot != k {
			rowP := f.row(pivot)
			for j := range rowK {
				rowK[j], rowP[j] = rowP[j], rowK[j]
			}
		}
		diag := rowK[k]
		for i := k + 1; i < f.m; i++ {
			rowI := f.row(i)
			l := rowI[k] / diag
			rowI[k] = l
			for j := k + 1; j < f.n; j++ {
				rowI[j] -= l * rowK[j]
			}
		}
	}
}

// Rows returns the number of rows of the factorized matrix.
func (f *Factorization[T]) Rows() int {
	return f.m
}

// Cols returns the number of columns of the factorized matrix.
func (f *Factorization[T]) Cols() int {
	return f.n
}

// Pivots returns the row swapped with row k at step k.
func (f *Factorization[T]) Pivots() []int32 {
	return slices.Clone(f.pivots)
}

// Packed returns L and U packed in a single m x n matrix.
// The unit diagonal of L is not stored.
func (f *Factorization[T]) Packed() []T {
	return slices.Clone(f.lu)
}

// L returns the m x min(m, n) lower triangular factor.
func (f *Factorization[T]) L() []T {
	k := len(f.pivots)
	l := make([]T, f.m*k)
	for i := range f.m {
		for j := range min(i, k) {
			l[i*k+j] = f.lu[i*f.n+j]
		}
		if i < k {
			l[i*k+i] = 1
		}
	}
	return l
}

// U returns the min(m, n) x n upper triangular factor.
func (f *Factorization[T]) U() []T {
	k := len(f.pivots)
	u := make([]T, k*f.n)
	for i := range k {
		copy(u[i*f.n+i:(i+1)*f.n], f.lu[i*f.n+i:(i+1)*f.n])
	}
	return u
}

// Permutation returns the permutation P as an array:
// row i of P A is row perm[i] of A.
func (f *Factorization[T]) Permutation() ([]int32, error) {
	params := permutation.Params{
		BatchSize:       1,
		PivotSize:       len(f.pivots),
		PermutationSize: f.m,
	}
	return permutation.Expand(params, f.pivots, permutation.WithWorkers(1))
}

// Det returns the determinant of a square matrix.
func (f *Factorization[T]) Det() (T, error) {
	if f.m != f.n {
		return 0, errors.Wrapf(ErrInvalidShape, "determinant of a non-square %dx%d matrix", f.m, f.n)
	}
	det := T(1)
	for k, pivot := range f.pivots {
		if int(pivot) != k {
			det = -det
		}
		det *= f.lu[k*f.n+k]
	}
	return det, nil
}

// Solve returns x such that A x = b for a square non-singular matrix A.
func (f *Factorization[T]) Solve(b []T) ([]T, error) {
	if f.m != f.n {
		return nil, errors.Wrapf(ErrInvalidShape, "cannot solve a system with a non-square %dx%d matrix", f.m, f.n)
	}
	if len(b) != f.m {
		return nil, errors.Wrapf(ErrInvalidShape, "right-hand side has %d values but want %d", len(b), f.m)
	}
	n := f.n
	for k := range n {
		if f.lu[k*n+k] == 0 {
			return nil, errors.Wrapf(ErrSingular, "zero on the diagonal of U at %d", k)
		}
	}
	perm, err := f.Permutation()
	if err != nil {
		return nil, err
	}
	x := make([]T, n)
	// Forward substitution: L y = P b.
	for i := range n {
		sum := b[perm[i]]
		for j := range i {
			sum -= f.lu[i*n+j] * x[j]
		}
		x[i] = sum
	}
	// Back substitution: U x = y.
	for i := n - 1; i >= 0; i-- {
		sum := x[i]
		for j := i + 1; j < n; j++ {
			sum -= f.lu[i*n+j] * x[j]
		}
		x[i] = sum / f.lu[i*n+i]
	}
	return x, nil
}
