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

// Package permutation expands LU pivots into permutation arrays.
//
// An LU factorization with partial pivoting records, at elimination step k,
// that row k has been swapped with row p[k]. Applying those swaps in order to
// the identity gives the permutation perm such that perm[i] is the row of the
// original matrix ending up at position i.
package permutation

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
)

// Params of an expansion.
// Pivots are stored as BatchSize rows of PivotSize elements and permutations
// as BatchSize rows of PermutationSize elements, both in row-major order.
type Params struct {
	BatchSize       int
	PivotSize       int
	PermutationSize int
}

// NewParams returns the parameters to expand pivots of a given shape into
// permutations of permutationSize elements.
//
// The last axis of the pivots shape is the number of pivots per row.
// All other axes are batch axes.
func NewParams(pivots *shape.Shape, permutationSize int) (Params, error) {
	if pivots == nil {
		return Params{}, errors.Wrap(ErrInvalidShape, "nil pivots shape")
	}
	if pivots.DType != dtype.Int32 {
		return Params{}, errors.Wrapf(ErrInvalidShape, "pivots data type is %s but want %s", pivots.DType.String(), dtype.Int32.String())
	}
	dims := pivots.AxisLengths
	if len(dims) == 0 {
		return Params{}, errors.Wrap(ErrInvalidShape, "pivots cannot be atomic")
	}
	for i, dim := range dims {
		if dim < 0 {
			return Params{}, errors.Wrapf(ErrInvalidShape, "axis %d of pivots %v has a negative length", i, dims)
		}
	}
	p := Params{
		BatchSize:       1,
		PivotSize:       dims[len(dims)-1],
		PermutationSize: permutationSize,
	}
	for _, dim := range dims[:len(dims)-1] {
		if mulOverflows(p.BatchSize, dim) {
			return Params{}, errors.Wrapf(ErrInvalidShape, "batch size of pivots %v overflows int", dims)
		}
		p.BatchSize *= dim
	}
	if err := p.check(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func (p Params) check() error {
	if p.BatchSize < 0 || p.PivotSize < 0 || p.PermutationSize < 0 {
		return errors.Wrapf(ErrInvalidShape, "negative size in %s", p)
	}
	if p.PermutationSize > math.MaxInt32 {
		return errors.Wrapf(ErrInvalidShape, "permutation size %d overflows int32", p.PermutationSize)
	}
	if p.PivotSize > p.PermutationSize {
		return errors.Wrapf(ErrInvalidShape, "pivot size %d is greater than permutation size %d", p.PivotSize, p.PermutationSize)
	}
	if mulOverflows(p.BatchSize, p.PivotSize) || mulOverflows(p.BatchSize, p.PermutationSize) {
		return errors.Wrapf(ErrInvalidShape, "number of elements in %s overflows int", p)
	}
	return nil
}

// mulOverflows returns true if a*b does not fit in an int.
// Both a and b must be positive or zero.
func mulOverflows(a, b int) bool {
	return a > 0 && b > math.MaxInt/a
}

// PivotsLen returns the total number of pivots.
func (p Params) PivotsLen() int {
	return p.BatchSize * p.PivotSize
}

// PermutationLen returns the total number of elements in the output permutations.
func (p Params) PermutationLen() int {
	return p.BatchSize * p.PermutationSize
}

// String representation of the parameters.
func (p Params) String() string {
	return fmt.Sprintf("{batch:%d pivots:%d permutation:%d}", p.BatchSize, p.PivotSize, p.PermutationSize)
}

// ResultShape returns the shape of the permutations computed from pivots.
// Batch axes are kept and the last axis is replaced by permutationSize.
func ResultShape(pivots *shape.Shape, permutationSize int) (*shape.Shape, error) {
	if _, err := NewParams(pivots, permutationSize); err != nil {
		return nil, err
	}
	dims := append([]int{}, pivots.AxisLengths...)
	dims[len(dims)-1] = permutationSize
	return &shape.Shape{
		DType:       dtype.Int32,
		AxisLengths: dims,
	}, nil
}

// Layout returns the minor-to-major order of the axes of a row-major array.
// Pivots and permutations always use that layout.
func Layout(rank int) []int {
	layout := make([]int, rank)
	for i := range layout {
		layout[i] = rank - 1 - i
	}
	return layout
}
