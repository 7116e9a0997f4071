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

package kernels

import (
	"github.com/pkg/errors"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/gx-org/linalg/lu"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// LU returns a kernel factorizing a batch of matrices of shape [..., m, n].
// The kernel returns two arrays:
//   - the packed L and U factors, with the same shape as the operand,
//   - the pivots, of shape [..., min(m, n)], as int32.
//
// The pivots can be given to PivotsToPermutation with a permutation size of m
// to compute the row permutations.
func LU(a *shape.Shape) (Multi, []*shape.Shape, error) {
	if a == nil {
		return nil, nil, errors.Wrap(lu.ErrInvalidShape, "LU requires a shape but got nil")
	}
	switch a.DType {
	case dtype.Float32:
		return luKernel[float32](a)
	case dtype.Float64:
		return luKernel[float64](a)
	default:
		return nil, nil, errors.Wrapf(lu.ErrInvalidShape, "LU not supported for %s", a.DType.String())
	}
}

func luKernel[T interface {
	constraints.Float
	dtype.GoDataType
}](a *shape.Shape) (Multi, []*shape.Shape, error) {
	dims := a.AxisLengths
	if len(dims) < 2 {
		return nil, nil, errors.Wrapf(lu.ErrInvalidShape, "LU requires a matrix but got %s", a.String())
	}
	for i, dim := range dims {
		if dim < 0 {
			return nil, nil, errors.Wrapf(lu.ErrInvalidShape, "axis %d of %s has a negative length", i, a.String())
		}
	}
	batchDims := dims[:len(dims)-2]
	m, n := dims[len(dims)-2], dims[len(dims)-1]
	batchSize := 1
	for _, dim := range batchDims {
		batchSize *= dim
	}
	in := cloneShape(a)
	luShape := cloneShape(a)
	pivotsShape := shape.Shape{
		DType:       dtype.Int32,
		AxisLengths: append(append([]int{}, batchDims...), min(m, n)),
	}
	klog.V(2).Infof("LU kernel %s -> (%s, %s)", in.String(), luShape.String(), pivotsShape.String())
	kernel := func(x Array) ([]Array, error) {
		if err := checkOperand(&in, x); err != nil {
			return nil, err
		}
		vals, err := Flat[T](x)
		if err != nil {
			return nil, err
		}
		packed := make([]T, 0, len(vals))
		pivots := make([]int32, 0, batchSize*min(m, n))
		for b := range batchSize {
			f, err := lu.Factorize(vals[b*m*n:(b+1)*m*n], m, n)
			if err != nil {
				return nil, errors.Wrapf(err, "matrix %d", b)
			}
			packed = append(packed, f.Packed()...)
			pivots = append(pivots, f.Pivots()...)
		}
		return []Array{
			&arrayT[T]{shape: cloneShape(&luShape), values: packed},
			&arrayT[int32]{shape: cloneShape(&pivotsShape), values: pivots},
		}, nil
	}
	outLU, outPivots := cloneShape(&luShape), cloneShape(&pivotsShape)
	return kernel, []*shape.Shape{&outLU, &outPivots}, nil
}
