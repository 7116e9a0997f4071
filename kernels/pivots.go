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
	"github.com/gx-org/backend/shape"
	"github.com/gx-org/linalg/permutation"
	"k8s.io/klog/v2"
)

// PivotsToPermutation returns a kernel transforming LU pivots of shape [..., pivotSize]
// into permutations of shape [..., permutationSize].
func PivotsToPermutation(pivots *shape.Shape, permutationSize int, opts ...permutation.Option) (Unary, *shape.Shape, error) {
	params, err := permutation.NewParams(pivots, permutationSize)
	if err != nil {
		return nil, nil, err
	}
	out, err := permutation.ResultShape(pivots, permutationSize)
	if err != nil {
		return nil, nil, err
	}
	in := cloneShape(pivots)
	outShape := cloneShape(out)
	klog.V(2).Infof("pivots to permutation kernel %s -> %s with params %s", in.String(), outShape.String(), params)
	return func(a Array) (Array, error) {
		if err := checkOperand(&in, a); err != nil {
			return nil, errors.Wrap(permutation.ErrInvalidShape, err.Error())
		}
		vals, err := Flat[int32](a)
		if err != nil {
			return nil, errors.Wrap(permutation.ErrInvalidShape, err.Error())
		}
		perms, err := permutation.Expand(params, vals, opts...)
		if err != nil {
			return nil, err
		}
		return &arrayT[int32]{
			shape:  cloneShape(&outShape),
			values: perms,
		}, nil
	}, out, nil
}
