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

// Package kernels implements linear algebra kernels running in Go.
//
// A kernel is built from the shapes of its operands. Building a kernel checks
// the operands and computes the shapes of the results once. The kernel can then
// be called on any array matching the operand shapes.
package kernels

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/gx-org/backend/shape"
)

type (
	// Unary kernel with a single operand and a single result.
	Unary func(Array) (Array, error)

	// Multi is a kernel with a single operand and multiple results.
	Multi func(Array) ([]Array, error)
)

func cloneShape(sh *shape.Shape) shape.Shape {
	return shape.Shape{
		DType:       sh.DType,
		AxisLengths: slices.Clone(sh.AxisLengths),
	}
}

// checkOperand returns an error if the shape of the operand is not the shape
// for which the kernel has been built.
func checkOperand(want *shape.Shape, a Array) error {
	got := a.Shape()
	if got.DType != want.DType || !slices.Equal(got.AxisLengths, want.AxisLengths) {
		return errors.Errorf("kernel built for an operand of shape %s cannot be applied to an array of shape %s", want.String(), got.String())
	}
	return nil
}
