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
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/gx-org/linalg/fmt/fmtarray"
)

type (
	// Array is a multi-dimensional array stored by the host.
	Array interface {
		// Shape returns the shape of the array.
		Shape() *shape.Shape

		// Buffer returns the data of the array as a generic []byte buffer.
		Buffer() []byte

		// String representation of the array.
		String() string
	}

	// arrayT is a multi-dimensional array of values of type T stored in row-major order.
	arrayT[T dtype.GoDataType] struct {
		shape  shape.Shape
		values []T
	}
)

var _ Array = (*arrayT[int32])(nil)

func newArray[T dtype.GoDataType](values []T, dims []int) *arrayT[T] {
	return &arrayT[T]{
		shape: shape.Shape{
			DType:       dtype.Generic[T](),
			AxisLengths: append([]int{}, dims...),
		},
		values: values,
	}
}

// ToArray returns an array given its flat values and its axis lengths.
// The array keeps a reference to values.
func ToArray[T dtype.GoDataType](values []T, dims []int) (Array, error) {
	if err := checkAxisLengths(dims); err != nil {
		return nil, err
	}
	a := newArray(values, dims)
	if a.shape.Size() != len(values) {
		return nil, errors.Errorf("%d values cannot fill an array of shape %s", len(values), a.shape.String())
	}
	return a, nil
}

func checkAxisLengths(dims []int) error {
	for i, dim := range dims {
		if dim < 0 {
			return errors.Errorf("axis %d has a negative length %d", i, dim)
		}
	}
	return nil
}

// NewArrayFromRaw returns a new array from raw data.
func NewArrayFromRaw(data []byte, sh *shape.Shape) (Array, error) {
	if sh == nil {
		return nil, errors.Errorf("cannot create an array from a nil shape")
	}
	if err := checkAxisLengths(sh.AxisLengths); err != nil {
		return nil, err
	}
	if len(data) != sh.ByteSize() {
		return nil, errors.Errorf("buffer size is %d but shape specify a buffer size of %d", len(data), sh.ByteSize())
	}
	switch sh.DType {
	case dtype.Float32:
		return newArray(dtype.ToSlice[float32](data), sh.AxisLengths), nil
	case dtype.Float64:
		return newArray(dtype.ToSlice[float64](data), sh.AxisLengths), nil
	case dtype.Int32:
		return newArray(dtype.ToSlice[int32](data), sh.AxisLengths), nil
	case dtype.Int64:
		return newArray(dtype.ToSlice[int64](data), sh.AxisLengths), nil
	default:
		return nil, errors.Errorf("cannot create an array from raw data: %s not supported", sh.DType.String())
	}
}

// Flat returns the values of an array.
// It returns an error if the array does not store values of type T.
func Flat[T dtype.GoDataType](a Array) ([]T, error) {
	aT, ok := a.(*arrayT[T])
	if !ok {
		return nil, errors.Errorf("cannot cast array %s to %s", a.Shape().String(), reflect.TypeFor[*arrayT[T]]().String())
	}
	return aT.values, nil
}

// Shape of the array.
func (a *arrayT[T]) Shape() *shape.Shape {
	return &a.shape
}

// Buffer returns the data of the array as a generic []byte buffer.
func (a *arrayT[T]) Buffer() []byte {
	if len(a.values) == 0 {
		return []byte{}
	}
	ptr := unsafe.Pointer(&(a.values[0]))
	return unsafe.Slice((*byte)(ptr), len(a.values)*int(unsafe.Sizeof(a.values[0])))
}

// String representation of the array.
func (a *arrayT[T]) String() string {
	return fmtarray.Sprint[T](a.values, a.shape.AxisLengths)
}
