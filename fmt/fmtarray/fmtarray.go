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

// Package fmtarray formats arrays into string.
package fmtarray

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/gx-org/backend/dtype"
)

const tab = "\t"

type printer[T dtype.GoDataType] struct {
	w    strings.Builder
	data []T
	axes []int
	// strides[i] is the number of values between two consecutive elements of axis i.
	strides []int
}

func newPrinter[T dtype.GoDataType](data []T, axes []int) (*printer[T], error) {
	p := &printer[T]{
		data:    data,
		axes:    axes,
		strides: make([]int, len(axes)),
	}
	size := 1
	for i := len(axes) - 1; i >= 0; i-- {
		p.strides[i] = size
		size *= axes[i]
	}
	if size != len(data) {
		return nil, errors.Errorf("len(data)=%d does not match axes %v=%d", len(data), axes, size)
	}
	return p, nil
}

func toValue[T dtype.GoDataType](x T) string {
	var result string
	switch xT := any(x).(type) {
	case float32:
		result = fmt.Sprintf("%.6f", xT)
	case float64:
		result = fmt.Sprintf("%.10f", xT)
	default:
		return fmt.Sprint(x)
	}
	if strings.ContainsRune(result, '.') {
		// Remove trailing zeroes after the decimal point, then the point itself
		// if no digit is left.
		result = strings.TrimRight(result, "0")
		result = strings.TrimSuffix(result, ".")
	}
	return result
}

func (p *printer[T]) printVector(offset int) {
	size := p.axes[len(p.axes)-1]
	vals := make([]string, size)
	for i := range vals {
		vals[i] = toValue(p.data[offset+i])
	}
	p.w.WriteString("{")
	p.w.WriteString(strings.Join(vals, ", "))
	p.w.WriteString("}")
}

func (p *printer[T]) printAxis(indent string, axis, offset int) {
	if axis == len(p.axes)-1 {
		p.printVector(offset)
		return
	}
	p.w.WriteString("{\n")
	for i := range p.axes[axis] {
		p.w.WriteString(indent + tab)
		p.printAxis(indent+tab, axis+1, offset+i*p.strides[axis])
		p.w.WriteString(",\n")
	}
	p.w.WriteString(indent + "}")
}

func (p *printer[T]) printValues() {
	if len(p.axes) == 0 {
		p.w.WriteString("(" + toValue(p.data[0]) + ")")
		return
	}
	p.printAxis("", 0, 0)
}

func (p *printer[T]) printType() {
	for _, size := range p.axes {
		fmt.Fprintf(&p.w, "[%d]", size)
	}
	var zero T
	fmt.Fprintf(&p.w, "%T", zero)
}

// SDataPrint returns a string representation of the content of an array without the type.
func SDataPrint[T dtype.GoDataType](data []T, axes []int) string {
	p, err := newPrinter(data, axes)
	if err != nil {
		return err.Error()
	}
	p.printValues()
	return p.w.String()
}

// Sprint returns a string representation of an array.
func Sprint[T dtype.GoDataType](data []T, axes []int) string {
	p, err := newPrinter(data, axes)
	if err != nil {
		return err.Error()
	}
	p.printType()
	p.printValues()
	return p.w.String()
}
