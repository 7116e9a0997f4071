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

package fmtarray_test

import (
	"strings"
	"testing"

	"github.com/gx-org/linalg/fmt/fmtarray"
)

func buildData(axes []int) []int32 {
	total := int32(1)
	for _, axisSize := range axes {
		total *= int32(axisSize)
	}
	data := make([]int32, total)
	for i := range total {
		data[i] = i
	}
	return data
}

func TestSprintInt32(t *testing.T) {
	tests := []struct {
		data []int32
		axes []int
		want string
	}{
		{
			data: []int32{42},
			want: "int32(42)",
		},
		{
			data: []int32{2, 1, 0},
			axes: []int{3},
			want: "[3]int32{2, 1, 0}",
		},
		{
			data: []int32{},
			axes: []int{0},
			want: "[0]int32{}",
		},
		{
			axes: []int{2, 3},
			want: `
[2][3]int32{
	{0, 1, 2},
	{3, 4, 5},
}
`,
		},
		{
			axes: []int{2, 2, 3},
			want: `
[2][2][3]int32{
	{
		{0, 1, 2},
		{3, 4, 5},
	},
	{
		{6, 7, 8},
		{9, 10, 11},
	},
}
`,
		},
		{
			data: []int32{1, 2, 3},
			axes: []int{2, 2},
			want: "len(data)=3 does not match axes [2 2]=4",
		},
	}
	for i, test := range tests {
		if test.data == nil {
			test.data = buildData(test.axes)
		}
		want := strings.TrimSpace(test.want)
		got := fmtarray.Sprint[int32](test.data, test.axes)
		if got != want {
			t.Errorf("test %d: incorrect array formatting:\naxes: %v\ndata: %v\ngot:\n%s\nwant:\n%s\n", i, test.axes, test.data, got, want)
		}
	}
}

func TestSprintFloat(t *testing.T) {
	got := fmtarray.Sprint[float64]([]float64{1, 0.5, -2.25, 1e-3}, []int{2, 2})
	want := strings.TrimSpace(`
[2][2]float64{
	{1, 0.5},
	{-2.25, 0.001},
}
`)
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestSDataPrint(t *testing.T) {
	got := fmtarray.SDataPrint[int32]([]int32{1, 2, 0}, []int{3})
	if want := "{1, 2, 0}"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
	got = fmtarray.SDataPrint[float32]([]float32{1.5}, nil)
	if want := "(1.5)"; got != want {
		t.Errorf("got %q but want %q", got, want)
	}
}
