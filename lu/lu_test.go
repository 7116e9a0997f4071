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

package lu_test

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/gx-org/linalg/lu"
)

func matMul(a []float64, m, k int, b []float64, n int) []float64 {
	c := make([]float64, m*n)
	for i := range m {
		for j := range n {
			var sum float64
			for l := range k {
				sum += a[i*k+l] * b[l*n+j]
			}
			c[i*n+j] = sum
		}
	}
	return c
}

func permuteRows(a []float64, n int, perm []int32) []float64 {
	pa := make([]float64, 0, len(a))
	for _, row := range perm {
		pa = append(pa, a[int(row)*n:(int(row)+1)*n]...)
	}
	return pa
}

// checkReconstruction checks that P A = L U.
func checkReconstruction(t *testing.T, a []float64, m, n int) {
	t.Helper()
	f, err := lu.Factorize(a, m, n)
	if err != nil {
		t.Fatalf("%dx%d matrix: %+v", m, n, err)
	}
	perm, err := f.Permutation()
	if err != nil {
		t.Fatalf("%dx%d matrix: %+v", m, n, err)
	}
	if len(perm) != m {
		t.Fatalf("%dx%d matrix: got a permutation of length %d but want %d", m, n, len(perm), m)
	}
	k := min(m, n)
	got := matMul(f.L(), m, k, f.U(), n)
	want := permuteRows(a, n, perm)
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("%dx%d matrix: L U does not match P A. Diff (-want +got):\n%s", m, n, diff)
	}
}

func TestFactorizeKnown(t *testing.T) {
	a := []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 10,
	}
	f, err := lu.Factorize(a, 3, 3)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if got, want := f.Pivots(), []int32{2, 2, 2}; !cmp.Equal(got, want) {
		t.Errorf("got pivots %v but want %v", got, want)
	}

	perm, err := f.Permutation()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if want := []int32{2, 0, 1}; !cmp.Equal(perm, want) {
		t.Errorf("got permutation %v but want %v", perm, want)
	}

	det, err := f.Det()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !cmp.Equal(det, -3.0, cmpopts.EquateApprox(0, 1e-12)) {
		t.Errorf("got determinant %v but want -3", det)
	}
	if want := []float64{1, 2, 3, 4, 5, 6, 7, 8, 10}; !cmp.Equal(a, want) {
		t.Errorf("input has been modified: got %v but want %v", a, want)
	}
	checkReconstruction(t, a, 3, 3)
}

func TestFactorizeRandom(t *testing.T) {
	rnd := rand.New(rand.NewPCG(5, 6))
	for _, dims := range [][2]int{{1, 1}, {2, 2}, {4, 4}, {5, 3}, {3, 5}, {8, 8}, {1, 4}, {4, 1}} {
		m, n := dims[0], dims[1]
		a := make([]float64, m*n)
		for i := range a {
			a[i] = rnd.NormFloat64()
		}
		checkReconstruction(t, a, m, n)
	}
}

func TestFactorizeZeroColumn(t *testing.T) {
	a := []float64{
		0, 1, 2,
		0, 3, 4,
		0, 5, 7,
	}
	f, err := lu.Factorize(a, 3, 3)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if got := f.Pivots()[0]; got != 0 {
		t.Errorf("got first pivot %d but want 0", got)
	}
	checkReconstruction(t, a, 3, 3)

	if _, err := f.Solve([]float64{1, 2, 3}); !errors.Is(err, lu.ErrSingular) {
		t.Errorf("got error %v but want %v", err, lu.ErrSingular)
	}
}

func TestSolve(t *testing.T) {
	a := []float32{
		0, 2, 1,
		1, 1, 0,
		3, 0, 1,
	}
	want := []float32{1, -2, 3}
	b := make([]float32, 3)
	for i := range 3 {
		for j := range 3 {
			b[i] += a[i*3+j] * want[j]
		}
	}
	f, err := lu.Factorize(a, 3, 3)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	got, err := f.Solve(b)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-5)); diff != "" {
		t.Errorf("unexpected solution. Diff (-want +got):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	if _, err := lu.Factorize([]float64{1, 2, 3}, 2, 2); !errors.Is(err, lu.ErrInvalidShape) {
		t.Errorf("2x2 matrix with 3 values: got error %v but want %v", err, lu.ErrInvalidShape)
	}
	if _, err := lu.Factorize([]float64{}, -1, 0); !errors.Is(err, lu.ErrInvalidShape) {
		t.Errorf("negative number of rows: got error %v but want %v", err, lu.ErrInvalidShape)
	}

	f, err := lu.Factorize([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := f.Det(); !errors.Is(err, lu.ErrInvalidShape) {
		t.Errorf("determinant of a 2x3 matrix: got error %v but want %v", err, lu.ErrInvalidShape)
	}
	if _, err := f.Solve([]float64{1, 2}); !errors.Is(err, lu.ErrInvalidShape) {
		t.Errorf("solve with a 2x3 matrix: got error %v but want %v", err, lu.ErrInvalidShape)
	}

	f, err = lu.Factorize([]float64{1, 0, 0, 1}, 2, 2)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := f.Solve([]float64{1}); !errors.Is(err, lu.ErrInvalidShape) {
		t.Errorf("solve with a right-hand side of the wrong length: got error %v but want %v", err, lu.ErrInvalidShape)
	}
}

func TestEmpty(t *testing.T) {
	f, err := lu.Factorize([]float64{}, 0, 0)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if got := f.Pivots(); len(got) != 0 {
		t.Errorf("got pivots %v but want none", got)
	}
	perm, err := f.Permutation()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(perm) != 0 {
		t.Errorf("got permutation %v but want an empty one", perm)
	}
}
