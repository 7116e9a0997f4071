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

// Package main expands LU pivots into permutations.
//
// Expand the pivots of two rows into permutations of 4 elements:
//
//	pivperm -pivots=1,2,2,3,1,3 -dims=2,3 -permutation_size=4
//
// Factorize a 3x3 matrix and print its pivots and row permutation:
//
//	pivperm -matrix=1,2,3,4,5,6,7,8,10 -dims=3,3
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/gx-org/linalg/kernels"
	"github.com/gx-org/linalg/permutation"
	"github.com/gx-org/linalg/tools/gxflag"
	"k8s.io/klog/v2"
)

type options struct {
	pivots          *[]int32
	matrix          *[]float64
	dims            *[]int
	permutationSize *int
	workers         *int
	noValidation    *bool
}

func newOptions(fs *flag.FlagSet) *options {
	return &options{
		pivots: gxflag.Int32ListVar(fs, "pivots", "comma separated list of pivots"),
		matrix: gxflag.FloatListVar(fs, "matrix", "comma separated values of matrices to factorize (row-major)"),
		dims:   gxflag.IntListVar(fs, "dims", "axis lengths of -pivots or -matrix. Pivots default to a single row."),
		permutationSize: fs.Int("permutation_size", -1, "size of the permutations. "+
			"Defaults to the number of pivots per row, or to the number of rows of the matrices."),
		workers:      fs.Int("workers", 0, "number of goroutines expanding rows (0 for one per CPU)"),
		noValidation: fs.Bool("no_validation", false, "skip the range check of the pivots"),
	}
}

func (o *options) expandOptions() []permutation.Option {
	opts := []permutation.Option{permutation.WithWorkers(*o.workers)}
	if *o.noValidation {
		opts = append(opts, permutation.WithoutValidation())
	}
	return opts
}

func (o *options) sizeOr(defaultSize int) int {
	if *o.permutationSize < 0 {
		return defaultSize
	}
	return *o.permutationSize
}

func expand(pivots kernels.Array, permutationSize int, opts []permutation.Option) (kernels.Array, error) {
	kernel, outShape, err := kernels.PivotsToPermutation(pivots.Shape(), permutationSize, opts...)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("expanding pivots %s into permutations %s (%s)", pivots.Shape().String(), outShape.String(), humanize.Bytes(uint64(outShape.ByteSize())))
	return kernel(pivots)
}

func runPivots(w io.Writer, o *options) error {
	dims := *o.dims
	if len(dims) == 0 {
		dims = []int{len(*o.pivots)}
	}
	pivots, err := kernels.ToArray(*o.pivots, dims)
	if err != nil {
		return err
	}
	perms, err := expand(pivots, o.sizeOr(dims[len(dims)-1]), o.expandOptions())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, perms.String())
	return err
}

func runLU(w io.Writer, o *options) error {
	dims := *o.dims
	if len(dims) < 2 {
		return errors.Errorf("-dims=%v: -matrix requires at least two axes", dims)
	}
	matrices, err := kernels.ToArray(*o.matrix, dims)
	if err != nil {
		return err
	}
	kernel, _, err := kernels.LU(matrices.Shape())
	if err != nil {
		return err
	}
	outs, err := kernel(matrices)
	if err != nil {
		return err
	}
	packed, pivots := outs[0], outs[1]
	perms, err := expand(pivots, o.sizeOr(dims[len(dims)-2]), o.expandOptions())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "lu: %s\npivots: %s\npermutation: %s\n", packed.String(), pivots.String(), perms.String())
	return err
}

func run(w io.Writer, o *options) error {
	if len(*o.matrix) > 0 {
		return runLU(w, o)
	}
	return runPivots(w, o)
}

func main() {
	opts := newOptions(flag.CommandLine)
	klog.InitFlags(nil)
	flag.Parse()
	if err := run(os.Stdout, opts); err != nil {
		klog.Errorf("%+v", err)
		os.Exit(1)
	}
}
