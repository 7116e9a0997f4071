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

package permutation

import (
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

type (
	// Option configures an expansion.
	Option func(*config)

	config struct {
		numWorkers int
		validate   bool
	}
)

// WithWorkers sets the number of goroutines expanding rows.
// A value less or equal to 0 uses one worker per CPU.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		cfg.numWorkers = n
	}
}

// WithoutValidation skips the range check of the pivots before the expansion.
// Swaps with a row outside of the permutation are then ignored.
func WithoutValidation() Option {
	return func(cfg *config) {
		cfg.validate = false
	}
}

func newConfig(opts []Option) config {
	cfg := config{validate: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.numWorkers <= 0 {
		cfg.numWorkers = runtime.NumCPU()
	}
	return cfg
}

// ExpandRow writes in dst the permutation obtained by applying to the identity
// the swaps recorded in pivots, in order.
// The size of the permutation is len(dst). Pivots are not validated but a swap
// with an index outside of dst is skipped.
func ExpandRow(dst, pivots []int32) {
	for i := range dst {
		dst[i] = int32(i)
	}
	for k, p := range pivots {
		if k >= len(dst) {
			return
		}
		if p < 0 || int(p) >= len(dst) {
			continue
		}
		dst[k], dst[p] = dst[p], dst[k]
	}
}

func checkLen(p Params, pivots []int32) error {
	if err := p.check(); err != nil {
		return err
	}
	if len(pivots) != p.PivotsLen() {
		return errors.Wrapf(ErrInvalidShape, "got %d pivots but %s requires %d", len(pivots), p, p.PivotsLen())
	}
	return nil
}

// Validate checks that pivots can be expanded given the parameters.
// Every pivot p at step k must be in [k, p.PermutationSize).
// The returned error combines all the invalid pivots found.
func Validate(p Params, pivots []int32) error {
	if err := checkLen(p, pivots); err != nil {
		return err
	}
	var errs error
	numInvalid := 0
	for row := range p.BatchSize {
		rowPivots := pivots[row*p.PivotSize : (row+1)*p.PivotSize]
		for k, pivot := range rowPivots {
			if int(pivot) >= k && int(pivot) < p.PermutationSize {
				continue
			}
			numInvalid++
			if numInvalid > maxReportedPivots {
				continue
			}
			errs = multierr.Append(errs, errors.Wrapf(ErrInvalidPivot, "row %d step %d: pivot %d not in [%d, %d)", row, k, pivot, k, p.PermutationSize))
		}
	}
	if numInvalid > maxReportedPivots {
		errs = multierr.Append(errs, errors.Wrapf(ErrInvalidPivot, "%d more invalid pivots", numInvalid-maxReportedPivots))
	}
	return errs
}

// Expand computes the permutations of a batch of pivots.
// Rows are independent and expanded in parallel.
// Nothing is returned if the pivots are invalid.
func Expand(p Params, pivots []int32, opts ...Option) ([]int32, error) {
	cfg := newConfig(opts)
	var err error
	if cfg.validate {
		err = Validate(p, pivots)
	} else {
		err = checkLen(p, pivots)
	}
	if err != nil {
		return nil, err
	}
	perms := make([]int32, p.PermutationLen())
	newExpander(p, pivots, perms).run(cfg.numWorkers)
	return perms, nil
}
