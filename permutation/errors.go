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

import "github.com/pkg/errors"

var (
	// ErrInvalidShape is returned when the data type, the rank, or the number of
	// elements of the pivots does not match what the expansion requires.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrInvalidPivot is returned when a pivot p at step k is not in [k, permutationSize).
	ErrInvalidPivot = errors.New("invalid pivot")
)

// maxReportedPivots is the maximum number of invalid pivots reported individually.
const maxReportedPivots = 16
