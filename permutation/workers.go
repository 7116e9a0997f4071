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

import "sync"

// rowsPerTask is the number of rows sent to a worker at once.
const rowsPerTask = 64

type (
	rowRange struct {
		start, end int
	}

	// expander dispatches ranges of rows to a set of worker goroutines.
	// Workers write to disjoint parts of perms.
	expander struct {
		params   Params
		pivots   []int32
		perms    []int32
		wg       sync.WaitGroup
		toWorker chan rowRange
	}
)

func newExpander(p Params, pivots, perms []int32) *expander {
	return &expander{
		params: p,
		pivots: pivots,
		perms:  perms,
	}
}

func (ex *expander) expandRows(rows rowRange) {
	pivotSize, permSize := ex.params.PivotSize, ex.params.PermutationSize
	for row := rows.start; row < rows.end; row++ {
		ExpandRow(
			ex.perms[row*permSize:(row+1)*permSize],
			ex.pivots[row*pivotSize:(row+1)*pivotSize],
		)
	}
}

func (ex *expander) worker() {
	defer ex.wg.Done()
	for rows := range ex.toWorker {
		ex.expandRows(rows)
	}
}

func (ex *expander) run(numWorkers int) {
	numRows := ex.params.BatchSize
	numTasks := (numRows + rowsPerTask - 1) / rowsPerTask
	numWorkers = min(numWorkers, numTasks)
	if numWorkers <= 1 {
		ex.expandRows(rowRange{start: 0, end: numRows})
		return
	}
	ex.toWorker = make(chan rowRange)
	for range numWorkers {
		ex.wg.Add(1)
		go ex.worker()
	}
	for start := 0; start < numRows; start += rowsPerTask {
		ex.toWorker <- rowRange{start: start, end: min(start+rowsPerTask, numRows)}
	}
	close(ex.toWorker)
	ex.wg.Wait()
}
