// Package utils contains small helpers shared by the geometry engines.
package utils

import (
	"math"
	"runtime"
	"sync"

	goutils "go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// CellFunc runs for a single (batch, row, col) cell.
type CellFunc func(b, r, c int)

// ParallelForEachCell sweeps the (batch, row, col) index space and calls f for
// every cell. The flattened space is divided into contiguous chunks, one per
// worker goroutine. Every cell is visited exactly once; f must only write to
// locations owned by its own cell.
func ParallelForEachCell(batch, rows, cols int, f CellFunc) {
	total := batch * rows * cols
	if total == 0 {
		return
	}
	numWorkers := ParallelFactor
	if numWorkers > total {
		numWorkers = total
	}
	chunk := int(math.Ceil(float64(total) / float64(numWorkers)))
	var wait sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		from := w * chunk
		to := from + chunk
		if to > total {
			to = total
		}
		if from >= to {
			continue
		}
		fromCopy, toCopy := from, to
		wait.Add(1)
		goutils.PanicCapturingGo(func() {
			defer wait.Done()
			for i := fromCopy; i < toCopy; i++ {
				b := i / (rows * cols)
				rem := i % (rows * cols)
				f(b, rem/cols, rem%cols)
			}
		})
	}
	wait.Wait()
}

type (
	// BeforeGroupWorkFunc executes before any work starts with the number of groups.
	BeforeGroupWorkFunc func(numGroups int)
	// GroupWorkDoneFunc runs when a single group's work is done; helpful for merge stages.
	GroupWorkDoneFunc func()
	// GroupWorkFunc runs once per group to determine what its cells should do, if anything.
	GroupWorkFunc func(groupNum, groupSize, from, to int) (CellFunc, GroupWorkDoneFunc)
)

// GroupWorkCells parallelizes a sweep of the (batch, row, col) index space
// over numbered worker groups. Unlike ParallelForEachCell, each group knows its
// own identity, so callers can give every group a private accumulator and merge
// them once all groups have finished. Groups cover contiguous ranges of the
// flattened index space.
func GroupWorkCells(batch, rows, cols int, before BeforeGroupWorkFunc, groupWork GroupWorkFunc) {
	totalSize := batch * rows * cols
	if totalSize == 0 {
		before(0)
		return
	}
	numGroups := ParallelFactor
	if numGroups > totalSize {
		numGroups = totalSize
	}
	groupSize := totalSize / numGroups
	extra := totalSize % numGroups
	before(numGroups)

	var wait sync.WaitGroup
	wait.Add(numGroups)
	for groupNum := 0; groupNum < numGroups; groupNum++ {
		groupNumCopy := groupNum
		goutils.PanicCapturingGo(func() {
			defer wait.Done()
			groupNum := groupNumCopy

			thisGroupSize := groupSize
			if groupNum == (numGroups - 1) {
				thisGroupSize += extra
			}
			from := groupSize * groupNum
			to := from + thisGroupSize
			cellWork, groupWorkDone := groupWork(groupNum, thisGroupSize, from, to)
			if cellWork != nil {
				for i := from; i < to; i++ {
					b := i / (rows * cols)
					rem := i % (rows * cols)
					cellWork(b, rem/cols, rem%cols)
				}
			}
			if groupWorkDone != nil {
				groupWorkDone()
			}
		})
	}
	wait.Wait()
}
