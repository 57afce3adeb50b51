package utils

import (
	"sync"
	"testing"

	"go.viam.com/test"
)

func TestParallelForEachCell(t *testing.T) {
	batch, rows, cols := 3, 5, 7

	var mu sync.Mutex
	visits := map[[3]int]int{}
	ParallelForEachCell(batch, rows, cols, func(b, r, c int) {
		mu.Lock()
		visits[[3]int{b, r, c}]++
		mu.Unlock()
	})

	test.That(t, len(visits), test.ShouldEqual, batch*rows*cols)
	for cell, n := range visits {
		test.That(t, n, test.ShouldEqual, 1)
		test.That(t, cell[0], test.ShouldBeLessThan, batch)
		test.That(t, cell[1], test.ShouldBeLessThan, rows)
		test.That(t, cell[2], test.ShouldBeLessThan, cols)
	}
}

func TestParallelForEachCellEmpty(t *testing.T) {
	called := false
	ParallelForEachCell(0, 4, 4, func(b, r, c int) {
		called = true
	})
	test.That(t, called, test.ShouldBeFalse)
}

func TestGroupWorkCells(t *testing.T) {
	batch, rows, cols := 2, 6, 4
	total := batch * rows * cols

	var counts []int
	var doneOrder []int
	var mu sync.Mutex
	GroupWorkCells(batch, rows, cols,
		func(numGroups int) {
			counts = make([]int, numGroups)
		},
		func(groupNum, groupSize, from, to int) (CellFunc, GroupWorkDoneFunc) {
			test.That(t, to-from, test.ShouldEqual, groupSize)
			return func(b, r, c int) {
					counts[groupNum]++
				}, func() {
					mu.Lock()
					doneOrder = append(doneOrder, groupNum)
					mu.Unlock()
				}
		})

	sum := 0
	for _, n := range counts {
		sum += n
	}
	test.That(t, sum, test.ShouldEqual, total)
	test.That(t, len(doneOrder), test.ShouldEqual, len(counts))
}

func TestSquare(t *testing.T) {
	test.That(t, Square(3), test.ShouldEqual, 9.0)
	test.That(t, Square(-2.5), test.ShouldEqual, 6.25)
	test.That(t, SquareInt(-4), test.ShouldEqual, 16)
}
