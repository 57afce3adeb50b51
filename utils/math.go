package utils

// Square returns the square of the given number.
func Square(n float64) float64 {
	return n * n
}

// SquareInt returns the square of the given integer.
func SquareInt(n int) int {
	return n * n
}
