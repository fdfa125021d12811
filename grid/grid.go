// Package grid holds the coordinate math of the board: linear index <-> (row, col),
// horizontal wrap inside a row and vertical wrap across the whole board.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSize is returned when a board is requested with a non-positive dimension
// or with more cells than an int can count.
var ErrInvalidSize = errors.New("grid: width and height must be positive")

// Grid 描述棋盘尺寸，创建后不可变。
type Grid struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// New validates the dimensions and returns the board.
func New(width, height int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	if width > math.MaxInt/height {
		return Grid{}, fmt.Errorf("%w: %dx%d overflows the cell count", ErrInvalidSize, width, height)
	}
	return Grid{Width: width, Height: height}, nil
}

// Size is the number of cells on the board.
func (g Grid) Size() int {
	return g.Width * g.Height
}

// Contains reports whether index addresses a cell of the board.
func (g Grid) Contains(index int) bool {
	return index >= 0 && index < g.Size()
}

// Index converts (row, col) to a linear cell index.
func (g Grid) Index(row, col int) int {
	return row*g.Width + col
}

// RowCol converts a linear cell index to (row, col).
func (g Grid) RowCol(index int) (row, col int) {
	return index / g.Width, index % g.Width
}

// Mod is the mathematical modulus: the result is always in [0, n).
func Mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// WrapColumn moves head by step inside its own row, reappearing on the opposite edge.
func WrapColumn(head, step, width int) int {
	rowStart := (head / width) * width
	return rowStart + Mod(head+step, width)
}

// WrapGrid moves head by step over the whole board, wrapping bottom-to-top and back.
func WrapGrid(head, step, size int) int {
	return Mod(head+step, size)
}
