package engine

import (
	"fmt"
	"math"
)

// Cell is the state of a single square.
type Cell int

const (
	Empty Cell = iota
	PlayerOne
	PlayerTwo
)

// Opponent returns the other side, or Empty for anything that is not a player.
func Opponent(c Cell) Cell {
	switch c {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return Empty
}

func (c Cell) valid() bool {
	return c == Empty || c == PlayerOne || c == PlayerTwo
}

// Board is a square grid indexed as cells[x][y].
type Board struct {
	n     int
	cells [][]Cell
}

// EmptyBoard allocates an n×n board with every cell Empty.
func EmptyBoard(n int) *Board {
	cells := make([][]Cell, n)
	for x := range cells {
		cells[x] = make([]Cell, n)
	}
	return &Board{n: n, cells: cells}
}

// NewBoard returns the starting position: player one occupies a triangle along
// the high-y edge, player two a triangle along the low-x edge.
func NewBoard(n int) *Board {
	b := EmptyBoard(n)
	k := int(math.Ceil(float64(n)/2 - 1))
	for y := 0; y < k; y++ {
		for x := y + 1; x < n-y-1; x++ {
			b.cells[x][n-1-y] = PlayerOne
		}
	}
	for x := 0; x < k; x++ {
		for y := x + 1; y < n-x-1; y++ {
			b.cells[x][y] = PlayerTwo
		}
	}
	return b
}

func (b *Board) Size() int { return b.n }

// IsValid reports whether (x, y) lies on the board.
func (b *Board) IsValid(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.n && y < b.n
}

// Cell returns the value at (x, y), or Empty when out of bounds.
func (b *Board) Cell(x, y int) Cell {
	if !b.IsValid(x, y) {
		return Empty
	}
	return b.cells[x][y]
}

// Set writes c at (x, y); out-of-bounds writes are ignored.
func (b *Board) Set(x, y int, c Cell) {
	if !b.IsValid(x, y) {
		return
	}
	b.cells[x][y] = c
}

func (b *Board) Clone() *Board {
	nb := EmptyBoard(b.n)
	for x := range b.cells {
		copy(nb.cells[x], b.cells[x])
	}
	return nb
}

func (b *Board) Equal(other *Board) bool {
	if other == nil || b.n != other.n {
		return false
	}
	for x := 0; x < b.n; x++ {
		for y := 0; y < b.n; y++ {
			if b.cells[x][y] != other.cells[x][y] {
				return false
			}
		}
	}
	return true
}

// Count returns how many cells hold c.
func (b *Board) Count(c Cell) int {
	n := 0
	for x := 0; x < b.n; x++ {
		for y := 0; y < b.n; y++ {
			if b.cells[x][y] == c {
				n++
			}
		}
	}
	return n
}

// Rows returns a copy of the grid as plain integers, one slice per x.
func (b *Board) Rows() [][]int {
	rows := make([][]int, b.n)
	for x := 0; x < b.n; x++ {
		rows[x] = make([]int, b.n)
		for y := 0; y < b.n; y++ {
			rows[x][y] = int(b.cells[x][y])
		}
	}
	return rows
}

// BoardFromRows is the inverse of Rows. The grid must be square, at least
// 2×2, at most MaxSize wide, and hold only 0, 1 or 2.
func BoardFromRows(rows [][]int) (*Board, error) {
	n := len(rows)
	if n < 2 || n > MaxSize {
		return nil, fmt.Errorf("%w: size %d", ErrMalformedSnapshot, n)
	}
	b := EmptyBoard(n)
	for x, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrMalformedSnapshot, x, len(row))
		}
		for y, v := range row {
			if !Cell(v).valid() {
				return nil, fmt.Errorf("%w: cell (%d,%d) = %d", ErrMalformedSnapshot, x, y, v)
			}
			b.cells[x][y] = Cell(v)
		}
	}
	return b, nil
}

// place moves a piece for the search and returns the matching undo. Both
// directions write piece rather than reading the source cell.
func (b *Board) place(m Move, piece Cell) (undo func()) {
	b.cells[m.X2][m.Y2] = piece
	b.cells[m.X1][m.Y1] = Empty
	return func() {
		b.cells[m.X1][m.Y1] = piece
		b.cells[m.X2][m.Y2] = Empty
	}
}
