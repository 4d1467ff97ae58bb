package engine

import "fmt"

// Move is a single step from (X1, Y1) to (X2, Y2).
type Move struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// NoMove is returned when the side to move has no legal step.
var NoMove = Move{-1, -1, -1, -1}

func (m Move) IsNone() bool { return m == NoMove }

// Inverse swaps source and destination.
func (m Move) Inverse() Move {
	return Move{X1: m.X2, Y1: m.Y2, X2: m.X1, Y2: m.Y1}
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)->(%d,%d)", m.X1, m.Y1, m.X2, m.Y2)
}

// step is the fixed per-player direction: player two advances along x,
// player one retreats along y.
func step(player Cell) (dx, dy int) {
	switch player {
	case PlayerTwo:
		return 1, 0
	case PlayerOne:
		return 0, -1
	}
	return 0, 0
}

// GenerateMoves lists every legal step for player. The scan is x-major,
// y-minor and the order is part of the contract: the search breaks ties by
// taking the first best move.
func GenerateMoves(b *Board, player Cell) []Move {
	dx, dy := step(player)
	if dx == 0 && dy == 0 {
		return nil
	}
	moves := make([]Move, 0, b.n)
	for x := 0; x < b.n; x++ {
		for y := 0; y < b.n; y++ {
			if b.cells[x][y] != player {
				continue
			}
			nx, ny := x+dx, y+dy
			if b.IsValid(nx, ny) && b.cells[nx][ny] == Empty {
				moves = append(moves, Move{X1: x, Y1: y, X2: nx, Y2: ny})
			}
		}
	}
	return moves
}
