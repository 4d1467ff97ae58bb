package engine

import (
	"fmt"
	"sync/atomic"
)

const (
	// WinScore is returned when a side has no legal move. It dominates any
	// value Evaluate can produce on a playable board.
	WinScore = 10000
	// Infinity bounds the alpha-beta window.
	Infinity = 100000
)

// Strategy computes a move for the side it plays.
type Strategy interface {
	DecideMove(b *Board) Move
	Name() string
}

// CountingStrategy is a Strategy that reports the size of each search.
type CountingStrategy interface {
	Strategy
	Search(b *Board) (Move, int64)
}

// MinimaxPlayer plays player two with a fixed-depth alpha-beta search.
type MinimaxPlayer struct {
	depth     int
	lastNodes atomic.Int64
}

func NewMinimaxPlayer(depth int) *MinimaxPlayer {
	return &MinimaxPlayer{depth: depth}
}

func (p *MinimaxPlayer) Name() string {
	return fmt.Sprintf("Minimax (depth %d)", p.depth)
}

func (p *MinimaxPlayer) Depth() int { return p.depth }

// Nodes returns the node count of whichever search finished last. With
// concurrent searches on one player it is best-effort; use Search for an exact
// per-call count.
func (p *MinimaxPlayer) Nodes() int64 { return p.lastNodes.Load() }

// DecideMove searches a private copy of b and returns the best player-two
// move, or NoMove when player two is stuck. Ties go to the earliest move in
// generation order.
func (p *MinimaxPlayer) DecideMove(b *Board) Move {
	m, _ := p.Search(b)
	return m
}

// Search is DecideMove that also reports the positions visited by this call.
func (p *MinimaxPlayer) Search(b *Board) (Move, int64) {
	work := b.Clone()
	moves := GenerateMoves(work, PlayerTwo)
	if len(moves) == 0 {
		p.lastNodes.Store(0)
		return NoMove, 0
	}

	s := &searcher{}
	best := moves[0]
	maxEval := -Infinity
	for _, m := range moves {
		undo := work.place(m, PlayerTwo)
		eval := s.minimax(work, p.depth-1, false, -Infinity, Infinity)
		undo()
		if eval > maxEval {
			maxEval = eval
			best = m
		}
	}
	p.lastNodes.Store(s.nodes)
	return best, s.nodes
}

// Minimax returns the backed-up value of b with depth plies left. The board is
// mutated during the call and restored before it returns.
func Minimax(b *Board, depth int, maximizing bool, alpha, beta int) int {
	s := &searcher{}
	return s.minimax(b, depth, maximizing, alpha, beta)
}

type searcher struct {
	nodes int64
}

func (s *searcher) minimax(b *Board, depth int, maximizing bool, alpha, beta int) int {
	s.nodes++
	if depth == 0 {
		return Evaluate(b)
	}

	player := PlayerOne
	if maximizing {
		player = PlayerTwo
	}
	moves := GenerateMoves(b, player)
	if len(moves) == 0 {
		if maximizing {
			return -WinScore
		}
		return WinScore
	}

	if maximizing {
		maxEval := -Infinity
		for _, m := range moves {
			undo := b.place(m, PlayerTwo)
			eval := s.minimax(b, depth-1, false, alpha, beta)
			undo()
			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break
			}
		}
		return maxEval
	}

	minEval := Infinity
	for _, m := range moves {
		undo := b.place(m, PlayerOne)
		eval := s.minimax(b, depth-1, true, alpha, beta)
		undo()
		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break
		}
	}
	return minEval
}
