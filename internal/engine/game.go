package engine

import (
	"errors"
	"sync"
)

const (
	// MaxSize bounds the board side accepted from callers and save files.
	MaxSize = 64
	// MaxDepth bounds the search depth. Searches cannot be interrupted.
	MaxDepth = 8
)

var (
	ErrInvalidSize  = errors.New("board size must be between 2 and 64")
	ErrInvalidDepth = errors.New("search depth must be between 1 and 8")
)

// Game is the authoritative state of one match: the human plays PlayerOne,
// the owned strategy plays PlayerTwo. It is safe for concurrent use.
type Game struct {
	mu            sync.RWMutex
	size          int
	currentPlayer Cell
	board         *Board
	bot           Strategy
}

// NewGame starts a match on a fresh size×size board with a minimax bot
// searching depth plies.
func NewGame(size, depth int) (*Game, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, ErrInvalidDepth
	}
	return NewGameWithStrategy(size, NewMinimaxPlayer(depth))
}

func NewGameWithStrategy(size int, bot Strategy) (*Game, error) {
	if size < 2 || size > MaxSize {
		return nil, ErrInvalidSize
	}
	return &Game{
		size:          size,
		currentPlayer: PlayerOne,
		board:         NewBoard(size),
		bot:           bot,
	}, nil
}

func (g *Game) Size() int { return g.size }

func (g *Game) Strategy() Strategy { return g.bot }

func (g *Game) CurrentPlayer() Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currentPlayer
}

func (g *Game) Cell(x, y int) Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.Cell(x, y)
}

// Snapshot returns an independent copy of the board.
func (g *Game) Snapshot() *Board {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.Clone()
}

// ApplyMove moves the piece at (x1, y1) to (x2, y2) and passes the turn.
// Out-of-bounds coordinates, an empty source or an occupied destination make
// it a no-op.
func (g *Game) ApplyMove(x1, y1, x2, y2 int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.board.IsValid(x1, y1) || !g.board.IsValid(x2, y2) {
		return
	}
	p := g.board.cells[x1][y1]
	if p == Empty {
		return
	}
	if g.board.cells[x2][y2] != Empty {
		return
	}

	g.board.cells[x2][y2] = p
	g.board.cells[x1][y1] = Empty
	g.currentPlayer = Opponent(g.currentPlayer)
}

// IsGameOver reports whether the side to move has no legal step.
func (g *Game) IsGameOver() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(GenerateMoves(g.board, g.currentPlayer)) == 0
}

// Winner is the opponent of a stuck side to move, or Empty while play goes on.
func (g *Game) Winner() Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(GenerateMoves(g.board, g.currentPlayer)) > 0 {
		return Empty
	}
	return Opponent(g.currentPlayer)
}

// RequestBotMove computes the bot's reply to the current position without
// touching game state.
func (g *Game) RequestBotMove() Move {
	return g.SubmitBotMove().Wait()
}

// SubmitBotMove starts the bot search on a copy of the current board taken
// under the read lock.
func (g *Game) SubmitBotMove() *BotTask {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Submit(g.bot, g.board)
}

// RunBot plays the bot's move, if it has one, and returns it.
func (g *Game) RunBot() Move {
	m := g.RequestBotMove()
	if !m.IsNone() {
		g.ApplyMove(m.X1, m.Y1, m.X2, m.Y2)
	}
	return m
}
