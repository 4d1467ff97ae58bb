package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNewGameValidation(t *testing.T) {
	if _, err := NewGame(1, 3); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("size 1: err = %v, want ErrInvalidSize", err)
	}
	if _, err := NewGame(MaxSize+1, 3); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("size %d: err = %v, want ErrInvalidSize", MaxSize+1, err)
	}
	if _, err := NewGame(6, 0); !errors.Is(err, ErrInvalidDepth) {
		t.Fatalf("depth 0: err = %v, want ErrInvalidDepth", err)
	}
	if _, err := NewGame(6, MaxDepth+1); !errors.Is(err, ErrInvalidDepth) {
		t.Fatalf("depth %d: err = %v, want ErrInvalidDepth", MaxDepth+1, err)
	}
	if _, err := NewGame(MaxSize, MaxDepth); err != nil {
		t.Fatalf("largest game: %v", err)
	}
	g, err := NewGame(6, 3)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if g.CurrentPlayer() != PlayerOne || g.Size() != 6 {
		t.Fatalf("new game: player %d size %d", g.CurrentPlayer(), g.Size())
	}
	if !g.Snapshot().Equal(NewBoard(6)) {
		t.Fatalf("new game does not start from the initial position")
	}
}

func TestApplyMoveIllegalIsNoOp(t *testing.T) {
	tests := []struct {
		name string
		move Move
	}{
		{name: "destination occupied", move: Move{0, 2, 1, 2}},
		{name: "empty source", move: Move{3, 3, 3, 2}},
		{name: "source out of bounds", move: Move{-1, 0, 0, 0}},
		{name: "destination out of bounds", move: Move{1, 5, 1, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := NewGame(6, 1)
			before := g.Snapshot()
			g.ApplyMove(tt.move.X1, tt.move.Y1, tt.move.X2, tt.move.Y2)
			if !g.Snapshot().Equal(before) {
				t.Fatalf("board changed")
			}
			if g.CurrentPlayer() != PlayerOne {
				t.Fatalf("current player changed to %d", g.CurrentPlayer())
			}
		})
	}
}

func TestApplyMoveThenInverseRestores(t *testing.T) {
	g, _ := NewGame(6, 1)
	before := g.Snapshot()

	m := Move{1, 5, 1, 4}
	g.ApplyMove(m.X1, m.Y1, m.X2, m.Y2)
	if g.Cell(1, 4) != PlayerOne || g.Cell(1, 5) != Empty {
		t.Fatalf("move not applied")
	}
	if g.CurrentPlayer() != PlayerTwo {
		t.Fatalf("turn did not pass")
	}

	inv := m.Inverse()
	g.ApplyMove(inv.X1, inv.Y1, inv.X2, inv.Y2)
	if !g.Snapshot().Equal(before) {
		t.Fatalf("inverse move did not restore the board")
	}
	if g.CurrentPlayer() != PlayerOne {
		t.Fatalf("turn did not pass back")
	}
}

func TestGameOverWhenPlayerOneStuck(t *testing.T) {
	g, err := LoadGame(strings.NewReader("4 1\n1 2 0 0 \n0 0 0 0 \n0 0 0 0 \n0 0 0 0 \n"), NewMinimaxPlayer(2))
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if !g.IsGameOver() {
		t.Fatalf("IsGameOver = false with player one stuck")
	}
	if g.Winner() != PlayerTwo {
		t.Fatalf("Winner = %d, want player two", g.Winner())
	}

	fresh, _ := NewGame(6, 1)
	if fresh.IsGameOver() || fresh.Winner() != Empty {
		t.Fatalf("fresh game reported as over")
	}
}

func TestRequestBotMoveDoesNotMutate(t *testing.T) {
	g, _ := NewGame(6, 3)
	g.ApplyMove(1, 5, 1, 4)
	before := g.Snapshot()

	m := g.RequestBotMove()
	if m.IsNone() {
		t.Fatalf("bot found no move on an open board")
	}
	if !g.Snapshot().Equal(before) || g.CurrentPlayer() != PlayerTwo {
		t.Fatalf("RequestBotMove changed game state")
	}
}

func TestRunBotAppliesLegalMove(t *testing.T) {
	g, _ := NewGame(6, 3)
	g.ApplyMove(1, 5, 1, 4)
	legal := GenerateMoves(g.Snapshot(), PlayerTwo)

	m := g.RunBot()
	found := false
	for _, l := range legal {
		if l == m {
			found = true
		}
	}
	if !found {
		t.Fatalf("bot played %v, not among %v", m, legal)
	}
	if g.Cell(m.X2, m.Y2) != PlayerTwo || g.Cell(m.X1, m.Y1) != Empty {
		t.Fatalf("bot move %v not applied", m)
	}
	if g.CurrentPlayer() != PlayerOne {
		t.Fatalf("turn did not return to player one")
	}
}

func TestRunBotStuckLeavesState(t *testing.T) {
	g, err := LoadGame(strings.NewReader("4 2\n0 0 0 0 \n0 0 0 0 \n0 0 0 0 \n0 2 0 1 \n"), NewMinimaxPlayer(2))
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	before := g.Snapshot()
	if m := g.RunBot(); !m.IsNone() {
		t.Fatalf("RunBot = %v, want NoMove", m)
	}
	if !g.Snapshot().Equal(before) || g.CurrentPlayer() != PlayerTwo {
		t.Fatalf("stuck bot changed state")
	}
}

func TestConcurrentBotRequests(t *testing.T) {
	g, _ := NewGame(8, 3)
	g.ApplyMove(1, 7, 1, 6)
	want := g.RequestBotMove()

	var wg sync.WaitGroup
	results := make([]Move, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = g.RequestBotMove()
		}(i)
	}
	wg.Wait()
	for i, m := range results {
		if m != want {
			t.Fatalf("request %d = %v, want %v", i, m, want)
		}
	}
}
