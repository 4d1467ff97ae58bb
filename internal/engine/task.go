package engine

import "context"

// BotTask is a move computation running on its own goroutine. It owns the
// board it searches; nothing else holds a reference to it.
type BotTask struct {
	done  chan struct{}
	move  Move
	nodes int64
}

// Submit copies snapshot, starts strategy.DecideMove on the copy and returns
// immediately. The caller may mutate snapshot as soon as Submit returns.
func Submit(strategy Strategy, snapshot *Board) *BotTask {
	t := &BotTask{done: make(chan struct{})}
	board := snapshot.Clone()
	go func() {
		defer close(t.done)
		if cs, ok := strategy.(CountingStrategy); ok {
			t.move, t.nodes = cs.Search(board)
			return
		}
		t.move = strategy.DecideMove(board)
	}()
	return t
}

func (t *BotTask) Done() <-chan struct{} { return t.done }

// Nodes is the search size of this task, or 0 for strategies that do not
// count. Only meaningful once Done is closed.
func (t *BotTask) Nodes() int64 {
	select {
	case <-t.done:
		return t.nodes
	default:
		return 0
	}
}

// Wait blocks until the move is available.
func (t *BotTask) Wait() Move {
	<-t.done
	return t.move
}

// WaitContext is Wait that gives up when ctx ends. The search keeps running
// to completion in the background; its result is dropped.
func (t *BotTask) WaitContext(ctx context.Context) (Move, error) {
	select {
	case <-t.done:
		return t.move, nil
	case <-ctx.Done():
		return NoMove, ctx.Err()
	}
}
