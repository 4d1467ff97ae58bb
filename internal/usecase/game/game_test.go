package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"

	"migration/internal/bootstrap"
	"migration/internal/domain/game"
	"migration/internal/engine"
	errs "migration/internal/errors"
)

type fakeStore struct {
	mu        sync.Mutex
	snapshots map[string]string
	archive   map[string]game.GameRecord
	saves     int
	fail      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		snapshots: make(map[string]string),
		archive:   make(map[string]game.GameRecord),
	}
}

func (f *fakeStore) SaveSnapshot(ctx context.Context, gameID string, snapshot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.saves++
	f.snapshots[gameID] = snapshot
	return nil
}

func (f *fakeStore) LoadSnapshot(ctx context.Context, gameID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snapshots[gameID]
	if !ok {
		return "", errs.ErrSnapshotNotFound
	}
	return s, nil
}

func (f *fakeStore) DeleteSnapshot(ctx context.Context, gameID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.snapshots, gameID)
	return nil
}

func (f *fakeStore) ArchiveGame(ctx context.Context, record game.GameRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archive[record.ID] = record
	return nil
}

func (f *fakeStore) GetArchivedGame(ctx context.Context, gameID string) (game.GameRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.archive[gameID]
	if !ok {
		return r, errs.ErrArchiveNotFound
	}
	return r, nil
}

func newTestUseCase(t *testing.T, store GameStore) *GameUseCase {
	t.Helper()
	cfg := bootstrap.Config{
		SaveDir:           t.TempDir(),
		DefaultDifficulty: "easy",
		BotTimeoutSeconds: 10,
	}
	return NewGameUseCase(cfg, zap.NewNop().Sugar(), store, nil)
}

const startFour = "4 1\n0 2 2 0 \n0 0 0 1 \n0 0 0 1 \n0 0 0 0 \n"

func TestCreateGame(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(t, store)
	ctx := context.Background()

	id, err := uc.CreateGame(ctx, 4, "")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if store.snapshots[id] != startFour {
		t.Fatalf("stored snapshot = %q, want %q", store.snapshots[id], startFour)
	}

	st, err := uc.State(ctx, id)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st.Size != 4 || st.CurrentPlayer != 1 || st.GameOver || st.Winner != 0 || st.Difficulty != 1 {
		t.Fatalf("unexpected state %+v", st)
	}
	if st.Board[0][1] != 2 || st.Board[1][3] != 1 {
		t.Fatalf("unexpected board %v", st.Board)
	}
}

func TestCreateGameRejectsBadInput(t *testing.T) {
	uc := newTestUseCase(t, newFakeStore())
	ctx := context.Background()

	if _, err := uc.CreateGame(ctx, 1, "easy"); !errors.Is(err, errs.ErrInvalidSize) {
		t.Fatalf("size 1: err = %v, want ErrInvalidSize", err)
	}
	if _, err := uc.CreateGame(ctx, 65, "easy"); !errors.Is(err, errs.ErrInvalidSize) {
		t.Fatalf("size 65: err = %v, want ErrInvalidSize", err)
	}
	if _, err := uc.CreateGame(ctx, 6, "nightmare"); !errors.Is(err, errs.ErrInvalidDifficulty) {
		t.Fatalf("bad difficulty: err = %v, want ErrInvalidDifficulty", err)
	}
	if _, err := uc.CreateGame(ctx, 6, "9"); !errors.Is(err, errs.ErrInvalidDifficulty) {
		t.Fatalf("depth 9: err = %v, want ErrInvalidDifficulty", err)
	}
}

func TestCreateGameSurvivesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.fail = errors.New("redis down")
	uc := newTestUseCase(t, store)

	id, err := uc.CreateGame(context.Background(), 6, "2")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := uc.State(context.Background(), id); err != nil {
		t.Fatalf("State: %v", err)
	}
}

func TestUnknownGame(t *testing.T) {
	uc := newTestUseCase(t, newFakeStore())
	ctx := context.Background()

	if _, err := uc.State(ctx, "nope"); !errors.Is(err, errs.ErrGameNotFound) {
		t.Fatalf("State err = %v", err)
	}
	if _, err := uc.BotMove(ctx, "nope"); !errors.Is(err, errs.ErrGameNotFound) {
		t.Fatalf("BotMove err = %v", err)
	}
	if err := uc.DestroyGame(ctx, "nope"); !errors.Is(err, errs.ErrGameNotFound) {
		t.Fatalf("DestroyGame err = %v", err)
	}
}

func TestApplyMove(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(t, store)
	ctx := context.Background()
	id, _ := uc.CreateGame(ctx, 4, "easy")
	saves := store.saves

	st, err := uc.ApplyMove(ctx, id, engine.Move{X1: 1, Y1: 3, X2: 1, Y2: 2})
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if st.CurrentPlayer != 2 || st.Board[1][3] != 0 || st.Board[1][2] != 1 {
		t.Fatalf("move not applied: %+v", st)
	}
	if store.saves != saves+1 {
		t.Fatalf("snapshot not refreshed")
	}

	// occupied destination
	st, err = uc.ApplyMove(ctx, id, engine.Move{X1: 0, Y1: 1, X2: 0, Y2: 2})
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if st.CurrentPlayer != 2 || store.saves != saves+1 {
		t.Fatalf("illegal move changed the game: %+v", st)
	}

	if v, _ := uc.Cell(ctx, id, 1, 2); v != 1 {
		t.Fatalf("Cell(1,2) = %d, want 1", v)
	}
	if v, _ := uc.Cell(ctx, id, 9, 9); v != 0 {
		t.Fatalf("Cell out of bounds = %d, want 0", v)
	}
}

func TestBotMoveAndRunBot(t *testing.T) {
	uc := newTestUseCase(t, newFakeStore())
	ctx := context.Background()
	id, _ := uc.CreateGame(ctx, 4, "easy")

	before, _ := uc.State(ctx, id)
	m, err := uc.BotMove(ctx, id)
	if err != nil {
		t.Fatalf("BotMove: %v", err)
	}
	if m != (engine.Move{X1: 0, Y1: 1, X2: 1, Y2: 1}) {
		t.Fatalf("BotMove = %v, want first best move", m)
	}
	after, _ := uc.State(ctx, id)
	if after.CurrentPlayer != before.CurrentPlayer || after.Board[0][1] != 2 {
		t.Fatalf("BotMove mutated the game")
	}

	played, st, err := uc.RunBot(ctx, id)
	if err != nil {
		t.Fatalf("RunBot: %v", err)
	}
	if played != m {
		t.Fatalf("RunBot played %v, want %v", played, m)
	}
	if st.Board[0][1] != 0 || st.Board[1][1] != 2 || st.CurrentPlayer != 2 {
		t.Fatalf("unexpected state after RunBot: %+v", st)
	}
}

func TestSaveAndLoadGame(t *testing.T) {
	uc := newTestUseCase(t, newFakeStore())
	ctx := context.Background()
	id, _ := uc.CreateGame(ctx, 4, "easy")
	uc.ApplyMove(ctx, id, engine.Move{X1: 1, Y1: 3, X2: 1, Y2: 2})

	path, err := uc.SaveGame(ctx, id, "game.txt")
	if err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	const want = "4 2\n0 2 2 0 \n0 0 1 0 \n0 0 0 1 \n0 0 0 0 \n"
	if string(data) != want {
		t.Fatalf("save file = %q, want %q", data, want)
	}

	loaded, err := uc.LoadGame(ctx, "game.txt", "hard")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if loaded == id {
		t.Fatalf("loaded game reused the handle")
	}
	orig, _ := uc.State(ctx, id)
	st, _ := uc.State(ctx, loaded)
	if st.CurrentPlayer != orig.CurrentPlayer || st.Difficulty != 5 {
		t.Fatalf("loaded state %+v", st)
	}
	for x := range orig.Board {
		for y := range orig.Board[x] {
			if st.Board[x][y] != orig.Board[x][y] {
				t.Fatalf("board differs at (%d,%d)", x, y)
			}
		}
	}
}

func TestSaveGameRejectsPaths(t *testing.T) {
	uc := newTestUseCase(t, newFakeStore())
	ctx := context.Background()
	id, _ := uc.CreateGame(ctx, 4, "easy")

	for _, name := range []string{"", ".", "..", "../escape.txt", "sub/dir.txt"} {
		if _, err := uc.SaveGame(ctx, id, name); !errors.Is(err, errs.ErrInvalidFilename) {
			t.Errorf("SaveGame(%q) err = %v, want ErrInvalidFilename", name, err)
		}
	}
}

func TestLoadGameErrors(t *testing.T) {
	uc := newTestUseCase(t, newFakeStore())
	ctx := context.Background()

	if _, err := uc.LoadGame(ctx, "missing.txt", "easy"); !errors.Is(err, errs.ErrSnapshotNotFound) {
		t.Fatalf("missing file: err = %v", err)
	}

	bad := filepath.Join(uc.cfg.SaveDir, "bad.txt")
	if err := os.WriteFile(bad, []byte("4 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.LoadGame(ctx, "bad.txt", "easy"); !errors.Is(err, errs.ErrMalformedSnapshot) {
		t.Fatalf("malformed file: err = %v", err)
	}
}

func TestRestoreGame(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(t, store)
	ctx := context.Background()
	id, _ := uc.CreateGame(ctx, 4, "easy")
	uc.ApplyMove(ctx, id, engine.Move{X1: 2, Y1: 3, X2: 2, Y2: 2})

	restarted := newTestUseCase(t, store)
	st, err := restarted.RestoreGame(ctx, id, "medium")
	if err != nil {
		t.Fatalf("RestoreGame: %v", err)
	}
	if st.GameID != id || st.CurrentPlayer != 2 || st.Board[2][2] != 1 || st.Difficulty != 3 {
		t.Fatalf("restored state %+v", st)
	}

	if _, err := restarted.RestoreGame(ctx, "unknown", ""); !errors.Is(err, errs.ErrSnapshotNotFound) {
		t.Fatalf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestRestoreLiveGameKeepsState(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(t, store)
	ctx := context.Background()
	id, _ := uc.CreateGame(ctx, 4, "easy")
	uc.ApplyMove(ctx, id, engine.Move{X1: 2, Y1: 3, X2: 2, Y2: 2})
	store.snapshots[id] = startFour

	st, err := uc.RestoreGame(ctx, id, "hard")
	if err != nil {
		t.Fatalf("RestoreGame: %v", err)
	}
	if st.CurrentPlayer != 2 || st.Board[2][2] != 1 || st.Difficulty != 1 {
		t.Fatalf("live game replaced: %+v", st)
	}
	if cur, _ := uc.State(ctx, id); cur.Board[2][2] != 1 || cur.Difficulty != 1 {
		t.Fatalf("state after restore %+v", cur)
	}
}

func TestDestroyGame(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(t, store)
	ctx := context.Background()
	id, _ := uc.CreateGame(ctx, 4, "easy")

	if err := uc.DestroyGame(ctx, id); err != nil {
		t.Fatalf("DestroyGame: %v", err)
	}
	if _, ok := store.snapshots[id]; ok {
		t.Fatalf("snapshot kept after destroy")
	}
	if len(store.archive) != 0 {
		t.Fatalf("unfinished game archived")
	}
	if _, err := uc.State(ctx, id); !errors.Is(err, errs.ErrGameNotFound) {
		t.Fatalf("State after destroy: %v", err)
	}
}

func TestDestroyFinishedGameArchives(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(t, store)
	ctx := context.Background()

	// player one's only piece sits on its goal edge
	path := filepath.Join(uc.cfg.SaveDir, "over.txt")
	if err := os.WriteFile(path, []byte("4 1\n1 2 0 0 \n0 0 0 0 \n0 0 0 0 \n0 0 0 0 \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	id, err := uc.LoadGame(ctx, "over.txt", "easy")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	st, _ := uc.State(ctx, id)
	if !st.GameOver || st.Winner != 2 {
		t.Fatalf("expected finished game, got %+v", st)
	}

	if err := uc.DestroyGame(ctx, id); err != nil {
		t.Fatalf("DestroyGame: %v", err)
	}
	rec, err := uc.ArchivedGame(ctx, id)
	if err != nil {
		t.Fatalf("ArchivedGame: %v", err)
	}
	if rec.Winner != 2 || rec.Size != 4 || rec.FinalBoard == "" {
		t.Fatalf("unexpected record %+v", rec)
	}
}
