package game

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"migration/internal/bootstrap"
	"migration/internal/domain/game"
	"migration/internal/engine"
	errs "migration/internal/errors"
)

type GameStore interface {
	SaveSnapshot(ctx context.Context, gameID string, snapshot string) error
	LoadSnapshot(ctx context.Context, gameID string) (string, error)
	DeleteSnapshot(ctx context.Context, gameID string) error

	ArchiveGame(ctx context.Context, record game.GameRecord) error
	GetArchivedGame(ctx context.Context, gameID string) (game.GameRecord, error)
}

type session struct {
	game      *engine.Game
	depth     int
	createdAt time.Time
}

// GameUseCase keeps the live games of the process, addressed by uuid handles.
type GameUseCase struct {
	cfg     bootstrap.Config
	log     *zap.SugaredLogger
	store   GameStore
	presets map[string]int

	mu    sync.RWMutex
	games map[string]*session
}

func NewGameUseCase(cfg bootstrap.Config, log *zap.SugaredLogger, store GameStore, presets map[string]int) *GameUseCase {
	if presets == nil {
		presets = bootstrap.DefaultDifficulties
	}
	return &GameUseCase{
		cfg:     cfg,
		log:     log,
		store:   store,
		presets: presets,
		games:   make(map[string]*session),
	}
}

// Depth resolves a difficulty name or number, falling back to the configured default.
func (g *GameUseCase) Depth(difficulty string) (int, error) {
	if strings.TrimSpace(difficulty) == "" {
		difficulty = g.cfg.DefaultDifficulty
	}
	return bootstrap.ResolveDifficulty(g.presets, difficulty)
}

func (g *GameUseCase) CreateGame(ctx context.Context, size int, difficulty string) (string, error) {
	depth, err := g.Depth(difficulty)
	if err != nil {
		return "", err
	}
	play, err := engine.NewGame(size, depth)
	if errors.Is(err, engine.ErrInvalidSize) {
		return "", fmt.Errorf("size %d: %w", size, errs.ErrInvalidSize)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrInternal, err)
	}

	gameID := uuid.NewString()
	s := g.register(gameID, play, depth)
	g.persist(ctx, gameID, s)

	g.log.Infof("game %s created: size %d, depth %d", gameID, size, depth)
	return gameID, nil
}

func (g *GameUseCase) register(gameID string, play *engine.Game, depth int) *session {
	s := &session{game: play, depth: depth, createdAt: time.Now()}
	g.mu.Lock()
	g.games[gameID] = s
	g.mu.Unlock()
	return s
}

func (g *GameUseCase) get(gameID string) (*session, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", gameID, errs.ErrGameNotFound)
	}
	return s, nil
}

// persist refreshes the stored snapshot. A failing store leaves the game
// playable in memory.
func (g *GameUseCase) persist(ctx context.Context, gameID string, s *session) {
	var buf bytes.Buffer
	if err := s.game.Save(&buf); err != nil {
		g.log.Errorf("game %s: encode snapshot: %v", gameID, err)
		return
	}
	if err := g.store.SaveSnapshot(ctx, gameID, buf.String()); err != nil {
		g.log.Errorf("game %s: %v", gameID, err)
	}
}

// DestroyGame forgets the handle. Finished games are archived first.
func (g *GameUseCase) DestroyGame(ctx context.Context, gameID string) error {
	g.mu.Lock()
	s, ok := g.games[gameID]
	delete(g.games, gameID)
	g.mu.Unlock()
	if !ok {
		return fmt.Errorf("game %s: %w", gameID, errs.ErrGameNotFound)
	}

	if s.game.IsGameOver() {
		var buf bytes.Buffer
		_ = s.game.Save(&buf)
		record := game.GameRecord{
			ID:         gameID,
			Size:       s.game.Size(),
			Difficulty: s.depth,
			Winner:     int(s.game.Winner()),
			FinalBoard: buf.String(),
			CreatedAt:  s.createdAt,
			FinishedAt: time.Now(),
		}
		if err := g.store.ArchiveGame(ctx, record); err != nil {
			g.log.Errorf("game %s: %v", gameID, err)
		}
	}
	if err := g.store.DeleteSnapshot(ctx, gameID); err != nil {
		g.log.Errorf("game %s: %v", gameID, err)
	}

	g.log.Infof("game destroyed: %s", gameID)
	return nil
}

func (g *GameUseCase) State(ctx context.Context, gameID string) (game.GameState, error) {
	s, err := g.get(gameID)
	if err != nil {
		return game.GameState{}, err
	}
	return stateOf(gameID, s), nil
}

func stateOf(gameID string, s *session) game.GameState {
	winner := s.game.Winner()
	return game.GameState{
		GameID:        gameID,
		Size:          s.game.Size(),
		Difficulty:    s.depth,
		CurrentPlayer: int(s.game.CurrentPlayer()),
		Board:         s.game.Snapshot().Rows(),
		GameOver:      winner != engine.Empty,
		Winner:        int(winner),
	}
}

// Cell returns 0 for coordinates outside the board.
func (g *GameUseCase) Cell(ctx context.Context, gameID string, x, y int) (int, error) {
	s, err := g.get(gameID)
	if err != nil {
		return 0, err
	}
	return int(s.game.Cell(x, y)), nil
}

// ApplyMove never rejects a move: an illegal one leaves the state as it was.
func (g *GameUseCase) ApplyMove(ctx context.Context, gameID string, m engine.Move) (game.GameState, error) {
	s, err := g.get(gameID)
	if err != nil {
		return game.GameState{}, err
	}

	before := s.game.CurrentPlayer()
	s.game.ApplyMove(m.X1, m.Y1, m.X2, m.Y2)
	if s.game.CurrentPlayer() != before {
		g.persist(ctx, gameID, s)
	} else {
		g.log.Debugf("game %s: move %s ignored", gameID, m)
	}
	return stateOf(gameID, s), nil
}

// BotMove asks the bot for player two's move without playing it.
func (g *GameUseCase) BotMove(ctx context.Context, gameID string) (engine.Move, error) {
	s, err := g.get(gameID)
	if err != nil {
		return engine.NoMove, err
	}
	return g.decide(ctx, gameID, s)
}

func (g *GameUseCase) decide(ctx context.Context, gameID string, s *session) (engine.Move, error) {
	if g.cfg.BotTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(g.cfg.BotTimeoutSeconds)*time.Second)
		defer cancel()
	}

	start := time.Now()
	task := s.game.SubmitBotMove()
	m, err := task.WaitContext(ctx)
	if err != nil {
		g.log.Errorf("game %s: bot gave up after %s: %v", gameID, time.Since(start), err)
		return engine.NoMove, fmt.Errorf("bot move: %w", err)
	}

	g.log.Infof("game %s: bot chose %s at depth %d (%d nodes, %s)", gameID, m, s.depth, task.Nodes(), time.Since(start))
	return m, nil
}

// RunBot plays the bot's move and returns it with the resulting state.
func (g *GameUseCase) RunBot(ctx context.Context, gameID string) (engine.Move, game.GameState, error) {
	s, err := g.get(gameID)
	if err != nil {
		return engine.NoMove, game.GameState{}, err
	}

	m, err := g.decide(ctx, gameID, s)
	if err != nil {
		return engine.NoMove, game.GameState{}, err
	}
	if !m.IsNone() {
		s.game.ApplyMove(m.X1, m.Y1, m.X2, m.Y2)
		g.persist(ctx, gameID, s)
	}
	return m, stateOf(gameID, s), nil
}

func (g *GameUseCase) savePath(filename string) (string, error) {
	name := filepath.Base(filename)
	if filename == "" || name != filename || name == "." || name == ".." {
		return "", fmt.Errorf("%q: %w", filename, errs.ErrInvalidFilename)
	}
	return filepath.Join(g.cfg.SaveDir, name), nil
}

// SaveGame writes the game in the save format under the save directory and
// returns the file path.
func (g *GameUseCase) SaveGame(ctx context.Context, gameID, filename string) (string, error) {
	s, err := g.get(gameID)
	if err != nil {
		return "", err
	}
	path, err := g.savePath(filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(g.cfg.SaveDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrInternal, err)
	}
	if err := s.game.SaveFile(path); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrInternal, err)
	}

	g.log.Infof("game %s saved to %s", gameID, path)
	return path, nil
}

// LoadGame opens a saved game under a new handle.
func (g *GameUseCase) LoadGame(ctx context.Context, filename, difficulty string) (string, error) {
	path, err := g.savePath(filename)
	if err != nil {
		return "", err
	}
	depth, err := g.Depth(difficulty)
	if err != nil {
		return "", err
	}

	play, err := engine.LoadGameFile(path, engine.NewMinimaxPlayer(depth))
	if err != nil {
		return "", loadError(filename, err)
	}

	gameID := uuid.NewString()
	s := g.register(gameID, play, depth)
	g.persist(ctx, gameID, s)

	g.log.Infof("game %s loaded from %s", gameID, path)
	return gameID, nil
}

// RestoreGame rebuilds a handle from its stored snapshot, e.g. after a restart.
// A handle that is still live is left alone and its current state returned.
func (g *GameUseCase) RestoreGame(ctx context.Context, gameID, difficulty string) (game.GameState, error) {
	if s, err := g.get(gameID); err == nil {
		g.log.Debugf("game %s already live, restore skipped", gameID)
		return stateOf(gameID, s), nil
	}

	depth, err := g.Depth(difficulty)
	if err != nil {
		return game.GameState{}, err
	}
	snapshot, err := g.store.LoadSnapshot(ctx, gameID)
	if err != nil {
		return game.GameState{}, err
	}

	play, err := engine.LoadGame(strings.NewReader(snapshot), engine.NewMinimaxPlayer(depth))
	if err != nil {
		return game.GameState{}, loadError(gameID, err)
	}

	g.mu.Lock()
	s, live := g.games[gameID]
	if !live {
		s = &session{game: play, depth: depth, createdAt: time.Now()}
		g.games[gameID] = s
	}
	g.mu.Unlock()

	if !live {
		g.log.Infof("game %s restored", gameID)
	}
	return stateOf(gameID, s), nil
}

func loadError(source string, err error) error {
	switch {
	case errors.Is(err, engine.ErrMalformedSnapshot):
		return fmt.Errorf("%s: %w: %v", source, errs.ErrMalformedSnapshot, err)
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%s: %w", source, errs.ErrSnapshotNotFound)
	default:
		return fmt.Errorf("%w: %v", errs.ErrInternal, err)
	}
}

func (g *GameUseCase) ArchivedGame(ctx context.Context, gameID string) (game.GameRecord, error) {
	return g.store.GetArchivedGame(ctx, gameID)
}
