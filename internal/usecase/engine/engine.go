package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"migration/internal/bootstrap"
	"migration/internal/domain"
	"migration/internal/engine"
	errs "migration/internal/errors"
	engineRPC "migration/microservices/proto"
)

// MoveGenerator computes player two's move for an arbitrary position.
type MoveGenerator interface {
	GenerateMove(ctx context.Context, board *engine.Board, depth int) (engine.Move, error)
	Name() string
}

type LocalGenerator struct{}

func (LocalGenerator) Name() string { return "local" }

func (LocalGenerator) GenerateMove(ctx context.Context, board *engine.Board, depth int) (engine.Move, error) {
	return engine.Submit(engine.NewMinimaxPlayer(depth), board).WaitContext(ctx)
}

// RemoteGenerator delegates the search to the engine microservice.
type RemoteGenerator struct {
	client engineRPC.EngineServiceClient
}

func NewRemoteGenerator(client engineRPC.EngineServiceClient) *RemoteGenerator {
	return &RemoteGenerator{client: client}
}

func (r *RemoteGenerator) Name() string { return "grpc" }

func (r *RemoteGenerator) GenerateMove(ctx context.Context, board *engine.Board, depth int) (engine.Move, error) {
	req, err := engineRPC.NewDecideMoveRequest(board, depth)
	if err != nil {
		return engine.NoMove, err
	}
	resp, err := r.client.DecideMove(ctx, req)
	if err != nil {
		switch status.Code(err) {
		case codes.InvalidArgument:
			return engine.NoMove, fmt.Errorf("%w: %s", errs.ErrMalformedSnapshot, status.Convert(err).Message())
		case codes.DeadlineExceeded:
			return engine.NoMove, fmt.Errorf("engine rpc: %w", context.DeadlineExceeded)
		}
		return engine.NoMove, fmt.Errorf("engine rpc: %w", err)
	}
	return engineRPC.ParseMoveResponse(resp)
}

type EngineUseCase struct {
	cfg       bootstrap.Config
	log       *zap.SugaredLogger
	generator MoveGenerator
	presets   map[string]int
}

func NewEngineUseCase(cfg bootstrap.Config, log *zap.SugaredLogger, generator MoveGenerator, presets map[string]int) *EngineUseCase {
	if presets == nil {
		presets = bootstrap.DefaultDifficulties
	}
	return &EngineUseCase{
		cfg:       cfg,
		log:       log,
		generator: generator,
		presets:   presets,
	}
}

// DecideMove answers a stateless move request. An explicit depth wins over a
// difficulty name.
func (e *EngineUseCase) DecideMove(ctx context.Context, req domain.EngineMoveRequest) (domain.EngineMoveResponse, error) {
	board, err := engine.BoardFromRows(req.Board)
	if err != nil {
		return domain.EngineMoveResponse{}, fmt.Errorf("%w: %v", errs.ErrMalformedSnapshot, err)
	}

	depth := req.Depth
	if depth == 0 {
		difficulty := req.Difficulty
		if difficulty == "" {
			difficulty = e.cfg.DefaultDifficulty
		}
		if depth, err = bootstrap.ResolveDifficulty(e.presets, difficulty); err != nil {
			return domain.EngineMoveResponse{}, err
		}
	}
	if depth < 1 || depth > engine.MaxDepth {
		return domain.EngineMoveResponse{}, fmt.Errorf("depth %d: %w", depth, errs.ErrInvalidDifficulty)
	}

	if e.cfg.BotTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.BotTimeoutSeconds)*time.Second)
		defer cancel()
	}

	start := time.Now()
	move, err := e.generator.GenerateMove(ctx, board, depth)
	if err != nil {
		e.log.Errorf("%s engine failed: %v", e.generator.Name(), err)
		return domain.EngineMoveResponse{}, err
	}
	e.log.Infof("%s engine chose %s at depth %d in %s", e.generator.Name(), move, depth, time.Since(start))

	return domain.EngineMoveResponse{
		Move:   move,
		NoMove: move.IsNone(),
		Engine: e.generator.Name(),
	}, nil
}
