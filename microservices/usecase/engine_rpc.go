package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"migration/internal/engine"
	engineRPC "migration/microservices/proto"
)

type EngineUseCase struct {
	log *zap.SugaredLogger
}

func NewEngineUseCase(log *zap.SugaredLogger) *EngineUseCase {
	return &EngineUseCase{log: log}
}

func (e *EngineUseCase) DecideMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	board, depth, err := engineRPC.ParseDecideMoveRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	player := engine.NewMinimaxPlayer(depth)
	start := time.Now()
	move, err := engine.Submit(player, board).WaitContext(ctx)
	if err != nil {
		e.log.Warnf("decide move abandoned after %s: %v", time.Since(start), err)
		return nil, status.FromContextError(err).Err()
	}

	e.log.Infof("decided %s on %dx%d at depth %d (%d nodes, %s)",
		move, board.Size(), board.Size(), depth, player.Nodes(), time.Since(start))
	return engineRPC.NewMoveResponse(move)
}
