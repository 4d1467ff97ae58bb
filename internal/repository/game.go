package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"migration/internal/bootstrap"
	"migration/internal/domain/game"
	errs "migration/internal/errors"
)

const archiveCollection = "games"

type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

func snapshotKey(gameID string) string {
	return "game:" + gameID
}

func (g *GameRepository) snapshotTTL() time.Duration {
	if g.cfg.SnapshotTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(g.cfg.SnapshotTTLMinutes) * time.Minute
}

// SaveSnapshot stores the save-format text of a live game.
func (g *GameRepository) SaveSnapshot(ctx context.Context, gameID string, snapshot string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := g.redis.Set(ctx, snapshotKey(gameID), snapshot, g.snapshotTTL()).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", gameID, err)
	}
	g.log.Debugf("snapshot stored for game %s", gameID)
	return nil
}

func (g *GameRepository) LoadSnapshot(ctx context.Context, gameID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	val, err := g.redis.Get(ctx, snapshotKey(gameID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("game %s: %w", gameID, errs.ErrSnapshotNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("load snapshot %s: %w", gameID, err)
	}
	return val, nil
}

func (g *GameRepository) DeleteSnapshot(ctx context.Context, gameID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := g.redis.Del(ctx, snapshotKey(gameID)).Err(); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", gameID, err)
	}
	return nil
}

// ArchiveGame upserts a finished game by id.
func (g *GameRepository) ArchiveGame(ctx context.Context, record game.GameRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection(archiveCollection)
	opts := options.Replace().SetUpsert(true)

	_, err := collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, opts)
	if err != nil {
		g.log.Errorf("failed to archive game %s: %v", record.ID, err)
		return fmt.Errorf("archive game %s: %w", record.ID, err)
	}

	g.log.Infof("game %s archived, winner %d", record.ID, record.Winner)
	return nil
}

func (g *GameRepository) GetArchivedGame(ctx context.Context, gameID string) (game.GameRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection(archiveCollection)

	var record game.GameRecord
	err := collection.FindOne(ctx, bson.M{"_id": gameID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return record, fmt.Errorf("game %s: %w", gameID, errs.ErrArchiveNotFound)
	}
	if err != nil {
		g.log.Error(err)
		return record, err
	}
	return record, nil
}
