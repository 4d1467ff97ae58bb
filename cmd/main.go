package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"migration/internal/adapters"
	"migration/internal/bootstrap"
	engineDelivery "migration/internal/delivery/engine"
	gameDelivery "migration/internal/delivery/game"
	ownMiddleware "migration/internal/middleware"
	repo "migration/internal/repository"
	engineUC "migration/internal/usecase/engine"
	gameUC "migration/internal/usecase/game"
	engineProto "migration/microservices/proto"
)

type mainDeliveryHandler struct {
	engine *engineDelivery.EngineHandler
	game   *gameDelivery.GameHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	presets, err := bootstrap.LoadDifficultyPresets(cfg.DifficultyPresets)
	if err != nil {
		logger.Error("Failed to load difficulty presets", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	databaseAdapters := initDatabaseAdapters(ctx, logger, *cfg)
	defer databaseAdapters.mongoAdapter.Close(context.Background())
	defer databaseAdapters.redisAdapter.Close(context.Background())

	generator, closeGenerator := initMoveGenerator(logger, *cfg)
	defer closeGenerator()

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(*cfg, logger, presets, generator, databaseAdapters)
	handlers.Router(r, cfg.IsLocalCors)

	server := &http.Server{Addr: cfg.ServerPort, Handler: r}
	go handleShutdown(cancel, server, logger)

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h.game.Routes(r)
	r.Post("/engine/move", h.engine.HandleGenerateMove)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(&cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(&cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize Redis", zap.Error(err))
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

// initMoveGenerator searches in-process unless ENGINE_GRPC_ADDR names an
// engine service.
func initMoveGenerator(log *zap.SugaredLogger, cfg bootstrap.Config) (engineUC.MoveGenerator, func()) {
	if cfg.EngineGrpcAddr == "" {
		log.Info("Using the local engine")
		return engineUC.LocalGenerator{}, func() {}
	}

	conn, err := grpc.NewClient(cfg.EngineGrpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to dial grpc", zap.Error(err))
	}
	log.Infof("Using the engine service at %s", cfg.EngineGrpcAddr)
	return engineUC.NewRemoteGenerator(engineProto.NewEngineServiceClient(conn)), func() { conn.Close() }
}

func initializeDeliveryHandlers(
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	presets map[string]int,
	generator engineUC.MoveGenerator,
	databaseAdapters *dataBaseAdapters,
) *mainDeliveryHandler {
	gameRepo := repo.NewGameRepository(cfg, log, databaseAdapters.redisAdapter.GetClient(), databaseAdapters.mongoAdapter.Database)
	gameDeliveryHandler := gameDelivery.NewGameHandler(cfg, log, gameUC.NewGameUseCase(cfg, log, gameRepo, presets))

	engineDeliveryHandler := engineDelivery.NewEngineHandler(cfg, log, engineUC.NewEngineUseCase(cfg, log, generator, presets))

	return &mainDeliveryHandler{
		engine: engineDeliveryHandler,
		game:   gameDeliveryHandler,
	}
}

func handleShutdown(cancelFunc context.CancelFunc, server *http.Server, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	cancelFunc()
}
