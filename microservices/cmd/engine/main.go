package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"migration/internal/bootstrap"
	engineRPC "migration/microservices/proto"
	"migration/microservices/usecase"
)

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	lis, err := net.Listen("tcp", cfg.EngineGrpcPort)
	if err != nil {
		logger.Fatalf("cant listen port %s: %v", cfg.EngineGrpcPort, err)
	}

	server := grpc.NewServer()
	engineRPC.RegisterEngineServiceServer(server, usecase.NewEngineUseCase(logger))

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		logger.Info("Received shutdown signal")
		server.GracefulStop()
	}()

	logger.Infof("starting engine server at %s", cfg.EngineGrpcPort)
	if err := server.Serve(lis); err != nil {
		logger.Fatal("engine server stopped", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return logger.Sugar()
}
