package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/config"
	"github.com/fekuna/omnipos-stocktake-service/internal/broker"
	"github.com/fekuna/omnipos-stocktake-service/internal/idgen"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/fekuna/omnipos-stocktake-service/internal/state"
	"github.com/fekuna/omnipos-stocktake-service/internal/stocktake"

	invH "github.com/fekuna/omnipos-stocktake-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-stocktake-service/internal/inventory/listener"
	invUCPkg "github.com/fekuna/omnipos-stocktake-service/internal/inventory/usecase"

	prodH "github.com/fekuna/omnipos-stocktake-service/internal/product/handler"
	prodUCPkg "github.com/fekuna/omnipos-stocktake-service/internal/product/usecase"

	stH "github.com/fekuna/omnipos-stocktake-service/internal/stocktake/handler"
	stUCPkg "github.com/fekuna/omnipos-stocktake-service/internal/stocktake/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Open Store
	st, closeStore, err := openStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeStore()

	// 4. Load State
	appState, err := state.Load(ctx, st, appLogger)
	if err != nil {
		appLogger.Fatal("Could not load state", zap.Error(err))
	}

	// 5. Initialize UseCases
	policy, err := stocktake.ParseCountPolicy(cfg.Stocktake.InvalidCount)
	if err != nil {
		appLogger.Fatal("Invalid STOCKTAKE_INVALID_COUNT", zap.Error(err))
	}

	ids := idgen.NewUUID()
	prodUC := prodUCPkg.NewProductUseCase(appState, ids, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(appState, ids, time.Now, appLogger)
	stUC := stUCPkg.NewStocktakeUseCase(appState, stocktake.NewEngine(policy), ids, time.Now, appLogger)

	// 6. Initialize Listener
	if cfg.Kafka.Enabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, invUC, appLogger)
		go invListener.Start(ctx)
	}

	// 7. Start HTTP Server
	router := newRouter(appLogger,
		prodH.NewProductHandler(prodUC, time.Now, appLogger),
		invH.NewInventoryHandler(invUC, time.Now, appLogger),
		stH.NewStocktakeHandler(stUC, appLogger),
	)
	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 8. Start gRPC Health Server
	grpcPort := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	appLogger.Info("Server stopped")
}

func normalizePort(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
