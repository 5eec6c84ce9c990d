package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jlgsjlgs/HowMuchAh-backend/internal/adapter/cache"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/adapter/events/amqp"
	grpcadapter "github.com/jlgsjlgs/HowMuchAh-backend/internal/adapter/grpc"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/adapter/repository/postgres"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/auth"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/config"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/metrics"
	"github.com/jlgsjlgs/HowMuchAh-backend/internal/usecase/settlement"
	"github.com/jlgsjlgs/HowMuchAh-backend/pkg/logging"
)

const (
	tokenDuration   = 24 * time.Hour
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Setup Database
	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DBConnStr); err != nil {
			return err
		}
		logger.Info("Database migrations applied")
	}

	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. Initialize Repositories and the transaction manager
	txManager := postgres.NewTxManager(db, cfg.LockTimeout)
	repos := postgres.NewRepositories(db)

	// 3. Optional side channels
	registry := metrics.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	opts := []settlement.Option{
		settlement.WithMetrics(recorder),
		settlement.WithLogger(logger),
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.NewClient(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts = append(opts, settlement.WithCache(cache.NewSettlementCache(rdb, cfg.CacheTTL)))
		logger.Info("Settlement cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	} else {
		logger.Info("Settlement cache disabled - no REDIS_ADDR provided")
	}

	if cfg.AMQPURL != "" {
		publisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer publisher.Close()
		opts = append(opts, settlement.WithPublisher(publisher))
		logger.Info("Settlement events enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("Settlement events disabled - no AMQP_URL provided")
	}

	// 4. Initialize Services (Use Cases)
	settlementService := settlement.NewSettlementService(txManager, repos, opts...)

	// 5. Start gRPC and metrics servers
	tokens := auth.NewTokenManager(cfg.JWTSecret, tokenDuration)
	grpcServer, healthServer := grpcadapter.NewGRPCServer(grpcadapter.NewServer(settlementService), tokens, logger)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		logger.Info("Metrics server listening", "addr", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down gracefully...")

		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached, forcing gRPC stop")
			grpcServer.Stop()
		}

		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
