package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	pb "matchcore.io/api/engine/v1"
	"matchcore.io/internal/engine"
	"matchcore.io/internal/server"
	"matchcore.io/pkg/config"
	"matchcore.io/pkg/interceptor"
	"matchcore.io/pkg/logger"
	"matchcore.io/pkg/metrics"
	"matchcore.io/pkg/safe"
)

type engineConfig struct {
	ListenAddr         string `mapstructure:"listen_addr"`
	DataDir            string `mapstructure:"data_dir"`
	WALFlushPolicy     string `mapstructure:"wal_flush_policy"`
	SnapshotIntervalMs int    `mapstructure:"snapshot_interval_ms"`
	MetricsAddr        string `mapstructure:"metrics_addr"`
	LogLevel           string `mapstructure:"log_level"`
	RateLimitQPS       int    `mapstructure:"rate_limit_qps"`
}

func main() {
	cfg := engineConfig{
		ListenAddr:     ":50051",
		DataDir:        "data",
		WALFlushPolicy: "per_record",
		LogLevel:       "info",
	}
	if _, err := config.LoadAndWatch("engine", &cfg); err != nil {
		logger.Init("engine", "info")
		logger.Fatal(context.Background(), "load config failed", zap.Error(err))
	}

	logger.Init("engine", cfg.LogLevel)
	defer logger.Sync()
	ctx := context.Background()

	flushPolicy, err := engine.ParseFlushPolicy(cfg.WALFlushPolicy)
	if err != nil {
		logger.Fatal(ctx, "bad wal_flush_policy", zap.Error(err))
	}

	metrics.MustRegister()
	if cfg.MetricsAddr != "" {
		safe.Go(func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error(ctx, "metrics listener stopped", zap.Error(err))
			}
		})
	}

	start := time.Now()
	eng, st, err := engine.Open(engine.Config{
		DataDir:          cfg.DataDir,
		FlushPolicy:      flushPolicy,
		SnapshotInterval: time.Duration(cfg.SnapshotIntervalMs) * time.Millisecond,
	})
	if err != nil {
		logger.Fatal(ctx, "engine recovery failed", zap.Error(err))
	}
	logger.Info(ctx, "engine recovered",
		zap.Bool("snapshot", st.SnapshotPresent),
		zap.Uint64("snapshot_seq", st.SnapshotSeq),
		zap.Int("snapshot_orders", st.SnapshotOrders),
		zap.Int("wal_records", st.WALRecords),
		zap.Int("trades_rederived", st.WALTradesRederived),
		zap.Bool("wal_tail_truncated", st.TruncatedTail),
		zap.Duration("took", time.Since(start)),
	)

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		logger.Fatal(ctx, "listen failed", zap.String("addr", cfg.ListenAddr), zap.Error(err))
	}

	unary := []grpc.UnaryServerInterceptor{
		interceptor.RecoverUnary(),
		interceptor.RequestIDServerUnary(),
	}
	if cfg.RateLimitQPS > 0 {
		unary = append(unary, interceptor.RateLimitUnary(float64(cfg.RateLimitQPS), cfg.RateLimitQPS))
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(unary...))
	pb.RegisterEngineServer(grpcServer, server.NewGrpcServer(eng))

	safe.Go(func() {
		logger.Info(ctx, "engine service listening", zap.String("addr", cfg.ListenAddr))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatal(ctx, "grpc serve failed", zap.Error(err))
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info(ctx, "shutting down", zap.String("signal", sig.String()))

	grpcServer.GracefulStop()
	if err := eng.Close(); err != nil {
		logger.Error(ctx, "engine close failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info(ctx, "shutdown complete")
}
