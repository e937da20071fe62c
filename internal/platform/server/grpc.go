package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/ogurasousui/hr-records/internal/platform/logger"
)

// ServiceName は gRPC ヘルスチェックで公開するサービス名です。
const ServiceName = "hr-records"

// GRPCServer は gRPC ヘルスサーバーのライフサイクルを管理します。
type GRPCServer struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	log        *logger.Logger
}

// NewGRPC は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
func NewGRPC(listenAddr string, log *logger.Logger, opts ...grpc.ServerOption) *GRPCServer {
	srv := grpc.NewServer(opts...)
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	reflection.Register(srv)

	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &GRPCServer{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthSrv,
		log:        log,
	}
}

// Name はログ出力用の名前です。
func (s *GRPCServer) Name() string {
	return "grpc"
}

// SetServing はサービスのヘルス状態を更新します。
func (s *GRPCServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は lis で待ち受けます。lis は停止時に閉じられます。
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
		case <-done:
		}
	}()

	if s.log != nil {
		s.log.Info("gRPC server listening", "addr", lis.Addr().String())
	}

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// WatchHealth は interval ごとに check を実行し、結果をヘルス状態に反映します。
func (s *GRPCServer) WatchHealth(ctx context.Context, check func(context.Context) error, interval time.Duration) error {
	probe := func() {
		err := check(ctx)
		if err != nil && s.log != nil && ctx.Err() == nil {
			s.log.Warn("health probe failed", "error", err.Error())
		}
		s.SetServing(err == nil)
	}

	probe()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			probe()
		}
	}
}
