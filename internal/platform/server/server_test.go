package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ogurasousui/hr-records/internal/platform/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func listenLocal(t *testing.T) net.Listener {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	return lis
}

func TestHTTPServer_ServeAndShutdown(t *testing.T) {
	lis := listenLocal(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := NewHTTP(lis.Addr().String(), handler, time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, lis) }()

	client := &http.Client{Timeout: time.Second}
	resp, err := client.Get("http://" + lis.Addr().String() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	client.CloseIdleConnections()

	if string(body) != "ok" {
		t.Fatalf("unexpected body: %q", body)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestGRPCServer_HealthFollowsProbe(t *testing.T) {
	lis := listenLocal(t)
	srv := NewGRPC(lis.Addr().String(), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		t.Helper()
		callCtx, callCancel := context.WithTimeout(context.Background(), time.Second)
		defer callCancel()
		resp, err := client.Check(callCtx, &healthpb.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			t.Fatalf("health check failed: %v", err)
		}
		return resp.GetStatus()
	}

	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING before the first probe, got %v", got)
	}

	srv.SetServing(true)
	if got := check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", got)
	}

	srv.SetServing(false)
	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v", got)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestGRPCServer_WatchHealth(t *testing.T) {
	srv := NewGRPC("127.0.0.1:0", logger.Nop())

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.WatchHealth(ctx, func(context.Context) error {
			if calls.Add(1) == 1 {
				return nil
			}
			return errors.New("database down")
		}, 10*time.Millisecond)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("WatchHealth returned error: %v", err)
	}
	if calls.Load() < 2 {
		t.Fatalf("expected periodic probes, got %d", calls.Load())
	}
}

func TestRun_StopsAllOnError(t *testing.T) {
	boom := errors.New("boom")

	var stopped atomic.Bool
	err := Run(context.Background(), logger.Nop(),
		RunnerFunc{Label: "failing", Fn: func(ctx context.Context) error { return boom }},
		RunnerFunc{Label: "waiting", Fn: func(ctx context.Context) error {
			<-ctx.Done()
			stopped.Store(true)
			return nil
		}},
	)

	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !stopped.Load() {
		t.Fatal("expected remaining runners to be cancelled")
	}
}
