package grpc_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcAdapter "mindmapr/internal/journal/adapters/grpc"
	"mindmapr/internal/journal/config"
	"mindmapr/pkg/logger"
)

type switchablePinger struct {
	down atomic.Bool
}

func (p *switchablePinger) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func testConfig(interval time.Duration) *config.GRPCConfig {
	return &config.GRPCConfig{Host: "127.0.0.1", Port: 0, HealthInterval: interval}
}

func healthClient(t *testing.T, addr string) healthpb.HealthClient {
	t.Helper()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func TestRegisterService(t *testing.T) {
	server := grpcAdapter.New(testConfig(time.Second), nil)

	called := false
	server.RegisterService(func(*grpc.Server) {
		called = true
	})

	assert.True(t, called)
}

func TestProbe(t *testing.T) {
	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Development, "debug"))
	ctx := context.Background()
	pinger := &switchablePinger{}
	server := grpcAdapter.New(testConfig(time.Hour), pinger)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, server.Probe(ctx))

	pinger.down.Store(true)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, server.Probe(ctx))

	server.Stop(ctx)
}

func TestHealthFollowsStore(t *testing.T) {
	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Development, "debug"))
	ctx := context.Background()
	pinger := &switchablePinger{}

	server := grpcAdapter.New(testConfig(20*time.Millisecond), pinger)
	require.NoError(t, server.Start(ctx))
	t.Cleanup(func() { server.Stop(ctx) })

	client := healthClient(t, server.Addr())

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		callCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		resp, err := client.Check(callCtx, &healthpb.HealthCheckRequest{Service: grpcAdapter.ServiceName})
		if err != nil {
			return healthpb.HealthCheckResponse_UNKNOWN
		}
		return resp.GetStatus()
	}

	assert.Eventually(t, func() bool {
		return check() == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	pinger.down.Store(true)

	assert.Eventually(t, func() bool {
		return check() == healthpb.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartInvalidAddress(t *testing.T) {
	server := grpcAdapter.New(&config.GRPCConfig{Host: "256.256.256.256", Port: 1}, nil)

	err := server.Start(context.Background())

	require.Error(t, err)
}
