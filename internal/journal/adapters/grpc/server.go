// Package grpc содержит gRPC сервер проверки здоровья сервиса дневника.
package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"mindmapr/internal/journal/config"
	"mindmapr/pkg/logger"
)

// ServiceName - имя сервиса в grpc.health.v1.
const ServiceName = "mindmapr.journal"

const (
	defaultHealthInterval = 15 * time.Second
	pingTimeout           = 3 * time.Second
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server представляет gRPC сервер, статус которого следует за доступностью хранилища.
type Server struct {
	server   *grpc.Server
	health   *health.Server
	store    Pinger
	address  string
	interval time.Duration

	mu       sync.Mutex
	listener net.Listener
	stop     chan struct{}
	done     chan struct{}
}

// New создает новый экземпляр gRPC сервера.
func New(cfg *config.GRPCConfig, store Pinger) *Server {
	interval := cfg.HealthInterval
	if interval <= 0 {
		interval = defaultHealthInterval
	}

	s := &Server{
		server:   grpc.NewServer(),
		health:   health.NewServer(),
		store:    store,
		address:  cfg.GetAddress(),
		interval: interval,
	}

	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	return s
}

// RegisterService регистрирует дополнительные gRPC сервисы.
func (s *Server) RegisterService(registerFunc func(*grpc.Server)) {
	registerFunc(s.server)
}

// Start запускает gRPC сервер и периодическую проверку хранилища.
func (s *Server) Start(ctx context.Context) error {
	log := logger.Log(ctx)

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.Probe(ctx)

	log.Info(ctx, "gRPC server started", zap.String("address", listener.Addr().String()))

	go func() {
		if err := s.server.Serve(listener); err != nil {
			log.Error(ctx, "failed to serve gRPC", zap.Error(err))
		}
	}()

	go s.watch(ctx)

	return nil
}

// Addr возвращает фактический адрес сервера после Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return s.address
	}
	return s.listener.Addr().String()
}

// Probe проверяет хранилище один раз и выставляет статус.
func (s *Server) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING

	if s.store != nil {
		pingCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pingTimeout)
		defer cancel()

		if err := s.store.Ping(pingCtx); err != nil {
			logger.Log(ctx).Warn(ctx, "store is unreachable", zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)

	return status
}

func (s *Server) watch(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}

// Stop останавливает gRPC сервер.
func (s *Server) Stop(ctx context.Context) {
	log := logger.Log(ctx)
	log.Info(ctx, "stopping gRPC server")

	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	s.health.Shutdown()
	s.server.GracefulStop()
}
