package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthProbeInterval = 5 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer serves grpc.health.v1 and reports SERVING while the database
// answers pings.
type HealthServer struct {
	grpcServer *grpc.Server
	health     *health.Server
	db         Pinger
	port       int
	logger     *zap.Logger
	stop       chan struct{}
}

func NewHealthServer(port int, db Pinger, logger *zap.Logger) *HealthServer {
	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	return &HealthServer{
		grpcServer: gs,
		health:     hs,
		db:         db,
		port:       port,
		logger:     logger,
		stop:       make(chan struct{}),
	}
}

// Start listens and blocks until Stop is called.
func (s *HealthServer) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listening on grpc port: %w", err)
	}

	s.probe(context.Background())
	go s.watch()

	s.logger.Info("starting grpc health server", zap.String("addr", lis.Addr().String()))
	if err := s.grpcServer.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc server failed: %w", err)
	}
	return nil
}

func (s *HealthServer) Stop() {
	s.logger.Info("shutting down grpc health server")
	close(s.stop)
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

func (s *HealthServer) watch() {
	ticker := time.NewTicker(healthProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.probe(context.Background())
		}
	}
}

func (s *HealthServer) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("database ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
}
