package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported by the health service for the form.
const ServiceName = "ttsform.Form"

// Server serves the standard gRPC health service and server reflection.
type Server struct {
	server *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates a server whose services start out SERVING.
func NewServer(logger *slog.Logger, opts ...grpc.ServerOption) *Server {
	s := &Server{
		server: grpc.NewServer(opts...),
		health: health.NewServer(),
		logger: logger,
	}

	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.SetServing(true)

	return s
}

// SetServing updates the status reported for the whole server and for ServiceName.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Serve accepts connections on lis until Shutdown is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Starting gRPC server", "addr", lis.Addr().String())

	if err := s.server.Serve(lis); err != nil {
		return fmt.Errorf("grpc: serve: %w", err)
	}
	return nil
}

// Shutdown reports NOT_SERVING and stops gracefully, forcing the stop once ctx is done.
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Forcing gRPC server stop", "error", ctx.Err())
		s.server.Stop()
		<-done
	}
}
