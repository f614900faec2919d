// Package rpc serves the engine over gRPC as enchant.v1.Engine. Messages are
// google.protobuf.Struct values carrying the same JSON shapes as the HTTP API,
// so no generated stubs are needed.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/enchant-engine/internal/service"
)

const ServiceName = "enchant.v1.Engine"

// Server adapts service.Service to the handwritten service descriptor.
type Server struct {
	svc *service.Service
}

func NewServer(svc *service.Service) *Server {
	return &Server{svc: svc}
}

// NewGRPCServer returns a grpc.Server with the engine and health services
// registered and marked SERVING.
func NewGRPCServer(svc *service.Service, log *slog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(recoverInterceptor(log), logInterceptor(log)))
	gs := grpc.NewServer(opts...)
	Register(gs, NewServer(svc))

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return gs, hs
}

// Register adds the engine service to r.
func Register(r grpc.ServiceRegistrar, s *Server) {
	r.RegisterService(&serviceDesc, s)
}

// call decodes in into a Req, runs fn and encodes the result.
func call[Req, Resp any](ctx context.Context, in *structpb.Struct, fn func(context.Context, Req) (Resp, error)) (*structpb.Struct, error) {
	var req Req
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := fn(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := toStruct(resp)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func (s *Server) Rate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return call(ctx, in, s.svc.Rate)
}

func (s *Server) Cost(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return call(ctx, in, s.svc.Cost)
}

func (s *Server) Path(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return call(ctx, in, s.svc.Path)
}

func (s *Server) Recommend(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return call(ctx, in, s.svc.Recommend)
}

func (s *Server) Practical(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return call(ctx, in, s.svc.Practical)
}

func (s *Server) Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return call(ctx, in, s.svc.Simulate)
}

func (s *Server) Compare(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return call(ctx, in, s.svc.Compare)
}

func (s *Server) Tables(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := toStruct(s.svc.Tables(ctx))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// fromStruct round-trips through JSON so request types keep a single set of tags.
func fromStruct(in *structpb.Struct, dst any) error {
	if in == nil {
		return nil
	}
	b, err := json.Marshal(in.AsMap())
	if err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func toStatus(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		code = codes.InvalidArgument
	case errors.Is(err, service.ErrImpractical):
		code = codes.FailedPrecondition
	case errors.Is(err, service.ErrBusy):
		code = codes.ResourceExhausted
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	}
	return status.Error(code, err.Error())
}

func logInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.LogAttrs(ctx, slog.LevelDebug, "rpc",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}

func recoverInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("rpc panic", "method", info.FullMethod, "panic", r)
				err = status.Errorf(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
