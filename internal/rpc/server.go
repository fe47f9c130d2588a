// Package rpc exposes the stateless result engine over gRPC as
// quiz.v1.ResultEngine. Requests and responses are google.protobuf.Struct
// documents with the same JSON shape as POST /api/evaluate, so the service
// needs no generated message types.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
	"github.com/nyashahama/quiz-result-engine/internal/quiz"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName    = "quiz.v1.ResultEngine"
	EvaluateMethod = "/" + ServiceName + "/Evaluate"
)

// ResultEngineServer is the server API of quiz.v1.ResultEngine.
type ResultEngineServer interface {
	Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ─── SERVICE DESCRIPTOR ───────────────────────────────────────────────────────

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResultEngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "quiz/v1/result_engine.proto",
}

func evaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResultEngineServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: EvaluateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResultEngineServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv ResultEngineServer) {
	s.RegisterService(&serviceDesc, srv)
}

// ─── SERVER ───────────────────────────────────────────────────────────────────

// Server implements ResultEngineServer on top of an *engine.Engine.
type Server struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewServer(eng *engine.Engine, logger *slog.Logger) *Server {
	return &Server{engine: eng, logger: logger}
}

// NewGRPCServer returns a grpc.Server with the result engine registered and
// a logging interceptor installed.
func NewGRPCServer(eng *engine.Engine, logger *slog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	s := grpc.NewServer(opts...)
	Register(s, NewServer(eng, logger))
	return s
}

// Evaluate decodes req as an evaluate document, runs the engine and returns
// the full summary. Malformed documents and inputs rejected by the engine
// both map to InvalidArgument.
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw, err := protojson.Marshal(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "encode request: %v", err)
	}

	doc, err := quiz.DecodeEvaluateRequest(raw)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	in, err := doc.Input()
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	summary, err := s.engine.With(engine.WithLogger(s.logger)).EvaluateContext(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := toStruct(summary)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode summary: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case engine.IsValidationError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("to struct: %w", err)
	}
	return out, nil
}

// loggingInterceptor logs each call with method, code and duration, in the
// same shape as the HTTP request log.
func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}

// ─── CLIENT ───────────────────────────────────────────────────────────────────

// Client calls quiz.v1.ResultEngine over cc.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Evaluate(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EvaluateMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
