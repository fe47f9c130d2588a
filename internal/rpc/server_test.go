package rpc_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/nyashahama/quiz-result-engine/internal/engine"
	"github.com/nyashahama/quiz-result-engine/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func newClient(t *testing.T) *rpc.Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := rpc.NewGRPCServer(engine.New(), logger)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return rpc.NewClient(conn)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("build struct: %v", err)
	}
	return s
}

func document() map[string]any {
	return map[string]any{
		"version": 2,
		"scales": []any{
			map[string]any{
				"key": "s", "min": 0, "max": 10,
				"bands": []any{
					map[string]any{"upper_bound": 5, "label": "low"},
					map[string]any{"upper_bound": 10, "label": "high"},
				},
			},
		},
		"rules": []any{
			map[string]any{"kind": "threshold", "priority": 0, "payload": map[string]any{"scale_key": "s"}},
		},
		"answers": []any{
			map[string]any{"question_id": "q1", "weights": map[string]any{"s": 3}},
		},
	}
}

// ─── Evaluate ─────────────────────────────────────────────────────────────────

func TestEvaluate_ReturnsSummary(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := client.Evaluate(ctx, mustStruct(t, document()))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	fields := out.GetFields()
	if got := fields["version"].GetNumberValue(); got != 2 {
		t.Errorf("version: got %v", got)
	}
	scores := fields["scale_scores"].GetListValue().GetValues()
	if len(scores) != 1 {
		t.Fatalf("scale_scores: got %d", len(scores))
	}
	if got := scores[0].GetStructValue().GetFields()["score"].GetNumberValue(); got != 3 {
		t.Errorf("score: got %v", got)
	}
	interps := fields["interpretations"].GetListValue().GetValues()
	if len(interps) != 1 || interps[0].GetStructValue().GetFields()["label"].GetStringValue() != "low" {
		t.Errorf("interpretations: %v", interps)
	}
	if len(fields["audit"].GetListValue().GetValues()) != 6 {
		t.Error("audit trail should hold one step per stage")
	}
}

func TestEvaluate_InvalidArgument(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{"no answers", func(m map[string]any) { m["answers"] = []any{} }},
		{"no scales", func(m map[string]any) { m["scales"] = []any{} }},
		{"unknown field", func(m map[string]any) { m["extra"] = true }},
		{"bad rule", func(m map[string]any) {
			m["rules"] = []any{map[string]any{"kind": "regex", "payload": map[string]any{}}}
		}},
	}
	client := newClient(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document()
			tt.mutate(doc)

			_, err := client.Evaluate(context.Background(), mustStruct(t, doc))
			if status.Code(err) != codes.InvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}
}
