package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	return recorder
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("list_messages").
		WithInvocationID("inv-1").
		WithService(ServiceGmail).
		WithOperation(OperationList).
		WithReadOnly(true).
		Build()

	if len(attrs) != 5 {
		t.Fatalf("expected 5 attributes, got %d", len(attrs))
	}

	attrMap := make(map[string]interface{})
	for _, attr := range attrs {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}

	if attrMap[SpanAttrTool] != "list_messages" {
		t.Errorf("expected tool 'list_messages', got %v", attrMap[SpanAttrTool])
	}
	if attrMap[SpanAttrInvocationID] != "inv-1" {
		t.Errorf("expected invocation id 'inv-1', got %v", attrMap[SpanAttrInvocationID])
	}
	if attrMap[SpanAttrService] != ServiceGmail {
		t.Errorf("expected service 'gmail', got %v", attrMap[SpanAttrService])
	}
	if attrMap[SpanAttrReadOnly] != true {
		t.Errorf("expected read_only true, got %v", attrMap[SpanAttrReadOnly])
	}
}

func TestSpanAttributeBuilder_EmptyInvocationID(t *testing.T) {
	attrs := NewSpanAttributeBuilder().WithTool("t").WithInvocationID("").Build()
	if len(attrs) != 1 {
		t.Errorf("expected 1 attribute, got %d", len(attrs))
	}
}

func TestStartToolSpan(t *testing.T) {
	recorder := installSpanRecorder(t)

	ctx, span := StartToolSpan(context.Background(), "geocode_address")
	if GetTraceID(ctx) == "" || GetSpanID(ctx) == "" {
		t.Error("expected a valid span context")
	}
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	if ended[0].Name() != "tool.geocode_address" {
		t.Errorf("span name = %q", ended[0].Name())
	}
	if ended[0].SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", ended[0].SpanKind())
	}
	if ended[0].Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", ended[0].Status().Code)
	}
}

func TestStartRemoteSpan_Error(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := StartRemoteSpan(context.Background(), ServiceMaps, OperationDirections)
	EndRemoteSpan(span, errors.New("ZERO_RESULTS"))

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	if ended[0].Name() != "remote.maps.directions" {
		t.Errorf("span name = %q", ended[0].Name())
	}
	if ended[0].SpanKind() != trace.SpanKindClient {
		t.Errorf("span kind = %v, want client", ended[0].SpanKind())
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", ended[0].Status().Code)
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("expected empty trace id, got %q", id)
	}
	if id := GetSpanID(context.Background()); id != "" {
		t.Errorf("expected empty span id, got %q", id)
	}
}
