package instrumentation

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewToolInvocation(t *testing.T) {
	a := NewToolInvocation("list_events")
	b := NewToolInvocation("list_events")

	if a.Tool != "list_events" {
		t.Errorf("Tool = %q", a.Tool)
	}
	if a.InvocationID == "" || a.InvocationID == b.InvocationID {
		t.Errorf("expected distinct invocation ids, got %q and %q", a.InvocationID, b.InvocationID)
	}
	if a.StartTime.IsZero() {
		t.Error("StartTime should be set")
	}
}

func TestToolInvocation_Complete(t *testing.T) {
	ti := NewToolInvocation("create_event").WithService(ServiceCalendar, OperationCreate)

	ti.Complete(false, "Calendar service not initialized")

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q", ti.Status())
	}
	if ti.Error != "Calendar service not initialized" {
		t.Errorf("Error = %q", ti.Error)
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}

	ti.Complete(true, "")
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q", ti.Status())
	}
}

func TestToolInvocation_WithSpanContext(t *testing.T) {
	installSpanRecorder(t)

	ctx, span := StartToolSpan(context.Background(), "list_messages")
	defer span.End()

	ti := NewToolInvocation("list_messages").WithSpanContext(ctx)
	if ti.TraceID == "" || ti.SpanID == "" {
		t.Error("expected trace and span ids to be copied")
	}

	ti = NewToolInvocation("list_messages").WithSpanContext(context.Background())
	if ti.TraceID != "" {
		t.Errorf("expected no trace id, got %q", ti.TraceID)
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	tests := []struct {
		name      string
		success   bool
		errMsg    string
		wantMsg   string
		wantLevel string
	}{
		{"success", true, "", "tool_executed", "INFO"},
		{"failure", false, "Address not found", "tool_failed", "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

			ti := NewToolInvocation("geocode_address").WithService(ServiceMaps, OperationGeocode)
			ti.Complete(tt.success, tt.errMsg)
			al.LogToolInvocation(ti)

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("invalid log line %q: %v", buf.String(), err)
			}
			if entry["msg"] != tt.wantMsg {
				t.Errorf("msg = %v, want %s", entry["msg"], tt.wantMsg)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["invocation_id"] != ti.InvocationID {
				t.Errorf("invocation_id = %v", entry["invocation_id"])
			}
			if entry["service"] != ServiceMaps {
				t.Errorf("service = %v", entry["service"])
			}
			if tt.errMsg != "" && entry["error"] != tt.errMsg {
				t.Errorf("error = %v", entry["error"])
			}
		})
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(slog.New(slog.NewTextHandler(&buf, nil)), AuditLoggingConfig{Enabled: false})

	al.LogToolInvocation(NewToolInvocation("list_messages").Complete(true, ""))
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	al.SetEnabled(true)
	al.LogToolInvocation(NewToolInvocation("list_messages").Complete(true, ""))
	if buf.Len() == 0 {
		t.Error("expected output after enabling")
	}

	var nilLogger *AuditLogger
	nilLogger.LogToolInvocation(NewToolInvocation("list_messages"))
}
