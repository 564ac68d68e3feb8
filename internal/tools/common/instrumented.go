package common

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/inboxroute/internal/instrumentation"
	"github.com/teemow/inboxroute/internal/server"
	"github.com/teemow/inboxroute/internal/tools/registry"
)

// Instrument returns middleware that wraps every tool with a span, the
// tool invocation metrics and an audit line. It reads the metrics and audit
// logger from sc on each call.
//
// Usage:
//
//	dispatcher.Mount(s, common.Instrument(sc))
func Instrument(sc *server.ServerContext) registry.Middleware {
	return func(desc registry.Descriptor, next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			invocation := instrumentation.NewToolInvocation(desc.Name).
				WithService(desc.Service, desc.Operation)

			attrs := instrumentation.NewSpanAttributeBuilder().
				WithInvocationID(invocation.InvocationID).
				WithService(desc.Service).
				WithOperation(desc.Operation).
				WithReadOnly(desc.ReadOnly).
				Build()
			ctx, span := instrumentation.StartToolSpan(ctx, desc.Name, attrs...)
			defer span.End()
			invocation.WithSpanContext(ctx)

			start := time.Now()
			result, err := next(ctx, request)
			duration := time.Since(start)

			errMsg := failureMessage(result, err)
			success := errMsg == ""
			invocation.Complete(success, errMsg)

			span.SetAttributes(attribute.String(instrumentation.SpanAttrStatus, invocation.Status()))
			if success {
				instrumentation.SetSpanSuccess(span)
			} else {
				instrumentation.SetSpanError(span, errors.New(errMsg))
			}

			sc.Metrics().RecordToolInvocation(ctx, desc.Name, invocation.Status(), duration)
			sc.AuditLogger().LogToolInvocation(invocation)

			return result, err
		}
	}
}

// failureMessage returns the failure text of a tool call without the
// "Error: " prefix, or "" for a success.
func failureMessage(result *mcp.CallToolResult, err error) string {
	if err != nil {
		return err.Error()
	}
	if result == nil || !result.IsError {
		return ""
	}
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return strings.TrimPrefix(text.Text, registry.ErrorPrefix)
		}
	}
	return "tool returned an error"
}
