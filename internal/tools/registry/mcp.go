package registry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Middleware wraps the MCP handler of one tool.
type Middleware func(desc Descriptor, next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc

// ToMCPTool builds the MCP schema for desc.
func ToMCPTool(desc Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(desc.Description),
		mcp.WithReadOnlyHintAnnotation(desc.ReadOnly),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	}

	for _, p := range desc.Params {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}

		switch p.Kind {
		case KindString:
			if len(p.Enum) > 0 {
				propOpts = append(propOpts, mcp.Enum(p.Enum...))
			}
			if s, ok := p.Default.(string); ok {
				propOpts = append(propOpts, mcp.DefaultString(s))
			}
			opts = append(opts, mcp.WithString(p.Name, propOpts...))

		case KindNumber:
			if f, ok := toFloat(p.Default); ok {
				propOpts = append(propOpts, mcp.DefaultNumber(f))
			}
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))

		case KindStringList:
			propOpts = append(propOpts, mcp.WithStringItems())
			opts = append(opts, mcp.WithArray(p.Name, propOpts...))
		}
	}

	return mcp.NewTool(desc.Name, opts...)
}

// MCPHandler adapts the tool called name to an MCP handler. The handler
// never returns a protocol error; failures are results with isError set.
func (d *Dispatcher) MCPHandler(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return d.Invoke(ctx, name, request.GetArguments()).ToolResult(), nil
	}
}

// WrappedHandler returns the MCP handler for desc with middleware applied,
// the first middleware outermost.
func (d *Dispatcher) WrappedHandler(desc Descriptor, middleware ...Middleware) mcpserver.ToolHandlerFunc {
	handler := d.MCPHandler(desc.Name)
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](desc, handler)
	}
	return handler
}

// Mount adds every registered tool to s in registration order.
func (d *Dispatcher) Mount(s *mcpserver.MCPServer, middleware ...Middleware) {
	for _, desc := range d.registry.List() {
		s.AddTool(ToMCPTool(desc), d.WrappedHandler(desc, middleware...))
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
