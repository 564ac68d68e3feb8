package registry

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ErrorPrefix starts the text of every failed invocation.
const ErrorPrefix = "Error: "

// Result is the outcome of an invocation: Ok text (with optional structured
// content) or an Err message, never both.
type Result struct {
	text       string
	structured any
	errMsg     string
	failed     bool
}

// Ok is a successful result.
func Ok(text string) Result {
	return Result{text: text}
}

// OkStructured is a successful result that also carries a machine-readable
// record alongside its text.
func OkStructured(text string, structured any) Result {
	return Result{text: text, structured: structured}
}

// Err is a failed result with message.
func Err(message string) Result {
	return Result{errMsg: message, failed: true}
}

// IsError reports whether the result is a failure.
func (r Result) IsError() bool {
	return r.failed
}

// Message returns the failure message without prefix, or "".
func (r Result) Message() string {
	return r.errMsg
}

// Structured returns the structured payload of an Ok result, if any.
func (r Result) Structured() any {
	return r.structured
}

// String renders the result: the text for Ok, "Error: <message>" for Err.
func (r Result) String() string {
	if r.failed {
		return ErrorPrefix + r.errMsg
	}
	return r.text
}

// ToolResult converts the result to an MCP call result. Failures set isError.
func (r Result) ToolResult() *mcp.CallToolResult {
	if r.failed {
		return mcp.NewToolResultError(r.String())
	}
	if r.structured != nil {
		return mcp.NewToolResultStructured(r.structured, r.text)
	}
	return mcp.NewToolResultText(r.text)
}
