package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingHandler counts calls and echoes its arguments.
type countingHandler struct {
	calls atomic.Int32
	last  Args
}

func (c *countingHandler) handle(_ context.Context, args Args) (Result, error) {
	c.calls.Add(1)
	c.last = args
	return Ok(fmt.Sprintf("%v", args)), nil
}

func newTestDispatcher(t *testing.T, desc Descriptor, h Handler) (*Dispatcher, *bytes.Buffer) {
	t.Helper()
	reg := New()
	require.NoError(t, reg.Register(desc, h))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewDispatcher(reg, logger), &buf
}

var directionsDesc = Descriptor{
	Name: "get_directions",
	Params: []Param{
		{Name: "origin", Kind: KindString, Required: true},
		{Name: "destination", Kind: KindString, Required: true},
		{Name: "mode", Kind: KindString, Default: "driving"},
	},
}

func TestDispatcher_UnknownTool(t *testing.T) {
	d, _ := newTestDispatcher(t, directionsDesc, okHandler("x"))

	res := d.Invoke(context.Background(), "teleport", nil)

	assert.True(t, res.IsError())
	assert.Equal(t, "Error: unknown tool: teleport", res.String())
}

func TestDispatcher_MissingArgumentsNeverReachHandler(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"both absent", map[string]any{}, "Error: missing required arguments: origin, destination"},
		{"nil args", nil, "Error: missing required arguments: origin, destination"},
		{"one null", map[string]any{"origin": "Berlin", "destination": nil}, "Error: missing required arguments: destination"},
		{"one empty string", map[string]any{"origin": "", "destination": "Potsdam"}, "Error: missing required arguments: origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &countingHandler{}
			d, _ := newTestDispatcher(t, directionsDesc, stub.handle)

			res := d.Invoke(context.Background(), "get_directions", tt.args)

			assert.True(t, res.IsError())
			assert.Equal(t, tt.want, res.String())
			assert.Equal(t, int32(0), stub.calls.Load(), "handler must not be called")
		})
	}
}

func TestDispatcher_AppliesDefaultsOnCopy(t *testing.T) {
	stub := &countingHandler{}
	d, _ := newTestDispatcher(t, directionsDesc, stub.handle)

	args := map[string]any{"origin": "Berlin", "destination": "Potsdam"}
	res := d.Invoke(context.Background(), "get_directions", args)

	require.False(t, res.IsError(), res.String())
	assert.Equal(t, "driving", stub.last["mode"])
	_, touched := args["mode"]
	assert.False(t, touched, "caller's map must not be modified")

	d.Invoke(context.Background(), "get_directions", map[string]any{"origin": "a", "destination": "b", "mode": "walking"})
	assert.Equal(t, "walking", stub.last["mode"])
}

func TestDispatcher_HandlerErrorsBecomeErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not initialized", &NotInitializedError{Service: "Gmail"}, "Error: Gmail service not initialized"},
		{"wrapped not initialized", fmt.Errorf("listing: %w", &NotInitializedError{Service: "Maps"}), "Error: Maps service not initialized"},
		{"not found", NotFound("maps", "Address not found"), "Error: Address not found"},
		{"remote verbatim", Remote("gmail", errors.New("googleapi: Error 403: Insufficient Permission")), "Error: googleapi: Error 403: Insufficient Permission"},
		{"validation", &ValidationError{Message: "invalid mode"}, "Error: invalid mode"},
		{"plain error", errors.New("boom"), "Error: boom"},
		{"mapping", &MappingError{Record: "route", Err: errors.New("route has no legs")}, "Error: unexpected route record: route has no legs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDispatcher(t, Descriptor{Name: "t"}, func(context.Context, Args) (Result, error) {
				return Result{}, tt.err
			})

			res := d.Invoke(context.Background(), "t", nil)
			assert.True(t, res.IsError())
			assert.Equal(t, tt.want, res.String())
		})
	}
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	d, logs := newTestDispatcher(t, Descriptor{Name: "t"}, func(context.Context, Args) (Result, error) {
		panic("nil map write")
	})

	res := d.Invoke(context.Background(), "t", nil)

	assert.True(t, res.IsError())
	assert.Equal(t, "Error: internal error: nil map write", res.String())
	assert.Contains(t, logs.String(), "tool handler panicked")
}

func TestDispatcher_PassesContext(t *testing.T) {
	type key struct{}
	var got any
	d, _ := newTestDispatcher(t, Descriptor{Name: "t"}, func(ctx context.Context, _ Args) (Result, error) {
		got = ctx.Value(key{})
		return Ok(""), nil
	})

	d.Invoke(context.WithValue(context.Background(), key{}, "v"), "t", nil)
	assert.Equal(t, "v", got)
}

func TestDispatcher_Logging(t *testing.T) {
	d, logs := newTestDispatcher(t, directionsDesc, okHandler("ok"))

	d.Invoke(context.Background(), "get_directions", map[string]any{"origin": "a", "destination": "b"})
	assert.Contains(t, logs.String(), "tool invocation succeeded")
	assert.Contains(t, logs.String(), "tool=get_directions")

	d.Invoke(context.Background(), "get_directions", nil)
	assert.Contains(t, logs.String(), "tool invocation failed")
	assert.Contains(t, logs.String(), "missing required arguments")
}

func TestDispatcher_LoggingCarriesServiceAndOperation(t *testing.T) {
	desc := directionsDesc
	desc.Service = "maps"
	desc.Operation = "directions"
	d, logs := newTestDispatcher(t, desc, okHandler("ok"))

	d.Invoke(context.Background(), "get_directions", map[string]any{"origin": "a", "destination": "b"})
	assert.Contains(t, logs.String(), "tool=get_directions service=maps operation=directions")

	// Unknown tools have no descriptor to label the line with.
	logs.Reset()
	d.Invoke(context.Background(), "teleport", nil)
	assert.Contains(t, logs.String(), "tool=teleport")
	assert.NotContains(t, logs.String(), "service=")
}

func TestDispatcher_Deterministic(t *testing.T) {
	d, _ := newTestDispatcher(t, Descriptor{Name: "geocode_address", Params: []Param{{Name: "address", Required: true}}},
		func(_ context.Context, args Args) (Result, error) {
			addr, _ := args.String("address")
			return Ok("Address: " + addr), nil
		})

	args := map[string]any{"address": "Berlin"}
	first := d.Invoke(context.Background(), "geocode_address", args)
	second := d.Invoke(context.Background(), "geocode_address", args)

	assert.Equal(t, first, second)
}
