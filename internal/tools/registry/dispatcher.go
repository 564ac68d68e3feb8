package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/inboxroute/internal/logging"
)

// Dispatcher invokes registered tools by name.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher returns a Dispatcher over reg. A nil logger uses slog.Default().
func NewDispatcher(reg *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: reg, logger: logger}
}

// Registry returns the registry the dispatcher serves.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Invoke runs the tool called name with args and never fails: every problem
// is reported as an Err result. The caller's args map is not modified.
//
// Required arguments are checked before the handler runs, so a call with
// missing arguments never reaches a remote service. There are no retries and
// no timeout beyond what ctx carries.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) (res Result) {
	start := time.Now()
	logger := logging.WithTool(d.logger, name)

	defer func() {
		attrs := []any{slog.Duration(logging.KeyDuration, time.Since(start))}
		if res.IsError() {
			attrs = append(attrs, logging.Status(logging.StatusError), slog.String(logging.KeyError, res.Message()))
			logger.Warn("tool invocation failed", attrs...)
			return
		}
		attrs = append(attrs, logging.Status(logging.StatusSuccess))
		logger.Debug("tool invocation succeeded", attrs...)
	}()

	e, err := d.registry.lookup(name)
	if err != nil {
		return FromError(err)
	}
	logger = logging.WithOperation(logging.WithService(logger, e.desc.Service), e.desc.Operation)

	in := Args(args)
	if missing := missingRequired(e.desc, in); len(missing) > 0 {
		return FromError(&ValidationError{Missing: missing})
	}

	return d.call(ctx, e, withDefaults(e.desc, in))
}

func (d *Dispatcher) call(ctx context.Context, e entry, args Args) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool handler panicked",
				logging.Tool(e.desc.Name),
				slog.Any("panic", r))
			res = Err(fmt.Sprintf("internal error: %v", r))
		}
	}()

	out, err := e.handler(ctx, args)
	if err != nil {
		return FromError(err)
	}
	return out
}

func missingRequired(desc Descriptor, args Args) []string {
	var missing []string
	for _, p := range desc.Params {
		if p.Required && args.missing(p.Name) {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

// withDefaults returns a copy of args with declared defaults filled in for
// omitted optional parameters.
func withDefaults(desc Descriptor, args Args) Args {
	out := args.clone()
	for _, p := range desc.Params {
		if p.Default == nil || p.Required {
			continue
		}
		if _, ok := out[p.Name]; !ok || out[p.Name] == nil {
			out[p.Name] = p.Default
		}
	}
	return out
}
