package hostabi

import (
	"context"
	"slices"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/bertml"
	"github.com/wippyai/bertml/errors"
	"github.com/wippyai/bertml/pipeline"
)

// DefaultModuleName is the import module guests use for the boundary calls.
const DefaultModuleName = "bertml"

// FuncDef describes one exported boundary call.
type FuncDef struct {
	// Call reads its arguments from stack and writes its results back in
	// place, following the wazero stack convention.
	Call    func(ctx context.Context, mem bertml.Memory, stack []uint64)
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

// Host holds the boundary calls bound to one set of adapters.
type Host struct {
	adapters *pipeline.Adapters
	logger   *zap.Logger
	index    map[string]*FuncDef
	name     string
	funcs    []*FuncDef
}

// Option configures a Host.
type Option func(*Host)

// WithModuleName overrides the host module name guests import from.
func WithModuleName(name string) Option {
	return func(h *Host) {
		if name != "" {
			h.name = name
		}
	}
}

// WithLogger sets the logger for host module lifecycle messages.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// New binds every boundary call to a.
func New(a *pipeline.Adapters, opts ...Option) *Host {
	h := &Host{
		adapters: a,
		name:     DefaultModuleName,
		logger:   Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.funcs = exports(a)
	h.index = make(map[string]*FuncDef, len(h.funcs))
	for _, f := range h.funcs {
		h.index[f.Name] = f
	}
	return h
}

// ModuleName returns the name the host module is instantiated under.
func (h *Host) ModuleName() string {
	return h.name
}

// Adapters returns the adapters the boundary calls are bound to.
func (h *Host) Adapters() *pipeline.Adapters {
	return h.adapters
}

// Funcs returns the boundary calls in export order.
func (h *Host) Funcs() []*FuncDef {
	return slices.Clone(h.funcs)
}

// Lookup returns the boundary call with the given export name.
func (h *Host) Lookup(name string) (*FuncDef, bool) {
	f, ok := h.index[name]
	return f, ok
}

// Instantiate builds the host module into rt. If rt already has a module
// under the host's name it is returned unchanged.
func (h *Host) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	if mod := rt.Module(h.name); mod != nil {
		return mod, nil
	}

	builder := rt.NewHostModuleBuilder(h.name)
	for _, f := range h.funcs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(handler(f), f.Params, f.Results).
			WithName(f.Name).
			Export(f.Name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Load("instantiate host module "+h.name, err)
	}
	h.logger.Debug("host module instantiated",
		zap.String("module", h.name), zap.Int("functions", len(h.funcs)))
	return mod, nil
}

func handler(f *FuncDef) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		var mem bertml.Memory
		if m := mod.Memory(); m != nil {
			mem = m
		}
		f.Call(ctx, mem, stack)
	}
}

// Invoke runs the named boundary call against mem with the given raw
// arguments and returns its raw results. A trap is returned as an error.
func (h *Host) Invoke(ctx context.Context, name string, mem bertml.Memory, args ...uint64) (results []uint64, err error) {
	f, ok := h.index[name]
	if !ok {
		return nil, errors.New(errors.PhaseBoundary, errors.KindNotFound).
			Table(h.name).
			Detail("no boundary call %q", name).
			Build()
	}
	if len(args) != len(f.Params) {
		return nil, errors.New(errors.PhaseBoundary, errors.KindInvalidInput).
			Detail("%s takes %d arguments, got %d", name, len(f.Params), len(args)).
			Build()
	}

	stack := make([]uint64, max(len(f.Params), len(f.Results)))
	copy(stack, args)

	defer func() {
		if r := recover(); r != nil {
			h.logger.Debug("boundary call trapped", zap.String("op", name), zap.Any("trap", r))
			results, err = nil, errors.Panic(errors.PhaseBoundary, r)
		}
	}()
	f.Call(ctx, mem, stack)
	return stack[:len(f.Results)], nil
}
