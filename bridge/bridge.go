package bridge

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/bertml/channel"
	"github.com/wippyai/bertml/errors"
	"github.com/wippyai/bertml/resource"
)

// Table names of the three resource categories.
const (
	TableModels    = "models"
	TableResources = "model_resources"
	TableAccessors = "model_resource_accessors"
)

// Model is a loaded pipeline model.
type Model interface {
	resource.Tagged
}

// ModelResource is model-level state that outlives a single call, such as
// a conversation manager.
type ModelResource interface {
	resource.Tagged
}

// Accessor identifies a sub-resource inside a ModelResource, such as one
// conversation of a manager.
type Accessor interface {
	resource.Tagged
}

// Bridge is the context every boundary call runs against. It owns one table
// per resource category and the result/error channel.
//
// Bridge methods are safe for concurrent use, but the channel is shared:
// the embedder must serialize boundary calls on one Bridge or callers can
// read each other's payloads.
type Bridge struct {
	Models    *resource.Table[Model]
	Resources *resource.Table[ModelResource]
	Accessors *resource.Table[Accessor]

	channel *channel.Channel
	metrics *Metrics
	logger  *zap.Logger
}

// Option configures a Bridge.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	metrics *Metrics
}

// WithLogger sets the logger for the bridge and its tables.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records call outcomes and live handles on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New creates a Bridge with empty tables and an empty channel.
func New(opts ...Option) *Bridge {
	o := options{logger: Logger()}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Bridge{
		Models:    resource.NewTable[Model](TableModels, resource.WithLogger(o.logger)),
		Resources: resource.NewTable[ModelResource](TableResources, resource.WithLogger(o.logger)),
		Accessors: resource.NewTable[Accessor](TableAccessors, resource.WithLogger(o.logger)),
		channel:   channel.New(),
		metrics:   o.metrics,
		logger:    o.logger,
	}
	if o.metrics != nil {
		b.Models.Subscribe(o.metrics)
		b.Resources.Subscribe(o.metrics)
		b.Accessors.Subscribe(o.metrics)
	}
	return b
}

// Logger returns the logger the bridge was created with.
func (b *Bridge) Logger() *zap.Logger {
	return b.logger
}

// Exec runs op and converts its outcome to the boundary convention.
//
// On success the non-negative scalar produced by op is returned unchanged.
// On failure the error message is stored in the error slot and -1 is
// returned. A panic in op is recovered and reported the same way. Producing
// and storing a result payload is op's responsibility (see SetResult).
func (b *Bridge) Exec(name string, op func() (int64, error)) (ret int64) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("recovered panic in boundary call",
				zap.String("op", name), zap.Any("panic", r), zap.Stack("stack"))
			b.channel.SetError(errors.Panic(errors.PhaseBoundary, r))
			b.metrics.observeCall(name, outcomePanic)
			ret = -1
		}
	}()

	n, err := op()
	if err == nil && n < 0 {
		err = errors.New(errors.PhaseBoundary, errors.KindInvalidInput).
			Detail("operation produced negative result %d", n).
			Build()
	}
	if err != nil {
		return b.fail(name, err)
	}
	b.metrics.observeCall(name, outcomeOK)
	return n
}

func (b *Bridge) fail(name string, err error) int64 {
	b.logger.Debug("boundary call failed", zap.String("op", name), zap.Error(err))
	b.channel.SetError(err)
	b.metrics.observeCall(name, outcomeError)
	return -1
}

// SetResult stores payload in the result slot and returns its byte length.
func (b *Bridge) SetResult(payload []byte) int64 {
	return int64(b.channel.SetResult(payload))
}

// FillResult moves the pending result into dst.
// dst must be at least as long as the length returned by the producing call.
func (b *Bridge) FillResult(dst []byte) (int, error) {
	return b.channel.Result.Fill(dst)
}

// TakeResult moves the pending result out and returns it.
func (b *Bridge) TakeResult() []byte {
	return b.channel.Result.Take()
}

// ErrorLen returns the byte length of the pending error message.
func (b *Bridge) ErrorLen() int {
	return b.channel.Error.Len()
}

// FillError moves the pending error message into dst.
func (b *Bridge) FillError(dst []byte) (int, error) {
	return b.channel.Error.Fill(dst)
}

// TakeError moves the pending error message out and returns it.
func (b *Bridge) TakeError() []byte {
	return b.channel.Error.Take()
}

// DeleteModel removes the model at h and releases it.
// It returns 0 on success and -1 if h names no model.
func (b *Bridge) DeleteModel(h int64) int32 {
	return deleteFrom(b, "delete_model", b.Models, h)
}

// DeleteResource removes the model resource at h and releases it.
func (b *Bridge) DeleteResource(h int64) int32 {
	return deleteFrom(b, "delete_model_resource", b.Resources, h)
}

// DeleteAccessor removes the accessor at h and releases it.
func (b *Bridge) DeleteAccessor(h int64) int32 {
	return deleteFrom(b, "delete_model_resource_accessor", b.Accessors, h)
}

func deleteFrom[V resource.Tagged](b *Bridge, name string, t *resource.Table[V], h int64) int32 {
	ret := b.Exec(name, func() (int64, error) {
		handle, err := Handle(t.Name(), h)
		if err != nil {
			return 0, err
		}
		v, err := t.Deallocate(handle)
		if err != nil {
			return 0, err
		}
		if err := resource.Release(v); err != nil {
			b.logger.Warn("release after delete failed",
				zap.String("table", t.Name()), zap.Int64("handle", h), zap.Error(err))
		}
		return 0, nil
	})
	return int32(ret)
}

// Close releases every live resource. Accessors go first, then resources,
// then models, so nothing is released while a dependent entry still exists.
func (b *Bridge) Close() error {
	err := stderrors.Join(
		b.Accessors.Close(),
		b.Resources.Close(),
		b.Models.Close(),
	)
	b.channel.Reset()
	return err
}

// Handle converts a boundary handle for lookup in the named table.
// Negative values never name an entry.
func Handle(table string, h int64) (resource.Handle, error) {
	if h < 0 {
		return 0, errors.NotFound(errors.PhaseAccess, table, h)
	}
	return resource.Handle(h), nil
}

// Result converts an issued handle to its boundary scalar.
func Result(h resource.Handle) int64 {
	return int64(h)
}
