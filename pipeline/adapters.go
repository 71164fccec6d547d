package pipeline

import (
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/bertml/bridge"
	"github.com/wippyai/bertml/codec"
	"github.com/wippyai/bertml/errors"
	"github.com/wippyai/bertml/resource"
)

// Adapters exposes every pipeline entry point over a Bridge. Each method
// takes scalars and caller-owned byte slices and returns the boundary
// scalar: a handle or payload length on success, -1 on failure.
type Adapters struct {
	Bridge  *bridge.Bridge
	Backend Backend
	Codec   codec.Codec
	logger  *zap.Logger
}

// New creates the adapters. A nil codec selects JSON.
func New(b *bridge.Bridge, backend Backend, c codec.Codec) *Adapters {
	if c == nil {
		c = codec.JSON
	}
	return &Adapters{
		Bridge:  b,
		Backend: backend,
		Codec:   c,
		logger:  b.Logger().With(zap.String("codec", c.Name())),
	}
}

// createModel builds a model with build and stores it in the models table.
func (a *Adapters) createModel(op, what string, build func() (bridge.Model, error)) int64 {
	return a.Bridge.Exec(op, func() (int64, error) {
		m, err := build()
		if err != nil {
			var structured *errors.Error
			if !stderrors.As(err, &structured) {
				err = errors.Load("failed to create "+what+" model", err)
			}
			return 0, err
		}
		h, err := a.Bridge.Models.Allocate(m)
		if err != nil {
			if rerr := resource.Release(m); rerr != nil {
				a.logger.Warn("release after failed allocation", zap.String("op", op), zap.Error(rerr))
			}
			return 0, err
		}
		a.logger.Debug("model created", zap.String("op", op), zap.Uint64("handle", uint64(h)))
		return bridge.Result(h), nil
	})
}

// capability rejects a backend constructor that reports success without
// returning a value.
func capability[T any](v T, err error) (T, error) {
	if err == nil && any(v) == nil {
		err = errors.Load("backend returned no model", nil)
	}
	return v, err
}

// decode parses a request payload.
func (a *Adapters) decode(what string, in []byte, v any) error {
	if err := a.Codec.Decode(in, v); err != nil {
		return errors.Deserialization(what, err)
	}
	return nil
}

// respond encodes v into the result slot and returns its length.
func (a *Adapters) respond(what string, v any) (int64, error) {
	out, err := a.Codec.Encode(v)
	if err != nil {
		return 0, errors.Serialization(what, err)
	}
	return a.Bridge.SetResult(out), nil
}

// invoke decodes a Req from in, runs fn on the model at rid under the
// models table lock after checking its tag, and stores the encoded result.
func invoke[M bridge.Model, Req, Resp any](a *Adapters, op, what string, rid int64, want resource.Tag, in []byte, fn func(M, Req) (Resp, error)) int64 {
	return a.Bridge.Exec(op, func() (int64, error) {
		var req Req
		if err := a.decode(what+" input", in, &req); err != nil {
			return 0, err
		}
		h, err := bridge.Handle(bridge.TableModels, rid)
		if err != nil {
			return 0, err
		}
		resp, err := resource.Access(a.Bridge.Models, h, want, func(m M) (Resp, error) {
			return fn(m, req)
		})
		if err != nil {
			return 0, err
		}
		return a.respond(what+" output", resp)
	})
}

// upstream wraps a backend failure.
func upstream(what string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Upstream(fmt.Sprintf("%s failed", what), err)
}

// checkCount guards against backends returning fewer or more outputs than
// inputs.
func checkCount(what string, want, got int) error {
	if want == got {
		return nil
	}
	return errors.Upstream(fmt.Sprintf("%s returned %d results for %d inputs", what, got, want), nil)
}
