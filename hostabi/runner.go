package hostabi

import (
	"context"
	"crypto/rand"
	stderrors "errors"
	"io"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/bertml/errors"
)

// Runner runs wasip1 guest modules against a Host. Each Run uses a fresh
// wazero runtime.
type Runner struct {
	host             *Host
	stdin            io.Reader
	stdout           io.Writer
	stderr           io.Writer
	env              map[string]string
	memoryLimitPages uint32
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMemoryLimitPages caps guest memory in 64KiB pages. Zero keeps the
// wazero default.
func WithMemoryLimitPages(pages uint32) RunnerOption {
	return func(r *Runner) {
		r.memoryLimitPages = pages
	}
}

// WithStdio sets the guest's standard streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdin, r.stdout, r.stderr = stdin, stdout, stderr
	}
}

// WithEnv sets a guest environment variable.
func WithEnv(key, value string) RunnerOption {
	return func(r *Runner) {
		if r.env == nil {
			r.env = make(map[string]string)
		}
		r.env[key] = value
	}
}

// NewRunner creates a Runner for h. Guest stdio defaults to the process's.
func NewRunner(h *Host, opts ...RunnerOption) *Runner {
	r := &Runner{
		host:   h,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run compiles wasm and runs its _start with args. A zero exit status is
// reported as success; any other exit status is returned as a
// *sys.ExitError.
func (r *Runner) Run(ctx context.Context, wasm []byte, args []string) error {
	cfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if r.memoryLimitPages > 0 {
		cfg = cfg.WithMemoryLimitPages(r.memoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)
	defer rt.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return errors.Load("instantiate WASI", err)
	}
	if _, err := r.host.Instantiate(ctx, rt); err != nil {
		return err
	}

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		return errors.Load("compile guest", err)
	}
	defer compiled.Close(ctx)

	for _, imp := range compiled.ImportedFunctions() {
		mod, name, _ := imp.Import()
		if mod != r.host.ModuleName() {
			continue
		}
		if _, ok := r.host.Lookup(name); !ok {
			return errors.New(errors.PhaseLoad, errors.KindNotFound).
				Table(mod).
				Detail("guest imports unknown boundary call %q", name).
				Build()
		}
	}

	mc := wazero.NewModuleConfig().
		WithName("").
		WithArgs(args...).
		WithStdin(r.stdin).
		WithStdout(r.stdout).
		WithStderr(r.stderr).
		WithSysWalltime().
		WithSysNanotime().
		WithRandSource(rand.Reader)
	for k, v := range r.env {
		mc = mc.WithEnv(k, v)
	}

	r.host.logger.Info("running guest", zap.String("host_module", r.host.ModuleName()), zap.Strings("args", args))
	mod, err := rt.InstantiateModule(ctx, compiled, mc)
	if err != nil {
		var exit *sys.ExitError
		if stderrors.As(err, &exit) {
			if exit.ExitCode() == 0 {
				return nil
			}
			return exit
		}
		return errors.Load("run guest", err)
	}
	return mod.Close(ctx)
}
