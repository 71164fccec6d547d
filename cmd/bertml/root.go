package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/bertml/bridge"
	"github.com/wippyai/bertml/codec"
	"github.com/wippyai/bertml/config"
	"github.com/wippyai/bertml/hostabi"
	"github.com/wippyai/bertml/pipeline"
	"github.com/wippyai/bertml/pipeline/llama"
	"github.com/wippyai/bertml/resource"
)

// env is the state shared by every subcommand after flag parsing.
type env struct {
	logger     *zap.Logger
	registry   *prometheus.Registry
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	e := &env{cfg: config.Default()}

	root := &cobra.Command{
		Use:           "bertml",
		Short:         "Native NLP pipelines behind an integer-handle boundary",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.teardown()
		},
	}

	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "Config file (.yaml, .toml or .json)")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	root.AddCommand(newRunCmd(e), newChatCmd(e))
	return root
}

func (e *env) setup() error {
	if e.configPath != "" {
		cfg, err := config.Load(e.configPath)
		if err != nil {
			return err
		}
		e.cfg = cfg
	}
	if e.logLevel != "" {
		e.cfg.LogLevel = e.logLevel
	}

	logger, err := newLogger(e.cfg.LogLevel)
	if err != nil {
		return err
	}
	e.logger = logger
	resource.SetLogger(logger)
	bridge.SetLogger(logger)
	hostabi.SetLogger(logger)

	if e.cfg.Metrics {
		e.registry = prometheus.NewRegistry()
	}
	return nil
}

func (e *env) teardown() {
	if e.registry != nil {
		e.dumpMetrics()
	}
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = lvl > zapcore.DebugLevel
	return zc.Build()
}

// newAdapters builds the bridge, codec and backend from the loaded config.
func (e *env) newAdapters() (*pipeline.Adapters, error) {
	opts := []bridge.Option{bridge.WithLogger(e.logger)}
	if e.registry != nil {
		m, err := bridge.NewMetrics(e.registry)
		if err != nil {
			return nil, err
		}
		opts = append(opts, bridge.WithMetrics(m))
	}

	c, err := codec.ByName(e.cfg.Codec)
	if err != nil {
		return nil, err
	}
	backend := llama.New(llamaOptions(e.cfg.Llama), e.logger.Named("llama"))
	return pipeline.New(bridge.New(opts...), backend, c), nil
}

func llamaOptions(c config.Llama) llama.Options {
	return llama.Options{
		ModelPath:   c.ModelPath,
		Stop:        c.Stop,
		ContextSize: c.ContextSize,
		Threads:     c.Threads,
		MaxTokens:   c.MaxTokens,
		TopK:        c.TopK,
		Seed:        c.Seed,
		Temperature: c.Temperature,
		TopP:        c.TopP,
	}
}

// dumpMetrics writes the collected metrics to stderr in the Prometheus
// text format.
func (e *env) dumpMetrics() {
	families, err := e.registry.Gather()
	if err != nil {
		e.logger.Warn("gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stderr, mf); err != nil {
			e.logger.Warn("write metrics", zap.Error(err))
			return
		}
	}
}
