package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/bertml/hostabi"
)

func newRunCmd(e *env) *cobra.Command {
	var envVars []string

	cmd := &cobra.Command{
		Use:     "run <guest.wasm> [-- guest args...]",
		Short:   "Run a wasip1 guest that imports the host module",
		Example: "  bertml run examples/guest/guest.wasm -- \"what a great day\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wasm, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read guest: %w", err)
			}

			opts := []hostabi.RunnerOption{
				hostabi.WithMemoryLimitPages(e.cfg.MemoryLimitPages),
				hostabi.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
			}
			for _, kv := range envVars {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --env %q, want KEY=VALUE", kv)
				}
				opts = append(opts, hostabi.WithEnv(k, v))
			}

			a, err := e.newAdapters()
			if err != nil {
				return err
			}
			defer a.Bridge.Close()

			host := hostabi.New(a, hostabi.WithModuleName(e.cfg.ModuleName), hostabi.WithLogger(e.logger))

			e.logger.Debug("starting guest", zap.String("path", args[0]), zap.String("codec", a.Codec.Name()))
			return hostabi.NewRunner(host, opts...).Run(cmd.Context(), wasm, args)
		},
	}

	cmd.Flags().StringArrayVarP(&envVars, "env", "e", nil, "Guest environment variable KEY=VALUE (repeatable)")
	return cmd
}
