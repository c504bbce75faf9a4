/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/numaproj/segflow"
	"github.com/numaproj/segflow/pkg/metrics"
	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/plan"
	"github.com/numaproj/segflow/pkg/shared/logging"
	"github.com/numaproj/segflow/pkg/shared/util"
)

const (
	// EnvPipelineFile is the default of the --file flag.
	EnvPipelineFile = "SEGFLOW_PIPELINE_FILE"
	// EnvPprof is the default of the --pprof flag.
	EnvPprof = "SEGFLOW_PPROF"
)

func NewRunCommand() *cobra.Command {
	var (
		file        string
		metricsPort int
		enablePprof bool
		drainDelay  time.Duration
	)

	command := &cobra.Command{
		Use:   "run",
		Short: "Run a pipeline until its sources are exhausted or it is interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("a pipeline spec is required, use --file or %s", EnvPipelineFile)
			}
			log := logging.NewLogger().Named("run")
			version := segflow.GetVersion()
			log.Infow("Starting pipeline", "version", version.Version, "file", file)
			metrics.BuildInfo.WithLabelValues(version.Version).Set(1)

			spec, err := plan.LoadSpec(file)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(logging.WithLogger(context.Background(), log), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var opts []operator.Option
			if drainDelay > 0 {
				opts = append(opts, operator.WithDrainDelay(drainDelay))
			}
			pipeline, err := plan.Build(ctx, spec, plan.DefaultRegistry(), opts...)
			if err != nil {
				return err
			}

			failed := atomic.NewError(nil)
			server := metrics.NewMetricsServer(
				metrics.WithPort(metricsPort),
				metrics.WithPprof(enablePprof),
				metrics.WithHealthChecker(metrics.HealthCheckerFunc(func(context.Context) error {
					return failed.Load()
				})),
			)
			shutdown, err := server.Start(ctx)
			if err != nil {
				return fmt.Errorf("failed to start metrics server, %w", err)
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(sctx); err != nil {
					log.Errorw("Failed to shutdown metrics server", zap.Error(err))
				}
			}()

			go func() {
				<-ctx.Done()
				log.Info("Received interrupt, stopping pipeline")
				pipeline.Stop()
			}()
			if err := pipeline.Run(ctx); err != nil {
				failed.Store(err)
				return err
			}
			return nil
		},
	}
	command.Flags().StringVarP(&file, "file", "f", util.LookupEnvStringOr(EnvPipelineFile, ""), "Path to the pipeline spec")
	command.Flags().IntVar(&metricsPort, "metrics-port", metrics.DefaultPort, "Port of the metrics and health endpoints")
	command.Flags().BoolVar(&enablePprof, "pprof", util.LookupEnvBoolOr(EnvPprof, false), "Whether to expose the pprof endpoints")
	command.Flags().DurationVar(&drainDelay, "drain-delay", 0, "Delay before every operator exits, letting downstream operators drain")
	return command
}
