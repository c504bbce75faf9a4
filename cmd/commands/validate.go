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

	"github.com/spf13/cobra"

	"github.com/numaproj/segflow/pkg/plan"
	"github.com/numaproj/segflow/pkg/shared/logging"
)

func NewValidateCommand() *cobra.Command {
	var file string

	command := &cobra.Command{
		Use:   "validate",
		Short: "Validate a pipeline spec by building it without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger().Named("validate")
			ctx := logging.WithLogger(context.Background(), logger)
			spec, err := plan.LoadSpec(file)
			if err != nil {
				return err
			}
			pipeline, err := plan.Build(ctx, spec, plan.DefaultRegistry())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pipeline %q is valid: %d vertices, %d streams, %d stores\n",
				pipeline.Name(), len(spec.Vertices), len(pipeline.Streams()), len(spec.Stores))
			return nil
		},
	}
	command.Flags().StringVarP(&file, "file", "f", "", "Path to the pipeline spec")
	_ = command.MarkFlagRequired("file")
	return command
}
