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

package testutils

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/numaproj/segflow/pkg/operator"
	"github.com/numaproj/segflow/pkg/stream"
)

// RunChain wires ops into a linear chain with one stream between consecutive operators and runs them until
// every runtime terminated. The streams are returned in chain order.
func RunChain(ctx context.Context, capacity int, ops []operator.Operator, opts ...operator.Option) ([]*stream.Channel, error) {
	runtimes, streams, err := BuildChain(capacity, ops, opts...)
	if err != nil {
		return nil, err
	}
	return streams, RunAll(ctx, runtimes...)
}

// BuildChain wires ops into a linear chain without starting it.
func BuildChain(capacity int, ops []operator.Operator, opts ...operator.Option) ([]*operator.Runtime, []*stream.Channel, error) {
	runtimes := make([]*operator.Runtime, 0, len(ops))
	streams := make([]*stream.Channel, 0, len(ops))
	for i, op := range ops {
		r, err := operator.New(fmt.Sprintf("op-%d", i), op, opts...)
		if err != nil {
			return nil, nil, err
		}
		if i > 0 {
			ch := stream.NewChannel(fmt.Sprintf("stream-%d", i-1), capacity)
			if err := runtimes[i-1].AddOutput(ch); err != nil {
				return nil, nil, err
			}
			if err := r.AddInput(ch); err != nil {
				return nil, nil, err
			}
			streams = append(streams, ch)
		}
		runtimes = append(runtimes, r)
	}
	return runtimes, streams, nil
}

// RunAll runs every runtime in its own goroutine and returns the first error.
func RunAll(ctx context.Context, runtimes ...*operator.Runtime) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range runtimes {
		r := r
		g.Go(func() error {
			return r.Run(gctx)
		})
	}
	return g.Wait()
}
