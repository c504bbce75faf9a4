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

package segstore

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/numaproj/segflow/pkg/shared/logging"
	"github.com/numaproj/segflow/pkg/shared/util"
)

const (
	// DefaultHistorySize is the number of closed segments retained by default.
	DefaultHistorySize = 256
	// EnvHistorySize overrides DefaultHistorySize.
	EnvHistorySize = "SEGFLOW_HISTORY_SIZE"
)

type options struct {
	// historySize is the number of closed segments retained
	historySize int
	logger      *zap.SugaredLogger
}

type Option func(*options) error

func DefaultOptions() *options {
	return &options{
		historySize: util.LookupEnvIntOr(EnvHistorySize, DefaultHistorySize),
		logger:      logging.NewLogger(),
	}
}

// WithHistorySize sets the number of closed segments retained before the oldest are evicted.
func WithHistorySize(size int) Option {
	return func(o *options) error {
		if size <= 0 {
			return fmt.Errorf("history size must be positive, got %d", size)
		}
		o.historySize = size
		return nil
	}
}

// WithLogger is used to return logger information
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}
