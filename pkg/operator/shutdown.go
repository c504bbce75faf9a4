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

package operator

import (
	"fmt"
	"sync"
	"time"

	"github.com/numaproj/segflow/pkg/stream"
)

// Shutdown tracks and enforces the shutdown activity.
type Shutdown struct {
	startShutdown      bool
	forceShutdown      bool
	initiateTime       time.Time
	shutdownRequestCtr int
	cancelFn           func()
	rwlock             *sync.RWMutex
}

// IsShuttingDown returns whether we can stop processing.
func (r *Runtime) IsShuttingDown() bool {
	r.Shutdown.rwlock.RLock()
	defer r.Shutdown.rwlock.RUnlock()
	return r.Shutdown.forceShutdown || r.Shutdown.startShutdown
}

func (s *Shutdown) String() string {
	s.rwlock.RLock()
	defer s.rwlock.RUnlock()
	return fmt.Sprintf("startShutdown:%t forceShutdown:%t shutdownRequestCtr:%d initiateTime:%s",
		s.startShutdown, s.forceShutdown, s.shutdownRequestCtr, s.initiateTime)
}

// Stop stops the operator immediately. Every attached stream is cleared in both directions so that producers and
// consumers blocked on them are released; buffered elements are lost.
func (r *Runtime) Stop() {
	r.Shutdown.rwlock.Lock()
	if r.Shutdown.initiateTime.IsZero() {
		r.Shutdown.initiateTime = time.Now()
	}
	r.Shutdown.startShutdown = true
	r.Shutdown.shutdownRequestCtr++
	cancel := r.Shutdown.cancelFn
	r.Shutdown.rwlock.Unlock()
	if cancel != nil {
		cancel()
	}
	r.clearStreams()
}

// ForceStop stops the operator and skips the drain delay.
func (r *Runtime) ForceStop() {
	r.Stop()
	r.Shutdown.rwlock.Lock()
	defer r.Shutdown.rwlock.Unlock()
	r.Shutdown.forceShutdown = true
}

func (r *Runtime) isForced() bool {
	r.Shutdown.rwlock.RLock()
	defer r.Shutdown.rwlock.RUnlock()
	return r.Shutdown.forceShutdown
}

func (r *Runtime) clearStreams() {
	r.wiring.RLock()
	defer r.wiring.RUnlock()
	for _, ch := range append(append([]*stream.Channel{}, r.inputs...), r.outputs...) {
		dropped := ch.Clear(stream.Forward) + ch.Clear(stream.Backward)
		if dropped > 0 {
			r.log.Infow("Dropped buffered elements on stop", "stream", ch.Name(), "dropped", dropped)
		}
	}
}
