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

/*
Package stream implements the transport between two operators. A Channel is a pair of bounded FIFO queues: the
forward queue carries tuples and control messages from the upstream operator to the downstream operator, the
backward queue carries control messages the other way round.

Push blocks while the queue is full, which is how backpressure reaches the producer. Pull never blocks, so that an
operator can poll many channels from a single loop and back off when none of them has data.
*/
package stream

import (
	"context"
	"fmt"
	"strconv"

	"github.com/numaproj/segflow/pkg/metrics"
	"github.com/numaproj/segflow/pkg/record"
	"github.com/numaproj/segflow/pkg/shared/util"
)

// Direction is the direction of travel on a channel.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown(" + strconv.Itoa(int(d)) + ")"
	}
}

// Channel connects exactly one upstream and one downstream operator.
type Channel struct {
	name     string
	capacity int
	queues   [2]chan record.Element
}

// NewChannel returns a channel whose queues hold at most capacity elements each. A non positive capacity falls
// back to SEGFLOW_CHANNEL_CAPACITY, then DefaultCapacity.
func NewChannel(name string, capacity int) *Channel {
	if capacity <= 0 {
		capacity = util.LookupEnvIntOr(EnvChannelCapacity, DefaultCapacity)
	}
	return &Channel{
		name:     name,
		capacity: capacity,
		queues: [2]chan record.Element{
			make(chan record.Element, capacity),
			make(chan record.Element, capacity),
		},
	}
}

const (
	// DefaultCapacity is used when a non positive capacity is requested.
	DefaultCapacity = 1024
	// EnvChannelCapacity overrides DefaultCapacity.
	EnvChannelCapacity = "SEGFLOW_CHANNEL_CAPACITY"
)

func (c *Channel) String() string {
	return fmt.Sprintf("(%s) capacity:%d forward:%d backward:%d", c.name, c.capacity, len(c.queues[Forward]), len(c.queues[Backward]))
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return c.name
}

// Cap returns the capacity of each queue.
func (c *Channel) Cap() int {
	return c.capacity
}

// Len returns the number of elements buffered in the given direction.
func (c *Channel) Len(dir Direction) int {
	return len(c.queues[dir])
}

// Push appends e to the queue of the given direction, blocking while it is full. It only fails if ctx is done
// before there is room.
func (c *Channel) Push(ctx context.Context, dir Direction, e record.Element) error {
	select {
	case c.queues[dir] <- e:
	default:
		channelFull.With(map[string]string{metrics.LabelStream: c.name, metrics.LabelDirection: dir.String()}).Inc()
		select {
		case c.queues[dir] <- e:
		case <-ctx.Done():
			return WriteErr{Name: c.name, Direction: dir, Full: true, Message: ctx.Err().Error()}
		}
	}
	channelPushed.With(map[string]string{metrics.LabelStream: c.name, metrics.LabelDirection: dir.String()}).Inc()
	return nil
}

// Pull removes and returns the head of the queue of the given direction. It returns false if the queue is empty.
func (c *Channel) Pull(dir Direction) (record.Element, bool) {
	select {
	case e := <-c.queues[dir]:
		channelPulled.With(map[string]string{metrics.LabelStream: c.name, metrics.LabelDirection: dir.String()}).Inc()
		return e, true
	default:
		return nil, false
	}
}

// Clear drops everything buffered in the given direction and returns the number of dropped elements. Producers
// blocked in Push are released as room frees up.
func (c *Channel) Clear(dir Direction) int {
	dropped := 0
	for {
		select {
		case <-c.queues[dir]:
			dropped++
		default:
			if dropped > 0 {
				channelCleared.With(map[string]string{metrics.LabelStream: c.name, metrics.LabelDirection: dir.String()}).Add(float64(dropped))
			}
			return dropped
		}
	}
}
