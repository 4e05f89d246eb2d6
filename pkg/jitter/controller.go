// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jitter

import (
	"sync"

	"github.com/livekit/protocol/logger"
)

const (
	DefaultMaxPackets = 100
)

// StaticController is a jitter controller with a fixed queue capacity. It only keeps track of
// what it is told, for sessions that do not need adaptive playout.
type StaticController struct {
	lock   sync.RWMutex
	logger logger.Logger

	maxPackets int
	clockRate  uint32

	packets     uint64
	lastTS      uint32
	lastLocalTS uint32
	queueLen    int
	maxQueueLen int
}

func NewStaticController(maxPackets int, logger logger.Logger) *StaticController {
	if maxPackets <= 0 {
		maxPackets = DefaultMaxPackets
	}
	return &StaticController{
		maxPackets: maxPackets,
		logger:     logger,
	}
}

func (c *StaticController) NewPacket(ts uint32, localTS uint32) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.packets++
	c.lastTS = ts
	c.lastLocalTS = localTS
}

func (c *StaticController) UpdateSize(queueLen int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.queueLen = queueLen
	if queueLen > c.maxQueueLen {
		c.maxQueueLen = queueLen
	}
}

func (c *StaticController) MaxPackets() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.maxPackets
}

func (c *StaticController) SetMaxPackets(maxPackets int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.maxPackets = maxPackets
}

func (c *StaticController) OnPayloadTypeChange(payloadType uint8, clockRate uint32) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.clockRate != clockRate {
		c.logger.Debugw("jitter controller clock rate updated", "payloadType", payloadType, "clockRate", clockRate)
	}
	c.clockRate = clockRate
}

type Stats struct {
	Packets     uint64
	LastTS      uint32
	LastLocalTS uint32
	QueueLen    int
	MaxQueueLen int
	ClockRate   uint32
}

func (c *StaticController) Stats() Stats {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return Stats{
		Packets:     c.packets,
		LastTS:      c.lastTS,
		LastLocalTS: c.lastLocalTS,
		QueueLen:    c.queueLen,
		MaxQueueLen: c.maxQueueLen,
		ClockRate:   c.clockRate,
	}
}
