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

package receiver

import (
	"go.uber.org/atomic"
	"go.uber.org/zap/zapcore"
)

// Counters are monotonically increasing receive counters. One instance is shared by all
// sessions of a process, each session also keeps its own.
type Counters struct {
	packetsReceived atomic.Uint64
	bytesReceived   atomic.Uint64
	bad             atomic.Uint64
	discarded       atomic.Uint64
	outOfTime       atomic.Uint64
	duplicates      atomic.Uint64
	nacks           atomic.Uint64
}

func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) AddReceived(bytes int) {
	c.packetsReceived.Inc()
	c.bytesReceived.Add(uint64(bytes))
}

func (c *Counters) IncBad() {
	c.bad.Inc()
}

func (c *Counters) AddDiscarded(n int) {
	if n > 0 {
		c.discarded.Add(uint64(n))
	}
}

func (c *Counters) IncOutOfTime() {
	c.outOfTime.Inc()
}

func (c *Counters) AddDuplicates(n int) {
	if n > 0 {
		c.duplicates.Add(uint64(n))
	}
}

func (c *Counters) AddNacks(n int) {
	if n > 0 {
		c.nacks.Add(uint64(n))
	}
}

func (c *Counters) PacketsReceived() uint64 {
	return c.packetsReceived.Load()
}

func (c *Counters) Snapshot() CountersSnapshot {
	return CountersSnapshot{
		PacketsReceived: c.packetsReceived.Load(),
		BytesReceived:   c.bytesReceived.Load(),
		Bad:             c.bad.Load(),
		Discarded:       c.discarded.Load(),
		OutOfTime:       c.outOfTime.Load(),
		Duplicates:      c.duplicates.Load(),
		Nacks:           c.nacks.Load(),
	}
}

// ---------------------------------------------------------------

type CountersSnapshot struct {
	PacketsReceived uint64
	BytesReceived   uint64
	Bad             uint64
	Discarded       uint64
	OutOfTime       uint64
	Duplicates      uint64
	Nacks           uint64
}

func (s CountersSnapshot) MarshalLogObject(e zapcore.ObjectEncoder) error {
	e.AddUint64("packetsReceived", s.PacketsReceived)
	e.AddUint64("bytesReceived", s.BytesReceived)
	e.AddUint64("bad", s.Bad)
	e.AddUint64("discarded", s.Discarded)
	e.AddUint64("outOfTime", s.OutOfTime)
	e.AddUint64("duplicates", s.Duplicates)
	e.AddUint64("nacks", s.Nacks)
	return nil
}
