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

package rtpstats

import (
	"go.uber.org/zap/zapcore"
)

// StatSummary accumulates the receive statistics of one quality report window.
type StatSummary struct {
	Received   uint32 // samples folded in this window
	TTL        RunningStat[uint8]
	Jitter     RunningStat[uint32]
	LastDiff   int64 // last (timestamp - local reference timestamp)
	Discarded  uint32
	Duplicates uint32
	Admitted   uint32 // queued without discard or duplicate

	SeqAtLastSummary uint16
	FirstExtSeq      uint32
	LastExtSeq       uint32
}

// Update folds in one packet: its RTP timestamp, the local reference timestamp at arrival and its TTL/hop limit.
func (s *StatSummary) Update(ts uint32, localTS uint32, ttl uint8) {
	s.Received++
	diff := int64(ts) - int64(localTS)

	s.TTL.Add(ttl)

	if s.Received == 1 {
		// nothing to diff against yet
		s.Jitter.Reset()
	} else {
		jitter := diff - s.LastDiff
		if jitter < 0 {
			jitter = -jitter
		}
		s.Jitter.Add(uint32(jitter))
	}
	s.LastDiff = diff
}

func (s *StatSummary) AddDiscarded(n int) {
	s.Discarded += uint32(n)
}

func (s *StatSummary) AddDuplicates(n int) {
	s.Duplicates += uint32(n)
}

func (s *StatSummary) AddAdmitted() {
	s.Admitted++
}

func (s *StatSummary) SetExtSeq(extSeq uint32, first bool) {
	if first {
		s.FirstExtSeq = extSeq
	}
	s.LastExtSeq = extSeq
}

// Reset starts a new window. Sequence bookkeeping carries over, the next summary starts where this one ended.
func (s *StatSummary) Reset() {
	s.Received = 0
	s.TTL.Reset()
	s.Jitter.Reset()
	s.LastDiff = 0
	s.Discarded = 0
	s.Duplicates = 0
	s.Admitted = 0
	s.SeqAtLastSummary = uint16(s.LastExtSeq)
}

func (s *StatSummary) Snapshot() StatSummary {
	return *s
}

func (s *StatSummary) MarshalLogObject(e zapcore.ObjectEncoder) error {
	if s == nil {
		return nil
	}

	e.AddUint32("received", s.Received)
	if err := e.AddObject("ttl", &s.TTL); err != nil {
		return err
	}
	if err := e.AddObject("jitter", &s.Jitter); err != nil {
		return err
	}
	e.AddUint32("discarded", s.Discarded)
	e.AddUint32("duplicates", s.Duplicates)
	e.AddUint32("admitted", s.Admitted)
	e.AddUint16("seqAtLastSummary", s.SeqAtLastSummary)
	e.AddUint32("firstExtSeq", s.FirstExtSeq)
	e.AddUint32("lastExtSeq", s.LastExtSeq)
	return nil
}
