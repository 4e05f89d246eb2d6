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

package buffer

import (
	"github.com/gammazero/deque"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/rtprx/pkg/receiver/utils"
)

type AdmitResult struct {
	Queued    bool
	Discarded int
	Duplicate int
}

// Queue holds received packets in arrival order, at most one per sequence number.
// When over capacity the oldest packets are evicted first.
type Queue struct {
	packets deque.Deque[*Packet]
	seqs    map[uint16]struct{}

	logger         logger.Logger
	evictionLogger *utils.SampledLogger
}

func NewQueue(logger logger.Logger) *Queue {
	q := &Queue{
		seqs:           make(map[uint16]struct{}),
		logger:         logger,
		evictionLogger: utils.NewSampledLogger(logger, 10),
	}
	q.packets.SetMinCapacity(5)
	return q
}

func (q *Queue) SetLogger(logger logger.Logger) {
	q.logger = logger
	q.evictionLogger.SetLogger(logger)
}

// Admit queues the packet and then trims the queue down to capacity.
func (q *Queue) Admit(pkt *Packet, capacity int) (res AdmitResult) {
	if pkt.PayloadSize() <= 0 {
		q.logger.Debugw("rtp packet contains no data", "packet", pkt)
		res.Discarded++
		return
	}

	res.Queued = true
	if !q.insert(pkt) {
		res.Duplicate++
	}

	for q.packets.Len() > capacity {
		evicted := q.popFront()
		q.evictionLogger.Warnw("queue is full, discarding packet", nil,
			"ts", evicted.Header.Timestamp,
			"sn", evicted.Header.SequenceNumber,
			"capacity", capacity,
		)
		res.Discarded++
	}
	return
}

// insert appends pkt unless a packet with the same sequence number is already queued.
func (q *Queue) insert(pkt *Packet) bool {
	sn := pkt.Header.SequenceNumber
	if _, ok := q.seqs[sn]; ok {
		return false
	}

	q.seqs[sn] = struct{}{}
	q.packets.PushBack(pkt)
	return true
}

func (q *Queue) popFront() *Packet {
	pkt := q.packets.PopFront()
	delete(q.seqs, pkt.Header.SequenceNumber)
	return pkt
}

func (q *Queue) PopFront() (*Packet, bool) {
	if q.packets.Len() == 0 {
		return nil, false
	}
	return q.popFront(), true
}

func (q *Queue) Front() *Packet {
	if q.packets.Len() == 0 {
		return nil
	}
	return q.packets.Front()
}

func (q *Queue) Len() int {
	return q.packets.Len()
}

// Flush drops all queued packets and returns how many were dropped.
func (q *Queue) Flush() int {
	n := q.packets.Len()
	q.packets.Clear()
	clear(q.seqs)
	return n
}
