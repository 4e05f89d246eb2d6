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
	"github.com/pion/rtcp"

	"github.com/livekit/rtprx/pkg/receiver/utils"
)

// a nack pair covers its packet id and the 15 sequence numbers after it, 16 in total
const nackPairSpan = 16

// NackGenerator requests retransmission of a gap as soon as a packet past it shows up,
// instead of waiting for the playout side to notice the hole.
type NackGenerator struct {
	lastNacked    uint16
	lastNackedSet bool
}

func NewNackGenerator() *NackGenerator {
	return &NackGenerator{}
}

// Check returns the nack pairs for the sequence numbers missing before sn that have not been requested yet.
// lastDelivered is the last sequence number handed to the application, nothing is generated before a first delivery.
// While congested a gap is not requested, retransmissions would only add to the congestion,
// suppressed reports that case.
func (n *NackGenerator) Check(sn uint16, lastDelivered uint16, delivered bool, congested bool) (pairs []rtcp.NackPair, suppressed bool) {
	if delivered &&
		utils.IsSeqStrictlyGreater(sn, lastDelivered+1) &&
		(!n.lastNackedSet || utils.IsSeqStrictlyGreater(sn, n.lastNacked+1)) {
		if congested {
			suppressed = true
		} else {
			firstMissing := lastDelivered + 1
			if n.lastNackedSet && !utils.IsSeqStrictlyGreater(firstMissing, n.lastNacked) {
				firstMissing = n.lastNacked + 1
			}
			pairs = buildNackPairs(firstMissing, sn)
		}
	}

	if !n.lastNackedSet || utils.IsSeqStrictlyGreater(sn, n.lastNacked) {
		// sn itself arrived, it will never need a nack
		n.lastNacked = sn
		n.lastNackedSet = true
	}
	return
}

func (n *NackGenerator) LastNacked() (uint16, bool) {
	return n.lastNacked, n.lastNackedSet
}

func (n *NackGenerator) Reset() {
	n.lastNacked = 0
	n.lastNackedSet = false
}

// buildNackPairs covers [firstMissing, sn) with pairs. Each pair uses its first missing
// sequence number as packet id and flags the following ones in the bitmask.
func buildNackPairs(firstMissing uint16, sn uint16) []rtcp.NackPair {
	var pairs []rtcp.NackPair
	pid := firstMissing
	for utils.IsSeqStrictlyGreater(sn, pid) {
		var blp uint16
		next := pid + 1
		for ; next != sn && next-pid < nackPairSpan; next++ {
			blp |= 1 << (next - pid - 1)
		}
		pairs = append(pairs, rtcp.NackPair{PacketID: pid, LostPackets: rtcp.PacketBitmap(blp)})
		pid = next
	}
	return pairs
}
