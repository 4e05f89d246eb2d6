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

package types

import (
	"net"
	"time"

	"github.com/livekit/rtprx/pkg/receiver/buffer"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . EventSink
type EventSink interface {
	Dispatch(ev Event)
}

//counterfeiter:generate . JitterController
type JitterController interface {
	// NewPacket is called with the RTP timestamp and the local reference timestamp of every packet past the flush gate
	NewPacket(ts uint32, localTS uint32)
	// UpdateSize is called after a packet is queued with the current queue occupancy
	UpdateSize(queueLen int)
	// MaxPackets is the capacity of the receive queues
	MaxPackets() int
	OnPayloadTypeChange(payloadType uint8, clockRate uint32)
}

//counterfeiter:generate . CongestionDetector
type CongestionDetector interface {
	// Record returns true when the congestion state changed
	Record(ts uint32, localTS uint32) bool
	IsCongested() bool
}

//counterfeiter:generate . BandwidthEstimator
type BandwidthEstimator interface {
	ProcessPacket(ts uint32, arrival time.Time, sizeWithOverhead int, marker bool)
}

//counterfeiter:generate . FECStream
type FECStream interface {
	OnSourcePacket(pkt *buffer.Packet)
}

//counterfeiter:generate . RemoteAddrListener
type RemoteAddrListener interface {
	OnRemoteAddrUpdate(addr net.Addr, fromNetworkData bool, allowSSRCUpdate bool)
}
