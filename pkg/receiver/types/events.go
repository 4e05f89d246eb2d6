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

	"github.com/livekit/rtprx/pkg/receiver/buffer"
)

type EventType int

const (
	EventTypeStunPacketReceived EventType = iota
	EventTypeCongestionStateChanged
	EventTypeTimestampJump
	EventTypeSSRCChanged
)

func (e EventType) String() string {
	switch e {
	case EventTypeStunPacketReceived:
		return "STUN_PACKET_RECEIVED"
	case EventTypeCongestionStateChanged:
		return "CONGESTION_STATE_CHANGED"
	case EventTypeTimestampJump:
		return "TIMESTAMP_JUMP"
	case EventTypeSSRCChanged:
		return "SSRC_CHANGED"
	default:
		return "UNKNOWN"
	}
}

type Event interface {
	Type() EventType
}

// StunPacketReceived hands a datagram that failed the RTP version check but is shaped like STUN
// over to whoever handles STUN. The packet is owned by the receiver of the event.
type StunPacketReceived struct {
	Packet *buffer.Packet
	Source net.Addr
}

func (StunPacketReceived) Type() EventType { return EventTypeStunPacketReceived }

type CongestionStateChanged struct {
	Detected bool
}

func (CongestionStateChanged) Type() EventType { return EventTypeCongestionStateChanged }

type TimestampJump struct {
	Timestamp uint32
}

func (TimestampJump) Type() EventType { return EventTypeTimestampJump }

type SSRCChanged struct {
	Previous uint32
	Current  uint32
}

func (SSRCChanged) Type() EventType { return EventTypeSSRCChanged }
