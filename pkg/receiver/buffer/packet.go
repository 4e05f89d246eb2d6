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
	"encoding/binary"
	"fmt"
	"time"

	"github.com/pion/rtp"
	"go.uber.org/zap/zapcore"
)

const (
	FixedHeaderSize = 12
	RTPVersion      = 2

	extensionBit = 0x10

	stunHeaderSize = 20
)

// Header is the decoded, read-only view of an RTP header.
type Header struct {
	rtp.Header

	// fixed header and csrc list, header extensions count as payload
	Size int
}

// DecodeHeader validates and decodes the RTP header at the start of raw. A broken
// header extension does not reject the packet, only the fixed part is required.
func DecodeHeader(raw []byte) (Header, error) {
	if len(raw) < FixedHeaderSize {
		return Header{}, ErrPacketTooShort
	}
	if Version(raw) != RTPVersion {
		return Header{}, ErrInvalidVersion
	}

	size := FixedHeaderSize + int(raw[0]&0x0f)*4
	if size > len(raw) {
		return Header{}, ErrCSRCOverflow
	}

	var h Header
	if _, err := h.Header.Unmarshal(raw); err != nil {
		fixed := make([]byte, size)
		copy(fixed, raw[:size])
		fixed[0] &^= extensionBit

		h.Header = rtp.Header{}
		if _, err := h.Header.Unmarshal(fixed); err != nil {
			return Header{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
		}
	}
	h.Size = size
	return h, nil
}

// Version returns the version bits of the first byte, raw must not be empty.
func Version(raw []byte) uint8 {
	return raw[0] >> 6
}

// IsSTUNShaped reports whether the message length field of a STUN header
// matches the datagram size. Only meaningful for non RTP datagrams.
func IsSTUNShaped(raw []byte) bool {
	if len(raw) < 4 {
		return false
	}
	return int(binary.BigEndian.Uint16(raw[2:4]))+stunHeaderSize == len(raw)
}

// ---------------------------------------------------------------

type Packet struct {
	Raw     []byte
	Arrival time.Time
	TTL     uint8 // ttl or hop limit
	IsIPv6  bool

	// valid once the packet passes header decode
	Header Header
}

func NewPacket(raw []byte, arrival time.Time, ttl uint8) *Packet {
	return &Packet{
		Raw:     raw,
		Arrival: arrival,
		TTL:     ttl,
	}
}

func (p *Packet) Len() int {
	return len(p.Raw)
}

func (p *Packet) PayloadSize() int {
	return len(p.Raw) - p.Header.Size
}

func (p *Packet) MarshalLogObject(e zapcore.ObjectEncoder) error {
	if p == nil {
		return nil
	}

	e.AddInt("size", len(p.Raw))
	e.AddUint16("sn", p.Header.SequenceNumber)
	e.AddUint32("ts", p.Header.Timestamp)
	e.AddUint32("ssrc", p.Header.SSRC)
	e.AddUint8("pt", p.Header.PayloadType)
	e.AddBool("marker", p.Header.Marker)
	e.AddUint8("ttl", p.TTL)
	e.AddTime("arrival", p.Arrival)
	return nil
}
