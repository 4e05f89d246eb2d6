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
	"net"
	"testing"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/pion/stun"
	"github.com/stretchr/testify/require"

	"github.com/livekit/rtprx/pkg/receiver/buffer"
	"github.com/livekit/rtprx/pkg/receiver/types"
	"github.com/livekit/rtprx/pkg/receiver/types/typesfakes"
)

const testSSRC = 0x11223344

var testAddr = &net.UDPAddr{IP: net.ParseIP("192.0.2.10"), Port: 5004}

type testPacketParams struct {
	sn          uint16
	ts          uint32
	ssrc        uint32
	payloadType uint8
	payloadSize int
}

func newRTPPacket(t *testing.T, p testPacketParams) *buffer.Packet {
	t.Helper()

	if p.ssrc == 0 {
		p.ssrc = testSSRC
	}
	pkt := rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    p.payloadType,
			SequenceNumber: p.sn,
			Timestamp:      p.ts,
			SSRC:           p.ssrc,
		},
		Payload: make([]byte, p.payloadSize),
	}
	raw, err := pkt.Marshal()
	require.NoError(t, err)
	return buffer.NewPacket(raw, time.Now(), 64)
}

func newFakeJitterController() *typesfakes.FakeJitterController {
	jc := &typesfakes.FakeJitterController{}
	jc.MaxPacketsReturns(100)
	return jc
}

func admitSeq(t *testing.T, s *Session, sn uint16, ts uint32) {
	t.Helper()
	s.Admit(newRTPPacket(t, testPacketParams{sn: sn, ts: ts, payloadSize: 20}), ts, testAddr)
}

func TestSessionMalformed(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		s := NewSession(SessionParams{})
		s.Admit(buffer.NewPacket(make([]byte, 8), time.Now(), 64), 0, testAddr)

		stats := s.Stats()
		require.Equal(t, uint64(1), stats.Bad)
		require.Equal(t, uint64(0), stats.PacketsReceived)
	})

	t.Run("csrc count overflow", func(t *testing.T) {
		s := NewSession(SessionParams{})
		raw := make([]byte, buffer.FixedHeaderSize)
		raw[0] = 0x8f
		s.Admit(buffer.NewPacket(raw, time.Now(), 64), 0, testAddr)

		stats := s.Stats()
		require.Equal(t, uint64(1), stats.Bad)
		require.Equal(t, uint64(1), stats.PacketsReceived)
		require.Equal(t, 0, s.QueueLen())
	})

	t.Run("global counters are shared", func(t *testing.T) {
		global := NewCounters()
		s1 := NewSession(SessionParams{GlobalCounters: global})
		s2 := NewSession(SessionParams{GlobalCounters: global})
		s1.Admit(buffer.NewPacket(make([]byte, 4), time.Now(), 64), 0, testAddr)
		s2.Admit(buffer.NewPacket(make([]byte, 4), time.Now(), 64), 0, testAddr)

		require.Equal(t, uint64(2), global.Snapshot().Bad)
		require.Equal(t, uint64(1), s1.Stats().Bad)
	})
}

func TestSessionStun(t *testing.T) {
	msg, err := stun.Build(stun.TransactionID, stun.BindingRequest, stun.NewSoftware("rtprx"), stun.Fingerprint)
	require.NoError(t, err)

	t.Run("dispatched to sink", func(t *testing.T) {
		s := NewSession(SessionParams{})
		sink := &typesfakes.FakeEventSink{}
		listener := &typesfakes.FakeRemoteAddrListener{}
		s.SetEventSink(sink)
		s.SetRemoteAddrListener(listener)

		s.Admit(buffer.NewPacket(msg.Raw, time.Now(), 64), 0, testAddr)

		require.Equal(t, 1, sink.DispatchCallCount())
		ev, ok := sink.DispatchArgsForCall(0).(types.StunPacketReceived)
		require.True(t, ok)
		require.Equal(t, testAddr, ev.Source)
		require.Equal(t, uint64(0), s.Stats().Bad)
		require.Equal(t, uint64(0), s.Stats().PacketsReceived)

		require.Equal(t, 1, listener.OnRemoteAddrUpdateCallCount())
		addr, fromNetwork, allowSSRCUpdate := listener.OnRemoteAddrUpdateArgsForCall(0)
		require.Equal(t, testAddr, addr)
		require.True(t, fromNetwork)
		require.True(t, allowSSRCUpdate)
		require.Equal(t, testAddr, s.RemoteAddr())
	})

	t.Run("no sink", func(t *testing.T) {
		s := NewSession(SessionParams{})
		s.Admit(buffer.NewPacket(msg.Raw, time.Now(), 64), 0, testAddr)
		require.Equal(t, uint64(1), s.Stats().Bad)
	})

	t.Run("not stun shaped", func(t *testing.T) {
		s := NewSession(SessionParams{})
		sink := &typesfakes.FakeEventSink{}
		s.SetEventSink(sink)

		raw := make([]byte, 40)
		raw[0] = 0x40
		s.Admit(buffer.NewPacket(raw, time.Now(), 64), 0, testAddr)
		require.Equal(t, 0, sink.DispatchCallCount())
		require.Equal(t, uint64(1), s.Stats().Bad)
	})
}

func TestSessionInOrder(t *testing.T) {
	s := NewSession(SessionParams{})
	for sn := uint16(1); sn <= 5; sn++ {
		admitSeq(t, s, sn, uint32(sn)*160)
	}

	stats := s.Stats()
	require.Equal(t, uint64(5), stats.PacketsReceived)
	require.Equal(t, uint64(0), stats.Discarded)
	require.Equal(t, uint64(0), stats.Bad)
	require.Equal(t, 5, s.QueueLen())

	for sn := uint16(1); sn <= 5; sn++ {
		pkt, ok := s.ReadPacket()
		require.True(t, ok)
		require.Equal(t, sn, pkt.Header.SequenceNumber)
	}
	_, ok := s.ReadPacket()
	require.False(t, ok)

	sn, ts, ok := s.LastDelivered()
	require.True(t, ok)
	require.Equal(t, uint16(5), sn)
	require.Equal(t, uint32(800), ts)

	ssrc, locked := s.SSRC()
	require.True(t, locked)
	require.Equal(t, uint32(testSSRC), ssrc)

	summary := s.StatSummary()
	require.Equal(t, uint32(5), summary.Received)
	require.Equal(t, uint32(5), summary.Admitted)
	require.Equal(t, uint32(1), summary.FirstExtSeq)
	require.Equal(t, uint32(5), summary.LastExtSeq)

	report := s.ReportState()
	require.Equal(t, uint32(5), report.ReceivedSinceLastReport)
	require.Equal(t, uint16(0), report.SeqAtLastReport)
	require.Equal(t, uint32(5), report.ExtHighestSeq)

	s.MarkReportSent()
	report = s.ReportState()
	require.Equal(t, uint32(0), report.ReceivedSinceLastReport)
	require.Equal(t, uint16(5), report.SeqAtLastReport)
}

func TestSessionZeroPayload(t *testing.T) {
	s := NewSession(SessionParams{})
	s.Admit(newRTPPacket(t, testPacketParams{sn: 1, ts: 160}), 160, testAddr)

	require.Equal(t, uint64(1), s.Stats().Discarded)
	require.Equal(t, 0, s.QueueLen())
}

func TestSessionDuplicate(t *testing.T) {
	s := NewSession(SessionParams{})
	admitSeq(t, s, 1, 160)
	admitSeq(t, s, 2, 320)
	admitSeq(t, s, 1, 160)

	require.Equal(t, uint64(1), s.Stats().Duplicates)
	require.Equal(t, 2, s.QueueLen())
}

func TestSessionQueueOverflow(t *testing.T) {
	jc := &typesfakes.FakeJitterController{}
	jc.MaxPacketsReturns(2)
	s := NewSession(SessionParams{JitterController: jc})
	for sn := uint16(1); sn <= 4; sn++ {
		admitSeq(t, s, sn, uint32(sn)*160)
	}

	require.Equal(t, uint64(2), s.Stats().Discarded)
	require.Equal(t, 2, s.QueueLen())
	pkt, ok := s.ReadPacket()
	require.True(t, ok)
	require.Equal(t, uint16(3), pkt.Header.SequenceNumber)
	require.Equal(t, 4, jc.UpdateSizeCallCount())
}

func TestSessionSSRCLock(t *testing.T) {
	t.Run("switch after threshold", func(t *testing.T) {
		s := NewSession(SessionParams{SSRCChangedThreshold: 3})
		sink := &typesfakes.FakeEventSink{}
		s.SetEventSink(sink)

		var changed [][2]uint32
		s.OnSSRCChanged(func(previous, current uint32) {
			changed = append(changed, [2]uint32{previous, current})
		})

		s.Admit(newRTPPacket(t, testPacketParams{sn: 1, ts: 160, ssrc: 0xa, payloadSize: 20}), 160, testAddr)
		for i := uint16(0); i < 3; i++ {
			s.Admit(newRTPPacket(t, testPacketParams{sn: 100 + i, ts: 8000, ssrc: 0xb, payloadSize: 20}), 8000, testAddr)
		}

		require.Equal(t, uint64(2), s.Stats().Bad)
		require.Equal(t, 2, s.QueueLen())
		ssrc, _ := s.SSRC()
		require.Equal(t, uint32(0xb), ssrc)

		require.Equal(t, [][2]uint32{{0xa, 0xb}}, changed)
		require.Equal(t, 1, sink.DispatchCallCount())
		require.Equal(t, types.SSRCChanged{Previous: 0xa, Current: 0xb}, sink.DispatchArgsForCall(0))
	})

	t.Run("locked source resets the count", func(t *testing.T) {
		s := NewSession(SessionParams{SSRCChangedThreshold: 3})
		s.Admit(newRTPPacket(t, testPacketParams{sn: 1, ts: 160, ssrc: 0xa, payloadSize: 20}), 160, testAddr)
		s.Admit(newRTPPacket(t, testPacketParams{sn: 50, ts: 160, ssrc: 0xb, payloadSize: 20}), 160, testAddr)
		s.Admit(newRTPPacket(t, testPacketParams{sn: 2, ts: 320, ssrc: 0xa, payloadSize: 20}), 320, testAddr)
		s.Admit(newRTPPacket(t, testPacketParams{sn: 51, ts: 320, ssrc: 0xb, payloadSize: 20}), 320, testAddr)
		s.Admit(newRTPPacket(t, testPacketParams{sn: 52, ts: 480, ssrc: 0xb, payloadSize: 20}), 480, testAddr)

		ssrc, _ := s.SSRC()
		require.Equal(t, uint32(0xa), ssrc)
		require.Equal(t, uint64(3), s.Stats().Bad)
		require.Equal(t, 2, s.QueueLen())
	})

	t.Run("first packet reports remote address", func(t *testing.T) {
		s := NewSession(SessionParams{})
		listener := &typesfakes.FakeRemoteAddrListener{}
		s.SetRemoteAddrListener(listener)
		admitSeq(t, s, 1, 160)
		admitSeq(t, s, 2, 320)

		require.Equal(t, 1, listener.OnRemoteAddrUpdateCallCount())
		_, fromNetwork, allowSSRCUpdate := listener.OnRemoteAddrUpdateArgsForCall(0)
		require.True(t, fromNetwork)
		require.False(t, allowSSRCUpdate)
	})
}

func TestSessionTelephoneEvent(t *testing.T) {
	profile := NewProfile(8000)
	profile.SetTelephoneEvent(101)
	jc := newFakeJitterController()
	s := NewSession(SessionParams{Profile: profile, JitterController: jc})

	s.Admit(newRTPPacket(t, testPacketParams{sn: 1, ts: 160, payloadType: 101, payloadSize: 4}), 160, testAddr)

	require.Equal(t, 0, s.QueueLen())
	require.Equal(t, 0, jc.NewPacketCallCount())
	pkt, ok := s.ReadTelephoneEvent()
	require.True(t, ok)
	require.Equal(t, uint8(101), pkt.Header.PayloadType)
}

func TestSessionPayloadTypeChange(t *testing.T) {
	profile := NewProfile(8000)
	profile.SetClockRate(96, 90000)
	jc := newFakeJitterController()
	s := NewSession(SessionParams{Profile: profile, JitterController: jc})

	admitSeq(t, s, 1, 160)
	admitSeq(t, s, 2, 320)
	require.Equal(t, 1, jc.OnPayloadTypeChangeCallCount())

	s.Admit(newRTPPacket(t, testPacketParams{sn: 3, ts: 3000, payloadType: 96, payloadSize: 20}), 3000, testAddr)
	require.Equal(t, 2, jc.OnPayloadTypeChangeCallCount())
	pt, clockRate := jc.OnPayloadTypeChangeArgsForCall(1)
	require.Equal(t, uint8(96), pt)
	require.Equal(t, uint32(90000), clockRate)
	require.Equal(t, 3, jc.NewPacketCallCount())
}

func TestSessionFlush(t *testing.T) {
	jc := newFakeJitterController()
	s := NewSession(SessionParams{JitterController: jc})
	s.SetFlush(true)
	admitSeq(t, s, 1, 160)

	require.Equal(t, uint64(1), s.Stats().PacketsReceived)
	require.Equal(t, 0, s.QueueLen())
	require.Equal(t, 0, jc.NewPacketCallCount())

	s.SetFlush(false)
	admitSeq(t, s, 2, 320)
	require.Equal(t, 1, s.QueueLen())
}

func TestSessionOrdering(t *testing.T) {
	t.Run("too old", func(t *testing.T) {
		s := NewSession(SessionParams{})
		admitSeq(t, s, 1, 160)
		admitSeq(t, s, 2, 320)
		s.ReadPacket()
		s.ReadPacket()

		admitSeq(t, s, 1, 160)
		require.Equal(t, uint64(1), s.Stats().OutOfTime)
		require.Equal(t, 0, s.QueueLen())
		require.Equal(t, uint32(1), s.StatSummary().Discarded)
	})

	t.Run("forward jump is admitted", func(t *testing.T) {
		s := NewSession(SessionParams{})
		sink := &typesfakes.FakeEventSink{}
		s.SetEventSink(sink)
		admitSeq(t, s, 1, 160)
		s.ReadPacket()

		// 5s at 8kHz
		admitSeq(t, s, 2, 160+40000+1)
		require.Equal(t, 1, s.QueueLen())
		require.Equal(t, 1, sink.DispatchCallCount())
		require.Equal(t, types.TimestampJump{Timestamp: 160 + 40000 + 1}, sink.DispatchArgsForCall(0))
	})

	t.Run("backward jump is rejected", func(t *testing.T) {
		s := NewSession(SessionParams{})
		sink := &typesfakes.FakeEventSink{}
		s.SetEventSink(sink)
		admitSeq(t, s, 10, 100000)
		s.ReadPacket()

		admitSeq(t, s, 11, 50000)
		require.Equal(t, uint64(1), s.Stats().OutOfTime)
		require.Equal(t, 1, sink.DispatchCallCount())
		require.Equal(t, types.TimestampJump{Timestamp: 50000}, sink.DispatchArgsForCall(0))
	})

	t.Run("jump limit follows setting", func(t *testing.T) {
		s := NewSession(SessionParams{})
		sink := &typesfakes.FakeEventSink{}
		s.SetEventSink(sink)
		s.SetTimestampJumpLimit(time.Second)
		admitSeq(t, s, 1, 160)
		s.ReadPacket()

		admitSeq(t, s, 2, 160+8001)
		require.Equal(t, 1, sink.DispatchCallCount())
	})

	t.Run("resync", func(t *testing.T) {
		s := NewSession(SessionParams{})
		admitSeq(t, s, 100, 16000)
		s.ReadPacket()
		admitSeq(t, s, 101, 16160)
		s.Resync()

		require.Equal(t, 0, s.QueueLen())
		_, _, ok := s.LastDelivered()
		require.False(t, ok)

		admitSeq(t, s, 1, 160)
		require.Equal(t, 1, s.QueueLen())
		require.Equal(t, uint16(0), s.ReportState().SeqAtLastReport)
		// 101 was flushed
		require.Equal(t, uint64(1), s.Stats().Discarded)
	})

	t.Run("forward jump resyncs before queueing", func(t *testing.T) {
		s := NewSession(SessionParams{ResyncOnTimestampJump: true})
		admitSeq(t, s, 1, 160)
		s.ReadPacket()
		admitSeq(t, s, 2, 320)

		admitSeq(t, s, 3, 320+40000+1)
		require.Equal(t, 1, s.QueueLen())
		require.Equal(t, uint64(1), s.Stats().Discarded)
		require.Equal(t, uint16(2), s.ReportState().SeqAtLastReport)

		pkt, ok := s.ReadPacket()
		require.True(t, ok)
		require.Equal(t, uint16(3), pkt.Header.SequenceNumber)

		admitSeq(t, s, 4, 320+40000+161)
		require.Equal(t, 1, s.QueueLen())
	})

	t.Run("backward jump resyncs", func(t *testing.T) {
		s := NewSession(SessionParams{ResyncOnTimestampJump: true})
		admitSeq(t, s, 10, 100000)
		s.ReadPacket()
		admitSeq(t, s, 11, 100160)

		admitSeq(t, s, 12, 50000)
		require.Equal(t, uint64(1), s.Stats().OutOfTime)
		require.Equal(t, uint64(1), s.Stats().Discarded)
		require.Equal(t, 0, s.QueueLen())

		admitSeq(t, s, 13, 50160)
		require.Equal(t, 1, s.QueueLen())
	})
}

func TestSessionImmediateNack(t *testing.T) {
	newNackSession := func() *Session {
		return NewSession(SessionParams{
			SenderSSRC: 1,
			Feedback: FeedbackParams{
				Enabled:       true,
				GenericNack:   true,
				ImmediateNack: true,
			},
		})
	}

	t.Run("gap", func(t *testing.T) {
		s := newNackSession()
		var feedback [][]rtcp.Packet
		s.OnRtcpFeedback(func(pkts []rtcp.Packet) {
			feedback = append(feedback, pkts)
		})

		admitSeq(t, s, 100, 16000)
		s.ReadPacket()
		admitSeq(t, s, 103, 16480)
		admitSeq(t, s, 104, 16640)

		require.Len(t, feedback, 1)
		require.Equal(t, []rtcp.Packet{
			&rtcp.TransportLayerNack{
				SenderSSRC: 1,
				MediaSSRC:  testSSRC,
				Nacks:      []rtcp.NackPair{{PacketID: 101, LostPackets: 0x0001}},
			},
		}, feedback[0])
		require.Equal(t, uint64(1), s.Stats().Nacks)

		lastNacked, ok := s.LastNacked()
		require.True(t, ok)
		require.Equal(t, uint16(104), lastNacked)
	})

	t.Run("suppressed while congested", func(t *testing.T) {
		s := newNackSession()
		detector := &typesfakes.FakeCongestionDetector{}
		detector.IsCongestedReturns(true)
		s.SetCongestionDetector(detector)
		called := false
		s.OnRtcpFeedback(func(_ []rtcp.Packet) {
			called = true
		})

		admitSeq(t, s, 100, 16000)
		s.ReadPacket()
		admitSeq(t, s, 103, 16480)

		require.False(t, called)
		require.Equal(t, uint64(0), s.Stats().Nacks)
		lastNacked, _ := s.LastNacked()
		require.Equal(t, uint16(103), lastNacked)
	})

	t.Run("disabled", func(t *testing.T) {
		s := NewSession(SessionParams{Feedback: FeedbackParams{Enabled: true, GenericNack: true}})
		called := false
		s.OnRtcpFeedback(func(_ []rtcp.Packet) {
			called = true
		})

		admitSeq(t, s, 100, 16000)
		s.ReadPacket()
		admitSeq(t, s, 103, 16480)
		require.False(t, called)
	})
}

func TestSessionCollaborators(t *testing.T) {
	t.Run("congestion state change", func(t *testing.T) {
		s := NewSession(SessionParams{CongestionDetectionEnabled: true})
		sink := &typesfakes.FakeEventSink{}
		detector := &typesfakes.FakeCongestionDetector{}
		detector.RecordReturnsOnCall(1, true)
		detector.IsCongestedReturns(true)
		s.SetEventSink(sink)
		s.SetCongestionDetector(detector)

		admitSeq(t, s, 1, 160)
		admitSeq(t, s, 2, 320)

		require.Equal(t, 2, detector.RecordCallCount())
		ts, localTS := detector.RecordArgsForCall(1)
		require.Equal(t, uint32(320), ts)
		require.Equal(t, uint32(320), localTS)
		require.Equal(t, 1, sink.DispatchCallCount())
		require.Equal(t, types.CongestionStateChanged{Detected: true}, sink.DispatchArgsForCall(0))
	})

	t.Run("congestion detection disabled", func(t *testing.T) {
		s := NewSession(SessionParams{})
		detector := &typesfakes.FakeCongestionDetector{}
		s.SetCongestionDetector(detector)
		admitSeq(t, s, 1, 160)
		require.Equal(t, 0, detector.RecordCallCount())
	})

	t.Run("bandwidth estimation", func(t *testing.T) {
		s := NewSession(SessionParams{BandwidthEstimationEnabled: true})
		estimator := &typesfakes.FakeBandwidthEstimator{}
		s.SetBandwidthEstimator(estimator)

		pkt := newRTPPacket(t, testPacketParams{sn: 1, ts: 160, payloadSize: 20})
		s.Admit(pkt, 160, testAddr)
		pkt6 := newRTPPacket(t, testPacketParams{sn: 2, ts: 320, payloadSize: 20})
		pkt6.IsIPv6 = true
		s.Admit(pkt6, 320, testAddr)

		require.Equal(t, 2, estimator.ProcessPacketCallCount())
		ts, arrival, size, _ := estimator.ProcessPacketArgsForCall(0)
		require.Equal(t, uint32(160), ts)
		require.Equal(t, pkt.Arrival, arrival)
		require.Equal(t, pkt.Len()+28, size)
		_, _, size, _ = estimator.ProcessPacketArgsForCall(1)
		require.Equal(t, pkt6.Len()+48, size)
	})

	t.Run("fec hand off", func(t *testing.T) {
		s := NewSession(SessionParams{})
		fec := &typesfakes.FakeFECStream{}
		s.SetFECStream(fec)

		pkt := newRTPPacket(t, testPacketParams{sn: 1, ts: 160, payloadSize: 20})
		s.Admit(pkt, 160, testAddr)
		require.Equal(t, 1, fec.OnSourcePacketCallCount())
		require.Same(t, pkt, fec.OnSourcePacketArgsForCall(0))
	})

	t.Run("fec skips packets not queued", func(t *testing.T) {
		s := NewSession(SessionParams{})
		fec := &typesfakes.FakeFECStream{}
		s.SetFECStream(fec)

		admitSeq(t, s, 1, 160)
		admitSeq(t, s, 1, 160)
		s.Admit(newRTPPacket(t, testPacketParams{sn: 2, ts: 320}), 320, testAddr)

		require.Equal(t, 1, s.QueueLen())
		require.Equal(t, uint64(1), s.Stats().Duplicates)
		require.Equal(t, uint64(1), s.Stats().Discarded)
		require.Equal(t, 1, fec.OnSourcePacketCallCount())
	})
}

func TestSessionStatSummary(t *testing.T) {
	s := NewSession(SessionParams{})
	for sn := uint16(1); sn <= 3; sn++ {
		admitSeq(t, s, sn, uint32(sn)*160)
	}

	summary := s.ResetStatSummary()
	require.Equal(t, uint32(3), summary.Received)
	require.Equal(t, float64(64), summary.TTL.Mean())

	summary = s.StatSummary()
	require.Equal(t, uint32(0), summary.Received)
	require.Equal(t, uint16(3), summary.SeqAtLastSummary)
}

func TestSessionLocalTimestamp(t *testing.T) {
	s := NewSession(SessionParams{})
	start := s.LocalTimestamp(time.Now())
	later := s.LocalTimestamp(time.Now().Add(time.Second))
	require.InDelta(t, 8000, float64(later-start), 80)
}
