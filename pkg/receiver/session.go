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
	"sync"
	"time"

	"github.com/pion/rtcp"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/rtprx/pkg/jitter"
	"github.com/livekit/rtprx/pkg/receiver/buffer"
	"github.com/livekit/rtprx/pkg/receiver/rtpstats"
	"github.com/livekit/rtprx/pkg/receiver/types"
	"github.com/livekit/rtprx/pkg/receiver/utils"
)

const (
	DefaultSSRCChangedThreshold = 50
	DefaultTimestampJumpLimit   = 5 * time.Second

	ipUDPOverhead  = 20 + 8
	ip6UDPOverhead = 40 + 8
)

type FeedbackParams struct {
	Enabled       bool
	GenericNack   bool
	ImmediateNack bool
}

type SessionParams struct {
	Profile              *Profile
	SSRCChangedThreshold int
	TimestampJumpLimit   time.Duration
	SenderSSRC           uint32
	Feedback             FeedbackParams

	CongestionDetectionEnabled bool
	BandwidthEstimationEnabled bool
	// resync before queueing the packet that carried a timestamp jump
	ResyncOnTimestampJump bool

	JitterController types.JitterController
	// process wide counters, shared with other sessions
	GlobalCounters *Counters
	Logger         logger.Logger
}

type ReportState struct {
	ReceivedSinceLastReport uint32
	SeqAtLastReport         uint16
	ExtHighestSeq           uint32
}

// Session is the receive side of one RTP session. Admit runs the admission pipeline for every
// received datagram, the playout side reads the admitted packets back with ReadPacket.
type Session struct {
	lock          sync.Mutex
	params        SessionParams
	logger        logger.Logger
	tooOldLogger  *utils.SampledLogger
	badDataLogger *utils.SampledLogger

	counters *Counters
	global   *Counters

	profile          *Profile
	jitterController types.JitterController

	eventSink          types.EventSink
	congestionDetector types.CongestionDetector
	bandwidthEstimator types.BandwidthEstimator
	fecStream          types.FECStream
	remoteAddrListener types.RemoteAddrListener

	ssrcLock *SSRCLock
	extSeq   utils.ExtendedSeq
	nacker   *NackGenerator
	summary  rtpstats.StatSummary

	queue               *buffer.Queue
	telephoneEventQueue *buffer.Queue

	remoteAddr net.Addr

	payloadType    uint8
	payloadTypeSet bool
	clockRate      uint32
	tsJump         uint32

	lastDeliveredSN      uint16
	lastDeliveredTS      uint32
	firstPacketDelivered bool
	seqInitialized       bool
	flush                bool

	receivedSinceLastReport uint32
	seqAtLastReport         uint16
	lastReceivedAt          time.Time
	startedAt               time.Time

	onRtcpFeedback func([]rtcp.Packet)
	onSSRCChanged  func(previous, current uint32)
}

func NewSession(params SessionParams) *Session {
	if params.Profile == nil {
		params.Profile = NewProfile(8000)
	}
	if params.SSRCChangedThreshold == 0 {
		params.SSRCChangedThreshold = DefaultSSRCChangedThreshold
	}
	if params.TimestampJumpLimit == 0 {
		params.TimestampJumpLimit = DefaultTimestampJumpLimit
	}
	if params.GlobalCounters == nil {
		params.GlobalCounters = NewCounters()
	}
	if params.Logger == nil {
		params.Logger = logger.GetLogger()
	}
	if params.JitterController == nil {
		params.JitterController = jitter.NewStaticController(jitter.DefaultMaxPackets, params.Logger)
	}

	s := &Session{
		params:              params,
		logger:              params.Logger,
		tooOldLogger:        utils.NewSampledLogger(params.Logger, 10),
		badDataLogger:       utils.NewSampledLogger(params.Logger, 10),
		counters:            NewCounters(),
		global:              params.GlobalCounters,
		profile:             params.Profile,
		jitterController:    params.JitterController,
		ssrcLock:            NewSSRCLock(params.SSRCChangedThreshold),
		nacker:              NewNackGenerator(),
		queue:               buffer.NewQueue(params.Logger),
		telephoneEventQueue: buffer.NewQueue(params.Logger),
		startedAt:           time.Now(),
	}
	s.setClockRateLocked(params.Profile.DefaultClockRate())
	return s
}

func (s *Session) SetLogger(logger logger.Logger) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.logger = logger
	s.tooOldLogger.SetLogger(logger)
	s.badDataLogger.SetLogger(logger)
	s.queue.SetLogger(logger)
	s.telephoneEventQueue.SetLogger(logger)
}

func (s *Session) SetEventSink(sink types.EventSink) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.eventSink = sink
}

func (s *Session) SetCongestionDetector(detector types.CongestionDetector) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.congestionDetector = detector
}

func (s *Session) SetBandwidthEstimator(estimator types.BandwidthEstimator) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.bandwidthEstimator = estimator
}

func (s *Session) SetFECStream(fecStream types.FECStream) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.fecStream = fecStream
}

func (s *Session) SetRemoteAddrListener(listener types.RemoteAddrListener) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.remoteAddrListener = listener
}

func (s *Session) OnRtcpFeedback(fn func([]rtcp.Packet)) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.onRtcpFeedback = fn
}

func (s *Session) OnSSRCChanged(fn func(previous, current uint32)) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.onSSRCChanged = fn
}

func (s *Session) SetSSRCChangedThreshold(threshold int) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.ssrcLock.SetThreshold(threshold)
}

func (s *Session) SetTimestampJumpLimit(limit time.Duration) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.params.TimestampJumpLimit = limit
	s.setClockRateLocked(s.clockRate)
}

// SetFlush makes the session drop everything that passes the payload type check, for example while resyncing.
func (s *Session) SetFlush(flush bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.flush = flush
}

// Admit runs the admission pipeline for one received datagram. localTS is the local reference
// timestamp at arrival, in units of the session clock rate. The outcome is only visible through
// counters, queues and events.
func (s *Session) Admit(pkt *buffer.Packet, localTS uint32, src net.Addr) {
	s.lock.Lock()
	var n notifications
	s.admit(pkt, localTS, src, &n)
	s.lock.Unlock()

	n.run()
}

func (s *Session) admit(pkt *buffer.Packet, localTS uint32, src net.Addr, n *notifications) {
	if pkt.Len() < buffer.FixedHeaderSize {
		s.badDataLogger.Warnw("packet too small to be a rtp packet", nil, "size", pkt.Len())
		s.dropBad()
		return
	}

	if buffer.Version(pkt.Raw) != buffer.RTPVersion {
		if buffer.IsSTUNShaped(pkt.Raw) {
			s.updateRemoteAddr(src, true, true)
			if s.eventSink != nil {
				s.eventSink.Dispatch(types.StunPacketReceived{Packet: pkt, Source: src})
				return
			}
		}
		// not stun, or nobody interested in stun
		s.badDataLogger.Debugw("discarding packet with invalid rtp version", "version", buffer.Version(pkt.Raw))
		s.dropBad()
		return
	}

	s.counters.AddReceived(pkt.Len())
	s.global.AddReceived(pkt.Len())
	s.receivedSinceLastReport++

	hdr, err := buffer.DecodeHeader(pkt.Raw)
	if err != nil {
		s.badDataLogger.Debugw("discarding malformed rtp packet", "error", err, "size", pkt.Len())
		s.dropBad()
		return
	}
	pkt.Header = hdr
	sn := hdr.SequenceNumber
	ts := hdr.Timestamp
	s.lastReceivedAt = pkt.Arrival

	switch previous := s.ssrcLock.SSRC(); s.ssrcLock.Check(hdr.SSRC) {
	case LockResultLocked:
		s.updateRemoteAddr(src, true, false)

	case LockResultSwitched:
		s.logger.Infow("ssrc changed", "previous", previous, "current", hdr.SSRC)
		s.updateRemoteAddr(src, true, false)
		s.lastDeliveredTS = ts
		s.emit(types.SSRCChanged{Previous: previous, Current: hdr.SSRC})
		n.ssrcChanged = s.onSSRCChanged
		n.previousSSRC, n.currentSSRC = previous, hdr.SSRC

	case LockResultRejected:
		s.logger.Debugw("discarding packet with unknown ssrc", "ssrc", hdr.SSRC, "locked", previous)
		s.dropBad()
		return
	}

	s.extSeq.Update(sn)
	if !s.seqInitialized {
		s.initSeqLocked(sn)
	}
	s.summary.SetExtSeq(s.extSeq.Value(), s.counters.PacketsReceived() == 1)

	if s.profile.IsTelephoneEvent(hdr.PayloadType) {
		res := s.telephoneEventQueue.Admit(pkt, s.maxPackets())
		s.accountQueueResult(res)
		return
	}

	if !s.payloadTypeSet || s.payloadType != hdr.PayloadType {
		s.updatePayloadType(hdr.PayloadType)
	}

	if s.flush {
		return
	}

	s.jitterController.NewPacket(ts, localTS)

	if s.params.BandwidthEstimationEnabled && s.bandwidthEstimator != nil {
		overhead := ipUDPOverhead
		if pkt.IsIPv6 {
			overhead = ip6UDPOverhead
		}
		s.bandwidthEstimator.ProcessPacket(ts, pkt.Arrival, pkt.Len()+overhead, hdr.Marker)
	}

	if s.params.CongestionDetectionEnabled && s.congestionDetector != nil {
		if s.congestionDetector.Record(ts, localTS) {
			detected := s.congestionDetector.IsCongested()
			s.logger.Infow("congestion state changed", "detected", detected)
			s.emit(types.CongestionStateChanged{Detected: detected})
		}
	}

	s.summary.Update(ts, localTS, pkt.TTL)

	if s.firstPacketDelivered {
		if utils.IsTSNewer(ts, s.lastDeliveredTS+s.tsJump) {
			// some senders jump forward, let it through and let the application resync
			s.logger.Warnw("timestamp jump in the future detected", nil, "ts", ts, "lastDeliveredTS", s.lastDeliveredTS)
			s.emit(types.TimestampJump{Timestamp: ts})
			if s.params.ResyncOnTimestampJump {
				s.resyncLocked()
				s.initSeqLocked(sn)
			}
		} else if utils.IsTSStrictlyNewer(s.lastDeliveredTS, ts) || utils.IsSeqStrictlyGreater(s.lastDeliveredSN, sn) {
			jumped := false
			if utils.IsTSStrictlyNewer(s.lastDeliveredTS, ts+s.tsJump) {
				s.logger.Warnw("negative timestamp jump detected", nil, "ts", ts, "lastDeliveredTS", s.lastDeliveredTS)
				s.emit(types.TimestampJump{Timestamp: ts})
				jumped = true
			}
			s.tooOldLogger.Errorw("discarding too old packet", nil,
				"sn", sn,
				"ts", ts,
				"lastDeliveredSN", s.lastDeliveredSN,
				"lastDeliveredTS", s.lastDeliveredTS,
			)
			s.counters.IncOutOfTime()
			s.global.IncOutOfTime()
			s.summary.AddDiscarded(1)
			if jumped && s.params.ResyncOnTimestampJump {
				s.resyncLocked()
			}
			return
		}
	}

	if s.params.Feedback.Enabled && s.params.Feedback.GenericNack && s.params.Feedback.ImmediateNack {
		s.checkImmediateNack(sn, n)
	}

	res := s.queue.Admit(pkt, s.maxPackets())
	if res.Queued {
		s.jitterController.UpdateSize(s.queue.Len())
	}
	s.accountQueueResult(res)
	if res.Discarded == 0 && res.Duplicate == 0 {
		s.summary.AddAdmitted()
	}

	if s.fecStream != nil && res.Queued && res.Duplicate == 0 {
		s.fecStream.OnSourcePacket(pkt)
	}
}

func (s *Session) checkImmediateNack(sn uint16, n *notifications) {
	congested := s.congestionDetector != nil && s.congestionDetector.IsCongested()
	pairs, suppressed := s.nacker.Check(sn, s.lastDeliveredSN, s.firstPacketDelivered, congested)
	if suppressed {
		s.logger.Infow("immediate nack not sent because of congestion", "sn", sn)
		return
	}
	if len(pairs) == 0 {
		return
	}

	for _, pair := range pairs {
		n.feedback = append(n.feedback, []rtcp.Packet{
			&rtcp.TransportLayerNack{
				SenderSSRC: s.params.SenderSSRC,
				MediaSSRC:  s.ssrcLock.SSRC(),
				Nacks:      []rtcp.NackPair{pair},
			},
		})
	}
	n.onRtcpFeedback = s.onRtcpFeedback
	s.counters.AddNacks(len(pairs))
	s.global.AddNacks(len(pairs))
	s.logger.Debugw("immediate nack", "sn", sn, "lastDeliveredSN", s.lastDeliveredSN, "pairs", len(pairs))
}

// first loss figures are computed from here, also after a resync
func (s *Session) initSeqLocked(sn uint16) {
	s.seqInitialized = true
	s.seqAtLastReport = sn - 1
	s.summary.SeqAtLastSummary = sn - 1
}

func (s *Session) accountQueueResult(res buffer.AdmitResult) {
	s.counters.AddDiscarded(res.Discarded)
	s.global.AddDiscarded(res.Discarded)
	s.counters.AddDuplicates(res.Duplicate)
	s.global.AddDuplicates(res.Duplicate)
	s.summary.AddDiscarded(res.Discarded)
	s.summary.AddDuplicates(res.Duplicate)
}

func (s *Session) dropBad() {
	s.counters.IncBad()
	s.global.IncBad()
}

func (s *Session) emit(ev types.Event) {
	if s.eventSink == nil {
		return
	}
	s.eventSink.Dispatch(ev)
}

func (s *Session) updateRemoteAddr(addr net.Addr, fromNetworkData bool, allowSSRCUpdate bool) {
	if addr == nil {
		return
	}

	s.remoteAddr = addr
	if s.remoteAddrListener != nil {
		s.remoteAddrListener.OnRemoteAddrUpdate(addr, fromNetworkData, allowSSRCUpdate)
	}
}

func (s *Session) updatePayloadType(payloadType uint8) {
	s.payloadType = payloadType
	s.payloadTypeSet = true

	clockRate := s.profile.ClockRate(payloadType)
	if clockRate != s.clockRate {
		s.logger.Debugw("clock rate changed", "payloadType", payloadType, "clockRate", clockRate)
	}
	s.setClockRateLocked(clockRate)

	s.jitterController.OnPayloadTypeChange(payloadType, clockRate)
}

func (s *Session) setClockRateLocked(clockRate uint32) {
	s.clockRate = clockRate
	s.tsJump = uint32(s.params.TimestampJumpLimit.Milliseconds() * int64(clockRate) / 1000)
}

func (s *Session) maxPackets() int {
	return s.jitterController.MaxPackets()
}

// ReadPacket hands the oldest queued packet to the application. Packets older than it
// are not admitted anymore.
func (s *Session) ReadPacket() (*buffer.Packet, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	pkt, ok := s.queue.PopFront()
	if !ok {
		return nil, false
	}

	s.lastDeliveredSN = pkt.Header.SequenceNumber
	s.lastDeliveredTS = pkt.Header.Timestamp
	s.firstPacketDelivered = true
	return pkt, true
}

func (s *Session) ReadTelephoneEvent() (*buffer.Packet, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.telephoneEventQueue.PopFront()
}

// Resync forgets about delivery history and drops everything queued, counting it as
// discarded. The next packet restarts sequence bookkeeping.
func (s *Session) Resync() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.resyncLocked()
}

func (s *Session) resyncLocked() {
	flushed := s.queue.Flush() + s.telephoneEventQueue.Flush()
	s.counters.AddDiscarded(flushed)
	s.global.AddDiscarded(flushed)
	s.summary.AddDiscarded(flushed)

	s.firstPacketDelivered = false
	s.seqInitialized = false
	s.nacker.Reset()
	s.logger.Debugw("session resync", "flushed", flushed)
}

// LocalTimestamp converts a wall clock time to a local reference timestamp in session clock rate units.
func (s *Session) LocalTimestamp(at time.Time) uint32 {
	s.lock.Lock()
	defer s.lock.Unlock()

	elapsed := at.Sub(s.startedAt)
	return uint32(elapsed.Microseconds() * int64(s.clockRate) / 1e6)
}

func (s *Session) Stats() CountersSnapshot {
	return s.counters.Snapshot()
}

func (s *Session) StatSummary() rtpstats.StatSummary {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.summary.Snapshot()
}

// ResetStatSummary returns the current summary and starts a new window.
func (s *Session) ResetStatSummary() rtpstats.StatSummary {
	s.lock.Lock()
	defer s.lock.Unlock()

	summary := s.summary.Snapshot()
	s.summary.Reset()
	return summary
}

func (s *Session) ReportState() ReportState {
	s.lock.Lock()
	defer s.lock.Unlock()

	return ReportState{
		ReceivedSinceLastReport: s.receivedSinceLastReport,
		SeqAtLastReport:         s.seqAtLastReport,
		ExtHighestSeq:           s.extSeq.Value(),
	}
}

// MarkReportSent starts a new receiver report interval.
func (s *Session) MarkReportSent() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.receivedSinceLastReport = 0
	s.seqAtLastReport = s.extSeq.Highest()
}

func (s *Session) SSRC() (uint32, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.ssrcLock.SSRC(), s.ssrcLock.IsLocked()
}

func (s *Session) RemoteAddr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.remoteAddr
}

func (s *Session) LastReceivedAt() time.Time {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.lastReceivedAt
}

func (s *Session) LastDelivered() (sn uint16, ts uint32, ok bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.lastDeliveredSN, s.lastDeliveredTS, s.firstPacketDelivered
}

func (s *Session) LastNacked() (uint16, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.nacker.LastNacked()
}

func (s *Session) QueueLen() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.queue.Len()
}

// ---------------------------------------------------------------

// callbacks collected while admitting, run once the session lock is released
type notifications struct {
	onRtcpFeedback func([]rtcp.Packet)
	feedback       [][]rtcp.Packet

	ssrcChanged               func(previous, current uint32)
	previousSSRC, currentSSRC uint32
}

func (n *notifications) run() {
	if n.onRtcpFeedback != nil {
		for _, pkts := range n.feedback {
			n.onRtcpFeedback(pkts)
		}
	}
	if n.ssrcChanged != nil {
		n.ssrcChanged(n.previousSSRC, n.currentSSRC)
	}
}
