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

package transport

import (
	"errors"
	"net"
	"time"

	"github.com/frostbyte73/core"
	"go.uber.org/atomic"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/rtprx/pkg/receiver/buffer"
)

const (
	maxDatagramSize = 1500
)

var (
	ErrAlreadyStarted = errors.New("receiver already started")
)

type PacketHandler func(pkt *buffer.Packet, src net.Addr)

type UDPReceiverParams struct {
	Address        string
	Port           int
	ReadBufferSize int
	Handler        PacketHandler
	Logger         logger.Logger
}

// UDPReceiver reads datagrams from one socket and hands them to the handler with their
// arrival time and TTL / hop limit.
type UDPReceiver struct {
	params UDPReceiverParams

	conn     *net.UDPConn
	ipv4Conn *ipv4.PacketConn
	ipv6Conn *ipv6.PacketConn
	oobSize  int

	started atomic.Bool
	packets atomic.Uint64
	bytes   atomic.Uint64

	stop core.Fuse
	done core.Fuse
}

func NewUDPReceiver(params UDPReceiverParams) *UDPReceiver {
	if params.Logger == nil {
		params.Logger = logger.GetLogger()
	}
	return &UDPReceiver{
		params: params,
		stop:   core.NewFuse(),
		done:   core.NewFuse(),
	}
}

func (r *UDPReceiver) Start() error {
	if r.started.Swap(true) {
		return ErrAlreadyStarted
	}

	laddr := &net.UDPAddr{Port: r.params.Port}
	if r.params.Address != "" {
		laddr.IP = net.ParseIP(r.params.Address)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return err
	}
	if r.params.ReadBufferSize > 0 {
		if err := conn.SetReadBuffer(r.params.ReadBufferSize); err != nil {
			r.params.Logger.Warnw("could not set read buffer size", err, "size", r.params.ReadBufferSize)
		}
	}
	r.conn = conn

	// a dual-stack socket receives ipv4 datagrams too, so it asks for both
	r.ipv4Conn = ipv4.NewPacketConn(conn)
	if err := r.ipv4Conn.SetControlMessage(ipv4.FlagTTL, true); err != nil {
		r.params.Logger.Warnw("ttl not available on socket", err)
	}
	if ip := conn.LocalAddr().(*net.UDPAddr).IP; ip.To4() == nil {
		r.ipv6Conn = ipv6.NewPacketConn(conn)
		if err := r.ipv6Conn.SetControlMessage(ipv6.FlagHopLimit, true); err != nil {
			r.params.Logger.Warnw("hop limit not available on socket", err)
		}
	}
	r.oobSize = len(ipv4.NewControlMessage(ipv4.FlagTTL)) + len(ipv6.NewControlMessage(ipv6.FlagHopLimit))

	r.params.Logger.Infow("rtp receiver listening", "addr", conn.LocalAddr().String())
	go r.readWorker()
	return nil
}

func (r *UDPReceiver) Stop() {
	if !r.started.Load() || r.stop.IsBroken() {
		return
	}

	r.stop.Break()
	_ = r.conn.Close()
	<-r.done.Watch()
}

func (r *UDPReceiver) LocalAddr() net.Addr {
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// WriteTo sends feedback back through the receiving socket.
func (r *UDPReceiver) WriteTo(b []byte, addr net.Addr) (int, error) {
	if r.conn == nil || r.stop.IsBroken() {
		return 0, net.ErrClosed
	}
	return r.conn.WriteTo(b, addr)
}

func (r *UDPReceiver) PacketsRead() uint64 {
	return r.packets.Load()
}

func (r *UDPReceiver) BytesRead() uint64 {
	return r.bytes.Load()
}

func (r *UDPReceiver) readWorker() {
	defer r.done.Break()

	buf := make([]byte, maxDatagramSize)
	oob := make([]byte, r.oobSize)
	for {
		n, ttl, src, err := r.read(buf, oob)
		if err != nil {
			if r.stop.IsBroken() || errors.Is(err, net.ErrClosed) {
				return
			}
			r.params.Logger.Warnw("error reading datagram", err)
			continue
		}

		r.packets.Inc()
		r.bytes.Add(uint64(n))

		raw := make([]byte, n)
		copy(raw, buf[:n])
		pkt := buffer.NewPacket(raw, time.Now(), ttl)
		pkt.IsIPv6 = src.IP.To4() == nil

		if r.params.Handler != nil {
			r.params.Handler(pkt, src)
		}
	}
}

func (r *UDPReceiver) read(buf []byte, oob []byte) (int, uint8, *net.UDPAddr, error) {
	n, oobn, _, src, err := r.conn.ReadMsgUDP(buf, oob)
	if err != nil {
		return 0, 0, nil, err
	}
	return n, hopCount(src, oob[:oobn]), src, nil
}

// hopCount is the ttl of an ipv4 datagram or the hop limit of an ipv6 one, 0 when the
// socket did not report it.
func hopCount(src *net.UDPAddr, oob []byte) uint8 {
	if len(oob) == 0 {
		return 0
	}
	if src != nil && src.IP.To4() != nil {
		var cm ipv4.ControlMessage
		if err := cm.Parse(oob); err != nil {
			return 0
		}
		return uint8(cm.TTL)
	}
	var cm ipv6.ControlMessage
	if err := cm.Parse(oob); err != nil {
		return 0
	}
	return uint8(cm.HopLimit)
}
