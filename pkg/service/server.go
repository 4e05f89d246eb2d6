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

package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/frostbyte73/core"
	"github.com/pion/rtcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/negroni/v3"
	"go.uber.org/atomic"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/rtprx/pkg/config"
	"github.com/livekit/rtprx/pkg/events"
	"github.com/livekit/rtprx/pkg/receiver"
	"github.com/livekit/rtprx/pkg/receiver/buffer"
	"github.com/livekit/rtprx/pkg/receiver/types"
	rtprxprometheus "github.com/livekit/rtprx/pkg/telemetry/prometheus"
	"github.com/livekit/rtprx/pkg/transport"
)

const (
	defaultSessionName = "default"
	playoutInterval    = 20 * time.Millisecond
)

var ErrAlreadyRunning = errors.New("already running")

// ReceiverServer feeds datagrams from one UDP socket into a receive session, plays the
// admitted packets out and exposes counters over HTTP.
type ReceiverServer struct {
	config     *config.Config
	logger     logger.Logger
	session    *receiver.Session
	dispatcher *events.Dispatcher
	collector  *rtprxprometheus.Collector
	global     *receiver.Counters
	udp        *transport.UDPReceiver
	httpServer *http.Server

	delivered       atomic.Uint64
	telephoneEvents atomic.Uint64
	feedbackSent    atomic.Uint64

	running atomic.Bool
	stop    core.Fuse
	done    core.Fuse
}

func NewReceiverServer(
	conf *config.Config,
	session *receiver.Session,
	dispatcher *events.Dispatcher,
	collector *rtprxprometheus.Collector,
	global *receiver.Counters,
	logger logger.Logger,
) (*ReceiverServer, error) {
	s := &ReceiverServer{
		config:     conf,
		logger:     logger,
		session:    session,
		dispatcher: dispatcher,
		collector:  collector,
		global:     global,
		stop:       core.NewFuse(),
		done:       core.NewFuse(),
	}

	s.udp = transport.NewUDPReceiver(transport.UDPReceiverParams{
		Address:        conf.BindAddress,
		Port:           int(conf.Port),
		ReadBufferSize: conf.ReadBufferSize,
		Handler:        s.onPacket,
		Logger:         logger,
	})

	session.SetEventSink(dispatcher)
	session.OnRtcpFeedback(s.sendFeedback)
	session.OnSSRCChanged(func(previous, current uint32) {
		s.logger.Infow("source changed", "previous", previous, "current", current)
	})

	dispatcher.Subscribe("log", s.logEvent)

	collector.AddSession(defaultSessionName, session)

	if conf.PrometheusPort != 0 {
		registry := prometheus.NewRegistry()
		if err := registry.Register(collector); err != nil {
			return nil, err
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("OK"))
		})

		s.httpServer = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", conf.BindAddress, conf.PrometheusPort),
			Handler: configureMiddlewares(mux, negroni.NewRecovery()),
		}
	}

	return s, nil
}

func (s *ReceiverServer) IsRunning() bool {
	return s.running.Load()
}

func (s *ReceiverServer) Start() error {
	if s.running.Swap(true) {
		return ErrAlreadyRunning
	}

	if err := s.udp.Start(); err != nil {
		s.running.Store(false)
		return err
	}

	if s.httpServer != nil {
		ln, err := net.Listen("tcp", s.httpServer.Addr)
		if err != nil {
			s.udp.Stop()
			s.running.Store(false)
			return err
		}
		go func() {
			s.logger.Infow("starting metrics server", "address", s.httpServer.Addr)
			if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Errorw("metrics server failed", err)
			}
		}()
	}

	go s.playoutWorker()
	return nil
}

func (s *ReceiverServer) Stop() {
	if !s.running.Load() || s.stop.IsBroken() {
		return
	}

	s.stop.Break()
	s.udp.Stop()
	<-s.done.Watch()
	s.dispatcher.Stop()
	s.collector.RemoveSession(defaultSessionName)

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
	}

	s.logger.Infow("receiver stopped", "counters", s.global.Snapshot())
}

// Done is closed once the server stopped.
func (s *ReceiverServer) Done() <-chan struct{} {
	return s.done.Watch()
}

func (s *ReceiverServer) LocalAddr() net.Addr {
	return s.udp.LocalAddr()
}

func (s *ReceiverServer) Session() *receiver.Session {
	return s.session
}

func (s *ReceiverServer) Counters() receiver.CountersSnapshot {
	return s.global.Snapshot()
}

func (s *ReceiverServer) Delivered() uint64 {
	return s.delivered.Load()
}

func (s *ReceiverServer) TelephoneEvents() uint64 {
	return s.telephoneEvents.Load()
}

func (s *ReceiverServer) FeedbackSent() uint64 {
	return s.feedbackSent.Load()
}

func (s *ReceiverServer) onPacket(pkt *buffer.Packet, src net.Addr) {
	s.session.Admit(pkt, s.session.LocalTimestamp(pkt.Arrival), src)
}

func (s *ReceiverServer) sendFeedback(pkts []rtcp.Packet) {
	addr := s.session.RemoteAddr()
	if addr == nil {
		return
	}

	raw, err := rtcp.Marshal(pkts)
	if err != nil {
		s.logger.Warnw("could not marshal feedback", err)
		return
	}
	if _, err := s.udp.WriteTo(raw, addr); err != nil {
		s.logger.Debugw("could not send feedback", "error", err, "addr", addr.String())
		return
	}
	s.feedbackSent.Inc()
}

func (s *ReceiverServer) logEvent(ev types.Event) {
	switch ev := ev.(type) {
	case types.StunPacketReceived:
		s.logger.Debugw("stun packet received", "source", ev.Source, "size", ev.Packet.Len())
	case types.CongestionStateChanged:
		s.logger.Infow("congestion state changed", "detected", ev.Detected)
	case types.TimestampJump:
		s.logger.Infow("timestamp jump", "ts", ev.Timestamp)
	case types.SSRCChanged:
		s.logger.Infow("ssrc changed", "previous", ev.Previous, "current", ev.Current)
	}
}

// playoutWorker stands in for the application: it drains the queues at a fixed pace and
// periodically logs the report window.
func (s *ReceiverServer) playoutWorker() {
	defer s.done.Break()

	playoutTicker := time.NewTicker(playoutInterval)
	defer playoutTicker.Stop()

	statsTicker := time.NewTicker(config.StatsLogInterval)
	defer statsTicker.Stop()

	for {
		select {
		case <-playoutTicker.C:
			s.drain()

		case <-statsTicker.C:
			summary := s.session.ResetStatSummary()
			s.logger.Infow("receive stats",
				"session", s.session.Stats(),
				"summary", &summary,
				"delivered", s.delivered.Load(),
			)
			s.session.MarkReportSent()

		case <-s.stop.Watch():
			s.drain()
			return
		}
	}
}

func (s *ReceiverServer) drain() {
	for {
		if _, ok := s.session.ReadPacket(); !ok {
			break
		}
		s.delivered.Inc()
	}
	for {
		if _, ok := s.session.ReadTelephoneEvent(); !ok {
			break
		}
		s.telephoneEvents.Inc()
	}
}

func configureMiddlewares(handler http.Handler, middlewares ...negroni.Handler) *negroni.Negroni {
	n := negroni.New()
	for _, m := range middlewares {
		n.Use(m)
	}
	n.UseHandler(handler)
	return n
}
