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
	"os"

	"github.com/google/wire"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/rtprx/pkg/config"
	"github.com/livekit/rtprx/pkg/events"
	"github.com/livekit/rtprx/pkg/jitter"
	"github.com/livekit/rtprx/pkg/receiver"
	"github.com/livekit/rtprx/pkg/telemetry/prometheus"
)

var ServiceSet = wire.NewSet(
	newLogger,
	receiver.NewCounters,
	newSessionParams,
	receiver.NewSession,
	events.NewDispatcher,
	newCollector,
	NewReceiverServer,
)

func newLogger() logger.Logger {
	return logger.GetLogger()
}

func newSessionParams(conf *config.Config, global *receiver.Counters, logger logger.Logger) receiver.SessionParams {
	rc := conf.Receiver

	profile := receiver.NewProfile(rc.ClockRate)
	for pt, clockRate := range rc.PayloadTypes {
		profile.SetClockRate(pt, clockRate)
	}
	for _, pt := range rc.TelephoneEventPayloadTypes {
		profile.SetTelephoneEvent(pt)
	}

	if rc.CongestionDetection || rc.BandwidthEstimation {
		logger.Infow("congestion detection and bandwidth estimation need a collaborator attached to the session")
	}

	return receiver.SessionParams{
		Profile:              profile,
		SSRCChangedThreshold: rc.SSRCChangedThreshold,
		TimestampJumpLimit:   rc.TimestampJumpLimit,
		SenderSSRC:           rc.SenderSSRC,
		Feedback: receiver.FeedbackParams{
			Enabled:       rc.Feedback.Enabled,
			GenericNack:   rc.Feedback.GenericNack,
			ImmediateNack: rc.Feedback.ImmediateNack,
		},
		CongestionDetectionEnabled: rc.CongestionDetection,
		BandwidthEstimationEnabled: rc.BandwidthEstimation,
		// a jump means the sender restarted its clock, start over instead of discarding everything
		ResyncOnTimestampJump: true,
		JitterController:      jitter.NewStaticController(rc.MaxPackets, logger),
		GlobalCounters:        global,
		Logger:                logger,
	}
}

func newCollector(global *receiver.Counters) *prometheus.Collector {
	nodeID, err := os.Hostname()
	if err != nil {
		nodeID = "unknown"
	}
	return prometheus.NewCollector(nodeID, global)
}
