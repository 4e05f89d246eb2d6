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

package utils

import (
	"github.com/livekit/protocol/logger"
)

// SampledLogger thins out a message that may repeat for every packet. With base 5 it logs
// occurrences 1 to 5, then 10, 15, 20, 25, then 50, 75, ... and so on.
type SampledLogger struct {
	lgr  logger.Logger
	base uint64

	occurrences uint64
	step        uint64
}

func NewSampledLogger(lgr logger.Logger, base int) *SampledLogger {
	if base < 2 {
		base = 2
	}
	return &SampledLogger{
		lgr:  lgr,
		base: uint64(base),
		step: 1,
	}
}

func (s *SampledLogger) SetLogger(lgr logger.Logger) {
	s.lgr = lgr
}

func (s *SampledLogger) Occurrences() uint64 {
	return s.occurrences
}

func (s *SampledLogger) Debugw(msg string, keysAndValues ...any) {
	if s.sample() {
		s.lgr.Debugw(msg, append(keysAndValues, "occurrences", s.occurrences)...)
	}
}

func (s *SampledLogger) Warnw(msg string, err error, keysAndValues ...any) {
	if s.sample() {
		s.lgr.Warnw(msg, err, append(keysAndValues, "occurrences", s.occurrences)...)
	}
}

func (s *SampledLogger) Errorw(msg string, err error, keysAndValues ...any) {
	if s.sample() {
		s.lgr.Errorw(msg, err, append(keysAndValues, "occurrences", s.occurrences)...)
	}
}

func (s *SampledLogger) sample() bool {
	s.occurrences++
	if s.occurrences == s.step*s.base {
		s.step *= s.base
	}
	return s.occurrences%s.step == 0
}
