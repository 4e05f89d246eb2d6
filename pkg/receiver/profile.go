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

// Profile maps payload types to their clock rate and marks the ones carrying telephone events.
type Profile struct {
	defaultClockRate uint32
	clockRates       map[uint8]uint32
	telephoneEvents  map[uint8]struct{}
}

func NewProfile(defaultClockRate uint32) *Profile {
	return &Profile{
		defaultClockRate: defaultClockRate,
		clockRates:       make(map[uint8]uint32),
		telephoneEvents:  make(map[uint8]struct{}),
	}
}

func (p *Profile) SetClockRate(payloadType uint8, clockRate uint32) {
	p.clockRates[payloadType] = clockRate
}

func (p *Profile) SetTelephoneEvent(payloadType uint8) {
	p.telephoneEvents[payloadType] = struct{}{}
}

func (p *Profile) IsTelephoneEvent(payloadType uint8) bool {
	_, ok := p.telephoneEvents[payloadType]
	return ok
}

func (p *Profile) ClockRate(payloadType uint8) uint32 {
	if clockRate, ok := p.clockRates[payloadType]; ok {
		return clockRate
	}
	return p.defaultClockRate
}

func (p *Profile) DefaultClockRate() uint32 {
	return p.defaultClockRate
}
