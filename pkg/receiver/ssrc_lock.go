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

import "fmt"

type LockResult int

const (
	LockResultAccepted LockResult = iota
	LockResultLocked
	LockResultSwitched
	LockResultRejected
)

func (l LockResult) String() string {
	switch l {
	case LockResultAccepted:
		return "ACCEPTED"
	case LockResultLocked:
		return "LOCKED"
	case LockResultSwitched:
		return "SWITCHED"
	case LockResultRejected:
		return "REJECTED"
	default:
		return fmt.Sprintf("%d", int(l))
	}
}

// SSRCLock keeps a session on a single media source. A different source takes over only
// after it has been seen in threshold consecutive packets.
type SSRCLock struct {
	threshold int

	locked    bool
	ssrc      uint32
	candidate uint32
	count     int
}

func NewSSRCLock(threshold int) *SSRCLock {
	return &SSRCLock{threshold: threshold}
}

func (s *SSRCLock) SetThreshold(threshold int) {
	s.threshold = threshold
}

func (s *SSRCLock) Check(ssrc uint32) LockResult {
	if !s.locked {
		s.locked = true
		s.ssrc = ssrc
		return LockResultLocked
	}

	if ssrc == s.ssrc {
		s.count = 0
		return LockResultAccepted
	}

	if ssrc == s.candidate && s.count > 0 {
		s.count++
	} else {
		s.candidate = ssrc
		s.count = 1
	}

	if s.count < s.threshold {
		return LockResultRejected
	}

	s.ssrc = ssrc
	s.count = 0
	return LockResultSwitched
}

// SSRC returns the locked source, valid only when IsLocked.
func (s *SSRCLock) SSRC() uint32 {
	return s.ssrc
}

func (s *SSRCLock) IsLocked() bool {
	return s.locked
}

func (s *SSRCLock) Candidate() (uint32, int) {
	return s.candidate, s.count
}

func (s *SSRCLock) Reset() {
	s.locked = false
	s.ssrc = 0
	s.candidate = 0
	s.count = 0
}
