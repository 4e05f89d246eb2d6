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

const (
	// a wrap is only accepted when the new number is this close to zero and the
	// previous highest is this close to the top, reordering near the edge is not a wrap
	wrapGuardBand = 200
	seqRange      = 1 << 16
)

// ExtendedSeq extends 16-bit sequence numbers with a wrap count.
// The high half counts wraps, the low half holds the highest raw sequence number seen.
type ExtendedSeq struct {
	cycles  uint16
	highest uint16
}

// Update folds in a raw sequence number and reports whether a wrap was detected.
func (e *ExtendedSeq) Update(sn uint16) (wrapped bool) {
	switch {
	case sn > e.highest:
		e.highest = sn
	case sn < wrapGuardBand && int(e.highest) > seqRange-wrapGuardBand:
		e.highest = sn
		e.cycles++
		wrapped = true
	}
	return
}

func (e *ExtendedSeq) Cycles() uint16 {
	return e.cycles
}

func (e *ExtendedSeq) Highest() uint16 {
	return e.highest
}

func (e *ExtendedSeq) Value() uint32 {
	return uint32(e.cycles)<<16 | uint32(e.highest)
}

func (e *ExtendedSeq) Reset() {
	e.cycles = 0
	e.highest = 0
}
