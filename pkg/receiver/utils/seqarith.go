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

// Comparisons in circular space. They hold as long as the true distance between the
// two values stays under half of the field range.

// IsSeqStrictlyGreater reports whether sequence number a is ahead of b.
func IsSeqStrictlyGreater(a, b uint16) bool {
	return a != b && a-b < 1<<15
}

// IsTSNewer reports whether timestamp a is the same as or ahead of b.
func IsTSNewer(a, b uint32) bool {
	return a-b < 1<<31
}

// IsTSStrictlyNewer reports whether timestamp a is ahead of b.
func IsTSStrictlyNewer(a, b uint32) bool {
	return a != b && IsTSNewer(a, b)
}
