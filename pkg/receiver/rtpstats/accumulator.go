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

package rtpstats

import (
	"math"

	"go.uber.org/zap/zapcore"
)

type sample interface {
	uint8 | uint32
}

// RunningStat keeps single pass mean, variance and bounds over a window of samples.
type RunningStat[T sample] struct {
	count uint32
	mean  float64
	m2    float64 // sum of squared deviations from the mean
	min   T
	max   T
}

// Add folds in a sample. The first sample of a window reinitializes the recurrence and bounds.
func (r *RunningStat[T]) Add(x T) {
	r.count++
	v := float64(x)
	if r.count == 1 {
		r.mean = v
		r.m2 = 0
		r.ResetBounds()
	} else {
		delta := v - r.mean
		r.mean += delta / float64(r.count)
		r.m2 += delta * (v - r.mean)
	}

	if x < r.min {
		r.min = x
	}
	if x > r.max {
		r.max = x
	}
}

// ResetBounds sets min/max to the sentinels so that the next sample becomes both.
func (r *RunningStat[T]) ResetBounds() {
	r.min = maxOf[T]()
	r.max = 0
}

func (r *RunningStat[T]) Reset() {
	r.count = 0
	r.mean = 0
	r.m2 = 0
	r.ResetBounds()
}

func (r *RunningStat[T]) Count() uint32 {
	return r.count
}

func (r *RunningStat[T]) Mean() float64 {
	return r.mean
}

// Variance is the population variance of the samples in the window.
func (r *RunningStat[T]) Variance() float64 {
	if r.count == 0 {
		return 0
	}
	return r.m2 / float64(r.count)
}

func (r *RunningStat[T]) StdDev() float64 {
	return math.Sqrt(r.Variance())
}

func (r *RunningStat[T]) Min() T {
	return r.min
}

func (r *RunningStat[T]) Max() T {
	return r.max
}

func (r *RunningStat[T]) MarshalLogObject(e zapcore.ObjectEncoder) error {
	if r == nil {
		return nil
	}

	e.AddUint32("count", r.count)
	e.AddFloat64("mean", r.mean)
	e.AddFloat64("variance", r.Variance())
	e.AddUint64("min", uint64(r.min))
	e.AddUint64("max", uint64(r.max))
	return nil
}

func maxOf[T sample]() T {
	var t T
	return ^t
}
