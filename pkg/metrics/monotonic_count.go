// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package metrics

import "math"

// MonotonicCount tracks a raw monotonically increasing counter and flushes
// the sum of its deltas. A decreasing reading is a counter reset: the
// transition contributes 0 instead of a negative delta.
type MonotonicCount struct {
	previous    float64
	hasPrevious bool
	value       float64
	sampled     bool
}

func (mc *MonotonicCount) addSample(sample *MetricSample, timestamp float64) {
	if mc.hasPrevious {
		mc.value += math.Max(0, sample.Value-mc.previous)
	}
	mc.previous = sample.Value
	mc.hasPrevious = true
	mc.sampled = true
}

func (mc *MonotonicCount) flush(timestamp float64) ([]*Serie, error) {
	value, sampled := mc.value, mc.sampled
	// the last raw reading survives the flush and becomes the reference
	// for the next interval's deltas
	mc.value, mc.sampled = 0, false

	if !sampled {
		return []*Serie{}, NoSerieError{}
	}

	return []*Serie{
		{
			Points: []Point{{Ts: timestamp, Value: value}},
			MType:  APICountType,
		},
	}, nil
}
