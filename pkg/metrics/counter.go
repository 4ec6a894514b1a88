// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package metrics

import "math"

// Counter tracks how many times something happened per second. Contrary to
// Count it is sent as a Rate, and it keeps flushing a 0 value while idle so
// its series shows zeroes instead of gaps until the context expires.
type Counter struct {
	value    float64
	interval int64
}

// NewCounter returns a newly initialized Counter
func NewCounter(interval int64) *Counter {
	return &Counter{interval: interval}
}

func (c *Counter) addSample(sample *MetricSample, timestamp float64) {
	c.value += sample.Value * math.Round(1/sample.SampleRate)
}

func (c *Counter) flush(timestamp float64) ([]*Serie, error) {
	value := c.value
	c.value = 0

	return []*Serie{
		{
			Points: []Point{{Ts: timestamp, Value: value / float64(c.interval)}},
			MType:  APIRateType,
		},
	}, nil
}
