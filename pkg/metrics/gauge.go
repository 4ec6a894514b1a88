// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package metrics

// Gauge tracks the latest value submitted for a context. If the sample
// carried its own timestamp the flushed point keeps it, otherwise the flush
// timestamp is used.
type Gauge struct {
	gauge     float64
	timestamp float64
	sampled   bool
}

func (g *Gauge) addSample(sample *MetricSample, timestamp float64) {
	g.gauge = sample.Value
	g.timestamp = sample.Timestamp
	g.sampled = true
}

func (g *Gauge) flush(timestamp float64) ([]*Serie, error) {
	value, ts, sampled := g.gauge, g.timestamp, g.sampled
	g.gauge, g.timestamp, g.sampled = 0, 0, false

	if !sampled {
		return []*Serie{}, NoSerieError{}
	}

	if ts == 0 {
		ts = timestamp
	}
	return []*Serie{
		{
			Points: []Point{{Ts: ts, Value: value}},
			MType:  APIGaugeType,
		},
	}, nil
}
