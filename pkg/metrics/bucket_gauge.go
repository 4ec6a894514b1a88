// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package metrics

// BucketGauge is a Gauge whose flushed point is always stamped with the
// flush (bucket) timestamp, never the sample's own. The bucketed sampler
// uses it so every point of an interval lands on the bucket boundary.
//
// Kept distinct from Gauge on purpose: downstream consumers rely on both
// timestamp policies.
type BucketGauge struct {
	Gauge
}

func (g *BucketGauge) flush(timestamp float64) ([]*Serie, error) {
	value, sampled := g.gauge, g.sampled
	g.gauge, g.timestamp, g.sampled = 0, 0, false

	if !sampled {
		return []*Serie{}, NoSerieError{}
	}

	return []*Serie{
		{
			Points: []Point{{Ts: timestamp, Value: value}},
			MType:  APIGaugeType,
		},
	}, nil
}
