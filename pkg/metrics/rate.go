// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package metrics

import (
	"fmt"

	"github.com/DataDog/statsd-aggregator/pkg/util/log"
)

// Rate computes the slope between the last two (timestamp, value) pairs
// recorded for a context. The most recent pair survives the flush so the
// next interval's first sample has a reference point.
type Rate struct {
	previousTimestamp float64
	previousValue     float64
	hasPrevious       bool
	timestamp         float64
	value             float64
	sampled           bool
}

func (r *Rate) addSample(sample *MetricSample, timestamp float64) {
	if r.sampled {
		r.previousTimestamp, r.previousValue = r.timestamp, r.value
		r.hasPrevious = true
	}
	r.timestamp, r.value = timestamp, sample.Value
	r.sampled = true
}

func (r *Rate) flush(timestamp float64) ([]*Serie, error) {
	if !r.hasPrevious {
		return []*Serie{}, NoSerieError{}
	}

	deltaTime := r.timestamp - r.previousTimestamp
	deltaValue := r.value - r.previousValue
	r.hasPrevious = false

	if deltaTime == 0 {
		return []*Serie{}, fmt.Errorf("rate sampled twice at the same timestamp %v", r.timestamp)
	}
	if deltaValue < 0 {
		// the underlying counter was reset, skip this point
		log.Infof("rate went down between two samples, assuming counter reset")
		return []*Serie{}, NoSerieError{}
	}

	return []*Serie{
		{
			Points: []Point{{Ts: r.timestamp, Value: deltaValue / deltaTime}},
			MType:  APIGaugeType,
		},
	}, nil
}
