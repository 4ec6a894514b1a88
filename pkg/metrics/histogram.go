// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/DataDog/statsd-aggregator/pkg/util/log"
)

// DefaultHistogramAggregates is the aggregate set used when none is
// configured.
var DefaultHistogramAggregates = []string{"max", "median", "avg", "count"}

// DefaultHistogramPercentiles is the percentile set used when none is
// configured.
var DefaultHistogramPercentiles = []float64{0.95}

// Histogram tracks the distribution of samples added over one flush period.
// Which aggregates and percentiles get emitted is fixed at construction and
// shared by every histogram of one aggregator.
type Histogram struct {
	aggregates  []string
	percentiles []float64
	samples     []float64
	count       int64
	interval    int64
}

// NewHistogram returns a newly initialized histogram
func NewHistogram(interval int64, aggregates []string, percentiles []float64) *Histogram {
	if aggregates == nil {
		aggregates = DefaultHistogramAggregates
	}
	if percentiles == nil {
		percentiles = DefaultHistogramPercentiles
	}
	return &Histogram{
		aggregates:  aggregates,
		percentiles: percentiles,
		interval:    interval,
	}
}

func (h *Histogram) addSample(sample *MetricSample, timestamp float64) {
	h.samples = append(h.samples, sample.Value)
	h.count += int64(math.Round(1 / sample.SampleRate))
}

func sum(samples []float64) float64 {
	total := 0.
	for _, sample := range samples {
		total += sample
	}
	return total
}

// medianIndex mirrors the historical behavior: round(n/2 - 1), half away
// from zero, clamped to the first sample for tiny buffers.
func medianIndex(n int) int {
	idx := int(math.Round(float64(n)/2 - 1))
	if idx < 0 {
		idx = 0
	}
	return idx
}

// percentileIndex is trunc(p*n - 1), clamped to the buffer bounds. The small
// epsilon absorbs float artifacts like 0.95*20 != 19.
func percentileIndex(p float64, n int) int {
	idx := int(math.Floor(p*float64(n) - 1 + 1e-9))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// percentileSuffix renders a percentile into its metric name fragment.
// The percentile is truncated to two decimal digits: 0.95 -> "95percentile".
func percentileSuffix(p float64) string {
	return fmt.Sprintf("%dpercentile", int(p*100+1e-9))
}

func (h *Histogram) flush(timestamp float64) ([]*Serie, error) {
	samples, count := h.samples, h.count
	h.samples, h.count = nil, 0

	if len(samples) == 0 {
		return []*Serie{}, NoSerieError{}
	}

	sort.Float64s(samples)
	n := len(samples)

	series := make([]*Serie, 0, len(h.aggregates)+len(h.percentiles))
	for _, aggregate := range h.aggregates {
		var value float64
		mType := APIGaugeType
		switch aggregate {
		case "min":
			value = samples[0]
		case "max":
			value = samples[n-1]
		case "median":
			value = samples[medianIndex(n)]
		case "avg":
			value = sum(samples) / float64(n)
		case "sum":
			value = sum(samples)
		case "count":
			value = float64(count) / float64(h.interval)
			mType = APIRateType
		default:
			// config validation catches these, but the sampler options
			// can be built directly
			log.Debugf("skipping unknown histogram aggregate: %s", aggregate)
			continue
		}
		series = append(series, &Serie{
			Points:     []Point{{Ts: timestamp, Value: value}},
			MType:      mType,
			NameSuffix: "." + aggregate,
		})
	}

	for _, percentile := range h.percentiles {
		series = append(series, &Serie{
			Points:     []Point{{Ts: timestamp, Value: samples[percentileIndex(percentile, n)]}},
			MType:      APIGaugeType,
			NameSuffix: "." + percentileSuffix(percentile),
		})
	}

	return series, nil
}
