// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package metrics

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/DataDog/statsd-aggregator/pkg/aggregator/ckey"
)

// HistogramConfig carries the aggregate/percentile configuration applied to
// every histogram created by one aggregator. Zero value means defaults.
type HistogramConfig struct {
	Aggregates  []string
	Percentiles []float64
}

// ContextMetrics stores all the metrics by context key
type ContextMetrics map[ckey.ContextKey]Metric

// MakeContextMetrics returns a new ContextMetrics
func MakeContextMetrics() ContextMetrics {
	return ContextMetrics(make(map[ckey.ContextKey]Metric))
}

// AddSample adds a sample to the current ContextMetrics, initializing a new
// metric state if the context is new. The metric kind is fixed by the first
// sample; kind mismatches are caught upstream by the context resolver.
func (m ContextMetrics) AddSample(contextKey ckey.ContextKey, sample *MetricSample, timestamp float64, interval int64, histogramCfg HistogramConfig) error {
	if math.IsInf(sample.Value, 0) || math.IsNaN(sample.Value) {
		return fmt.Errorf("sample with value '%v' is not supported", sample.Value)
	}
	if _, ok := m[contextKey]; !ok {
		switch sample.Mtype {
		case GaugeType:
			m[contextKey] = &Gauge{}
		case BucketGaugeType:
			m[contextKey] = &BucketGauge{}
		case RateType:
			m[contextKey] = &Rate{}
		case CountType:
			m[contextKey] = &Count{}
		case MonotonicCountType:
			m[contextKey] = &MonotonicCount{}
		case HistogramType:
			m[contextKey] = NewHistogram(interval, histogramCfg.Aggregates, histogramCfg.Percentiles)
		case SetType:
			m[contextKey] = NewSet()
		case CounterType:
			m[contextKey] = NewCounter(interval)
		default:
			return fmt.Errorf("unknown sample metric type: %v", sample.Mtype)
		}
	}
	m[contextKey].addSample(sample, timestamp)
	return nil
}

// Flush flushes every metric in the ContextMetrics. Flush errors of
// individual contexts are combined into the returned error; NoSerieError is
// a nominal condition and never reported.
func (m ContextMetrics) Flush(timestamp float64) ([]*Serie, error) {
	var series []*Serie
	var errs error

	for contextKey, metric := range m {
		metricSeries, err := metric.flush(timestamp)
		if err != nil {
			if _, ok := err.(NoSerieError); !ok {
				errs = multierror.Append(errs, errors.Wrapf(err, "context %x", uint64(contextKey)))
			}
			continue
		}
		for _, serie := range metricSeries {
			serie.ContextKey = contextKey
			series = append(series, serie)
		}
	}

	return series, errs
}
