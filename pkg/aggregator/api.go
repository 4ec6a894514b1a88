// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"github.com/DataDog/statsd-aggregator/pkg/metrics"
)

// Direct submission API: each method wraps AddSample with a fixed metric
// kind, for callers that produce samples in-process instead of over the
// wire.

// Gauge submits a gauge value.
func (a *Aggregator) Gauge(name string, value float64, hostname string, tags []string) error {
	return a.AddSample(&metrics.MetricSample{
		Name:  name,
		Value: value,
		Mtype: metrics.GaugeType,
		Host:  hostname,
		Tags:  tags,
	})
}

// BucketGauge submits a gauge whose flushed point is stamped with the flush
// timestamp.
func (a *Aggregator) BucketGauge(name string, value float64, hostname string, tags []string) error {
	return a.AddSample(&metrics.MetricSample{
		Name:  name,
		Value: value,
		Mtype: metrics.BucketGaugeType,
		Host:  hostname,
		Tags:  tags,
	})
}

// Count submits a count value.
func (a *Aggregator) Count(name string, value float64, hostname string, tags []string) error {
	return a.AddSample(&metrics.MetricSample{
		Name:  name,
		Value: value,
		Mtype: metrics.CountType,
		Host:  hostname,
		Tags:  tags,
	})
}

// MonotonicCount submits a raw reading of a monotonically increasing counter.
func (a *Aggregator) MonotonicCount(name string, value float64, hostname string, tags []string) error {
	return a.AddSample(&metrics.MetricSample{
		Name:  name,
		Value: value,
		Mtype: metrics.MonotonicCountType,
		Host:  hostname,
		Tags:  tags,
	})
}

// Increment submits a +1 counter sample.
func (a *Aggregator) Increment(name string, hostname string, tags []string) error {
	return a.AddSample(&metrics.MetricSample{
		Name:  name,
		Value: 1,
		Mtype: metrics.CounterType,
		Host:  hostname,
		Tags:  tags,
	})
}

// Decrement submits a -1 counter sample.
func (a *Aggregator) Decrement(name string, hostname string, tags []string) error {
	return a.AddSample(&metrics.MetricSample{
		Name:  name,
		Value: -1,
		Mtype: metrics.CounterType,
		Host:  hostname,
		Tags:  tags,
	})
}

// Rate submits a rate sample; the flushed value is the slope between the
// last two samples.
func (a *Aggregator) Rate(name string, value float64, hostname string, tags []string) error {
	return a.AddSample(&metrics.MetricSample{
		Name:  name,
		Value: value,
		Mtype: metrics.RateType,
		Host:  hostname,
		Tags:  tags,
	})
}

// Histogram submits a histogram sample.
func (a *Aggregator) Histogram(name string, value float64, hostname string, tags []string) error {
	return a.AddSample(&metrics.MetricSample{
		Name:  name,
		Value: value,
		Mtype: metrics.HistogramType,
		Host:  hostname,
		Tags:  tags,
	})
}

// Set submits a set member.
func (a *Aggregator) Set(name string, value string, hostname string, tags []string) error {
	return a.AddSample(&metrics.MetricSample{
		Name:     name,
		RawValue: value,
		Mtype:    metrics.SetType,
		Host:     hostname,
		Tags:     tags,
	})
}
