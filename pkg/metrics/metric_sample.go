// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package metrics

// MetricSample represents a raw metric sample. Timestamp is the optional
// explicit timestamp carried by the sample; 0 means "not set" and the
// aggregator will use its own clock.
type MetricSample struct {
	Name       string
	Value      float64
	RawValue   string // verbatim value, used by Set metrics
	Mtype      MetricType
	Tags       []string
	Host       string
	Device     string
	SampleRate float64
	Timestamp  float64
}

// Copy returns a deep copy of the metricSample
func (m *MetricSample) Copy() *MetricSample {
	dst := &MetricSample{}
	*dst = *m
	dst.Tags = make([]string, len(m.Tags))
	copy(dst.Tags, m.Tags)
	return dst
}
