// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package metrics

// MetricType is the representation of an aggregator metric type
type MetricType int

// metric type constants enumeration
const (
	GaugeType MetricType = iota
	BucketGaugeType
	RateType
	CountType
	MonotonicCountType
	CounterType
	HistogramType
	SetType
	// NumMetricTypes is the number of metric types; must be the last
	// element of the enumeration
	NumMetricTypes
)

// String returns a string representation of MetricType
func (m MetricType) String() string {
	switch m {
	case GaugeType:
		return "Gauge"
	case BucketGaugeType:
		return "BucketGauge"
	case RateType:
		return "Rate"
	case CountType:
		return "Count"
	case MonotonicCountType:
		return "MonotonicCount"
	case CounterType:
		return "Counter"
	case HistogramType:
		return "Histogram"
	case SetType:
		return "Set"
	default:
		return ""
	}
}

// Metric is the interface of all metric state variants. addSample folds one
// sample into the accumulated state, flush converts the state into zero or
// more series and resets whatever is per-interval.
type Metric interface {
	addSample(sample *MetricSample, timestamp float64)
	flush(timestamp float64) ([]*Serie, error)
}

// NoSerieError is the error returned by a metric flush that has nothing to
// emit. It happens in nominal conditions and is never surfaced to callers of
// the aggregator.
type NoSerieError struct{}

func (e NoSerieError) Error() string {
	return "no serie to flush"
}
