// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package metrics

// Set tracks the number of unique values submitted over one flush period.
// Values are compared as raw strings, so "1" and "1.0" are distinct members.
type Set struct {
	values map[string]bool
}

// NewSet returns a newly initialized Set
func NewSet() *Set {
	return &Set{values: map[string]bool{}}
}

func (s *Set) addSample(sample *MetricSample, timestamp float64) {
	s.values[sample.RawValue] = true
}

func (s *Set) flush(timestamp float64) ([]*Serie, error) {
	if len(s.values) == 0 {
		return []*Serie{}, NoSerieError{}
	}

	cardinality := float64(len(s.values))
	s.values = map[string]bool{}

	return []*Serie{
		{
			Points: []Point{{Ts: timestamp, Value: cardinality}},
			MType:  APIGaugeType,
		},
	}, nil
}
