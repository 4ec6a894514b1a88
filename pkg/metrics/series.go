// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package metrics

import (
	"encoding/json"
	"fmt"

	"github.com/DataDog/statsd-aggregator/pkg/aggregator/ckey"
)

// APIMetricType represents a metric type from the API side
type APIMetricType int

// Enumeration of the existing API metric types
const (
	APIGaugeType APIMetricType = iota
	APIRateType
	APICountType
)

// String returns a string representation of APIMetricType
func (a APIMetricType) String() string {
	switch a {
	case APIGaugeType:
		return "gauge"
	case APIRateType:
		return "rate"
	case APICountType:
		return "count"
	default:
		return ""
	}
}

// MarshalJSON serializes the APIMetricType to its lowercase string form.
func (a APIMetricType) MarshalJSON() ([]byte, error) {
	str := a.String()
	if str == "" {
		return nil, fmt.Errorf("can't marshal unknown metric type %d", a)
	}
	return []byte(`"` + str + `"`), nil
}

// Point represents a metric value at a specific time
type Point struct {
	Ts    float64
	Value float64
}

// MarshalJSON renders a Point as a [timestamp, value] pair, the shape
// consumed by the intake API.
func (p Point) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("[%v, %v]", int64(p.Ts), p.Value)), nil
}

// Serie holds a timeseries (w/ json serialization to the intake format)
type Serie struct {
	Name       string          `json:"metric"`
	Points     []Point         `json:"points"`
	Tags       []string        `json:"tags"`
	Host       string          `json:"host"`
	Device     string          `json:"device_name"`
	MType      APIMetricType   `json:"type"`
	Interval   int64           `json:"interval"`
	ContextKey ckey.ContextKey `json:"-"`
	NameSuffix string          `json:"-"`
}

// MarshalJSON renders empty host and device as null: the intake format has
// no notion of an empty hostname or device, only an absent one.
func (s Serie) MarshalJSON() ([]byte, error) {
	type serieAlias Serie
	aux := struct {
		serieAlias
		Host   *string `json:"host"`
		Device *string `json:"device_name"`
	}{serieAlias: serieAlias(s)}
	if s.Host != "" {
		aux.Host = &s.Host
	}
	if s.Device != "" {
		aux.Device = &s.Device
	}
	return json.Marshal(aux)
}

// Series represents a list of Serie ready to be serialized
type Series []*Serie
