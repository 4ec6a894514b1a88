// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package dogstatsd implements the line-oriented statsd wire protocol:
// metric samples, events and service checks.
package dogstatsd

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/DataDog/statsd-aggregator/pkg/metrics"
)

// ParseError is returned for any wire line that can't be turned into a
// sample, event or service check. It is never fatal: callers skip the line,
// count it and move on.
type ParseError struct {
	Message string
	Reason  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("unparseable message %q: %s", e.Message, e.Reason)
}

// reserved tags redirected to the sample's host/device fields
const (
	hostTagPrefix   = "host:"
	deviceTagPrefix = "device:"
)

// metricTypes maps wire type codes to metric kinds. The mapping is closed:
// any other code is a parse error.
var metricTypes = map[string]metrics.MetricType{
	"g":  metrics.GaugeType,
	"c":  metrics.CounterType,
	"h":  metrics.HistogramType,
	"ms": metrics.HistogramType,
	"s":  metrics.SetType,
	"ct": metrics.CountType,
	"mc": metrics.MonotonicCountType,
	"r":  metrics.RateType,
}

// nextMessage pops the first newline-separated message off the packet.
func nextMessage(packet *[]byte) []byte {
	if len(*packet) == 0 {
		return nil
	}
	advance := bytes.IndexByte(*packet, '\n')
	var message []byte
	if advance == -1 {
		message = *packet
		*packet = nil
	} else {
		message = (*packet)[:advance]
		*packet = (*packet)[advance+1:]
	}
	return bytes.TrimSuffix(message, []byte("\r"))
}

// parseMetricMessage parses one metric line into samples. A line holds one
// or more value groups: packed values share the trailing metadata
// ("name:1:2:3|c"), and a line can also carry several independently typed
// groups. Colons inside tag values are put back together before the groups
// are split out.
func parseMetricMessage(message []byte) ([]*metrics.MetricSample, error) {
	msg := string(message)

	sepIdx := strings.IndexByte(msg, ':')
	if sepIdx == -1 {
		return nil, ParseError{msg, "no name separator"}
	}
	name := msg[:sepIdx]
	if name == "" {
		return nil, ParseError{msg, "empty metric name"}
	}

	groups := splitValueGroups(msg[sepIdx+1:])

	var samples []*metrics.MetricSample
	var pending []string
	for _, group := range groups {
		if !strings.ContainsRune(group, '|') {
			// packed value: it shares the metadata of the group
			// that terminates the run
			pending = append(pending, group)
			continue
		}
		groupSamples, err := parseValueGroup(msg, name, append(pending, ""), group)
		if err != nil {
			return nil, err
		}
		pending = nil
		samples = append(samples, groupSamples...)
	}
	if len(pending) > 0 {
		return nil, ParseError{msg, "value group without metric type"}
	}
	if len(samples) == 0 {
		return nil, ParseError{msg, "no value"}
	}
	return samples, nil
}

// splitValueGroups re-splits the post-name remainder on colons, reassembling
// fragments that came from a colon-bearing tag list: a fragment without a
// '|' following a fragment that already has its metadata belongs to that
// previous group.
func splitValueGroups(remainder string) []string {
	fragments := strings.Split(remainder, ":")
	groups := fragments[:1]
	for _, fragment := range fragments[1:] {
		if strings.ContainsRune(groups[len(groups)-1], '|') && !strings.ContainsRune(fragment, '|') {
			groups[len(groups)-1] += ":" + fragment
		} else {
			groups = append(groups, fragment)
		}
	}
	return groups
}

// parseValueGroup parses one "value|type|meta..." group. values carries the
// packed values preceding the group, with the last slot reserved for the
// group's own value.
func parseValueGroup(msg, name string, values []string, group string) ([]*metrics.MetricSample, error) {
	fields := strings.Split(group, "|")
	values[len(values)-1] = fields[0]

	if len(fields) < 2 || fields[1] == "" {
		return nil, ParseError{msg, "missing metric type"}
	}
	mtype, ok := metricTypes[fields[1]]
	if !ok {
		return nil, ParseError{msg, fmt.Sprintf("unknown metric type %q", fields[1])}
	}

	sampleRate := 1.0
	var tags []string
	var host, device string
	for _, field := range fields[2:] {
		switch {
		case strings.HasPrefix(field, "@"):
			rate, err := strconv.ParseFloat(field[1:], 64)
			if err != nil {
				return nil, ParseError{msg, "invalid sample rate"}
			}
			sampleRate = rate
		case strings.HasPrefix(field, "#"):
			for _, tag := range strings.Split(field[1:], ",") {
				switch {
				case tag == "":
				case strings.HasPrefix(tag, hostTagPrefix):
					host = tag[len(hostTagPrefix):]
				case strings.HasPrefix(tag, deviceTagPrefix):
					device = tag[len(deviceTagPrefix):]
				default:
					tags = append(tags, tag)
				}
			}
		default:
			// unknown metadata fields are skipped, not errors
		}
	}

	samples := make([]*metrics.MetricSample, 0, len(values))
	for _, rawValue := range values {
		if rawValue == "" {
			return nil, ParseError{msg, "empty value"}
		}
		sample := &metrics.MetricSample{
			Name:       name,
			Mtype:      mtype,
			Tags:       tags,
			Host:       host,
			Device:     device,
			SampleRate: sampleRate,
		}
		if mtype == metrics.SetType {
			sample.RawValue = rawValue
		} else {
			value, err := parseMetricValue(rawValue)
			if err != nil {
				return nil, ParseError{msg, "invalid value"}
			}
			sample.Value = value
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// parseMetricValue coerces a raw value, integer parse first then float, the
// historical order.
func parseMetricValue(rawValue string) (float64, error) {
	if i, err := strconv.ParseInt(rawValue, 10, 64); err == nil {
		return float64(i), nil
	}
	return strconv.ParseFloat(rawValue, 64)
}
