// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dogstatsd

import (
	"strconv"
	"strings"

	"github.com/DataDog/statsd-aggregator/pkg/metrics/servicecheck"
)

// serviceCheckPrefix marks a service check line
const serviceCheckPrefix = "_sc"

// parseServiceCheckMessage parses a service check line:
//
//	_sc|agent.up|0|d:21|h:localhost|#tag1:test,tag2|m:this is fine
func parseServiceCheckMessage(message []byte) (*servicecheck.ServiceCheck, error) {
	msg := string(message)

	fields := strings.Split(msg, "|")
	if len(fields) < 3 || fields[0] != serviceCheckPrefix {
		return nil, ParseError{msg, "invalid service check fields"}
	}
	if fields[1] == "" {
		return nil, ParseError{msg, "empty service check name"}
	}

	statusValue, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, ParseError{msg, "invalid service check status"}
	}
	status, err := servicecheck.GetServiceCheckStatus(statusValue)
	if err != nil {
		return nil, ParseError{msg, err.Error()}
	}

	sc := &servicecheck.ServiceCheck{
		CheckName: fields[1],
		Status:    status,
	}

	for _, field := range fields[3:] {
		switch {
		case field == "":
		case strings.HasPrefix(field, "d:"):
			ts, err := strconv.ParseInt(field[2:], 10, 64)
			if err != nil {
				return nil, ParseError{msg, "invalid service check timestamp"}
			}
			sc.Ts = ts
		case strings.HasPrefix(field, "h:"):
			sc.Host = field[2:]
		case strings.HasPrefix(field, "#"):
			sc.Tags = parseTagField(field[1:])
		case strings.HasPrefix(field, "m:"):
			sc.Message = unescapeNewlines(field[2:])
		default:
			// unknown metadata fields are skipped
		}
	}

	return sc, nil
}
