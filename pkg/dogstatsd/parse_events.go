// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dogstatsd

import (
	"strconv"
	"strings"

	"github.com/DataDog/statsd-aggregator/pkg/metrics"
)

// eventPrefix marks an event line: _e{<title length>,<text length>}:
const eventPrefix = "_e{"

// parseEventMessage parses an event line:
//
//	_e{10,9}:test title|test text|d:21|h:localhost|p:normal|t:warning|#tag1,tag2:val
func parseEventMessage(message []byte) (*metrics.Event, error) {
	msg := string(message)

	if !strings.HasPrefix(msg, eventPrefix) {
		return nil, ParseError{msg, "invalid event header"}
	}
	headerEnd := strings.Index(msg, "}:")
	if headerEnd == -1 {
		return nil, ParseError{msg, "invalid event header"}
	}

	lengths := strings.Split(msg[len(eventPrefix):headerEnd], ",")
	if len(lengths) != 2 {
		return nil, ParseError{msg, "invalid event header"}
	}
	titleLen, titleErr := strconv.Atoi(lengths[0])
	textLen, textErr := strconv.Atoi(lengths[1])
	if titleErr != nil || textErr != nil || titleLen < 0 || textLen < 0 {
		return nil, ParseError{msg, "invalid event lengths"}
	}

	payload := msg[headerEnd+2:]
	if len(payload) < titleLen+1+textLen || titleLen == 0 {
		return nil, ParseError{msg, "event payload shorter than declared lengths"}
	}
	if payload[titleLen] != '|' {
		return nil, ParseError{msg, "malformed event payload"}
	}

	event := &metrics.Event{
		Title:     unescapeNewlines(payload[:titleLen]),
		Text:      unescapeNewlines(payload[titleLen+1 : titleLen+1+textLen]),
		Priority:  metrics.EventPriorityNormal,
		AlertType: metrics.EventAlertTypeInfo,
	}

	for _, field := range strings.Split(payload[titleLen+1+textLen:], "|") {
		var err error
		switch {
		case field == "":
		case strings.HasPrefix(field, "d:"):
			var ts int64
			ts, err = strconv.ParseInt(field[2:], 10, 64)
			event.Ts = ts
		case strings.HasPrefix(field, "h:"):
			event.Host = field[2:]
		case strings.HasPrefix(field, "k:"):
			event.AggregationKey = field[2:]
		case strings.HasPrefix(field, "p:"):
			event.Priority, err = metrics.GetEventPriorityFromString(field[2:])
		case strings.HasPrefix(field, "s:"):
			event.SourceTypeName = field[2:]
		case strings.HasPrefix(field, "t:"):
			event.AlertType, err = metrics.GetAlertTypeFromString(field[2:])
		case strings.HasPrefix(field, "#"):
			event.Tags = parseTagField(field[1:])
		default:
			// unknown metadata fields are skipped
		}
		if err != nil {
			return nil, ParseError{msg, err.Error()}
		}
	}

	return event, nil
}

func parseTagField(tagField string) []string {
	var tags []string
	for _, tag := range strings.Split(tagField, ",") {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func unescapeNewlines(text string) string {
	return strings.ReplaceAll(text, "\\n", "\n")
}
