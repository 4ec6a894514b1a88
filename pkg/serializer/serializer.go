// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package serializer renders flushed series, events and service checks into
// the JSON payloads handed to the forwarder.
package serializer

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/DataDog/statsd-aggregator/pkg/metrics"
	"github.com/DataDog/statsd-aggregator/pkg/metrics/servicecheck"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Forwarder is the transport boundary: it receives marshaled payloads and is
// responsible for everything past this process.
type Forwarder interface {
	SubmitSeries(payload []byte) error
	SubmitEvents(payload []byte) error
	SubmitServiceChecks(payload []byte) error
}

// Serializer marshals flush output and pushes it through the forwarder,
// optionally dot-prefixing every metric name with a namespace.
type Serializer struct {
	forwarder Forwarder
	namespace string
}

// NewSerializer returns a serializer writing to the given forwarder. An empty
// namespace leaves metric names untouched.
func NewSerializer(forwarder Forwarder, namespace string) *Serializer {
	return &Serializer{forwarder: forwarder, namespace: namespace}
}

type seriesPayload struct {
	Series []*metrics.Serie `json:"series"`
}

type eventsPayload struct {
	Events metrics.Events `json:"events"`
}

type serviceChecksPayload struct {
	ServiceChecks servicecheck.ServiceChecks `json:"service_checks"`
}

// SendSeries marshals and submits a series batch. Empty batches are skipped.
func (s *Serializer) SendSeries(series []*metrics.Serie) error {
	if len(series) == 0 {
		return nil
	}
	if s.namespace != "" {
		for _, serie := range series {
			serie.Name = s.namespace + "." + serie.Name
		}
	}
	payload, err := json.Marshal(seriesPayload{Series: series})
	if err != nil {
		return errors.Wrap(err, "could not serialize series")
	}
	return s.forwarder.SubmitSeries(payload)
}

// SendEvents marshals and submits an event batch.
func (s *Serializer) SendEvents(events metrics.Events) error {
	if len(events) == 0 {
		return nil
	}
	payload, err := json.Marshal(eventsPayload{Events: events})
	if err != nil {
		return errors.Wrap(err, "could not serialize events")
	}
	return s.forwarder.SubmitEvents(payload)
}

// SendServiceChecks marshals and submits a service check batch.
func (s *Serializer) SendServiceChecks(serviceChecks servicecheck.ServiceChecks) error {
	if len(serviceChecks) == 0 {
		return nil
	}
	payload, err := json.Marshal(serviceChecksPayload{ServiceChecks: serviceChecks})
	if err != nil {
		return errors.Wrap(err, "could not serialize service checks")
	}
	return s.forwarder.SubmitServiceChecks(payload)
}
