// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dogstatsd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DataDog/statsd-aggregator/pkg/dogstatsd/packets"
	"github.com/DataDog/statsd-aggregator/pkg/metrics"
	"github.com/DataDog/statsd-aggregator/pkg/metrics/servicecheck"
)

type recordingSampler struct {
	samples       []*metrics.MetricSample
	events        []*metrics.Event
	serviceChecks []*servicecheck.ServiceCheck
}

func (r *recordingSampler) AddSample(sample *metrics.MetricSample) error {
	r.samples = append(r.samples, sample)
	return nil
}

func (r *recordingSampler) Event(e *metrics.Event) {
	r.events = append(r.events, e)
}

func (r *recordingSampler) ServiceCheck(sc *servicecheck.ServiceCheck) {
	r.serviceChecks = append(r.serviceChecks, sc)
}

func TestServerDispatch(t *testing.T) {
	sampler := &recordingSampler{}
	server := NewServer(make(chan *packets.Packet), sampler)

	server.handlePacket(&packets.Packet{Contents: []byte(
		"daemon:666|g\n" +
			"_e{10,9}:test title|test text\n" +
			"_sc|agent.up|0\n" +
			"my.counter:1:2|c",
	)})

	assert.Len(t, sampler.samples, 3)
	assert.Equal(t, "daemon", sampler.samples[0].Name)
	assert.Equal(t, "my.counter", sampler.samples[1].Name)

	assert.Len(t, sampler.events, 1)
	assert.Equal(t, "test title", sampler.events[0].Title)

	assert.Len(t, sampler.serviceChecks, 1)
	assert.Equal(t, "agent.up", sampler.serviceChecks[0].CheckName)
}

func TestServerSkipsMalformedLines(t *testing.T) {
	sampler := &recordingSampler{}
	server := NewServer(make(chan *packets.Packet), sampler)

	server.handlePacket(&packets.Packet{Contents: []byte(
		"not a metric\n" +
			"_e{bad\n" +
			"_sc|only.name\n" +
			"\n" +
			"daemon:666|g",
	)})

	// good lines still go through
	assert.Len(t, sampler.samples, 1)
	assert.Equal(t, "daemon", sampler.samples[0].Name)
	assert.Empty(t, sampler.events)
	assert.Empty(t, sampler.serviceChecks)
}

func TestServerStartStop(t *testing.T) {
	sampler := &recordingSampler{}
	packetIn := make(chan *packets.Packet, 1)
	server := NewServer(packetIn, sampler)
	server.Start()

	packetIn <- &packets.Packet{Contents: []byte("daemon:666|g")}
	server.Stop()
}
