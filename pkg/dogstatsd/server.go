// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dogstatsd

import (
	"expvar"
	"strings"

	"github.com/DataDog/statsd-aggregator/pkg/dogstatsd/packets"
	"github.com/DataDog/statsd-aggregator/pkg/metrics"
	"github.com/DataDog/statsd-aggregator/pkg/metrics/servicecheck"
	"github.com/DataDog/statsd-aggregator/pkg/util/log"
)

var (
	dogstatsdExpvars           = expvar.NewMap("dogstatsd")
	dogstatsdMetricSamples     = expvar.Int{}
	dogstatsdMetricParseErrors = expvar.Int{}
	dogstatsdEventParseErrors  = expvar.Int{}
	dogstatsdEvents            = expvar.Int{}
	dogstatsdScParseErrors     = expvar.Int{}
	dogstatsdServiceChecks     = expvar.Int{}
)

func init() {
	dogstatsdExpvars.Set("MetricSamples", &dogstatsdMetricSamples)
	dogstatsdExpvars.Set("MetricParseErrors", &dogstatsdMetricParseErrors)
	dogstatsdExpvars.Set("EventParseErrors", &dogstatsdEventParseErrors)
	dogstatsdExpvars.Set("Events", &dogstatsdEvents)
	dogstatsdExpvars.Set("ServiceCheckParseErrors", &dogstatsdScParseErrors)
	dogstatsdExpvars.Set("ServiceChecks", &dogstatsdServiceChecks)
}

// Sampler is the downstream consumer of parsed traffic. Both sampler
// variants of the aggregator package implement it.
type Sampler interface {
	AddSample(sample *metrics.MetricSample) error
	Event(e *metrics.Event)
	ServiceCheck(sc *servicecheck.ServiceCheck)
}

// Server parses packets off the packet channel and feeds the sampler. A
// malformed line never takes the server down: it is logged, counted and
// skipped.
type Server struct {
	packetIn chan *packets.Packet
	sampler  Sampler
	stop     chan struct{}
	done     chan struct{}
}

// NewServer returns a server consuming from packetIn into sampler.
func NewServer(packetIn chan *packets.Packet, sampler Sampler) *Server {
	return &Server{
		packetIn: packetIn,
		sampler:  sampler,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the worker goroutine.
func (s *Server) Start() {
	go s.worker()
}

// Stop terminates the worker. Packets already queued are dropped.
func (s *Server) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Server) worker() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case packet := <-s.packetIn:
			s.handlePacket(packet)
			packet.Release()
		}
	}
}

func (s *Server) handlePacket(packet *packets.Packet) {
	contents := packet.Contents
	for {
		message := nextMessage(&contents)
		if message == nil {
			return
		}
		if len(message) == 0 {
			continue
		}
		s.handleMessage(message)
	}
}

func (s *Server) handleMessage(message []byte) {
	switch {
	case strings.HasPrefix(string(message), eventPrefix):
		event, err := parseEventMessage(message)
		if err != nil {
			log.Errorf("dogstatsd: error parsing event: %v", err)
			dogstatsdEventParseErrors.Add(1)
			return
		}
		dogstatsdEvents.Add(1)
		s.sampler.Event(event)

	case strings.HasPrefix(string(message), serviceCheckPrefix+"|"):
		serviceCheck, err := parseServiceCheckMessage(message)
		if err != nil {
			log.Errorf("dogstatsd: error parsing service check: %v", err)
			dogstatsdScParseErrors.Add(1)
			return
		}
		dogstatsdServiceChecks.Add(1)
		s.sampler.ServiceCheck(serviceCheck)

	default:
		samples, err := parseMetricMessage(message)
		if err != nil {
			log.Errorf("dogstatsd: error parsing metric: %v", err)
			dogstatsdMetricParseErrors.Add(1)
			return
		}
		for _, sample := range samples {
			if err := s.sampler.AddSample(sample); err != nil {
				log.Errorf("dogstatsd: sample rejected: %v", err)
				continue
			}
			dogstatsdMetricSamples.Add(1)
		}
	}
}
