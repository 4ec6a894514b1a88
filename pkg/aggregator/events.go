// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"sync"

	"github.com/DataDog/statsd-aggregator/pkg/metrics"
	"github.com/DataDog/statsd-aggregator/pkg/metrics/servicecheck"
)

// eventBuffer collects events and service checks between flushes. They are
// not aggregated, only batched, so both sampler variants share this.
type eventBuffer struct {
	sync.Mutex
	events        metrics.Events
	serviceChecks servicecheck.ServiceChecks
}

// Event adds an event to the next flush batch.
func (b *eventBuffer) Event(e *metrics.Event) {
	b.Lock()
	defer b.Unlock()
	b.events = append(b.events, e)
}

// ServiceCheck adds a service check to the next flush batch.
func (b *eventBuffer) ServiceCheck(sc *servicecheck.ServiceCheck) {
	b.Lock()
	defer b.Unlock()
	b.serviceChecks = append(b.serviceChecks, sc)
}

// FlushEvents returns the batched events and empties the buffer.
func (b *eventBuffer) FlushEvents() metrics.Events {
	b.Lock()
	defer b.Unlock()
	events := b.events
	b.events = nil
	return events
}

// FlushServiceChecks returns the batched service checks and empties the buffer.
func (b *eventBuffer) FlushServiceChecks() servicecheck.ServiceChecks {
	b.Lock()
	defer b.Unlock()
	serviceChecks := b.serviceChecks
	b.serviceChecks = nil
	return serviceChecks
}
