// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"expvar"

	"go.uber.org/atomic"
)

var aggregatorExpvars = expvar.NewMap("aggregator")

// Stats tracks what a sampler did since it was constructed. It replaces the
// legacy habit of counting drops inside the logger: lifecycle is tied to the
// sampler instance and a consistent snapshot can be read at any time.
type Stats struct {
	SamplesProcessed      atomic.Uint64
	SamplesDiscardedStale atomic.Uint64
	KindMismatches        atomic.Uint64
	FlushCount            atomic.Uint64
	SeriesFlushed         atomic.Uint64
	ContextsLive          atomic.Uint64
}

func newStats() *Stats {
	return &Stats{}
}

// StatsSnapshot is a consistent copy of a Stats, suitable for the status API.
type StatsSnapshot struct {
	SamplesProcessed      uint64 `json:"samples_processed"`
	SamplesDiscardedStale uint64 `json:"samples_discarded_stale"`
	KindMismatches        uint64 `json:"kind_mismatches"`
	FlushCount            uint64 `json:"flush_count"`
	SeriesFlushed         uint64 `json:"series_flushed"`
	ContextsLive          uint64 `json:"contexts_live"`
}

// Snapshot returns a point-in-time copy of the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		SamplesProcessed:      s.SamplesProcessed.Load(),
		SamplesDiscardedStale: s.SamplesDiscardedStale.Load(),
		KindMismatches:        s.KindMismatches.Load(),
		FlushCount:            s.FlushCount.Load(),
		SeriesFlushed:         s.SeriesFlushed.Load(),
		ContextsLive:          s.ContextsLive.Load(),
	}
}
