// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"sort"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/DataDog/statsd-aggregator/pkg/metrics"
	"github.com/DataDog/statsd-aggregator/pkg/util/log"
)

// TimeSampler aggregates metrics by buckets of 'interval' seconds aligned on
// interval boundaries. Many submitters can race against the periodic flush:
// a bucket is only flushed once it is closed (its start is older than the
// current cutoff), which gives exactly-once-per-interval semantics.
//
// Counter contexts get special continuity treatment: a counter that received
// no samples in a flushed bucket still emits a 0 value for that bucket until
// the context expires, so rate series show zeroes instead of gaps.
type TimeSampler struct {
	eventBuffer

	mu                   sync.Mutex
	interval             int64
	hostname             string
	expirySeconds        int64
	recentPointThreshold int64
	histogramCfg         metrics.HistogramConfig
	clock                clock.Clock

	resolver           *contextResolver
	metricsByTimestamp map[int64]metrics.ContextMetrics

	// cache of the most recently written bucket, to skip the map lookup
	// on the hot path
	lastBucketStart int64
	lastBucket      metrics.ContextMetrics

	lastCutoff   int64
	staleDropped uint64

	stats *Stats
}

// NewTimeSampler returns a newly initialized TimeSampler
func NewTimeSampler(opts Options) *TimeSampler {
	opts = opts.withDefaults()
	return &TimeSampler{
		interval:             opts.Interval,
		hostname:             opts.Hostname,
		expirySeconds:        opts.ExpirySeconds,
		recentPointThreshold: opts.RecentPointThreshold,
		histogramCfg: metrics.HistogramConfig{
			Aggregates:  opts.HistogramAggregates,
			Percentiles: opts.HistogramPercentiles,
		},
		clock:              opts.Clock,
		resolver:           newContextResolver(),
		metricsByTimestamp: map[int64]metrics.ContextMetrics{},
		stats:              newStats(),
	}
}

func (s *TimeSampler) calculateBucketStart(timestamp float64) int64 {
	return int64(timestamp) - int64(timestamp)%s.interval
}

// AddSample adds the sample to the bucket holding the sample's timestamp.
func (s *TimeSampler) AddSample(sample *metrics.MetricSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := float64(s.clock.Now().Unix())

	// in the bucketed sampler every gauge point lands on a bucket
	// boundary, which is exactly what BucketGauge does
	if sample.Mtype == metrics.GaugeType {
		sample.Mtype = metrics.BucketGaugeType
	}

	key, ok, err := addSampleCommon(sample, now, s.resolver, s.recentPointThreshold, s.stats, &s.staleDropped)
	if err != nil || !ok {
		return err
	}

	timestamp := sample.Timestamp
	if timestamp == 0 {
		timestamp = now
	}

	bucketStart := s.calculateBucketStart(timestamp)
	if bucketStart != s.lastBucketStart || s.lastBucket == nil {
		bucketMetrics, found := s.metricsByTimestamp[bucketStart]
		if !found {
			bucketMetrics = metrics.MakeContextMetrics()
			s.metricsByTimestamp[bucketStart] = bucketMetrics
		}
		s.lastBucketStart = bucketStart
		s.lastBucket = bucketMetrics
	}

	if err := s.lastBucket.AddSample(key, sample, timestamp, s.interval, s.histogramCfg); err != nil {
		return err
	}
	s.stats.SamplesProcessed.Inc()
	aggregatorExpvars.Add("SamplesProcessed", 1)
	return nil
}

// Flush closes and flushes every bucket older than the current cutoff, in
// ascending bucket order.
func (s *TimeSampler) Flush() []*metrics.Serie {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := float64(s.clock.Now().Unix())
	cutoff := s.calculateBucketStart(now)
	expireBefore := now - float64(s.expirySeconds)

	var closedBuckets []int64
	for bucketStart := range s.metricsByTimestamp {
		if bucketStart < cutoff {
			closedBuckets = append(closedBuckets, bucketStart)
		}
	}
	sort.Slice(closedBuckets, func(i, j int) bool { return closedBuckets[i] < closedBuckets[j] })

	var series []*metrics.Serie
	for _, bucketStart := range closedBuckets {
		bucketMetrics := s.metricsByTimestamp[bucketStart]

		// expired contexts get no final point
		for key := range bucketMetrics {
			if s.resolver.lastSeen(key) < expireBefore {
				delete(bucketMetrics, key)
			}
		}

		flushed, err := bucketMetrics.Flush(float64(bucketStart))
		if err != nil {
			log.Debugf("flush errors on bucket %d: %v", bucketStart, err)
		}
		flushed = append(flushed, s.zeroFillCounters(bucketMetrics, float64(bucketStart), expireBefore)...)

		series = append(series, enrichSeries(flushed, s.resolver, s.hostname, s.interval)...)

		delete(s.metricsByTimestamp, bucketStart)
		if bucketStart == s.lastBucketStart {
			s.lastBucketStart = 0
			s.lastBucket = nil
		}
	}

	// even with no bucket to close, idle counters keep reporting 0 once a
	// full interval has elapsed since the previous flush
	if len(closedBuckets) == 0 && s.lastCutoff != 0 && cutoff >= s.lastCutoff+s.interval {
		flushed := s.zeroFillCounters(nil, float64(cutoff-s.interval), expireBefore)
		series = append(series, enrichSeries(flushed, s.resolver, s.hostname, s.interval)...)
	}
	s.lastCutoff = cutoff

	s.resolver.expireContexts(expireBefore)

	reportStaleDropped(&s.staleDropped, s.recentPointThreshold)
	s.stats.FlushCount.Inc()
	s.stats.SeriesFlushed.Add(uint64(len(series)))
	s.stats.ContextsLive.Store(uint64(s.resolver.length()))

	return series
}

// zeroFillCounters synthesizes a 0-valued rate point at bucketTimestamp for
// every live counter context absent from bucketMetrics.
func (s *TimeSampler) zeroFillCounters(bucketMetrics metrics.ContextMetrics, bucketTimestamp float64, expireBefore float64) []*metrics.Serie {
	var series []*metrics.Serie
	for key, context := range s.resolver.contextsByKey {
		if context.Mtype != metrics.CounterType {
			continue
		}
		if s.resolver.lastSeen(key) < expireBefore {
			continue
		}
		if bucketMetrics != nil {
			if _, sampled := bucketMetrics[key]; sampled {
				continue
			}
		}
		series = append(series, &metrics.Serie{
			Points:     []metrics.Point{{Ts: bucketTimestamp, Value: 0}},
			MType:      metrics.APIRateType,
			ContextKey: key,
		})
	}
	return series
}

// Stats returns the sampler's stats instance.
func (s *TimeSampler) Stats() *Stats {
	return s.stats
}
