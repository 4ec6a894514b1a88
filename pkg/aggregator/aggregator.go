// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package aggregator folds metric samples into per-context state and
// periodically converts that state into flushed series.
//
// Two sampler variants exist: Aggregator keeps one state table and flushes
// it wholesale, TimeSampler partitions samples into interval-aligned time
// buckets and flushes closed buckets only.
package aggregator

import (
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/DataDog/statsd-aggregator/pkg/aggregator/ckey"
	"github.com/DataDog/statsd-aggregator/pkg/metrics"
	"github.com/DataDog/statsd-aggregator/pkg/util/log"
)

const (
	defaultInterval             = int64(10)
	defaultExpirySeconds        = int64(300)
	defaultRecentPointThreshold = int64(3600)
)

// Options carries the construction-time settings shared by both sampler
// variants. The zero value is usable: every field has a default.
type Options struct {
	Hostname             string
	Interval             int64
	ExpirySeconds        int64
	RecentPointThreshold int64
	HistogramAggregates  []string
	HistogramPercentiles []float64
	Clock                clock.Clock
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = defaultInterval
	}
	if o.ExpirySeconds <= 0 {
		o.ExpirySeconds = defaultExpirySeconds
	}
	if o.RecentPointThreshold <= 0 {
		o.RecentPointThreshold = defaultRecentPointThreshold
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	return o
}

// Aggregator is the non-bucketed sampler: one context table, flushed
// wholesale with the flush-time timestamp.
type Aggregator struct {
	eventBuffer

	mu                   sync.Mutex
	hostname             string
	interval             int64
	expirySeconds        int64
	recentPointThreshold int64
	histogramCfg         metrics.HistogramConfig
	clock                clock.Clock

	resolver       *contextResolver
	contextMetrics metrics.ContextMetrics
	staleDropped   uint64

	stats *Stats
}

// NewAggregator returns a newly initialized Aggregator
func NewAggregator(opts Options) *Aggregator {
	opts = opts.withDefaults()
	return &Aggregator{
		hostname:             opts.Hostname,
		interval:             opts.Interval,
		expirySeconds:        opts.ExpirySeconds,
		recentPointThreshold: opts.RecentPointThreshold,
		histogramCfg: metrics.HistogramConfig{
			Aggregates:  opts.HistogramAggregates,
			Percentiles: opts.HistogramPercentiles,
		},
		clock:          opts.Clock,
		resolver:       newContextResolver(),
		contextMetrics: metrics.MakeContextMetrics(),
		stats:          newStats(),
	}
}

// AddSample folds one sample into the aggregator.
func (a *Aggregator) AddSample(sample *metrics.MetricSample) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := float64(a.clock.Now().Unix())
	key, ok, err := addSampleCommon(sample, now, a.resolver, a.recentPointThreshold, a.stats, &a.staleDropped)
	if err != nil || !ok {
		return err
	}

	if err := a.contextMetrics.AddSample(key, sample, now, a.interval, a.histogramCfg); err != nil {
		return err
	}
	a.stats.SamplesProcessed.Inc()
	aggregatorExpvars.Add("SamplesProcessed", 1)
	return nil
}

// addSampleCommon applies the submission policy both samplers share: sample
// rate clamping, stale point rejection and context tracking. ok is false
// when the sample was dropped as stale.
func addSampleCommon(sample *metrics.MetricSample, now float64, resolver *contextResolver, recentPointThreshold int64, stats *Stats, staleDropped *uint64) (ckey.ContextKey, bool, error) {
	if sample.SampleRate <= 0 || sample.SampleRate > 1 {
		sample.SampleRate = 1
	}

	if sample.Timestamp != 0 && sample.Timestamp < now-float64(recentPointThreshold) {
		// stragglers would land in the wrong interval; drop and count,
		// one aggregate warning goes out at the next flush
		*staleDropped++
		stats.SamplesDiscardedStale.Inc()
		aggregatorExpvars.Add("SamplesDiscardedStale", 1)
		return 0, false, nil
	}

	key, err := resolver.trackContext(sample, now)
	if err != nil {
		stats.KindMismatches.Inc()
		aggregatorExpvars.Add("KindMismatches", 1)
		return key, false, err
	}
	return key, true, nil
}

// Flush converts the accumulated state into series. Expired contexts are
// removed without a final point.
func (a *Aggregator) Flush() []*metrics.Serie {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := float64(a.clock.Now().Unix())

	for _, key := range a.resolver.expireContexts(now - float64(a.expirySeconds)) {
		delete(a.contextMetrics, key)
	}

	series, err := a.contextMetrics.Flush(now)
	if err != nil {
		log.Debugf("flush errors: %v", err)
	}
	series = enrichSeries(series, a.resolver, a.hostname, a.interval)

	reportStaleDropped(&a.staleDropped, a.recentPointThreshold)
	a.stats.FlushCount.Inc()
	a.stats.SeriesFlushed.Add(uint64(len(series)))
	a.stats.ContextsLive.Store(uint64(a.resolver.length()))

	return series
}

// Stats returns the sampler's stats instance.
func (a *Aggregator) Stats() *Stats {
	return a.stats
}

func reportStaleDropped(staleDropped *uint64, recentPointThreshold int64) {
	if *staleDropped > 0 {
		log.Warnf("%d points were discarded since the last flush because their timestamps were more than %d seconds old", *staleDropped, recentPointThreshold)
		*staleDropped = 0
	}
}

// enrichSeries resolves the context of each serie into its externally
// visible fields.
func enrichSeries(series []*metrics.Serie, resolver *contextResolver, defaultHostname string, interval int64) []*metrics.Serie {
	for _, serie := range series {
		context, ok := resolver.get(serie.ContextKey)
		if !ok {
			continue
		}
		serie.Name = context.Name + serie.NameSuffix
		serie.Tags = context.Tags
		if context.Host != "" {
			serie.Host = context.Host
		} else {
			serie.Host = defaultHostname
		}
		serie.Device = context.Device
		serie.Interval = interval
	}
	return series
}
