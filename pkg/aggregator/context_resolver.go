// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"fmt"
	"sort"

	"github.com/DataDog/statsd-aggregator/pkg/aggregator/ckey"
	"github.com/DataDog/statsd-aggregator/pkg/metrics"
)

// Context holds the elements that form a context, and can be serialized into
// a context key
type Context struct {
	Name   string
	Tags   []string
	Host   string
	Device string
	Mtype  metrics.MetricType
}

// KindMismatchError is returned when a context is resubmitted under a
// different metric kind than the one it was created with. This is an
// integration bug on the submitter side, never silently coerced.
type KindMismatchError struct {
	Name      string
	Tracked   metrics.MetricType
	Submitted metrics.MetricType
}

func (e KindMismatchError) Error() string {
	return fmt.Sprintf("metric %s already tracked as %s, resubmitted as %s",
		e.Name, e.Tracked, e.Submitted)
}

// contextResolver tracks the contexts seen by a sampler: identity, metric
// kind, and last sample time for expiry.
type contextResolver struct {
	contextsByKey map[ckey.ContextKey]*Context
	lastSeenByKey map[ckey.ContextKey]float64
	keyGenerator  *ckey.KeyGenerator
}

func newContextResolver() *contextResolver {
	return &contextResolver{
		contextsByKey: make(map[ckey.ContextKey]*Context),
		lastSeenByKey: make(map[ckey.ContextKey]float64),
		keyGenerator:  ckey.NewKeyGenerator(),
	}
}

// sortUniqInPlace sorts and removes duplicates from a slice of strings.
// Canonicalizing tags once here means tag order never affects identity nor
// the tags attached to flushed series.
func sortUniqInPlace(elements []string) []string {
	if len(elements) < 2 {
		return elements
	}
	sort.Strings(elements)
	j := 0
	for i := 1; i < len(elements); i++ {
		if elements[i] == elements[j] {
			continue
		}
		j++
		elements[j] = elements[i]
	}
	return elements[:j+1]
}

// trackContext returns the contextKey associated with the sample's context
// and tracks that context. The sample's tags are canonicalized in place.
func (cr *contextResolver) trackContext(sample *metrics.MetricSample, currentTime float64) (ckey.ContextKey, error) {
	sample.Tags = sortUniqInPlace(sample.Tags)
	contextKey := cr.keyGenerator.Generate(sample.Name, sample.Host, sample.Device, sample.Tags)

	if context, ok := cr.contextsByKey[contextKey]; ok {
		if context.Mtype != sample.Mtype {
			return contextKey, KindMismatchError{
				Name:      sample.Name,
				Tracked:   context.Mtype,
				Submitted: sample.Mtype,
			}
		}
	} else {
		tags := make([]string, len(sample.Tags))
		copy(tags, sample.Tags)
		cr.contextsByKey[contextKey] = &Context{
			Name:   sample.Name,
			Tags:   tags,
			Host:   sample.Host,
			Device: sample.Device,
			Mtype:  sample.Mtype,
		}
	}

	cr.lastSeenByKey[contextKey] = currentTime
	return contextKey, nil
}

func (cr *contextResolver) get(key ckey.ContextKey) (*Context, bool) {
	context, found := cr.contextsByKey[key]
	return context, found
}

func (cr *contextResolver) lastSeen(key ckey.ContextKey) float64 {
	return cr.lastSeenByKey[key]
}

func (cr *contextResolver) length() int {
	return len(cr.contextsByKey)
}

// expireContexts removes every context whose last sample time is older than
// expireBefore, and returns the removed keys so callers can drop the
// associated metric state.
func (cr *contextResolver) expireContexts(expireBefore float64) []ckey.ContextKey {
	var expiredContextKeys []ckey.ContextKey

	for contextKey, lastSeen := range cr.lastSeenByKey {
		if lastSeen < expireBefore {
			expiredContextKeys = append(expiredContextKeys, contextKey)
		}
	}

	for _, expiredContextKey := range expiredContextKeys {
		delete(cr.contextsByKey, expiredContextKey)
		delete(cr.lastSeenByKey, expiredContextKey)
	}

	return expiredContextKeys
}
