// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/statsd-aggregator/pkg/metrics"
)

func TestTrackContext(t *testing.T) {
	resolver := newContextResolver()

	sample := &metrics.MetricSample{
		Name:  "my.metric.name",
		Mtype: metrics.GaugeType,
		Tags:  []string{"foo", "bar"},
	}
	key, err := resolver.trackContext(sample, 100)
	require.NoError(t, err)

	context, found := resolver.get(key)
	require.True(t, found)
	assert.Equal(t, "my.metric.name", context.Name)
	assert.Equal(t, []string{"bar", "foo"}, context.Tags)
	assert.Equal(t, metrics.GaugeType, context.Mtype)
	assert.Equal(t, 1, resolver.length())
	assert.EqualValues(t, 100, resolver.lastSeen(key))
}

func TestTrackContextTagOrder(t *testing.T) {
	resolver := newContextResolver()

	first, err := resolver.trackContext(&metrics.MetricSample{
		Name:  "my.metric.name",
		Mtype: metrics.CounterType,
		Tags:  []string{"a:1", "b:2"},
	}, 100)
	require.NoError(t, err)

	second, err := resolver.trackContext(&metrics.MetricSample{
		Name:  "my.metric.name",
		Mtype: metrics.CounterType,
		Tags:  []string{"b:2", "a:1"},
	}, 110)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, resolver.length())
	assert.EqualValues(t, 110, resolver.lastSeen(first))
}

func TestTrackContextKindMismatch(t *testing.T) {
	resolver := newContextResolver()

	_, err := resolver.trackContext(&metrics.MetricSample{
		Name:  "my.metric.name",
		Mtype: metrics.CounterType,
	}, 100)
	require.NoError(t, err)

	_, err = resolver.trackContext(&metrics.MetricSample{
		Name:  "my.metric.name",
		Mtype: metrics.GaugeType,
	}, 110)
	require.Error(t, err)
	assert.IsType(t, KindMismatchError{}, err)
}

func TestExpireContexts(t *testing.T) {
	resolver := newContextResolver()

	oldKey, err := resolver.trackContext(&metrics.MetricSample{
		Name:  "my.metric.old",
		Mtype: metrics.GaugeType,
	}, 100)
	require.NoError(t, err)
	freshKey, err := resolver.trackContext(&metrics.MetricSample{
		Name:  "my.metric.fresh",
		Mtype: metrics.GaugeType,
	}, 500)
	require.NoError(t, err)

	expired := resolver.expireContexts(400)
	require.Len(t, expired, 1)
	assert.Equal(t, oldKey, expired[0])

	_, found := resolver.get(oldKey)
	assert.False(t, found)
	_, found = resolver.get(freshKey)
	assert.True(t, found)
	assert.Equal(t, 1, resolver.length())
}

func TestSortUniqInPlace(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, sortUniqInPlace([]string{"c", "a", "b", "a", "c"}))
	assert.Equal(t, []string{"a"}, sortUniqInPlace([]string{"a"}))
	assert.Empty(t, sortUniqInPlace(nil))
}
