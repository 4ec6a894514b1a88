// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/statsd-aggregator/pkg/metrics"
	"github.com/DataDog/statsd-aggregator/pkg/metrics/servicecheck"
)

const epsilon = 0.00001

func testAggregator() (*Aggregator, *clock.Mock) {
	mockClock := clock.NewMock()
	mockClock.Add(1000 * time.Second)
	agg := NewAggregator(Options{
		Hostname: "default-host",
		Interval: 10,
		Clock:    mockClock,
	})
	return agg, mockClock
}

func seriesByName(series []*metrics.Serie) map[string]*metrics.Serie {
	byName := map[string]*metrics.Serie{}
	for _, serie := range series {
		byName[serie.Name] = serie
	}
	return byName
}

func TestCounterRateLaw(t *testing.T) {
	agg, mockClock := testAggregator()

	for i := 0; i < 3; i++ {
		require.NoError(t, agg.AddSample(&metrics.MetricSample{
			Name:  "foo",
			Value: 5,
			Mtype: metrics.CounterType,
		}))
	}

	mockClock.Add(10 * time.Second)
	series := agg.Flush()
	require.Len(t, series, 1)
	assert.Equal(t, "foo", series[0].Name)
	assert.Equal(t, metrics.APIRateType, series[0].MType)
	assert.InEpsilon(t, 1.5, series[0].Points[0].Value, epsilon)
	assert.EqualValues(t, 10, series[0].Interval)
}

func TestContextIdentityIgnoresTagOrder(t *testing.T) {
	agg, mockClock := testAggregator()

	require.NoError(t, agg.AddSample(&metrics.MetricSample{
		Name: "name", Value: 1, Mtype: metrics.CounterType, Tags: []string{"a:1", "b:2"},
	}))
	require.NoError(t, agg.AddSample(&metrics.MetricSample{
		Name: "name", Value: 1, Mtype: metrics.CounterType, Tags: []string{"b:2", "a:1"},
	}))

	mockClock.Add(10 * time.Second)
	series := agg.Flush()
	require.Len(t, series, 1)
	assert.InEpsilon(t, 0.2, series[0].Points[0].Value, epsilon)
	assert.Equal(t, []string{"a:1", "b:2"}, series[0].Tags)
}

func TestFlushIsIdempotentForResettingKinds(t *testing.T) {
	agg, mockClock := testAggregator()

	require.NoError(t, agg.Gauge("my.gauge", 42, "", nil))
	require.NoError(t, agg.Histogram("my.histogram", 3, "", nil))
	require.NoError(t, agg.Set("my.set", "x", "", nil))

	mockClock.Add(10 * time.Second)
	assert.NotEmpty(t, agg.Flush())

	// nothing submitted in between: the second flush is empty
	mockClock.Add(10 * time.Second)
	assert.Empty(t, agg.Flush())
}

func TestCounterExpiryWithZeroFill(t *testing.T) {
	mockClock := clock.NewMock()
	mockClock.Add(1000 * time.Second)
	agg := NewAggregator(Options{
		Hostname:      "default-host",
		Interval:      10,
		ExpirySeconds: 30,
		Clock:         mockClock,
	})

	require.NoError(t, agg.Increment("my.counter", "", nil))

	mockClock.Add(10 * time.Second)
	series := agg.Flush()
	require.Len(t, series, 1)
	assert.InEpsilon(t, 0.1, series[0].Points[0].Value, epsilon)

	// idle but not expired: zero-valued points during the grace period
	mockClock.Add(10 * time.Second)
	series = agg.Flush()
	require.Len(t, series, 1)
	assert.EqualValues(t, 0, series[0].Points[0].Value)

	// past expiry the context disappears without a final point
	mockClock.Add(40 * time.Second)
	assert.Empty(t, agg.Flush())
	assert.Empty(t, agg.Flush())
}

func TestStaleTimestampDropped(t *testing.T) {
	agg, mockClock := testAggregator()
	mockClock.Add(5000 * time.Second) // now = 6000

	require.NoError(t, agg.AddSample(&metrics.MetricSample{
		Name:      "my.gauge",
		Value:     1,
		Mtype:     metrics.GaugeType,
		Timestamp: 100, // older than recent_point_threshold
	}))

	mockClock.Add(10 * time.Second)
	assert.Empty(t, agg.Flush())
	assert.EqualValues(t, 1, agg.Stats().SamplesDiscardedStale.Load())
	assert.EqualValues(t, 0, agg.Stats().SamplesProcessed.Load())
}

func TestKindMismatchRejected(t *testing.T) {
	agg, _ := testAggregator()

	require.NoError(t, agg.Gauge("my.metric", 1, "", []string{"a:1"}))
	err := agg.Increment("my.metric", "", []string{"a:1"})
	require.Error(t, err)
	assert.IsType(t, KindMismatchError{}, err)
	assert.EqualValues(t, 1, agg.Stats().KindMismatches.Load())
}

func TestSerieEnrichment(t *testing.T) {
	agg, mockClock := testAggregator()

	require.NoError(t, agg.AddSample(&metrics.MetricSample{
		Name:   "disk.used",
		Value:  42,
		Mtype:  metrics.GaugeType,
		Device: "/dev/sda1",
		Tags:   []string{"env:prod"},
	}))
	require.NoError(t, agg.Gauge("cpu.idle", 99, "other-host", nil))

	mockClock.Add(10 * time.Second)
	byName := seriesByName(agg.Flush())
	require.Len(t, byName, 2)

	disk := byName["disk.used"]
	assert.Equal(t, "default-host", disk.Host) // falls back to the aggregator hostname
	assert.Equal(t, "/dev/sda1", disk.Device)
	assert.Equal(t, []string{"env:prod"}, disk.Tags)

	cpu := byName["cpu.idle"]
	assert.Equal(t, "other-host", cpu.Host)
}

func TestHistogramFlushNaming(t *testing.T) {
	mockClock := clock.NewMock()
	mockClock.Add(1000 * time.Second)
	agg := NewAggregator(Options{
		Hostname:             "default-host",
		Interval:             10,
		HistogramAggregates:  []string{"max", "median", "avg", "count"},
		HistogramPercentiles: []float64{0.95},
		Clock:                mockClock,
	})

	for _, v := range []float64{1, 2, 3, 4, 5} {
		require.NoError(t, agg.Histogram("query.duration", v, "", nil))
	}

	mockClock.Add(10 * time.Second)
	byName := seriesByName(agg.Flush())
	require.Len(t, byName, 5)
	assert.EqualValues(t, 5, byName["query.duration.max"].Points[0].Value)
	assert.EqualValues(t, 3, byName["query.duration.median"].Points[0].Value)
	assert.EqualValues(t, 3, byName["query.duration.avg"].Points[0].Value)
	assert.InEpsilon(t, 0.5, byName["query.duration.count"].Points[0].Value, epsilon)
	// index trunc(0.95*5 - 1) = 3
	assert.EqualValues(t, 4, byName["query.duration.95percentile"].Points[0].Value)
}

func TestSampleRateClamping(t *testing.T) {
	agg, mockClock := testAggregator()

	// out-of-range sample rates are clamped to 1
	require.NoError(t, agg.AddSample(&metrics.MetricSample{
		Name: "foo", Value: 5, Mtype: metrics.CounterType, SampleRate: -3,
	}))
	require.NoError(t, agg.AddSample(&metrics.MetricSample{
		Name: "foo", Value: 5, Mtype: metrics.CounterType, SampleRate: 2,
	}))

	mockClock.Add(10 * time.Second)
	series := agg.Flush()
	require.Len(t, series, 1)
	assert.InEpsilon(t, 1.0, series[0].Points[0].Value, epsilon)
}

func TestEventsAndServiceChecks(t *testing.T) {
	agg, _ := testAggregator()

	agg.Event(&metrics.Event{Title: "deploy", Text: "v42 shipped"})
	agg.ServiceCheck(&servicecheck.ServiceCheck{CheckName: "up", Status: servicecheck.ServiceCheckOK})

	events := agg.FlushEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "deploy", events[0].Title)
	assert.Empty(t, agg.FlushEvents())

	serviceChecks := agg.FlushServiceChecks()
	require.Len(t, serviceChecks, 1)
	assert.Equal(t, "up", serviceChecks[0].CheckName)
	assert.Empty(t, agg.FlushServiceChecks())
}
