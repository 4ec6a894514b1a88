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
)

func testTimeSampler(expiry int64) (*TimeSampler, *clock.Mock) {
	mockClock := clock.NewMock()
	mockClock.Add(12340 * time.Second) // 12340 = 1234 * interval
	sampler := NewTimeSampler(Options{
		Hostname:      "default-host",
		Interval:      10,
		ExpirySeconds: expiry,
		Clock:         mockClock,
	})
	return sampler, mockClock
}

func TestCalculateBucketStart(t *testing.T) {
	sampler, _ := testTimeSampler(300)

	assert.EqualValues(t, 12340, sampler.calculateBucketStart(12345.5))
	assert.EqualValues(t, 12350, sampler.calculateBucketStart(12350))
}

func TestBucketSampling(t *testing.T) {
	sampler, mockClock := testTimeSampler(300)

	// samples land in the bucket of their own timestamp
	for _, ts := range []float64{12345, 12355, 12365} {
		require.NoError(t, sampler.AddSample(&metrics.MetricSample{
			Name:      "my.gauge",
			Value:     1,
			Mtype:     metrics.GaugeType,
			Timestamp: ts,
		}))
	}
	assert.Len(t, sampler.metricsByTimestamp, 3)

	// now = 12370: buckets 12340 and 12350 are closed, 12360 is current
	mockClock.Add(30 * time.Second)
	series := sampler.Flush()
	require.Len(t, series, 2)

	// ascending bucket order, points stamped on bucket boundaries
	assert.EqualValues(t, 12340, series[0].Points[0].Ts)
	assert.EqualValues(t, 12350, series[1].Points[0].Ts)
	assert.Len(t, sampler.metricsByTimestamp, 1)

	// the remaining bucket closes on the next pass
	mockClock.Add(10 * time.Second)
	series = sampler.Flush()
	require.Len(t, series, 1)
	assert.EqualValues(t, 12360, series[0].Points[0].Ts)
}

func TestBucketGaugeTimestamping(t *testing.T) {
	sampler, mockClock := testTimeSampler(300)

	// in the bucketed sampler a gauge point is stamped with its bucket
	// start, not the sample timestamp
	require.NoError(t, sampler.AddSample(&metrics.MetricSample{
		Name:      "my.gauge",
		Value:     21,
		Mtype:     metrics.GaugeType,
		Timestamp: 12345,
	}))

	mockClock.Add(10 * time.Second)
	series := sampler.Flush()
	require.Len(t, series, 1)
	assert.EqualValues(t, 12340, series[0].Points[0].Ts)
	assert.EqualValues(t, 21, series[0].Points[0].Value)
}

func TestCounterContinuity(t *testing.T) {
	sampler, mockClock := testTimeSampler(300)

	require.NoError(t, sampler.AddSample(&metrics.MetricSample{
		Name:  "my.counter",
		Value: 2,
		Mtype: metrics.CounterType,
	}))

	mockClock.Add(10 * time.Second)
	series := sampler.Flush()
	require.Len(t, series, 1)
	assert.InEpsilon(t, 0.2, series[0].Points[0].Value, epsilon)
	assert.Equal(t, metrics.APIRateType, series[0].MType)

	// no samples, no open bucket: the counter still reports 0
	mockClock.Add(10 * time.Second)
	series = sampler.Flush()
	require.Len(t, series, 1)
	assert.Equal(t, "my.counter", series[0].Name)
	assert.EqualValues(t, 0, series[0].Points[0].Value)
	assert.Equal(t, metrics.APIRateType, series[0].MType)
}

func TestCounterZeroFillInClosedBucket(t *testing.T) {
	sampler, mockClock := testTimeSampler(300)

	require.NoError(t, sampler.AddSample(&metrics.MetricSample{
		Name:  "my.counter",
		Value: 1,
		Mtype: metrics.CounterType,
	}))
	// a gauge lands in the next bucket, so that bucket exists but holds
	// no counter sample
	require.NoError(t, sampler.AddSample(&metrics.MetricSample{
		Name:      "my.gauge",
		Value:     1,
		Mtype:     metrics.GaugeType,
		Timestamp: 12352,
	}))

	mockClock.Add(30 * time.Second)
	series := sampler.Flush()
	require.Len(t, series, 3)

	var zeroFilled *metrics.Serie
	for _, serie := range series {
		if serie.Name == "my.counter" && serie.Points[0].Ts == 12350 {
			zeroFilled = serie
		}
	}
	require.NotNil(t, zeroFilled)
	assert.EqualValues(t, 0, zeroFilled.Points[0].Value)
}

func TestTimeSamplerExpiry(t *testing.T) {
	sampler, mockClock := testTimeSampler(30)

	require.NoError(t, sampler.AddSample(&metrics.MetricSample{
		Name:  "my.counter",
		Value: 1,
		Mtype: metrics.CounterType,
	}))

	mockClock.Add(10 * time.Second)
	assert.Len(t, sampler.Flush(), 1)

	// grace period: zero fill
	mockClock.Add(10 * time.Second)
	assert.Len(t, sampler.Flush(), 1)

	// expired: gone without a final point
	mockClock.Add(40 * time.Second)
	assert.Empty(t, sampler.Flush())
	assert.Empty(t, sampler.Flush())
	assert.Equal(t, 0, sampler.resolver.length())
}

func TestTimeSamplerKindMismatch(t *testing.T) {
	sampler, _ := testTimeSampler(300)

	require.NoError(t, sampler.AddSample(&metrics.MetricSample{
		Name: "my.metric", Value: 1, Mtype: metrics.CounterType,
	}))
	err := sampler.AddSample(&metrics.MetricSample{
		Name: "my.metric", Value: 1, Mtype: metrics.SetType, RawValue: "x",
	})
	require.Error(t, err)
	assert.IsType(t, KindMismatchError{}, err)
}

func TestTimeSamplerBucketCache(t *testing.T) {
	sampler, _ := testTimeSampler(300)

	require.NoError(t, sampler.AddSample(&metrics.MetricSample{
		Name: "a", Value: 1, Mtype: metrics.CountType,
	}))
	require.NoError(t, sampler.AddSample(&metrics.MetricSample{
		Name: "b", Value: 1, Mtype: metrics.CountType,
	}))

	// both samples went to the same (cached) bucket
	assert.Len(t, sampler.metricsByTimestamp, 1)
	assert.NotNil(t, sampler.lastBucket)
	assert.Len(t, sampler.lastBucket, 2)
}
