// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	blastCmd = &cobra.Command{
		Use:   "blast",
		Short: "Send synthetic statsd traffic to a running server",
		Long:  `Generates a mixed stream of gauges, counters, histograms and sets, for smoke testing and load testing.`,
		RunE:  blast,
	}

	blastAddr     string
	blastRate     int
	blastDuration time.Duration
	blastSeries   int
)

func init() {
	blastCmd.Flags().StringVarP(&blastAddr, "addr", "a", "127.0.0.1:8125", "address of the statsd server")
	blastCmd.Flags().IntVarP(&blastRate, "rate", "r", 1000, "metrics per second")
	blastCmd.Flags().DurationVarP(&blastDuration, "duration", "d", 10*time.Second, "how long to blast for")
	blastCmd.Flags().IntVarP(&blastSeries, "series", "s", 10, "number of distinct metric contexts")
}

func blast(cmd *cobra.Command, args []string) error {
	client, err := statsd.New(blastAddr, statsd.WithoutTelemetry())
	if err != nil {
		return errors.Wrap(err, "could not create statsd client")
	}
	defer client.Close()

	fmt.Printf("blasting %s with %d metrics/s for %s across %d contexts\n",
		blastAddr, blastRate, blastDuration, blastSeries)

	ticker := time.NewTicker(time.Second / time.Duration(blastRate))
	defer ticker.Stop()
	deadline := time.After(blastDuration)

	var sent int
	for {
		select {
		case <-deadline:
			fmt.Printf("done, sent %d metrics\n", sent)
			return client.Flush()
		case <-ticker.C:
			tags := []string{fmt.Sprintf("series:%d", rand.Intn(blastSeries))}
			switch sent % 4 {
			case 0:
				err = client.Gauge("blast.gauge", rand.Float64()*100, tags, 1)
			case 1:
				err = client.Incr("blast.counter", tags, 1)
			case 2:
				err = client.Histogram("blast.histogram", rand.Float64()*1000, tags, 1)
			case 3:
				err = client.Set("blast.set", fmt.Sprintf("user-%d", rand.Intn(1000)), tags, 1)
			}
			if err != nil {
				return errors.Wrap(err, "send failed")
			}
			sent++
		}
	}
}
