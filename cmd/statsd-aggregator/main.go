// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DataDog/statsd-aggregator/pkg/aggregator"
	"github.com/DataDog/statsd-aggregator/pkg/api"
	"github.com/DataDog/statsd-aggregator/pkg/config"
	"github.com/DataDog/statsd-aggregator/pkg/dogstatsd"
	"github.com/DataDog/statsd-aggregator/pkg/dogstatsd/listeners"
	"github.com/DataDog/statsd-aggregator/pkg/dogstatsd/packets"
	"github.com/DataDog/statsd-aggregator/pkg/serializer"
	"github.com/DataDog/statsd-aggregator/pkg/util/log"
)

const version = "1.0.0"

var (
	rootCmd = &cobra.Command{
		Use:   "statsd-aggregator [command]",
		Short: "StatsD aggregation engine at your service.",
		Long: `
statsd-aggregator accepts custom application metrics points over UDP, then
periodically aggregates them into timeseries points. It implements the StatsD
protocol, along with a few extensions: histograms, sets, rates, events and
service checks.`,
	}

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the aggregation server",
		Long:  `Runs the aggregation server in the foreground`,
		RunE:  start,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("statsd-aggregator %s\n", version)
		},
	}

	confPath string
)

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(blastCmd)

	startCmd.Flags().StringVarP(&confPath, "cfgpath", "c", "", "path to the configuration file")
}

// loggingForwarder logs payload sizes instead of shipping them anywhere.
// Actual transport is the concern of whatever consumes the payloads.
type loggingForwarder struct{}

func (loggingForwarder) SubmitSeries(payload []byte) error {
	log.Infof("flushed series payload (%d bytes): %s", len(payload), payload)
	return nil
}

func (loggingForwarder) SubmitEvents(payload []byte) error {
	log.Infof("flushed events payload (%d bytes): %s", len(payload), payload)
	return nil
}

func (loggingForwarder) SubmitServiceChecks(payload []byte) error {
	log.Infof("flushed service checks payload (%d bytes): %s", len(payload), payload)
	return nil
}

func start(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(confPath)
	if err != nil {
		return err
	}

	if err := log.SetupConsoleLogger(cfg.LogLevel); err != nil {
		return err
	}
	defer log.Flush()

	sampler := aggregator.NewTimeSampler(aggregator.Options{
		Hostname:             cfg.Hostname,
		Interval:             cfg.Interval,
		ExpirySeconds:        cfg.ExpirySeconds,
		RecentPointThreshold: cfg.RecentPointThreshold,
		HistogramAggregates:  cfg.HistogramAggregates,
		HistogramPercentiles: cfg.HistogramPercentiles,
	})

	packetChannel := make(chan *packets.Packet, 100)
	listener, err := listeners.NewUDPListener(listeners.UDPConfig{
		Port:            cfg.Port,
		NonLocalTraffic: cfg.NonLocalTraffic,
	}, packetChannel)
	if err != nil {
		return err
	}
	go listener.Listen()

	server := dogstatsd.NewServer(packetChannel, sampler)
	server.Start()

	apiServer, err := api.NewServer(cfg.APIAddr, version, sampler)
	if err != nil {
		return err
	}
	apiServer.Start()

	s := serializer.NewSerializer(loggingForwarder{}, cfg.Namespace)

	flush := func() {
		if err := s.SendSeries(sampler.Flush()); err != nil {
			log.Errorf("error sending series: %v", err)
		}
		if err := s.SendEvents(sampler.FlushEvents()); err != nil {
			log.Errorf("error sending events: %v", err)
		}
		if err := s.SendServiceChecks(sampler.FlushServiceChecks()); err != nil {
			log.Errorf("error sending service checks: %v", err)
		}
	}

	flushTicker := time.NewTicker(time.Duration(cfg.Interval) * time.Second)
	defer flushTicker.Stop()
	stopFlush := make(chan struct{})
	go func() {
		for {
			select {
			case <-flushTicker.C:
				flush()
			case <-stopFlush:
				return
			}
		}
	}()

	log.Infof("statsd-aggregator %s started, flushing every %ds", version, cfg.Interval)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	<-signalCh

	close(stopFlush)
	listener.Stop()
	server.Stop()
	apiServer.Stop()
	flush()
	log.Info("See ya!")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}
