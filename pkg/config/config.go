// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package config loads the aggregator configuration from defaults, an
// optional YAML file and STATSD_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// knownHistogramAggregates is the closed set of aggregate names a Histogram
// can emit.
var knownHistogramAggregates = map[string]bool{
	"min":    true,
	"max":    true,
	"median": true,
	"avg":    true,
	"sum":    true,
	"count":  true,
}

// Config holds every construction-time setting of the aggregation engine.
type Config struct {
	Hostname             string    `mapstructure:"hostname"`
	Port                 int       `mapstructure:"port"`
	NonLocalTraffic      bool      `mapstructure:"non_local_traffic"`
	Interval             int64     `mapstructure:"interval"`
	ExpirySeconds        int64     `mapstructure:"expiry_seconds"`
	RecentPointThreshold int64     `mapstructure:"recent_point_threshold"`
	HistogramAggregates  []string  `mapstructure:"histogram_aggregates"`
	HistogramPercentiles []float64 `mapstructure:"histogram_percentiles"`
	Namespace            string    `mapstructure:"namespace"`
	APIAddr              string    `mapstructure:"api_addr"`
	LogLevel             string    `mapstructure:"log_level"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("hostname", "")
	v.SetDefault("port", 8125)
	v.SetDefault("non_local_traffic", false)
	v.SetDefault("interval", 10)
	v.SetDefault("expiry_seconds", 300)
	v.SetDefault("recent_point_threshold", 3600)
	v.SetDefault("histogram_aggregates", []string{"max", "median", "avg", "count"})
	v.SetDefault("histogram_percentiles", []float64{0.95})
	v.SetDefault("namespace", "")
	v.SetDefault("api_addr", "127.0.0.1:5012")
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix("STATSD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration, overlaying the given YAML file when path is
// not empty. The returned Config is validated.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", path)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal config")
	}

	if c.Hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, errors.Wrap(err, "unable to resolve hostname")
		}
		c.Hostname = h
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate fails fast on contradictory settings. Misconfiguration is the
// only fatal error class in this codebase.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %d", c.Interval)
	}
	if c.ExpirySeconds <= 0 {
		return fmt.Errorf("expiry_seconds must be positive, got %d", c.ExpirySeconds)
	}
	for _, a := range c.HistogramAggregates {
		if !knownHistogramAggregates[a] {
			return fmt.Errorf("unknown histogram aggregate: %q", a)
		}
	}
	for _, p := range c.HistogramPercentiles {
		if p <= 0 || p >= 1 {
			return fmt.Errorf("histogram percentile out of (0,1): %v", p)
		}
	}
	return nil
}
