// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package api exposes the local debug endpoints: a status summary and the
// process expvars. It binds to localhost by default and carries no
// authentication, the same trust model as the expvar handler it wraps.
package api

import (
	"expvar"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/DataDog/statsd-aggregator/pkg/aggregator"
	"github.com/DataDog/statsd-aggregator/pkg/util/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatsProvider hands out a point-in-time stats snapshot. Both sampler
// variants satisfy this through their Stats() accessor.
type StatsProvider interface {
	Stats() *aggregator.Stats
}

// Server serves the debug API on its own listener.
type Server struct {
	listener net.Listener
	srv      *http.Server
	started  time.Time
}

type statusResponse struct {
	Version       string                   `json:"version"`
	UptimeSeconds int64                    `json:"uptime_seconds"`
	Aggregator    aggregator.StatsSnapshot `json:"aggregator"`
}

// NewServer binds addr and returns a server ready to run.
func NewServer(addr, version string, stats StatsProvider) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "can't listen on %s", addr)
	}

	s := &Server{
		listener: listener,
		started:  time.Now(),
	}

	router := mux.NewRouter()
	router.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		resp := statusResponse{
			Version:       version,
			UptimeSeconds: int64(time.Since(s.started).Seconds()),
			Aggregator:    stats.Stats().Snapshot(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Errorf("api: could not write status response: %v", err)
		}
	}).Methods("GET")
	router.Handle("/debug/vars", expvar.Handler()).Methods("GET")

	s.srv = &http.Server{Handler: router}
	return s, nil
}

// Addr returns the address the server is bound to.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Start serves requests until Stop. Serve errors after shutdown are normal.
func (s *Server) Start() {
	go func() {
		if err := s.srv.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			log.Errorf("api: serve error: %v", err)
		}
	}()
	log.Infof("api: debug server listening on %s", s.listener.Addr())
}

// Stop closes the server and its listener.
func (s *Server) Stop() {
	s.srv.Close()
}
