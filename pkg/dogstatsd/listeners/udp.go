// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package listeners implements the network side of the statsd server: each
// listener reads datagrams off a socket and pushes them, untouched, onto the
// packet channel. Parsing happens downstream.
package listeners

import (
	"expvar"
	"fmt"
	"net"

	"github.com/pkg/errors"

	"github.com/DataDog/statsd-aggregator/pkg/dogstatsd/packets"
	"github.com/DataDog/statsd-aggregator/pkg/util/log"
)

var (
	udpExpvars             = expvar.NewMap("dogstatsd-udp")
	udpPacketReadingErrors = expvar.Int{}
	udpPackets             = expvar.Int{}
	udpBytes               = expvar.Int{}
)

func init() {
	udpExpvars.Set("PacketReadingErrors", &udpPacketReadingErrors)
	udpExpvars.Set("Packets", &udpPackets)
	udpExpvars.Set("Bytes", &udpBytes)
}

// UDPConfig carries the listener settings. A zero BufferSize gets the
// historical 8KB default, large enough for any unfragmented datagram.
type UDPConfig struct {
	Port            int
	NonLocalTraffic bool
	BufferSize      int
}

const defaultBufferSize = 8192

// UDPListener implements the statsd UDP listener. It forwards raw packets to
// the shared packet channel; it never parses.
type UDPListener struct {
	conn       *net.UDPConn
	packetPool *packets.Pool
	packetOut  chan *packets.Packet
}

// NewUDPListener opens the socket and returns a listener ready to run.
func NewUDPListener(cfg UDPConfig, packetOut chan *packets.Packet) (*UDPListener, error) {
	ip := "127.0.0.1"
	if cfg.NonLocalTraffic {
		ip = ""
	}
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", ip, cfg.Port))
	if err != nil {
		return nil, errors.Wrap(err, "could not resolve udp addr")
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "can't listen on %s", addr)
	}

	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	listener := &UDPListener{
		conn:       conn,
		packetPool: packets.NewPool(bufferSize),
		packetOut:  packetOut,
	}
	log.Infof("dogstatsd-udp: listening on %s", conn.LocalAddr())
	return listener, nil
}

// LocalAddr returns the address the listener is bound to.
func (l *UDPListener) LocalAddr() net.Addr {
	return l.conn.LocalAddr()
}

// Listen runs the read loop until the socket is closed. One datagram, one
// packet: messages never straddle datagrams.
func (l *UDPListener) Listen() {
	for {
		packet := l.packetPool.Get()
		n, _, err := l.conn.ReadFrom(packet.Buffer())
		if err != nil {
			// connection closed on Stop: not an error
			if opErr, ok := err.(*net.OpError); ok && !opErr.Temporary() {
				return
			}
			log.Errorf("dogstatsd-udp: error reading packet: %v", err)
			udpPacketReadingErrors.Add(1)
			packet.Release()
			continue
		}

		packet.Contents = packet.Buffer()[:n]
		udpPackets.Add(1)
		udpBytes.Add(int64(n))
		l.packetOut <- packet
	}
}

// Stop closes the socket, unblocking the read loop.
func (l *UDPListener) Stop() {
	l.conn.Close()
}
