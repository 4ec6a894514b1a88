// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package listeners

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/statsd-aggregator/pkg/dogstatsd/packets"
)

func TestNewUDPListener(t *testing.T) {
	listener, err := NewUDPListener(UDPConfig{Port: 0}, make(chan *packets.Packet))
	require.NoError(t, err)
	defer listener.Stop()

	assert.NotNil(t, listener)
}

func TestUDPReceive(t *testing.T) {
	packetOut := make(chan *packets.Packet, 1)
	listener, err := NewUDPListener(UDPConfig{Port: 0}, packetOut)
	require.NoError(t, err)
	defer listener.Stop()

	go listener.Listen()

	conn, err := net.Dial("udp", listener.LocalAddr().String())
	require.NoError(t, err)
	defer conn.Close()

	contents := []byte("daemon:666|g")
	_, err = conn.Write(contents)
	require.NoError(t, err)

	select {
	case packet := <-packetOut:
		assert.Equal(t, contents, packet.Contents)
		packet.Release()
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for packet")
	}
}
