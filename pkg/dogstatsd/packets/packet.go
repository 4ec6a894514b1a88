// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package packets holds the wire packet model shared by listeners and the
// server loop.
package packets

import "sync"

// Packet represents a statsd packet ready to process.
//
// As Packet objects are reused through a sync.Pool, the underlying buffer
// reference is kept so the slice doesn't have to be re-sized before the next
// read.
type Packet struct {
	Contents []byte // may contain several newline-separated messages
	buffer   []byte
	pool     *Pool
}

// Release puts the packet back into its pool, if it came from one.
func (p *Packet) Release() {
	if p.pool != nil {
		p.pool.Put(p)
	}
}

// Packets is a slice of packet pointers
type Packets []*Packet

// Pool is a pool of fixed-size packet buffers. Buffers must be as large as
// the largest datagram we expect: a datagram truncated on read is lost.
type Pool struct {
	pool       sync.Pool
	bufferSize int
}

// NewPool creates a pool with buffers of the given size.
func NewPool(bufferSize int) *Pool {
	p := &Pool{bufferSize: bufferSize}
	p.pool.New = func() interface{} {
		buffer := make([]byte, bufferSize)
		return &Packet{buffer: buffer, pool: p}
	}
	return p
}

// Get returns a packet ready for a read; Buffer exposes the full read buffer.
func (p *Pool) Get() *Packet {
	return p.pool.Get().(*Packet)
}

// Put returns a packet to the pool.
func (p *Pool) Put(packet *Packet) {
	packet.Contents = nil
	p.pool.Put(packet)
}

// Buffer returns the packet's full underlying buffer, for reads.
func (p *Packet) Buffer() []byte {
	return p.buffer
}
