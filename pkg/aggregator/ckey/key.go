// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package ckey builds the context keys under which per-context metric state
// is stored.
package ckey

import (
	"github.com/twmb/murmur3"
)

// ContextKey is a non-cryptographic hash identifying one metric context
// (name + tag set + hostname + device). Tag hashes are combined with xor so
// the key does not depend on tag order, and duplicated tags are skipped
// while hashing so they do not cancel each other out.
//
// uint64 keys get the runtime's fast-path map access (mapaccess2_fast64),
// which matters on the sample ingestion path.
type ContextKey uint64

// IsZero returns true if the key is at zero value
func (k ContextKey) IsZero() bool {
	return k == 0
}

// murmur3 seed, used to keep an empty context from hashing to zero
const keySeed uint64 = 0xc6a4a7935bd1e995

// KeyGenerator generates a ContextKey for a name, hostname, device and tag
// set. Tags don't have to be sorted and duplicates are ignored.
// Not safe for concurrent use.
type KeyGenerator struct {
	// seen holds the hashes of the tags already folded into the current
	// key, reused across generations to avoid allocating
	seen []uint64
}

// NewKeyGenerator creates a new key generator
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{
		seen: make([]uint64, 0, 128),
	}
}

// Generate returns the ContextKey for the given parameters.
func (g *KeyGenerator) Generate(name, hostname, device string, tags []string) ContextKey {
	key := keySeed
	key ^= murmur3.StringSum64(name)
	key ^= murmur3.StringSum64(hostname)
	if device != "" {
		key ^= murmur3.StringSum64(device)
	}

	g.seen = g.seen[:0]
OUTER:
	for i := range tags {
		h := murmur3.StringSum64(tags[i])
		for _, s := range g.seen {
			if s == h {
				// xoring the same tag twice would remove it from the key
				continue OUTER
			}
		}
		key ^= h
		g.seen = append(g.seen, h)
	}

	return ContextKey(key)
}

// Equals returns whether the two context keys are equal or not.
func Equals(a, b ContextKey) bool {
	return a == b
}
