// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package base58

import (
	"crypto/sha256"
	"errors"
	"sync"
)

var bufPool = &sync.Pool{
	New: func() interface{} { return make([]byte, 0, 128) },
}

// ErrChecksum indicates that the checksum of a check-encoded string does not verify against
// the checksum.
var ErrChecksum = errors.New("base58: checksum mismatch")

// ErrInvalidFormat indicates that the check-encoded string has an invalid format.
var ErrInvalidFormat = errors.New("base58: version and/or checksum bytes missing")

// HashFunc computes a SHA-256 digest. It is supplied by the host so callers
// can plug in accelerated implementations.
type HashFunc func([]byte) [32]byte

// Checker computes and verifies Base58Check envelopes with an injected
// SHA-256 implementation. A Checker is immutable and safe for concurrent use.
type Checker struct {
	sum HashFunc
}

// Default uses the standard library SHA-256.
var Default = NewChecker(sha256.Sum256)

func NewChecker(h HashFunc) *Checker {
	if h == nil {
		panic("base58: nil hash function")
	}
	return &Checker{sum: h}
}

// Checksum returns the first four bytes of sha256(sha256(b)).
func (c *Checker) Checksum(b []byte) (cksum [4]byte) {
	h := c.sum(b)
	h2 := c.sum(h[:])
	copy(cksum[:], h2[:4])
	return
}

// CheckEncode prepends version bytes and appends a four byte checksum.
func (c *Checker) CheckEncode(input []byte, version []byte) string {
	bi := bufPool.Get()
	b := bi.([]byte)[:0]
	b = append(b, version...)
	b = append(b, input...)
	cksum := c.Checksum(b)
	b = append(b, cksum[:]...)
	res := Encode(b)
	bufPool.Put(b[:0])
	return res
}

// CheckDecode decodes a string that was encoded with CheckEncode and verifies the checksum.
// Version is the first vlen decoded bytes. Payload and version alias buf.
func (c *Checker) CheckDecode(input string, vlen int, buf []byte) ([]byte, []byte, error) {
	decoded, err := Decode(input, buf)
	if err != nil {
		return nil, nil, err
	}
	if len(decoded) < 4+vlen {
		return nil, nil, ErrInvalidFormat
	}
	var cksum [4]byte
	copy(cksum[:], decoded[len(decoded)-4:])
	if c.Checksum(decoded[:len(decoded)-4]) != cksum {
		return nil, nil, ErrChecksum
	}
	return decoded[vlen : len(decoded)-4], decoded[:vlen], nil
}

func CheckEncode(input []byte, version []byte) string {
	return Default.CheckEncode(input, version)
}

func CheckDecode(input string, vlen int, buf []byte) ([]byte, []byte, error) {
	return Default.CheckDecode(input, vlen, buf)
}
