// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package base58 implements the Bitcoin flavor of base58 and the Base58Check
// envelope used for all human readable Tezos identifiers.
package base58

import (
	"errors"
	"fmt"

	mrtron "github.com/mr-tron/base58"
)

// ErrInvalidCharacter is returned when the input contains a symbol outside
// the base58 alphabet.
var ErrInvalidCharacter = errors.New("base58: invalid character")

const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var b58 [256]byte

func init() {
	for i := range b58 {
		b58[i] = 255
	}
	for i := 0; i < len(alphabet); i++ {
		b58[alphabet[i]] = byte(i)
	}
}

// Decode decodes a base58 string into buf (reallocated when too small) and
// returns the result. Each leading '1' becomes a leading zero byte.
func Decode(s string, buf []byte) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if b58[s[i]] == 255 {
			return nil, fmt.Errorf("%w %q at position %d", ErrInvalidCharacter, s[i], i)
		}
	}
	var dec []byte
	if len(s) > 0 {
		var err error
		if dec, err = mrtron.Decode(s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCharacter, err)
		}
	}
	if cap(buf) < len(dec) {
		buf = make([]byte, len(dec))
	}
	buf = buf[:len(dec)]
	copy(buf, dec)
	return buf, nil
}

// Encode encodes a byte slice to base58.
func Encode(b []byte) string {
	return mrtron.Encode(b)
}
