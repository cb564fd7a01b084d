// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package tezos

import (
	"bytes"
	"errors"
	"fmt"

	"blockwatch.cc/tzcodec/base58"
)

// Codec converts between registered kinds and their Base58Check text form
// using the checksum implementation of its Checker.
type Codec struct {
	check *base58.Checker
}

// DefaultCodec is used by all package level parse and format helpers.
var DefaultCodec = NewCodec(base58.Default)

func NewCodec(c *base58.Checker) *Codec {
	if c == nil {
		c = base58.Default
	}
	return &Codec{check: c}
}

func (c *Codec) Checker() *base58.Checker {
	return c.check
}

// Encode returns the text form of payload as kind typ.
func (c *Codec) Encode(typ HashType, payload []byte) (string, error) {
	if !typ.IsValid() {
		return "", fmt.Errorf("%w: invalid hash type %d", ErrUnknownPrefix, typ)
	}
	if len(payload) != typ.Len() {
		return "", fmt.Errorf("%w: %s payload with %d bytes", ErrInvalidLength, typ, len(payload))
	}
	return c.check.CheckEncode(payload, typ.PrefixBytes()), nil
}

// Decode parses s as kind typ.
func (c *Codec) Decode(typ HashType, s string) (Hash, error) {
	if !typ.IsValid() {
		return ZeroHash, fmt.Errorf("%w: invalid hash type %d", ErrUnknownPrefix, typ)
	}
	vlen := len(typ.PrefixBytes())
	payload, version, err := c.check.CheckDecode(s, vlen, nil)
	if err != nil {
		if errors.Is(err, base58.ErrInvalidFormat) {
			return ZeroHash, fmt.Errorf("%w: %s: %v", ErrInvalidLength, typ, err)
		}
		return ZeroHash, fmt.Errorf("decoding %s: %w", typ, err)
	}
	if !bytes.Equal(version, typ.PrefixBytes()) {
		return ZeroHash, fmt.Errorf("%w: version %x does not match %s", ErrUnknownPrefix, version, typ)
	}
	if len(payload) != typ.Len() {
		return ZeroHash, fmt.Errorf("%w: %s payload with %d bytes, want %d", ErrInvalidLength, typ, len(payload), typ.Len())
	}
	return NewHash(typ, payload), nil
}

// ParseHash detects the kind of s from its prefix and decodes it.
func (c *Codec) ParseHash(s string) (Hash, error) {
	typ, err := ParseHashType(s)
	if err != nil {
		return ZeroHash, err
	}
	return c.Decode(typ, s)
}

func (c *Codec) FormatHash(h Hash) (string, error) {
	return c.Encode(h.Type, h.Hash)
}

// parseKind decodes s and checks the detected kind against the accepted
// family members.
func (c *Codec) parseKind(s, family string, accept ...HashType) (Hash, error) {
	h, err := c.ParseHash(s)
	if err != nil {
		return ZeroHash, err
	}
	for _, t := range accept {
		if h.Type == t {
			return h, nil
		}
	}
	return ZeroHash, fmt.Errorf("%w: %s is not a %s", ErrUnknownPrefix, h.Type, family)
}
