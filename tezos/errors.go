// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package tezos

import (
	"errors"

	"blockwatch.cc/tzcodec/base58"
)

var (
	// ErrUnknownPrefix is returned when a base58 string does not start with
	// a registered prefix or its version bytes do not match the expected kind.
	ErrUnknownPrefix = errors.New("tezos: unknown prefix")

	// ErrInvalidLength is returned when a payload has the wrong size.
	ErrInvalidLength = errors.New("tezos: invalid length")

	// ErrChecksumMismatch is returned when a Base58Check checksum fails.
	ErrChecksumMismatch = base58.ErrChecksum

	// ErrUnknownTag is returned for unregistered binary family tags.
	ErrUnknownTag = errors.New("tezos: unknown tag")

	// ErrInvalidEncoding is returned for malformed or truncated binary data.
	ErrInvalidEncoding = errors.New("tezos: invalid encoding")
)
