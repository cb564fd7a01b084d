// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package tezos

import (
	"bytes"

	"golang.org/x/crypto/blake2b"
)

// BlindHash returns the keyed blake2b-160 digest of hash. Secrets longer
// than 64 bytes are rejected.
func BlindHash(hash, secret []byte) ([]byte, error) {
	h, err := blake2b.New(20, secret)
	if err != nil {
		return nil, err
	}
	h.Write(hash)
	return h.Sum(nil), nil
}

// BlindAddress derives the blinded (btz1) form of an implicit address as
// used in fundraiser commitments.
func BlindAddress(a Address, secret []byte) (Address, error) {
	bh, err := BlindHash(a.Hash, secret)
	if err != nil {
		return InvalidAddress, err
	}
	return Address{Type: AddressTypeBlinded, Hash: bh}, nil
}

// MatchBlindedAddress reports whether a blinded with secret equals b.
func MatchBlindedAddress(a, b Address, secret []byte) bool {
	if b.Type != AddressTypeBlinded {
		return false
	}
	bh, err := BlindHash(a.Hash, secret)
	if err != nil {
		return false
	}
	return bytes.Equal(bh, b.Hash)
}
