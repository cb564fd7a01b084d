// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"bytes"
	"fmt"

	"blockwatch.cc/tzcodec/tezos"
	"golang.org/x/crypto/blake2b"
)

// PACK prefixes with 0x05!
// So that when contracts checking signatures (multisigs etc) do the current
// best practice, PACK; ...; CHECK_SIGNATURE, the 0x05 byte distinguishes the
// message from blocks, endorsements, transactions, or tezos-signer authorization
// requests (0x01-0x04)
const PackWatermark byte = 0x05

// Pack returns the watermarked binary encoding of p as produced by the PACK
// instruction for values already in optimized form.
func (p Prim) Pack() ([]byte, error) {
	buf := bytes.NewBuffer([]byte{PackWatermark})
	if err := p.EncodeBuffer(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PackAs converts readable values to their optimized form according to typ
// and packs the result.
func (p *Prim) PackAs(typ *Prim) ([]byte, error) {
	opt, err := p.Optimize(typ)
	if err != nil {
		return nil, err
	}
	return opt.Pack()
}

// IsPacked reports whether buf looks like packed Micheline data.
func IsPacked(buf []byte) bool {
	return len(buf) > 1 && buf[0] == PackWatermark && PrimType(buf[1]).IsValid()
}

// Unpack decodes packed data. Trailing bytes after the node are an error.
func Unpack(buf []byte) (*Prim, error) {
	if len(buf) == 0 || buf[0] != PackWatermark {
		return nil, fmt.Errorf("%w: missing pack watermark", tezos.ErrInvalidEncoding)
	}
	p := &Prim{}
	if err := p.UnmarshalBinary(buf[1:]); err != nil {
		return nil, err
	}
	log.Tracef("unpacked %d bytes: %s", len(buf), newLogClosure(func() string { return p.Compact(4) }))
	return p, nil
}

// Hash returns the script expression hash of p, the blake2b-256 digest of
// its packed form.
func (p Prim) Hash() (tezos.ExprHash, error) {
	buf, err := p.Pack()
	if err != nil {
		return tezos.ExprHash{}, err
	}
	h := blake2b.Sum256(buf)
	return tezos.NewExprHash(h[:]), nil
}

// KeyHash returns the expression hash used to index a big_map key of
// type typ.
func KeyHash(typ, key *Prim) (tezos.ExprHash, error) {
	opt, err := key.Optimize(typ)
	if err != nil {
		return tezos.ExprHash{}, err
	}
	return opt.Hash()
}
