// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package tezos

import (
	"bytes"
	"fmt"
)

type SignatureType byte

const (
	SignatureTypeEd25519 SignatureType = iota
	SignatureTypeSecp256k1
	SignatureTypeP256
	SignatureTypeGeneric
	SignatureTypeInvalid
)

const signatureLen = 64

func (t SignatureType) IsValid() bool {
	return t < SignatureTypeInvalid
}

func (t SignatureType) String() string {
	switch t {
	case SignatureTypeEd25519:
		return "ed25519"
	case SignatureTypeSecp256k1:
		return "secp256k1"
	case SignatureTypeP256:
		return "p256"
	case SignatureTypeGeneric:
		return "generic"
	default:
		return "invalid"
	}
}

func (t SignatureType) HashType() HashType {
	switch t {
	case SignatureTypeEd25519:
		return HashTypeSigEd25519
	case SignatureTypeSecp256k1:
		return HashTypeSigSecp256k1
	case SignatureTypeP256:
		return HashTypeSigP256
	case SignatureTypeGeneric:
		return HashTypeSigGeneric
	default:
		return HashTypeInvalid
	}
}

func (t SignatureType) Prefix() string {
	return t.HashType().Prefix()
}

// KeyType returns the signing curve, which is unknown for generic
// signatures.
func (t SignatureType) KeyType() KeyType {
	switch t {
	case SignatureTypeEd25519:
		return KeyTypeEd25519
	case SignatureTypeSecp256k1:
		return KeyTypeSecp256k1
	case SignatureTypeP256:
		return KeyTypeP256
	default:
		return KeyTypeInvalid
	}
}

// Signature is a 64 byte signature. Typed signatures remember their curve
// only in text form; the binary form carries no tag.
type Signature struct {
	Type SignatureType
	Data []byte
}

var InvalidSignature = Signature{Type: SignatureTypeInvalid}

func NewSignature(typ SignatureType, data []byte) Signature {
	return Signature{Type: typ, Data: bytes.Clone(data)}
}

func (s Signature) IsValid() bool {
	return s.Type.IsValid() && len(s.Data) == signatureLen
}

func (s Signature) Equal(s2 Signature) bool {
	return s.Type == s2.Type && bytes.Equal(s.Data, s2.Data)
}

// Generic returns s as curve-less signature.
func (s Signature) Generic() Signature {
	return Signature{Type: SignatureTypeGeneric, Data: bytes.Clone(s.Data)}
}

func (s Signature) Clone() Signature {
	return NewSignature(s.Type, s.Data)
}

func (s Signature) String() string {
	str, _ := DefaultCodec.FormatSignature(s)
	return str
}

func (s Signature) MarshalText() ([]byte, error) {
	str, err := DefaultCodec.FormatSignature(s)
	return []byte(str), err
}

func (s *Signature) UnmarshalText(data []byte) error {
	sig, err := ParseSignature(string(data))
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

func (s Signature) EncodeBuffer(buf *bytes.Buffer) error {
	if !s.IsValid() {
		return fmt.Errorf("%w: %s signature with %d bytes", ErrInvalidLength, s.Type, len(s.Data))
	}
	buf.Write(s.Data)
	return nil
}

// MarshalBinary returns the raw 64 signature bytes.
func (s Signature) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, signatureLen))
	if err := s.EncodeBuffer(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBuffer reads 64 raw bytes. The result is always a generic signature
// because the wire format does not identify the curve.
func (s *Signature) DecodeBuffer(c *Cursor) error {
	b, err := c.Read(signatureLen)
	if err != nil {
		return fmt.Errorf("signature: %w", err)
	}
	*s = NewSignature(SignatureTypeGeneric, b)
	return nil
}

func (s *Signature) UnmarshalBinary(data []byte) error {
	if len(data) != signatureLen {
		return fmt.Errorf("%w: signature with %d bytes", ErrInvalidLength, len(data))
	}
	*s = NewSignature(SignatureTypeGeneric, data)
	return nil
}

func ParseSignature(s string) (Signature, error) {
	return DefaultCodec.ParseSignature(s)
}

func MustParseSignature(s string) Signature {
	sig, err := ParseSignature(s)
	if err != nil {
		panic(err)
	}
	return sig
}

func (c *Codec) ParseSignature(s string) (Signature, error) {
	h, err := c.parseKind(s, "signature",
		HashTypeSigEd25519,
		HashTypeSigSecp256k1,
		HashTypeSigP256,
		HashTypeSigGeneric,
	)
	if err != nil {
		return InvalidSignature, err
	}
	typ := SignatureTypeGeneric
	if kt := keyTypeFor(h.Type, func(ci curveInfo) HashType { return ci.SigType }); kt.IsValid() {
		typ = SignatureType(kt)
	}
	return Signature{Type: typ, Data: h.Hash}, nil
}

func (c *Codec) FormatSignature(s Signature) (string, error) {
	if !s.Type.IsValid() {
		return "", fmt.Errorf("%w: invalid signature type %d", ErrUnknownTag, s.Type)
	}
	return c.Encode(s.Type.HashType(), s.Data)
}
