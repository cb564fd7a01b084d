// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package tezos

import (
	"bytes"
	"fmt"
)

// KeyHash is a public key hash (implicit account identity).
type KeyHash struct {
	Type KeyType
	Hash []byte
}

var InvalidKeyHash = KeyHash{Type: KeyTypeInvalid}

const keyHashLen = 20

func NewKeyHash(typ KeyType, hash []byte) KeyHash {
	return KeyHash{Type: typ, Hash: bytes.Clone(hash)}
}

func (k KeyHash) IsValid() bool {
	return k.Type.IsValid() && len(k.Hash) == keyHashLen
}

func (k KeyHash) Equal(k2 KeyHash) bool {
	return k.Type == k2.Type && bytes.Equal(k.Hash, k2.Hash)
}

func (k KeyHash) Clone() KeyHash {
	return NewKeyHash(k.Type, k.Hash)
}

func (k KeyHash) Address() Address {
	return Address{Type: k.Type.AddressType(), Hash: bytes.Clone(k.Hash)}
}

func (k KeyHash) String() string {
	s, _ := DefaultCodec.FormatKeyHash(k)
	return s
}

func (k KeyHash) MarshalText() ([]byte, error) {
	s, err := DefaultCodec.FormatKeyHash(k)
	return []byte(s), err
}

func (k *KeyHash) UnmarshalText(data []byte) error {
	kh, err := ParseKeyHash(string(data))
	if err != nil {
		return err
	}
	*k = kh
	return nil
}

func (k KeyHash) EncodeBuffer(buf *bytes.Buffer) error {
	if !k.IsValid() {
		return fmt.Errorf("%w: %s key hash with %d bytes", ErrInvalidLength, k.Type, len(k.Hash))
	}
	buf.WriteByte(k.Type.Tag())
	buf.Write(k.Hash)
	return nil
}

func (k KeyHash) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 1+keyHashLen))
	if err := k.EncodeBuffer(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (k *KeyHash) DecodeBuffer(c *Cursor) error {
	tag, err := c.Peek()
	if err != nil {
		return err
	}
	typ, err := ParseKeyTag(tag)
	if err != nil {
		return fmt.Errorf("key hash at offset %d: %w", c.Pos(), err)
	}
	b, err := c.Read(1 + keyHashLen)
	if err != nil {
		return fmt.Errorf("%s key hash: %w", typ, err)
	}
	*k = NewKeyHash(typ, b[1:])
	return nil
}

func (k *KeyHash) UnmarshalBinary(data []byte) error {
	if len(data) != 1+keyHashLen {
		return fmt.Errorf("%w: key hash with %d bytes", ErrInvalidLength, len(data))
	}
	typ, err := ParseKeyTag(data[0])
	if err != nil {
		return err
	}
	*k = NewKeyHash(typ, data[1:])
	return nil
}

func ParseKeyHash(s string) (KeyHash, error) {
	return DefaultCodec.ParseKeyHash(s)
}

func MustParseKeyHash(s string) KeyHash {
	k, err := ParseKeyHash(s)
	if err != nil {
		panic(err)
	}
	return k
}

func (c *Codec) ParseKeyHash(s string) (KeyHash, error) {
	h, err := c.parseKind(s, "public key hash", HashTypePkhEd25519, HashTypePkhSecp256k1, HashTypePkhP256)
	if err != nil {
		return InvalidKeyHash, err
	}
	return KeyHash{Type: keyTypeFor(h.Type, func(ci curveInfo) HashType { return ci.PkhType }), Hash: h.Hash}, nil
}

func (c *Codec) FormatKeyHash(k KeyHash) (string, error) {
	if !k.Type.IsValid() {
		return "", fmt.Errorf("%w: invalid key type %d", ErrUnknownTag, k.Type)
	}
	return c.Encode(k.Type.HashType(), k.Hash)
}
