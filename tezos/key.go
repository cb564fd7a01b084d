// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package tezos

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// KeyType is the signature curve of a key, key hash or signature. Its value
// is the binary family tag.
type KeyType byte

const (
	KeyTypeEd25519 KeyType = iota
	KeyTypeSecp256k1
	KeyTypeP256
	KeyTypeInvalid
)

type curveInfo struct {
	Name    string
	PkhType HashType
	PkType  HashType
	SigType HashType
}

var curveInfos = [KeyTypeInvalid]curveInfo{
	KeyTypeEd25519:   {"ed25519", HashTypePkhEd25519, HashTypePkEd25519, HashTypeSigEd25519},
	KeyTypeSecp256k1: {"secp256k1", HashTypePkhSecp256k1, HashTypePkSecp256k1, HashTypeSigSecp256k1},
	KeyTypeP256:      {"p256", HashTypePkhP256, HashTypePkP256, HashTypeSigP256},
}

func (t KeyType) IsValid() bool {
	return t < KeyTypeInvalid
}

func (t KeyType) String() string {
	if !t.IsValid() {
		return "invalid"
	}
	return curveInfos[t].Name
}

func (t KeyType) Tag() byte {
	return byte(t)
}

// HashType returns the kind of the curve's public key hash.
func (t KeyType) HashType() HashType {
	if !t.IsValid() {
		return HashTypeInvalid
	}
	return curveInfos[t].PkhType
}

// PkType returns the kind of the curve's public key.
func (t KeyType) PkType() HashType {
	if !t.IsValid() {
		return HashTypeInvalid
	}
	return curveInfos[t].PkType
}

func (t KeyType) SigType() HashType {
	if !t.IsValid() {
		return HashTypeInvalid
	}
	return curveInfos[t].SigType
}

// Len returns the public key length.
func (t KeyType) Len() int {
	return t.PkType().Len()
}

func (t KeyType) AddressType() AddressType {
	switch t {
	case KeyTypeEd25519:
		return AddressTypeEd25519
	case KeyTypeSecp256k1:
		return AddressTypeSecp256k1
	case KeyTypeP256:
		return AddressTypeP256
	default:
		return AddressTypeInvalid
	}
}

func ParseKeyTag(b byte) (KeyType, error) {
	if t := KeyType(b); t.IsValid() {
		return t, nil
	}
	return KeyTypeInvalid, fmt.Errorf("%w 0x%02x for key type", ErrUnknownTag, b)
}

func ParseKeyType(s string) (KeyType, error) {
	for t := KeyTypeEd25519; t < KeyTypeInvalid; t++ {
		if curveInfos[t].Name == s {
			return t, nil
		}
	}
	return KeyTypeInvalid, fmt.Errorf("tezos: unknown key type %q", s)
}

func keyTypeFor(typ HashType, pick func(curveInfo) HashType) KeyType {
	for t := KeyTypeEd25519; t < KeyTypeInvalid; t++ {
		if pick(curveInfos[t]) == typ {
			return t
		}
	}
	return KeyTypeInvalid
}

// Key is a public key.
type Key struct {
	Type KeyType
	Data []byte
}

var InvalidKey = Key{Type: KeyTypeInvalid}

func NewKey(typ KeyType, data []byte) Key {
	return Key{Type: typ, Data: bytes.Clone(data)}
}

func (k Key) IsValid() bool {
	return k.Type.IsValid() && len(k.Data) == k.Type.Len()
}

func (k Key) Equal(k2 Key) bool {
	return k.Type == k2.Type && bytes.Equal(k.Data, k2.Data)
}

func (k Key) Clone() Key {
	return NewKey(k.Type, k.Data)
}

// Hash returns the blake2b-160 digest of the key bytes.
func (k Key) Hash() []byte {
	h, _ := blake2b.New(20, nil)
	h.Write(k.Data)
	return h.Sum(nil)
}

func (k Key) KeyHash() KeyHash {
	return KeyHash{Type: k.Type, Hash: k.Hash()}
}

func (k Key) Address() Address {
	return Address{Type: k.Type.AddressType(), Hash: k.Hash()}
}

func (k Key) String() string {
	s, _ := DefaultCodec.FormatKey(k)
	return s
}

func (k Key) MarshalText() ([]byte, error) {
	s, err := DefaultCodec.FormatKey(k)
	return []byte(s), err
}

func (k *Key) UnmarshalText(data []byte) error {
	key, err := ParseKey(string(data))
	if err != nil {
		return err
	}
	*k = key
	return nil
}

func (k Key) EncodeBuffer(buf *bytes.Buffer) error {
	if !k.IsValid() {
		return fmt.Errorf("%w: %s key with %d bytes", ErrInvalidLength, k.Type, len(k.Data))
	}
	buf.WriteByte(k.Type.Tag())
	buf.Write(k.Data)
	return nil
}

// MarshalBinary returns the tagged binary form.
func (k Key) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 1+len(k.Data)))
	if err := k.EncodeBuffer(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (k *Key) DecodeBuffer(c *Cursor) error {
	tag, err := c.Peek()
	if err != nil {
		return err
	}
	typ, err := ParseKeyTag(tag)
	if err != nil {
		return fmt.Errorf("key at offset %d: %w", c.Pos(), err)
	}
	b, err := c.Read(1 + typ.Len())
	if err != nil {
		return fmt.Errorf("%s key: %w", typ, err)
	}
	*k = NewKey(typ, b[1:])
	return nil
}

// UnmarshalBinary decodes an exactly sized tagged key.
func (k *Key) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty key", ErrInvalidLength)
	}
	typ, err := ParseKeyTag(data[0])
	if err != nil {
		return err
	}
	if len(data) != 1+typ.Len() {
		return fmt.Errorf("%w: %s key with %d bytes", ErrInvalidLength, typ, len(data))
	}
	*k = NewKey(typ, data[1:])
	return nil
}

func ParseKey(s string) (Key, error) {
	return DefaultCodec.ParseKey(s)
}

func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func (c *Codec) ParseKey(s string) (Key, error) {
	h, err := c.parseKind(s, "public key", HashTypePkEd25519, HashTypePkSecp256k1, HashTypePkP256)
	if err != nil {
		return InvalidKey, err
	}
	return Key{Type: keyTypeFor(h.Type, func(ci curveInfo) HashType { return ci.PkType }), Data: h.Hash}, nil
}

func (c *Codec) FormatKey(k Key) (string, error) {
	if !k.Type.IsValid() {
		return "", fmt.Errorf("%w: invalid key type %d", ErrUnknownTag, k.Type)
	}
	return c.Encode(k.Type.PkType(), k.Data)
}
