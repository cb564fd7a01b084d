// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package tezos

import (
	"bytes"
	"fmt"
)

type AddressType byte

const (
	AddressTypeInvalid AddressType = iota
	AddressTypeEd25519
	AddressTypeSecp256k1
	AddressTypeP256
	AddressTypeContract
	AddressTypeBlinded
)

// binary address class tags
const (
	addressTagImplicit   byte = 0x00
	addressTagOriginated byte = 0x01
)

const addressBinaryLen = 22

func ParseAddressType(s string) AddressType {
	switch s {
	case "ed25519", HashTypePkhEd25519.Prefix():
		return AddressTypeEd25519
	case "secp256k1", HashTypePkhSecp256k1.Prefix():
		return AddressTypeSecp256k1
	case "p256", HashTypePkhP256.Prefix():
		return AddressTypeP256
	case "contract", HashTypePkhNocurve.Prefix():
		return AddressTypeContract
	case "blinded", HashTypePkhBlinded.Prefix():
		return AddressTypeBlinded
	default:
		return AddressTypeInvalid
	}
}

func (t AddressType) IsValid() bool {
	return t != AddressTypeInvalid && t <= AddressTypeBlinded
}

func (t AddressType) String() string {
	switch t {
	case AddressTypeEd25519:
		return "ed25519"
	case AddressTypeSecp256k1:
		return "secp256k1"
	case AddressTypeP256:
		return "p256"
	case AddressTypeContract:
		return "contract"
	case AddressTypeBlinded:
		return "blinded"
	default:
		return "invalid"
	}
}

func (t AddressType) HashType() HashType {
	switch t {
	case AddressTypeEd25519:
		return HashTypePkhEd25519
	case AddressTypeSecp256k1:
		return HashTypePkhSecp256k1
	case AddressTypeP256:
		return HashTypePkhP256
	case AddressTypeContract:
		return HashTypePkhNocurve
	case AddressTypeBlinded:
		return HashTypePkhBlinded
	default:
		return HashTypeInvalid
	}
}

func (t AddressType) Prefix() string {
	return t.HashType().Prefix()
}

// KeyType returns the curve of implicit addresses.
func (t AddressType) KeyType() KeyType {
	switch t {
	case AddressTypeEd25519:
		return KeyTypeEd25519
	case AddressTypeSecp256k1:
		return KeyTypeSecp256k1
	case AddressTypeP256:
		return KeyTypeP256
	default:
		return KeyTypeInvalid
	}
}

func (t AddressType) IsImplicit() bool {
	return t.KeyType().IsValid()
}

// Address is an implicit account, originated contract or blinded account.
type Address struct {
	Type AddressType
	Hash []byte
}

var InvalidAddress = Address{Type: AddressTypeInvalid}

func NewAddress(typ AddressType, hash []byte) Address {
	return Address{Type: typ, Hash: bytes.Clone(hash)}
}

func (a Address) IsValid() bool {
	return a.Type.IsValid() && len(a.Hash) == a.Type.HashType().Len()
}

func (a Address) Equal(b Address) bool {
	return a.Type == b.Type && bytes.Equal(a.Hash, b.Hash)
}

func (a Address) Clone() Address {
	return NewAddress(a.Type, a.Hash)
}

// KeyHash returns the key hash of an implicit address.
func (a Address) KeyHash() (KeyHash, error) {
	if !a.Type.IsImplicit() {
		return InvalidKeyHash, fmt.Errorf("tezos: %s address has no key hash", a.Type)
	}
	return NewKeyHash(a.Type.KeyType(), a.Hash), nil
}

func (a Address) String() string {
	s, _ := DefaultCodec.FormatAddress(a)
	return s
}

func (a Address) MarshalText() ([]byte, error) {
	s, err := DefaultCodec.FormatAddress(a)
	return []byte(s), err
}

func (a *Address) UnmarshalText(data []byte) error {
	addr, err := ParseAddress(string(data))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// EncodeBuffer writes the 22 byte binary form: 0x00 followed by the tagged
// key hash for implicit accounts, 0x01 followed by the contract hash and
// one byte padding for originated contracts.
func (a Address) EncodeBuffer(buf *bytes.Buffer) error {
	if !a.IsValid() {
		return fmt.Errorf("%w: %s address with %d bytes", ErrInvalidLength, a.Type, len(a.Hash))
	}
	switch {
	case a.Type.IsImplicit():
		buf.WriteByte(addressTagImplicit)
		buf.WriteByte(a.Type.KeyType().Tag())
		buf.Write(a.Hash)
	case a.Type == AddressTypeContract:
		buf.WriteByte(addressTagOriginated)
		buf.Write(a.Hash)
		buf.WriteByte(0) // padding
	default:
		return fmt.Errorf("%w: %s address has no binary form", ErrUnknownTag, a.Type)
	}
	return nil
}

func (a Address) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, addressBinaryLen))
	if err := a.EncodeBuffer(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Address) DecodeBuffer(c *Cursor) error {
	tag, err := c.Peek()
	if err != nil {
		return err
	}
	start := c.Pos()
	switch tag {
	case addressTagImplicit, addressTagOriginated:
	default:
		return fmt.Errorf("%w 0x%02x for address at offset %d", ErrUnknownTag, tag, start)
	}
	if c.Len() < addressBinaryLen {
		_, err := c.Read(addressBinaryLen)
		return fmt.Errorf("address: %w", err)
	}
	b := c.Bytes()[:addressBinaryLen]
	var addr Address
	if tag == addressTagImplicit {
		typ, err := ParseKeyTag(b[1])
		if err != nil {
			return fmt.Errorf("address at offset %d: %w", start, err)
		}
		addr = NewAddress(typ.AddressType(), b[2:])
	} else {
		if b[21] != 0 {
			return fmt.Errorf("%w: non-zero contract address padding at offset %d", ErrInvalidEncoding, start+21)
		}
		addr = NewAddress(AddressTypeContract, b[1:21])
	}
	_ = c.Skip(addressBinaryLen)
	*a = addr
	return nil
}

// UnmarshalBinary decodes the 22 byte binary form.
func (a *Address) UnmarshalBinary(data []byte) error {
	if len(data) != addressBinaryLen {
		return fmt.Errorf("%w: address with %d bytes", ErrInvalidLength, len(data))
	}
	return a.DecodeBuffer(NewCursor(data))
}

func ParseAddress(s string) (Address, error) {
	return DefaultCodec.ParseAddress(s)
}

func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (c *Codec) ParseAddress(s string) (Address, error) {
	h, err := c.parseKind(s, "address",
		HashTypePkhEd25519,
		HashTypePkhSecp256k1,
		HashTypePkhP256,
		HashTypePkhNocurve,
		HashTypePkhBlinded,
	)
	if err != nil {
		return InvalidAddress, err
	}
	var typ AddressType
	switch h.Type {
	case HashTypePkhEd25519:
		typ = AddressTypeEd25519
	case HashTypePkhSecp256k1:
		typ = AddressTypeSecp256k1
	case HashTypePkhP256:
		typ = AddressTypeP256
	case HashTypePkhNocurve:
		typ = AddressTypeContract
	case HashTypePkhBlinded:
		typ = AddressTypeBlinded
	}
	return Address{Type: typ, Hash: h.Hash}, nil
}

func (c *Codec) FormatAddress(a Address) (string, error) {
	if !a.Type.IsValid() {
		return "", fmt.Errorf("%w: invalid address type %d", ErrUnknownTag, a.Type)
	}
	return c.Encode(a.Type.HashType(), a.Hash)
}
