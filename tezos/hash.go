// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package tezos

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// HashType identifies one kind of base58 encoded value (hashes, keys,
// signatures, addresses) by its text prefix and version bytes.
type HashType byte

const (
	HashTypeInvalid HashType = iota
	HashTypeChainId
	HashTypeId
	HashTypePkhEd25519
	HashTypePkhSecp256k1
	HashTypePkhP256
	HashTypePkhNocurve
	HashTypePkhBlinded
	HashTypeBlock
	HashTypeOperation
	HashTypeOperationList
	HashTypeOperationListList
	HashTypeProtocol
	HashTypeContext
	HashTypeBlockPayload
	HashTypeNonce
	HashTypeSeedEd25519
	HashTypePkEd25519
	HashTypeSkEd25519
	HashTypePkSecp256k1
	HashTypeSkSecp256k1
	HashTypePkP256
	HashTypeSkP256
	HashTypeScalarSecp256k1
	HashTypeElementSecp256k1
	HashTypeScriptExpr
	HashTypeEncryptedSeedEd25519
	HashTypeEncryptedSkSecp256k1
	HashTypeEncryptedSkP256
	HashTypeSigEd25519
	HashTypeSigSecp256k1
	HashTypeSigP256
	HashTypeSigGeneric
	numHashTypes
)

type hashTypeInfo struct {
	Name      string
	Prefix    string
	Version   []byte
	Len       int // payload length
	Base58Len int // text length including prefix
}

// prefix registry, see src/lib_crypto/base58.ml
var hashTypeInfos = [numHashTypes]hashTypeInfo{
	HashTypeInvalid:              {"invalid", "", nil, 0, 0},
	HashTypeChainId:              {"chain_id", "Net", []byte{87, 82, 0}, 4, 15},
	HashTypeId:                   {"id", "id", []byte{153, 103}, 16, 30},
	HashTypePkhEd25519:           {"ed25519_pkh", "tz1", []byte{6, 161, 159}, 20, 36},
	HashTypePkhSecp256k1:         {"secp256k1_pkh", "tz2", []byte{6, 161, 161}, 20, 36},
	HashTypePkhP256:              {"p256_pkh", "tz3", []byte{6, 161, 164}, 20, 36},
	HashTypePkhNocurve:           {"contract", "KT1", []byte{2, 90, 121}, 20, 36},
	HashTypePkhBlinded:           {"blinded_pkh", "btz1", []byte{1, 2, 49, 223}, 20, 37},
	HashTypeBlock:                {"block", "B", []byte{1, 52}, 32, 51},
	HashTypeOperation:            {"operation", "o", []byte{5, 116}, 32, 51},
	HashTypeOperationList:        {"operation_list", "Lo", []byte{133, 233}, 32, 52},
	HashTypeOperationListList:    {"operation_list_list", "LLo", []byte{29, 159, 109}, 32, 53},
	HashTypeProtocol:             {"protocol", "P", []byte{2, 170}, 32, 51},
	HashTypeContext:              {"context", "Co", []byte{79, 199}, 32, 52},
	HashTypeBlockPayload:         {"block_payload", "vh", []byte{1, 106, 242}, 32, 52},
	HashTypeNonce:                {"nonce", "nce", []byte{69, 220, 169}, 32, 53},
	HashTypeSeedEd25519:          {"ed25519_seed", "edsk", []byte{13, 15, 58, 7}, 32, 54},
	HashTypePkEd25519:            {"ed25519_pk", "edpk", []byte{13, 15, 37, 217}, 32, 54},
	HashTypeSkEd25519:            {"ed25519_sk", "edsk", []byte{43, 246, 78, 7}, 64, 98},
	HashTypePkSecp256k1:          {"secp256k1_pk", "sppk", []byte{3, 254, 226, 86}, 33, 55},
	HashTypeSkSecp256k1:          {"secp256k1_sk", "spsk", []byte{17, 162, 224, 201}, 32, 54},
	HashTypePkP256:               {"p256_pk", "p2pk", []byte{3, 178, 139, 127}, 33, 55},
	HashTypeSkP256:               {"p256_sk", "p2sk", []byte{16, 81, 238, 189}, 32, 54},
	HashTypeScalarSecp256k1:      {"secp256k1_scalar", "SSp", []byte{38, 248, 136}, 32, 53},
	HashTypeElementSecp256k1:     {"secp256k1_element", "GSp", []byte{5, 92, 0}, 33, 54},
	HashTypeScriptExpr:           {"script_expr", "expr", []byte{13, 44, 64, 27}, 32, 54},
	HashTypeEncryptedSeedEd25519: {"ed25519_encrypted_seed", "edesk", []byte{7, 90, 60, 179, 41}, 56, 88},
	HashTypeEncryptedSkSecp256k1: {"secp256k1_encrypted_sk", "spesk", []byte{9, 237, 241, 174, 150}, 56, 88},
	HashTypeEncryptedSkP256:      {"p256_encrypted_sk", "p2esk", []byte{9, 48, 57, 115, 171}, 56, 88},
	HashTypeSigEd25519:           {"ed25519_sig", "edsig", []byte{9, 245, 205, 134, 18}, 64, 99},
	HashTypeSigSecp256k1:         {"secp256k1_sig", "spsig1", []byte{13, 115, 101, 19, 63}, 64, 99},
	HashTypeSigP256:              {"p256_sig", "p2sig", []byte{54, 240, 44, 52}, 64, 98},
	HashTypeSigGeneric:           {"generic_sig", "sig", []byte{4, 130, 43}, 64, 96},
}

func (t HashType) info() hashTypeInfo {
	if t >= numHashTypes {
		return hashTypeInfos[HashTypeInvalid]
	}
	return hashTypeInfos[t]
}

func (t HashType) IsValid() bool {
	return t != HashTypeInvalid && t < numHashTypes
}

func (t HashType) String() string {
	return t.info().Name
}

// Prefix returns the base58 text prefix.
func (t HashType) Prefix() string {
	return t.info().Prefix
}

// PrefixBytes returns the version bytes prepended before base58 encoding.
func (t HashType) PrefixBytes() []byte {
	return t.info().Version
}

// Len returns the payload length in bytes.
func (t HashType) Len() int {
	return t.info().Len
}

// Base58Len returns the length of the text form.
func (t HashType) Base58Len() int {
	return t.info().Base58Len
}

func (t HashType) MatchPrefix(s string) bool {
	return t.IsValid() && strings.HasPrefix(s, t.Prefix())
}

// HashTypes lists all registered kinds.
func HashTypes() []HashType {
	l := make([]HashType, 0, numHashTypes-1)
	for t := HashTypeInvalid + 1; t < numHashTypes; t++ {
		l = append(l, t)
	}
	return l
}

// ParseHashTypeName resolves the symbolic name returned by String or a
// registered text prefix.
func ParseHashTypeName(s string) (HashType, error) {
	for t := HashTypeInvalid + 1; t < numHashTypes; t++ {
		if hashTypeInfos[t].Name == s {
			return t, nil
		}
	}
	var found HashType
	for t := HashTypeInvalid + 1; t < numHashTypes; t++ {
		if hashTypeInfos[t].Prefix == s {
			if found.IsValid() {
				return HashTypeInvalid, fmt.Errorf("%w: ambiguous prefix %q", ErrUnknownPrefix, s)
			}
			found = t
		}
	}
	if !found.IsValid() {
		return HashTypeInvalid, fmt.Errorf("%w %q", ErrUnknownPrefix, s)
	}
	return found, nil
}

// ParseHashType detects the kind of a base58 string by its longest matching
// prefix. Kinds sharing the same prefix are told apart by text length.
func ParseHashType(s string) (HashType, error) {
	var (
		best  HashType
		blen  int
		count int
	)
	for t := HashTypeInvalid + 1; t < numHashTypes; t++ {
		info := hashTypeInfos[t]
		if !strings.HasPrefix(s, info.Prefix) {
			continue
		}
		switch l := len(info.Prefix); {
		case l > blen:
			best, blen, count = t, l, 1
		case l == blen:
			count++
			if info.Base58Len == len(s) {
				best = t
			} else if hashTypeInfos[best].Base58Len != len(s) {
				best = HashTypeInvalid
			}
		}
	}
	if !best.IsValid() {
		if count > 1 {
			return HashTypeInvalid, fmt.Errorf("%w: ambiguous prefix %q for length %d", ErrUnknownPrefix, s[:blen], len(s))
		}
		return HashTypeInvalid, fmt.Errorf("%w in %q", ErrUnknownPrefix, s)
	}
	return best, nil
}

// Hash is a typed payload of a registered kind.
type Hash struct {
	Type HashType
	Hash []byte
}

var ZeroHash = Hash{Type: HashTypeInvalid}

func NewHash(typ HashType, hash []byte) Hash {
	return Hash{Type: typ, Hash: bytes.Clone(hash)}
}

func (h Hash) IsValid() bool {
	return h.Type.IsValid() && len(h.Hash) == h.Type.Len()
}

func (h Hash) Equal(h2 Hash) bool {
	return h.Type == h2.Type && bytes.Equal(h.Hash, h2.Hash)
}

func (h Hash) Clone() Hash {
	return NewHash(h.Type, h.Hash)
}

func (h Hash) Bytes() []byte {
	return h.Hash
}

func (h Hash) Hex() string {
	return hex.EncodeToString(h.Hash)
}

func (h Hash) String() string {
	s, _ := DefaultCodec.FormatHash(h)
	return s
}

func ParseHash(s string) (Hash, error) {
	return DefaultCodec.ParseHash(s)
}

func MustParseHash(s string) Hash {
	h, err := ParseHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (h Hash) MarshalText() ([]byte, error) {
	s, err := DefaultCodec.FormatHash(h)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (h *Hash) UnmarshalText(data []byte) error {
	x, err := ParseHash(string(data))
	if err != nil {
		return err
	}
	*h = x
	return nil
}

// MarshalBinary returns the raw payload. Hash binary forms carry no tag,
// the kind is implied by context.
func (h Hash) MarshalBinary() ([]byte, error) {
	if !h.IsValid() {
		return nil, fmt.Errorf("%w: %s hash with %d bytes", ErrInvalidLength, h.Type, len(h.Hash))
	}
	return bytes.Clone(h.Hash), nil
}

// DecodeHash reads a payload of the given kind from c.
func DecodeHash(typ HashType, c *Cursor) (Hash, error) {
	if !typ.IsValid() {
		return ZeroHash, fmt.Errorf("%w: invalid hash type %d", ErrUnknownPrefix, typ)
	}
	b, err := c.Read(typ.Len())
	if err != nil {
		return ZeroHash, fmt.Errorf("%s hash: %w", typ, err)
	}
	return NewHash(typ, b), nil
}

// UnmarshalHash decodes an exactly sized payload of the given kind.
func UnmarshalHash(typ HashType, data []byte) (Hash, error) {
	if !typ.IsValid() {
		return ZeroHash, fmt.Errorf("%w: invalid hash type %d", ErrUnknownPrefix, typ)
	}
	if len(data) != typ.Len() {
		return ZeroHash, fmt.Errorf("%w: %s hash with %d bytes", ErrInvalidLength, typ, len(data))
	}
	return NewHash(typ, data), nil
}
