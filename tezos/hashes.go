// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package tezos

import (
	"fmt"
)

func parseTypedHash(typ HashType, s string) (Hash, error) {
	h, err := DefaultCodec.ParseHash(s)
	if err != nil {
		return ZeroHash, err
	}
	if h.Type != typ {
		return ZeroHash, fmt.Errorf("%w: %s is not a %s hash", ErrUnknownPrefix, h.Type, typ)
	}
	return h, nil
}

func mustParseTypedHash(typ HashType, s string) Hash {
	h, err := parseTypedHash(typ, s)
	if err != nil {
		panic(err)
	}
	return h
}

// ChainIdHash
type ChainIdHash struct {
	Hash
}

func NewChainIdHash(buf []byte) ChainIdHash {
	return ChainIdHash{NewHash(HashTypeChainId, buf)}
}

func ParseChainIdHash(s string) (ChainIdHash, error) {
	h, err := parseTypedHash(HashTypeChainId, s)
	return ChainIdHash{h}, err
}

func MustParseChainIdHash(s string) ChainIdHash {
	return ChainIdHash{mustParseTypedHash(HashTypeChainId, s)}
}

func (h ChainIdHash) Equal(h2 ChainIdHash) bool {
	return h.Hash.Equal(h2.Hash)
}

func (h *ChainIdHash) UnmarshalText(data []byte) error {
	x, err := ParseChainIdHash(string(data))
	if err == nil {
		*h = x
	}
	return err
}

func (h *ChainIdHash) UnmarshalBinary(data []byte) error {
	x, err := UnmarshalHash(HashTypeChainId, data)
	if err == nil {
		h.Hash = x
	}
	return err
}

// BlockHash
type BlockHash struct {
	Hash
}

func NewBlockHash(buf []byte) BlockHash {
	return BlockHash{NewHash(HashTypeBlock, buf)}
}

func ParseBlockHash(s string) (BlockHash, error) {
	h, err := parseTypedHash(HashTypeBlock, s)
	return BlockHash{h}, err
}

func MustParseBlockHash(s string) BlockHash {
	return BlockHash{mustParseTypedHash(HashTypeBlock, s)}
}

func (h BlockHash) Equal(h2 BlockHash) bool {
	return h.Hash.Equal(h2.Hash)
}

func (h *BlockHash) UnmarshalText(data []byte) error {
	x, err := ParseBlockHash(string(data))
	if err == nil {
		*h = x
	}
	return err
}

func (h *BlockHash) UnmarshalBinary(data []byte) error {
	x, err := UnmarshalHash(HashTypeBlock, data)
	if err == nil {
		h.Hash = x
	}
	return err
}

// ProtocolHash
type ProtocolHash struct {
	Hash
}

func NewProtocolHash(buf []byte) ProtocolHash {
	return ProtocolHash{NewHash(HashTypeProtocol, buf)}
}

func ParseProtocolHash(s string) (ProtocolHash, error) {
	h, err := parseTypedHash(HashTypeProtocol, s)
	return ProtocolHash{h}, err
}

func MustParseProtocolHash(s string) ProtocolHash {
	return ProtocolHash{mustParseTypedHash(HashTypeProtocol, s)}
}

func (h ProtocolHash) Equal(h2 ProtocolHash) bool {
	return h.Hash.Equal(h2.Hash)
}

func (h *ProtocolHash) UnmarshalText(data []byte) error {
	x, err := ParseProtocolHash(string(data))
	if err == nil {
		*h = x
	}
	return err
}

func (h *ProtocolHash) UnmarshalBinary(data []byte) error {
	x, err := UnmarshalHash(HashTypeProtocol, data)
	if err == nil {
		h.Hash = x
	}
	return err
}

// OperationHash
type OperationHash struct {
	Hash
}

func NewOperationHash(buf []byte) OperationHash {
	return OperationHash{NewHash(HashTypeOperation, buf)}
}

func ParseOperationHash(s string) (OperationHash, error) {
	h, err := parseTypedHash(HashTypeOperation, s)
	return OperationHash{h}, err
}

func MustParseOperationHash(s string) OperationHash {
	return OperationHash{mustParseTypedHash(HashTypeOperation, s)}
}

func (h OperationHash) Equal(h2 OperationHash) bool {
	return h.Hash.Equal(h2.Hash)
}

func (h *OperationHash) UnmarshalText(data []byte) error {
	x, err := ParseOperationHash(string(data))
	if err == nil {
		*h = x
	}
	return err
}

func (h *OperationHash) UnmarshalBinary(data []byte) error {
	x, err := UnmarshalHash(HashTypeOperation, data)
	if err == nil {
		h.Hash = x
	}
	return err
}

// ExprHash identifies a packed Michelson expression, e.g. a big_map key.
type ExprHash struct {
	Hash
}

func NewExprHash(buf []byte) ExprHash {
	return ExprHash{NewHash(HashTypeScriptExpr, buf)}
}

func ParseExprHash(s string) (ExprHash, error) {
	h, err := parseTypedHash(HashTypeScriptExpr, s)
	return ExprHash{h}, err
}

func MustParseExprHash(s string) ExprHash {
	return ExprHash{mustParseTypedHash(HashTypeScriptExpr, s)}
}

func (h ExprHash) Equal(h2 ExprHash) bool {
	return h.Hash.Equal(h2.Hash)
}

func (h *ExprHash) UnmarshalText(data []byte) error {
	x, err := ParseExprHash(string(data))
	if err == nil {
		*h = x
	}
	return err
}

func (h *ExprHash) UnmarshalBinary(data []byte) error {
	x, err := UnmarshalHash(HashTypeScriptExpr, data)
	if err == nil {
		h.Hash = x
	}
	return err
}

// ContextHash
type ContextHash struct {
	Hash
}

func NewContextHash(buf []byte) ContextHash {
	return ContextHash{NewHash(HashTypeContext, buf)}
}

func ParseContextHash(s string) (ContextHash, error) {
	h, err := parseTypedHash(HashTypeContext, s)
	return ContextHash{h}, err
}

func MustParseContextHash(s string) ContextHash {
	return ContextHash{mustParseTypedHash(HashTypeContext, s)}
}

func (h ContextHash) Equal(h2 ContextHash) bool {
	return h.Hash.Equal(h2.Hash)
}

func (h *ContextHash) UnmarshalText(data []byte) error {
	x, err := ParseContextHash(string(data))
	if err == nil {
		*h = x
	}
	return err
}

func (h *ContextHash) UnmarshalBinary(data []byte) error {
	x, err := UnmarshalHash(HashTypeContext, data)
	if err == nil {
		h.Hash = x
	}
	return err
}
