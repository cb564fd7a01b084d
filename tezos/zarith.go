// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

// little-endian zarith encoding
// https://github.com/ocaml/Zarith

package tezos

import (
	"bytes"
	"fmt"
	"math/big"

	"blockwatch.cc/tzcodec/bigint"
)

// Z is a signed variable length integer. Each byte carries a continuation
// flag in its most significant bit. The first byte stores the sign in bit 6
// and the 6 lowest bits of the absolute value, each further byte the next
// 7 bits, least significant group first.
type Z struct {
	bigint.Int
}

func NewZ(i bigint.Int) Z {
	return Z{i}
}

func NewZ64(i int64) Z {
	return Z{bigint.NewInt64(i)}
}

func ParseZ(s string) (Z, error) {
	i, err := bigint.ParseDecimal(s)
	if err != nil {
		return Z{}, err
	}
	return Z{i}, nil
}

func MustParseZ(s string) Z {
	z, err := ParseZ(s)
	if err != nil {
		panic(err)
	}
	return z
}

func (z Z) Equal(x Z) bool {
	return z.Int.Equal(x.Int)
}

// EncodeBuffer writes the canonical (shortest) encoding of z.
func (z Z) EncodeBuffer(buf *bytes.Buffer) {
	x := z.Int.Abs().Big()
	var sign byte
	if z.Sign() < 0 {
		sign = 0x40
	}
	b := byte(x.Uint64()&0x3f) | sign
	x.Rsh(x, 6)
	for x.Sign() > 0 {
		buf.WriteByte(b | 0x80)
		b = byte(x.Uint64() & 0x7f)
		x.Rsh(x, 7)
	}
	buf.WriteByte(b)
}

func (z Z) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	z.EncodeBuffer(buf)
	return buf.Bytes(), nil
}

// DecodeBuffer reads one Z from c. Non-minimal encodings (trailing zero
// groups, negative zero) are accepted. On failure c is left unchanged.
func (z *Z) DecodeBuffer(c *Cursor) error {
	tmp := *c
	start := tmp.Pos()
	b, err := tmp.ReadByte()
	if err != nil {
		return err
	}
	x := big.NewInt(int64(b & 0x3f))
	neg := b&0x40 != 0
	var (
		s uint = 6
		y      = new(big.Int)
	)
	for b&0x80 != 0 {
		if b, err = tmp.ReadByte(); err != nil {
			return fmt.Errorf("zarith starting at offset %d: %w", start, err)
		}
		y.SetUint64(uint64(b & 0x7f))
		x.Or(x, y.Lsh(y, s))
		s += 7
	}
	if neg {
		x.Neg(x)
	}
	z.Int = bigint.NewBig(x)
	*c = tmp
	return nil
}

func (z *Z) UnmarshalBinary(data []byte) error {
	c := NewCursor(data)
	if err := z.DecodeBuffer(c); err != nil {
		return err
	}
	return c.Done()
}

// N is an unsigned variable length integer with 7 data bits per byte,
// used for natural numbers in operation encodings.
type N uint64

func ParseN(s string) (N, error) {
	i, err := bigint.ParseDecimal(s)
	if err != nil {
		return 0, err
	}
	v, err := i.Uint64Exact()
	if err != nil {
		return 0, err
	}
	return N(v), nil
}

func (n N) Int64() int64 {
	return int64(n)
}

func (n N) Big() bigint.Int {
	return bigint.NewUint64(uint64(n))
}

func (n N) String() string {
	return n.Big().String()
}

func (n N) EncodeBuffer(buf *bytes.Buffer) {
	x := uint64(n)
	for x >= 0x80 {
		buf.WriteByte(byte(x&0x7f) | 0x80)
		x >>= 7
	}
	buf.WriteByte(byte(x))
}

func (n N) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	n.EncodeBuffer(buf)
	return buf.Bytes(), nil
}

func (n *N) DecodeBuffer(c *Cursor) error {
	tmp := *c
	start := tmp.Pos()
	var (
		x uint64
		s uint
	)
	for {
		b, err := tmp.ReadByte()
		if err != nil {
			if s > 0 {
				return fmt.Errorf("natural starting at offset %d: %w", start, err)
			}
			return err
		}
		v := uint64(b & 0x7f)
		if s >= 64 || (s > 57 && v>>(64-s) != 0) {
			if v != 0 {
				return fmt.Errorf("%w: natural at offset %d overflows uint64", ErrInvalidEncoding, start)
			}
		} else {
			x |= v << s
		}
		s += 7
		if b&0x80 == 0 {
			break
		}
	}
	*n = N(x)
	*c = tmp
	return nil
}

func (n *N) UnmarshalBinary(data []byte) error {
	c := NewCursor(data)
	if err := n.DecodeBuffer(c); err != nil {
		return err
	}
	return c.Done()
}

func (n N) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *N) UnmarshalText(data []byte) error {
	v, err := ParseN(string(data))
	if err != nil {
		return err
	}
	*n = v
	return nil
}
