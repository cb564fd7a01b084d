// Copyright (c) 2019 KIDTSUNAMI
// Author: alex@kidtsunami.com

package micheline

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"blockwatch.cc/tzcodec/bigint"
	"blockwatch.cc/tzcodec/tezos"
)

// ErrUnknownPrimType is returned when a binary node starts with a tag outside
// 0x00..0x0A.
var ErrUnknownPrimType = errors.New("micheline: unknown primitive type")

// nesting limit for decoding untrusted input
const maxDepth = 10000

type PrimType byte

const (
	PrimInt          PrimType = iota // 00 {name: 'int'}
	PrimString                       // 01 {name: 'string'}
	PrimSequence                     // 02 []
	PrimNullary                      // 03 {name: 'prim', len: 0, annots: false},
	PrimNullaryAnno                  // 04 {name: 'prim', len: 0, annots: true},
	PrimUnary                        // 05 {name: 'prim', len: 1, annots: false},
	PrimUnaryAnno                    // 06 {name: 'prim', len: 1, annots: true},
	PrimBinary                       // 07 {name: 'prim', len: 2, annots: false},
	PrimBinaryAnno                   // 08 {name: 'prim', len: 2, annots: true},
	PrimVariadicAnno                 // 09 {name: 'prim', len: n, annots: true},
	PrimBytes                        // 0A {name: 'bytes' }
)

func (t PrimType) IsValid() bool {
	return t <= PrimBytes
}

// non-normative strings, use for debugging only
func (t PrimType) String() string {
	switch t {
	case PrimInt:
		return "int"
	case PrimString:
		return "string"
	case PrimSequence:
		return "sequence"
	case PrimNullary:
		return "prim"
	case PrimNullaryAnno:
		return "prim%"
	case PrimUnary:
		return "prim_1"
	case PrimUnaryAnno:
		return "prim_1%"
	case PrimBinary:
		return "prim_2"
	case PrimBinaryAnno:
		return "prim_2%"
	case PrimVariadicAnno:
		return "prim_n"
	case PrimBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// IsApplication reports whether t tags a primitive application.
func (t PrimType) IsApplication() bool {
	return t >= PrimNullary && t <= PrimVariadicAnno
}

// primTypeFor selects the binary tag for an application with n args.
func primTypeFor(n int, anno bool) PrimType {
	switch n {
	case 0:
		if anno {
			return PrimNullaryAnno
		}
		return PrimNullary
	case 1:
		if anno {
			return PrimUnaryAnno
		}
		return PrimUnary
	case 2:
		if anno {
			return PrimBinaryAnno
		}
		return PrimBinary
	default:
		return PrimVariadicAnno
	}
}

// Prim is a Micheline node. Type selects which of the data fields is used:
// Int, String and Bytes for literals, Args for sequences and OpCode, Args and
// Anno for primitive applications.
type Prim struct {
	Type   PrimType   // primitive type
	OpCode OpCode     // primitive opcode (invalid on sequences, strings, bytes, int)
	Args   []*Prim    // optional arguments
	Anno   []string   // optional type annotations
	Int    bigint.Int // optional data
	String string     // optional data
	Bytes  []byte     // optional data
}

// IsValid reports whether p is a well formed node. Applications must use a
// registered opcode.
func (p *Prim) IsValid() bool {
	if p == nil {
		return false
	}
	switch {
	case p.Type.IsApplication():
		if !p.OpCode.IsValid() {
			return false
		}
	case p.Type == PrimSequence:
	default:
		return p.Type.IsValid()
	}
	for _, v := range p.Args {
		if !v.IsValid() {
			return false
		}
	}
	return true
}

func (p *Prim) IsSequence() bool {
	return p.Type == PrimSequence
}

// IsScalar reports literal nodes.
func (p *Prim) IsScalar() bool {
	switch p.Type {
	case PrimInt, PrimString, PrimBytes:
		return true
	default:
		return false
	}
}

// Normalize returns the application tag matching the number of arguments and
// presence of annotations. Literals and sequences keep their tag.
func (p *Prim) Normalize() PrimType {
	if p.Type.IsApplication() {
		return primTypeFor(len(p.Args), len(p.Anno) > 0)
	}
	return p.Type
}

// Equal compares two trees structurally. The stored application tag is
// ignored since it is derived from args and annots on encoding.
func (p *Prim) Equal(x *Prim) bool {
	if p == nil || x == nil {
		return p == x
	}
	if p.Normalize() != x.Normalize() {
		return false
	}
	switch p.Type {
	case PrimInt:
		return p.Int.Equal(x.Int)
	case PrimString:
		return p.String == x.String
	case PrimBytes:
		return bytes.Equal(p.Bytes, x.Bytes)
	}
	if p.Type != PrimSequence {
		if p.OpCode != x.OpCode || len(p.Anno) != len(x.Anno) {
			return false
		}
		for i := range p.Anno {
			if p.Anno[i] != x.Anno[i] {
				return false
			}
		}
	}
	if len(p.Args) != len(x.Args) {
		return false
	}
	for i := range p.Args {
		if !p.Args[i].Equal(x.Args[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (p *Prim) Clone() *Prim {
	if p == nil {
		return nil
	}
	c := &Prim{
		Type:   p.Type,
		OpCode: p.OpCode,
		Int:    p.Int,
		String: p.String,
	}
	if p.Bytes != nil {
		c.Bytes = bytes.Clone(p.Bytes)
	}
	if p.Anno != nil {
		c.Anno = append([]string(nil), p.Anno...)
	}
	if p.Args != nil {
		c.Args = make([]*Prim, len(p.Args))
		for i, v := range p.Args {
			c.Args[i] = v.Clone()
		}
	}
	return c
}

// Walk calls fn for p and every descendant in depth-first pre-order. A
// non-nil error from fn stops the walk.
func (p *Prim) Walk(fn func(*Prim) error) error {
	if p == nil {
		return nil
	}
	if err := fn(p); err != nil {
		return err
	}
	for _, v := range p.Args {
		if err := v.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

func (p Prim) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := p.EncodeBuffer(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeUint32(buf *bytes.Buffer, n int) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(n))
	buf.Write(b[:])
}

// reserve space for a length prefix, returns the patch position
func beginBlock(buf *bytes.Buffer) int {
	pos := buf.Len()
	buf.Write([]byte{0, 0, 0, 0})
	return pos
}

func endBlock(buf *bytes.Buffer, pos int) {
	binary.BigEndian.PutUint32(buf.Bytes()[pos:], uint32(buf.Len()-pos-4))
}

func writeAnno(buf *bytes.Buffer, anno []string) {
	s := strings.Join(anno, " ")
	writeUint32(buf, len(s))
	buf.WriteString(s)
}

// EncodeBuffer appends the binary encoding of p. The application tag is
// derived from the number of args and annots, the stored Type only selects
// between literal, sequence and application.
func (p Prim) EncodeBuffer(buf *bytes.Buffer) error {
	switch p.Type {
	case PrimInt:
		buf.WriteByte(byte(PrimInt))
		tezos.NewZ(p.Int).EncodeBuffer(buf)

	case PrimString:
		buf.WriteByte(byte(PrimString))
		writeUint32(buf, len(p.String))
		buf.WriteString(p.String)

	case PrimBytes:
		buf.WriteByte(byte(PrimBytes))
		writeUint32(buf, len(p.Bytes))
		buf.Write(p.Bytes)

	case PrimSequence:
		buf.WriteByte(byte(PrimSequence))
		pos := beginBlock(buf)
		for _, v := range p.Args {
			if v == nil {
				return fmt.Errorf("micheline: nil sequence element")
			}
			if err := v.EncodeBuffer(buf); err != nil {
				return err
			}
		}
		endBlock(buf, pos)

	case PrimNullary, PrimNullaryAnno, PrimUnary, PrimUnaryAnno,
		PrimBinary, PrimBinaryAnno, PrimVariadicAnno:
		if !p.OpCode.IsValid() {
			return fmt.Errorf("%w 0x%02x", ErrUnknownPrimitive, byte(p.OpCode))
		}
		for _, a := range p.Anno {
			if a == "" || strings.ContainsRune(a, ' ') {
				return fmt.Errorf("micheline: invalid annotation %q on %s", a, p.OpCode)
			}
		}
		typ := primTypeFor(len(p.Args), len(p.Anno) > 0)
		buf.WriteByte(byte(typ))
		buf.WriteByte(byte(p.OpCode))

		var pos int
		if typ == PrimVariadicAnno {
			pos = beginBlock(buf)
		}
		for _, v := range p.Args {
			if v == nil {
				return fmt.Errorf("micheline: nil argument to %s", p.OpCode)
			}
			if err := v.EncodeBuffer(buf); err != nil {
				return err
			}
		}
		switch typ {
		case PrimVariadicAnno:
			endBlock(buf, pos)
			writeAnno(buf, p.Anno)
		case PrimNullaryAnno, PrimUnaryAnno, PrimBinaryAnno:
			writeAnno(buf, p.Anno)
		}

	default:
		return fmt.Errorf("%w 0x%02x", ErrUnknownPrimType, byte(p.Type))
	}
	return nil
}

// UnmarshalBinary decodes exactly one node and fails on trailing bytes.
func (p *Prim) UnmarshalBinary(data []byte) error {
	c := tezos.NewCursor(data)
	if err := p.DecodeBuffer(c); err != nil {
		return err
	}
	return c.Done()
}

// DecodeBuffer decodes one node from c. On failure p and c are left
// unchanged.
func (p *Prim) DecodeBuffer(c *tezos.Cursor) error {
	tmp := *c
	var x Prim
	if err := x.decode(&tmp, 0); err != nil {
		return err
	}
	*c = tmp
	*p = x
	return nil
}

func readAnno(c *tezos.Cursor) ([]string, error) {
	size, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	b, err := c.Read(int(size))
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	return strings.Split(string(b), " "), nil
}

func readArgs(c *tezos.Cursor, depth int) ([]*Prim, error) {
	size, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	sub, err := c.Sub(int(size))
	if err != nil {
		return nil, err
	}
	args := make([]*Prim, 0)
	for sub.Len() > 0 {
		arg := &Prim{}
		if err := arg.decode(sub, depth+1); err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func (p *Prim) decode(c *tezos.Cursor, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: nesting deeper than %d at offset %d", tezos.ErrInvalidEncoding, maxDepth, c.Pos())
	}
	pos := c.Pos()
	b, err := c.ReadByte()
	if err != nil {
		return err
	}
	tag := PrimType(b)
	switch tag {
	case PrimInt:
		var z tezos.Z
		if err := z.DecodeBuffer(c); err != nil {
			return err
		}
		p.Int = z.Int

	case PrimString:
		size, err := c.ReadUint32()
		if err != nil {
			return err
		}
		s, err := c.Read(int(size))
		if err != nil {
			return err
		}
		p.String = string(s)

	case PrimBytes:
		size, err := c.ReadUint32()
		if err != nil {
			return err
		}
		s, err := c.Read(int(size))
		if err != nil {
			return err
		}
		p.Bytes = bytes.Clone(s)
		if p.Bytes == nil {
			p.Bytes = []byte{}
		}

	case PrimSequence:
		if p.Args, err = readArgs(c, depth); err != nil {
			return err
		}

	case PrimNullary, PrimNullaryAnno, PrimUnary, PrimUnaryAnno,
		PrimBinary, PrimBinaryAnno, PrimVariadicAnno:
		opos := c.Pos()
		ob, err := c.ReadByte()
		if err != nil {
			return err
		}
		op := OpCode(ob)
		if !op.IsValid() {
			return fmt.Errorf("%w 0x%02x at offset %d", ErrUnknownPrimitive, ob, opos)
		}
		p.OpCode = op

		var n int
		switch tag {
		case PrimUnary, PrimUnaryAnno:
			n = 1
		case PrimBinary, PrimBinaryAnno:
			n = 2
		}
		if tag == PrimVariadicAnno {
			if p.Args, err = readArgs(c, depth); err != nil {
				return err
			}
		} else if n > 0 {
			p.Args = make([]*Prim, 0, n)
			for i := 0; i < n; i++ {
				arg := &Prim{}
				if err := arg.decode(c, depth+1); err != nil {
					return err
				}
				p.Args = append(p.Args, arg)
			}
		}

		switch tag {
		case PrimNullaryAnno, PrimUnaryAnno, PrimBinaryAnno, PrimVariadicAnno:
			if p.Anno, err = readAnno(c); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("%w 0x%02x at offset %d", ErrUnknownPrimType, b, pos)
	}
	p.Type = tag
	return nil
}
