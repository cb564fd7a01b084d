// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// Text renders p in Michelson expression syntax, e.g.
// `pair (int %x) nat` or `{ DUP ; CAR }`.
func (p *Prim) Text() string {
	var b strings.Builder
	p.format(&b, -1, false)
	return b.String()
}

// Compact renders p like Text but shows at most n arguments, sequence
// elements and annotations per node, replacing the rest by `...`.
func (p *Prim) Compact(n int) string {
	if n < 0 {
		n = 0
	}
	var b strings.Builder
	p.format(&b, n, false)
	return b.String()
}

func (p Prim) GoString() string {
	return p.Text()
}

func (p *Prim) needParens() bool {
	return p.Type.IsApplication() && (len(p.Args) > 0 || len(p.Anno) > 0)
}

func (p *Prim) format(b *strings.Builder, limit int, nested bool) {
	if p == nil {
		b.WriteString("<nil>")
		return
	}
	switch p.Type {
	case PrimInt:
		b.WriteString(p.Int.String())
	case PrimString:
		b.WriteString(strconv.Quote(p.String))
	case PrimBytes:
		b.WriteString("0x")
		b.WriteString(hex.EncodeToString(p.Bytes))
	case PrimSequence:
		if len(p.Args) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{ ")
		for i, v := range p.Args {
			if i > 0 {
				b.WriteString(" ; ")
			}
			if limit >= 0 && i >= limit {
				b.WriteString("...")
				break
			}
			v.format(b, limit, false)
		}
		b.WriteString(" }")
	default:
		parens := nested && p.needParens()
		if parens {
			b.WriteByte('(')
		}
		b.WriteString(p.OpCode.String())
		for i, v := range p.Anno {
			b.WriteByte(' ')
			if limit >= 0 && i >= limit {
				b.WriteString("...")
				break
			}
			b.WriteString(v)
		}
		for i, v := range p.Args {
			b.WriteByte(' ')
			if limit >= 0 && i >= limit {
				b.WriteString("...")
				break
			}
			v.format(b, limit, true)
		}
		if parens {
			b.WriteByte(')')
		}
	}
}
