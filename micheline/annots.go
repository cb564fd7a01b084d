// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"strings"
)

const (
	TypeAnnoPrefix  = ":"
	VarAnnoPrefix   = "@"
	FieldAnnoPrefix = "%"
)

func (p *Prim) StripAnno(name string) {
	for i := 0; i < len(p.Anno); i++ {
		if len(p.Anno[i]) > 0 && p.Anno[i][1:] == name {
			p.Anno = append(p.Anno[:i], p.Anno[i+1:]...)
			i--
		}
	}
	if len(p.Anno) == 0 {
		p.Anno = nil
	}
	if p.Type.IsApplication() {
		p.Type = p.Normalize()
	}
}

func (p *Prim) HasAnyAnno() bool {
	for _, v := range p.Anno {
		if len(v) > 0 {
			return true
		}
	}
	return false
}

func (p *Prim) hasAnno(prefix string) bool {
	for _, v := range p.Anno {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return false
}

func (p *Prim) getAnno(prefix string) string {
	for _, v := range p.Anno {
		if strings.HasPrefix(v, prefix) {
			return v[1:]
		}
	}
	return ""
}

// prefers the annotation with prefix, first anno otherwise
func (p *Prim) getAnnoAny(prefix string) string {
	if p.hasAnno(prefix) {
		return p.getAnno(prefix)
	}
	if len(p.Anno) > 0 && len(p.Anno[0]) > 1 {
		return p.Anno[0][1:]
	}
	return ""
}

func (p *Prim) HasTypeAnno() bool {
	return p.hasAnno(TypeAnnoPrefix)
}

func (p *Prim) GetTypeAnno() string {
	return p.getAnno(TypeAnnoPrefix)
}

func (p *Prim) GetTypeAnnoAny() string {
	return p.getAnnoAny(TypeAnnoPrefix)
}

func (p *Prim) HasVarAnno() bool {
	return p.hasAnno(VarAnnoPrefix)
}

func (p *Prim) GetVarAnno() string {
	return p.getAnno(VarAnnoPrefix)
}

func (p *Prim) GetVarAnnoAny() string {
	return p.getAnnoAny(VarAnnoPrefix)
}

func (p *Prim) HasFieldAnno() bool {
	return p.hasAnno(FieldAnnoPrefix)
}

func (p *Prim) GetFieldAnno() string {
	return p.getAnno(FieldAnnoPrefix)
}

func (p *Prim) GetFieldAnnoAny() string {
	return p.getAnnoAny(FieldAnnoPrefix)
}
