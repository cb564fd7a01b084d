// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package bigint

import (
	"fmt"
	"math/big"
)

type RoundingMode byte

const (
	// Up rounds away from zero.
	Up RoundingMode = iota
	// Down rounds toward zero (truncation).
	Down
	// Ceiling rounds toward positive infinity.
	Ceiling
	// Floor rounds toward negative infinity.
	Floor
)

func (m RoundingMode) String() string {
	switch m {
	case Up:
		return "up"
	case Down:
		return "down"
	case Ceiling:
		return "ceiling"
	case Floor:
		return "floor"
	default:
		return "invalid"
	}
}

func ParseRoundingMode(s string) (RoundingMode, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "ceiling":
		return Ceiling, nil
	case "floor":
		return Floor, nil
	default:
		return 0, fmt.Errorf("bigint: invalid rounding mode %q", s)
	}
}

// DivRound divides x by y and rounds a non-zero remainder according to mode.
func (x Int) DivRound(y Int, mode RoundingMode) (Int, error) {
	if y.IsZero() {
		return Int{}, ErrDivideByZero
	}
	q, r := new(big.Int).QuoRem(x.big(), y.big(), new(big.Int))
	if r.Sign() == 0 {
		return Int{q}, nil
	}
	neg := (x.Sign() < 0) != (y.Sign() < 0)
	switch mode {
	case Down:
	case Up:
		if neg {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	case Ceiling:
		if !neg {
			q.Add(q, big.NewInt(1))
		}
	case Floor:
		if neg {
			q.Sub(q, big.NewInt(1))
		}
	default:
		return Int{}, fmt.Errorf("bigint: invalid rounding mode %d", mode)
	}
	return Int{q}, nil
}
