// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package bigint

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValue(t *testing.T) {
	var x Int
	assert.True(t, x.IsZero())
	assert.Equal(t, "0", x.String())
	assert.Equal(t, 0, x.Cmp(NewInt64(0)))
	assert.Equal(t, "5", x.Add(NewInt64(5)).String())
}

func TestNewGeneric(t *testing.T) {
	assert.Equal(t, "-128", New(int8(-128)).String())
	assert.Equal(t, "255", New(uint8(255)).String())
	assert.Equal(t, "18446744073709551615", New(uint64(math.MaxUint64)).String())
	assert.Equal(t, "-9223372036854775808", New(int64(math.MinInt64)).String())
	assert.Equal(t, "42", New(42).String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		base int
		want string
		err  bool
	}{
		{"0", 10, "0", false},
		{"-12345678901234567890123", 10, "-12345678901234567890123", false},
		{"+17", 10, "17", false},
		{"ff", 16, "255", false},
		{"-101", 2, "-5", false},
		{"zz", 36, "1295", false},
		{"", 10, "", true},
		{"12a", 10, "", true},
		{"1_000", 10, "", true},
		{"10", 1, "", true},
		{"10", 37, "", true},
	}
	for _, tt := range tests {
		x, err := Parse(tt.in, tt.base)
		if tt.err {
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("parse %q base %d: want syntax error, have %v", tt.in, tt.base, err)
			}
			continue
		}
		require.NoError(t, err)
		if have := x.String(); have != tt.want {
			t.Errorf("parse %q base %d: have=%s want=%s", tt.in, tt.base, have, tt.want)
		}
	}
}

func TestArithmetic(t *testing.T) {
	a := MustParse("123456789012345678901234567890")
	b := MustParse("-987654321")

	assert.Equal(t, "123456789012345678900246913569", a.Add(b).String())
	assert.Equal(t, "123456789012345678902222222211", a.Sub(b).String())
	assert.Equal(t, "-121932631124828532112482853211126352690", a.Mul(b).String())
	assert.Equal(t, "987654321", b.Abs().String())
	assert.Equal(t, "987654321", b.Neg().String())
	assert.Equal(t, b, Min(a, b))
	assert.Equal(t, a, Max(a, b))
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Sign())

	// immutability
	assert.Equal(t, "123456789012345678901234567890", a.String())
	assert.Equal(t, "-987654321", b.String())
}

func TestDivision(t *testing.T) {
	tests := []struct {
		x, y, div, rem, mod int64
	}{
		{7, 2, 3, 1, 1},
		{-7, 2, -3, -1, 1},
		{7, -2, -3, 1, 1},
		{-7, -2, 3, -1, 1},
		{6, 3, 2, 0, 0},
	}
	for _, tt := range tests {
		x, y := NewInt64(tt.x), NewInt64(tt.y)
		d, err := x.Div(y)
		require.NoError(t, err)
		r, err := x.Rem(y)
		require.NoError(t, err)
		m, err := x.Mod(y)
		require.NoError(t, err)
		if d.Int64() != tt.div || r.Int64() != tt.rem || m.Int64() != tt.mod {
			t.Errorf("%d / %d: have=(%s,%s,%s) want=(%d,%d,%d)", tt.x, tt.y, d, r, m, tt.div, tt.rem, tt.mod)
		}
	}

	_, err := One.Div(Zero)
	assert.ErrorIs(t, err, ErrDivideByZero)
	_, err = One.Rem(Zero)
	assert.ErrorIs(t, err, ErrDivideByZero)
	_, err = One.Mod(Zero)
	assert.ErrorIs(t, err, ErrDivideByZero)
	_, err = One.DivRound(Zero, Floor)
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestDivRound(t *testing.T) {
	tests := []struct {
		x, y, up, down, ceiling, floor int64
	}{
		{7, 2, 4, 3, 4, 3},
		{-7, 2, -4, -3, -3, -4},
		{7, -2, -4, -3, -3, -4},
		{-7, -2, 4, 3, 4, 3},
		{8, 2, 4, 4, 4, 4},
		{1, 3, 1, 0, 1, 0},
		{-1, 3, -1, 0, 0, -1},
	}
	for _, tt := range tests {
		x, y := NewInt64(tt.x), NewInt64(tt.y)
		for mode, want := range map[RoundingMode]int64{
			Up:      tt.up,
			Down:    tt.down,
			Ceiling: tt.ceiling,
			Floor:   tt.floor,
		} {
			have, err := x.DivRound(y, mode)
			require.NoError(t, err)
			if have.Int64() != want {
				t.Errorf("%d / %d round %s: have=%s want=%d", tt.x, tt.y, mode, have, want)
			}
		}
	}
}

func TestRoundingMode(t *testing.T) {
	for _, m := range []RoundingMode{Up, Down, Ceiling, Floor} {
		have, err := ParseRoundingMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, have)
	}
	_, err := ParseRoundingMode("half")
	require.Error(t, err)
	require.Equal(t, "invalid", RoundingMode(9).String())
}

func TestBitwise(t *testing.T) {
	a, b := NewInt64(0b1100), NewInt64(0b1010)
	assert.Equal(t, int64(0b1000), a.And(b).Int64())
	assert.Equal(t, int64(0b1110), a.Or(b).Int64())
	assert.Equal(t, int64(0b0110), a.Xor(b).Int64())
	assert.Equal(t, int64(-13), a.Not().Int64())
	assert.Equal(t, int64(-1), NewInt64(-6).And(NewInt64(-1)).Or(NewInt64(-1)).Int64())
	assert.Equal(t, int64(48), a.Lsh(2).Int64())
	assert.Equal(t, int64(3), a.Rsh(2).Int64())
	assert.Equal(t, int64(-3), NewInt64(-5).Rsh(1).Int64())
}

func TestBytes(t *testing.T) {
	tests := []struct {
		n   int64
		hex string
	}{
		{0, "00"},
		{1, "01"},
		{127, "7f"},
		{128, "0080"},
		{255, "00ff"},
		{256, "0100"},
		{-1, "ff"},
		{-128, "80"},
		{-129, "ff7f"},
		{-256, "ff00"},
		{-32768, "8000"},
	}
	for _, tt := range tests {
		x := NewInt64(tt.n)
		if have := hex.EncodeToString(x.Bytes()); have != tt.hex {
			t.Errorf("bytes %d: have=%s want=%s", tt.n, have, tt.hex)
		}
		buf, _ := hex.DecodeString(tt.hex)
		if have := FromBytes(buf); !have.Equal(x) {
			t.Errorf("from bytes %s: have=%s want=%d", tt.hex, have, tt.n)
		}
	}
	assert.True(t, FromBytes(nil).IsZero())
}

func TestExactConversions(t *testing.T) {
	type conv struct {
		name  string
		exact func(Int) (int64, error)
		trunc func(Int) int64
		min   Int
		max   Int
	}
	convs := []conv{
		{"int8", func(x Int) (int64, error) { v, err := x.Int8Exact(); return int64(v), err },
			func(x Int) int64 { return int64(x.Int8()) }, NewInt64(math.MinInt8), NewInt64(math.MaxInt8)},
		{"int16", func(x Int) (int64, error) { v, err := x.Int16Exact(); return int64(v), err },
			func(x Int) int64 { return int64(x.Int16()) }, NewInt64(math.MinInt16), NewInt64(math.MaxInt16)},
		{"int32", func(x Int) (int64, error) { v, err := x.Int32Exact(); return int64(v), err },
			func(x Int) int64 { return int64(x.Int32()) }, NewInt64(math.MinInt32), NewInt64(math.MaxInt32)},
		{"int64", func(x Int) (int64, error) { return x.Int64Exact() },
			func(x Int) int64 { return x.Int64() }, NewInt64(math.MinInt64), NewInt64(math.MaxInt64)},
		{"uint8", func(x Int) (int64, error) { v, err := x.Uint8Exact(); return int64(v), err },
			func(x Int) int64 { return int64(x.Uint8()) }, Zero, NewInt64(math.MaxUint8)},
		{"uint16", func(x Int) (int64, error) { v, err := x.Uint16Exact(); return int64(v), err },
			func(x Int) int64 { return int64(x.Uint16()) }, Zero, NewInt64(math.MaxUint16)},
		{"uint32", func(x Int) (int64, error) { v, err := x.Uint32Exact(); return int64(v), err },
			func(x Int) int64 { return int64(x.Uint32()) }, Zero, NewInt64(math.MaxUint32)},
	}
	for _, c := range convs {
		for _, x := range []Int{c.min, c.max, Zero, c.min.Add(c.max).Rsh(1)} {
			v, err := c.exact(x)
			if err != nil {
				t.Errorf("%s exact %s: unexpected error %v", c.name, x, err)
				continue
			}
			if v != c.trunc(x) || v != x.Int64() {
				t.Errorf("%s exact %s: have=%d narrowing=%d", c.name, x, v, c.trunc(x))
			}
		}
		for _, x := range []Int{c.min.Sub(One), c.max.Add(One), MustParse("100000000000000000000000")} {
			if _, err := c.exact(x); !errors.Is(err, ErrOverflow) {
				t.Errorf("%s exact %s: want overflow, have %v", c.name, x, err)
			}
		}
	}

	v, err := NewUint64(math.MaxUint64).Uint64Exact()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)
	_, err = NewUint64(math.MaxUint64).Add(One).Uint64Exact()
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = MinusOne.Uint64Exact()
	assert.ErrorIs(t, err, ErrOverflow)

	// narrowing keeps the low bits
	assert.Equal(t, int8(-1), NewInt64(255).Int8())
	assert.Equal(t, uint8(0xff), MinusOne.Uint8())
	assert.Equal(t, uint64(math.MaxUint64), MinusOne.Uint64())
	assert.Equal(t, int32(0), NewInt64(1<<32).Int32())
}

func TestJSON(t *testing.T) {
	x := MustParse("-340282366920938463463374607431768211456")
	buf, err := json.Marshal(x)
	require.NoError(t, err)
	assert.Equal(t, `"-340282366920938463463374607431768211456"`, string(buf))

	var y Int
	require.NoError(t, json.Unmarshal(buf, &y))
	assert.True(t, x.Equal(y))

	require.NoError(t, json.Unmarshal([]byte("12"), &y))
	assert.Equal(t, int64(12), y.Int64())
	assert.Error(t, json.Unmarshal([]byte(`"1.5"`), &y))
}
