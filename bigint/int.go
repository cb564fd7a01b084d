// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

// Package bigint implements an immutable signed arbitrary-precision integer
// used as the numeric substrate of Tezos zarith numbers.
package bigint

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	// ErrOverflow is returned by exact conversions when a value does not
	// fit into the target integer width.
	ErrOverflow = errors.New("bigint: overflow")

	// ErrDivideByZero is returned by all division and modulo operations
	// when the divisor is zero.
	ErrDivideByZero = errors.New("bigint: division by zero")

	// ErrSyntax is returned when parsing a string fails.
	ErrSyntax = errors.New("bigint: invalid syntax")
)

var bigZero = big.NewInt(0)

// Integer is the set of fixed width integer types an Int can be created from.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Int is a signed arbitrary-precision integer with value semantics. The zero
// value is 0 and ready to use. All operations return new values and never
// modify their receiver or arguments.
type Int struct {
	v *big.Int
}

var (
	Zero     = Int{}
	One      = NewInt64(1)
	MinusOne = NewInt64(-1)
)

func New[T Integer](v T) Int {
	var zero T
	if zero-1 < 0 {
		return NewInt64(int64(v))
	}
	return NewUint64(uint64(v))
}

func NewInt64(i int64) Int {
	return Int{big.NewInt(i)}
}

func NewUint64(i uint64) Int {
	return Int{new(big.Int).SetUint64(i)}
}

// NewBig returns an Int holding a copy of b.
func NewBig(b *big.Int) Int {
	if b == nil {
		return Int{}
	}
	return Int{new(big.Int).Set(b)}
}

// FromBytes interprets buf as a big-endian two's complement number. An empty
// buffer yields zero.
func FromBytes(buf []byte) Int {
	if len(buf) == 0 {
		return Int{}
	}
	x := new(big.Int).SetBytes(buf)
	if buf[0]&0x80 != 0 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(8*len(buf))))
	}
	return Int{x}
}

// Parse reads a number in the given base (2..36) with an optional sign.
func Parse(s string, base int) (Int, error) {
	if base < 2 || base > 36 {
		return Int{}, fmt.Errorf("%w: unsupported base %d", ErrSyntax, base)
	}
	if len(s) == 0 {
		return Int{}, fmt.Errorf("%w: empty string", ErrSyntax)
	}
	x, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Int{}, fmt.Errorf("%w: %q is not a base %d number", ErrSyntax, s, base)
	}
	return Int{x}, nil
}

func ParseDecimal(s string) (Int, error) {
	return Parse(s, 10)
}

func MustParse(s string) Int {
	x, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return x
}

func (x Int) big() *big.Int {
	if x.v == nil {
		return bigZero
	}
	return x.v
}

// Big returns a copy of x as math/big integer.
func (x Int) Big() *big.Int {
	return new(big.Int).Set(x.big())
}

func (x Int) Sign() int {
	return x.big().Sign()
}

func (x Int) IsZero() bool {
	return x.Sign() == 0
}

func (x Int) Cmp(y Int) int {
	return x.big().Cmp(y.big())
}

func (x Int) Equal(y Int) bool {
	return x.Cmp(y) == 0
}

func (x Int) BitLen() int {
	return x.big().BitLen()
}

func (x Int) Add(y Int) Int {
	return Int{new(big.Int).Add(x.big(), y.big())}
}

func (x Int) Sub(y Int) Int {
	return Int{new(big.Int).Sub(x.big(), y.big())}
}

func (x Int) Mul(y Int) Int {
	return Int{new(big.Int).Mul(x.big(), y.big())}
}

// Div returns the quotient x/y truncated toward zero.
func (x Int) Div(y Int) (Int, error) {
	if y.IsZero() {
		return Int{}, ErrDivideByZero
	}
	return Int{new(big.Int).Quo(x.big(), y.big())}, nil
}

// Rem returns the remainder of truncated division. The result has the sign
// of x.
func (x Int) Rem(y Int) (Int, error) {
	if y.IsZero() {
		return Int{}, ErrDivideByZero
	}
	return Int{new(big.Int).Rem(x.big(), y.big())}, nil
}

// Mod returns the Euclidean modulus which is never negative.
func (x Int) Mod(y Int) (Int, error) {
	if y.IsZero() {
		return Int{}, ErrDivideByZero
	}
	return Int{new(big.Int).Mod(x.big(), y.big())}, nil
}

func (x Int) Neg() Int {
	return Int{new(big.Int).Neg(x.big())}
}

func (x Int) Abs() Int {
	return Int{new(big.Int).Abs(x.big())}
}

func (x Int) And(y Int) Int {
	return Int{new(big.Int).And(x.big(), y.big())}
}

func (x Int) Or(y Int) Int {
	return Int{new(big.Int).Or(x.big(), y.big())}
}

func (x Int) Xor(y Int) Int {
	return Int{new(big.Int).Xor(x.big(), y.big())}
}

// Not returns the bitwise complement -x-1.
func (x Int) Not() Int {
	return Int{new(big.Int).Not(x.big())}
}

func (x Int) Lsh(n uint) Int {
	return Int{new(big.Int).Lsh(x.big(), n)}
}

// Rsh shifts right with sign extension, i.e. it rounds toward negative
// infinity for negative numbers.
func (x Int) Rsh(n uint) Int {
	return Int{new(big.Int).Rsh(x.big(), n)}
}

func Min(x, y Int) Int {
	if x.Cmp(y) <= 0 {
		return x
	}
	return y
}

func Max(x, y Int) Int {
	if x.Cmp(y) >= 0 {
		return x
	}
	return y
}

// Bytes returns the minimal big-endian two's complement representation of x.
// Zero is encoded as a single zero byte.
func (x Int) Bytes() []byte {
	b := x.big()
	switch b.Sign() {
	case 0:
		return []byte{0}
	case 1:
		buf := b.Bytes()
		if buf[0]&0x80 != 0 {
			buf = append([]byte{0}, buf...)
		}
		return buf
	default:
		// -x-1 has the same bit length as the significant bits of x
		m := new(big.Int).Not(b)
		n := m.BitLen()/8 + 1
		v := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
		v.Add(v, b)
		return v.FillBytes(make([]byte, n))
	}
}

func (x Int) String() string {
	return x.big().String()
}

// Text returns x in the given base (2..62), see math/big.
func (x Int) Text(base int) string {
	return x.big().Text(base)
}

func (x Int) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

func (x *Int) UnmarshalText(data []byte) error {
	v, err := ParseDecimal(string(data))
	if err != nil {
		return err
	}
	*x = v
	return nil
}

// MarshalJSON writes x as quoted decimal string so that values outside the
// float64 range survive JSON transport.
func (x Int) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.String())
}

// UnmarshalJSON accepts quoted and unquoted decimal numbers.
func (x *Int) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return x.UnmarshalText([]byte(s))
	}
	if string(data) == "null" {
		return nil
	}
	return x.UnmarshalText(data)
}

// exact range checks

func (x Int) inRange(min int64, max uint64) bool {
	b := x.big()
	if b.Sign() < 0 {
		return b.IsInt64() && b.Int64() >= min
	}
	return b.IsUint64() && b.Uint64() <= max
}

func (x Int) Int8Exact() (int8, error) {
	if !x.inRange(math.MinInt8, math.MaxInt8) {
		return 0, fmt.Errorf("%w: %s does not fit int8", ErrOverflow, x)
	}
	return int8(x.big().Int64()), nil
}

func (x Int) Int16Exact() (int16, error) {
	if !x.inRange(math.MinInt16, math.MaxInt16) {
		return 0, fmt.Errorf("%w: %s does not fit int16", ErrOverflow, x)
	}
	return int16(x.big().Int64()), nil
}

func (x Int) Int32Exact() (int32, error) {
	if !x.inRange(math.MinInt32, math.MaxInt32) {
		return 0, fmt.Errorf("%w: %s does not fit int32", ErrOverflow, x)
	}
	return int32(x.big().Int64()), nil
}

func (x Int) Int64Exact() (int64, error) {
	if !x.inRange(math.MinInt64, math.MaxInt64) {
		return 0, fmt.Errorf("%w: %s does not fit int64", ErrOverflow, x)
	}
	return x.big().Int64(), nil
}

func (x Int) Uint8Exact() (uint8, error) {
	if !x.inRange(0, math.MaxUint8) {
		return 0, fmt.Errorf("%w: %s does not fit uint8", ErrOverflow, x)
	}
	return uint8(x.big().Uint64()), nil
}

func (x Int) Uint16Exact() (uint16, error) {
	if !x.inRange(0, math.MaxUint16) {
		return 0, fmt.Errorf("%w: %s does not fit uint16", ErrOverflow, x)
	}
	return uint16(x.big().Uint64()), nil
}

func (x Int) Uint32Exact() (uint32, error) {
	if !x.inRange(0, math.MaxUint32) {
		return 0, fmt.Errorf("%w: %s does not fit uint32", ErrOverflow, x)
	}
	return uint32(x.big().Uint64()), nil
}

func (x Int) Uint64Exact() (uint64, error) {
	if !x.inRange(0, math.MaxUint64) {
		return 0, fmt.Errorf("%w: %s does not fit uint64", ErrOverflow, x)
	}
	return x.big().Uint64(), nil
}

// Non-exact conversions keep the low order bits of the two's complement
// representation. Callers must have checked the range before.

func (x Int) Int64() int64 {
	return x.big().Int64()
}

func (x Int) Int32() int32 {
	return int32(x.Int64())
}

func (x Int) Int16() int16 {
	return int16(x.Int64())
}

func (x Int) Int8() int8 {
	return int8(x.Int64())
}

func (x Int) Uint64() uint64 {
	return uint64(x.Int64())
}

func (x Int) Uint32() uint32 {
	return uint32(x.Int64())
}

func (x Int) Uint16() uint16 {
	return uint16(x.Int64())
}

func (x Int) Uint8() uint8 {
	return uint8(x.Int64())
}
