package mathutil

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	// ErrOverflow is returned when the result of an operation doesn't fit in
	// 128 bits.
	ErrOverflow = errors.New("value overflows 128 bits")
	// ErrUnderflow is returned when a subtraction would go below zero.
	ErrUnderflow = errors.New("value underflows zero")
	// ErrDivisionByZero ...
	ErrDivisionByZero = errors.New("division by zero")
	// ErrInvalidUint128 is returned when parsing a malformed amount.
	ErrInvalidUint128 = errors.New("invalid unsigned 128-bit integer")
)

// Uint128 is an unsigned 128-bit integer. Every operation is checked, values
// never wrap around.
type Uint128 struct {
	v uint256.Int
}

// NewUint128 returns the Uint128 representation of n.
func NewUint128(n uint64) Uint128 {
	var u Uint128
	u.v.SetUint64(n)
	return u
}

// ParseUint128 parses a base-10 string into a Uint128.
func ParseUint128(s string) (Uint128, error) {
	var u Uint128
	if len(s) <= 0 {
		return u, ErrInvalidUint128
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return u, ErrInvalidUint128
		}
	}
	// Only digits got here, the parser can fail just for values above 256 bits.
	if err := u.v.SetFromDecimal(s); err != nil {
		return Uint128{}, ErrOverflow
	}
	if u.v.BitLen() > 128 {
		return Uint128{}, ErrOverflow
	}
	return u, nil
}

// MustParseUint128 is like ParseUint128 but panics on error.
func MustParseUint128(s string) Uint128 {
	u, err := ParseUint128(s)
	if err != nil {
		panic(fmt.Sprintf("mathutil: %s: %s", s, err))
	}
	return u
}

// Uint128FromBig converts a big.Int into a Uint128.
func Uint128FromBig(b *big.Int) (Uint128, error) {
	if b.Sign() < 0 {
		return Uint128{}, ErrUnderflow
	}
	if b.BitLen() > 128 {
		return Uint128{}, ErrOverflow
	}
	var u Uint128
	u.v.SetFromBig(b)
	return u, nil
}

func fromInt(z *uint256.Int) (Uint128, error) {
	if z.BitLen() > 128 {
		return Uint128{}, ErrOverflow
	}
	return Uint128{*z}, nil
}

// Add returns x + y.
func (x Uint128) Add(y Uint128) (Uint128, error) {
	z, overflow := new(uint256.Int).AddOverflow(&x.v, &y.v)
	if overflow {
		return Uint128{}, ErrOverflow
	}
	return fromInt(z)
}

// Sub returns x - y.
func (x Uint128) Sub(y Uint128) (Uint128, error) {
	z, underflow := new(uint256.Int).SubOverflow(&x.v, &y.v)
	if underflow {
		return Uint128{}, ErrUnderflow
	}
	return Uint128{*z}, nil
}

// Mul returns x * y.
func (x Uint128) Mul(y Uint128) (Uint128, error) {
	// Both operands fit in 128 bits, so the 256-bit product never wraps.
	z, _ := new(uint256.Int).MulOverflow(&x.v, &y.v)
	return fromInt(z)
}

// Div returns the floor of x / y.
func (x Uint128) Div(y Uint128) (Uint128, error) {
	if y.IsZero() {
		return Uint128{}, ErrDivisionByZero
	}
	return Uint128{*new(uint256.Int).Div(&x.v, &y.v)}, nil
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Uint128) Cmp(y Uint128) int {
	return x.v.Cmp(&y.v)
}

// Equal returns whether x == y.
func (x Uint128) Equal(y Uint128) bool {
	return x.v.Eq(&y.v)
}

// IsZero ...
func (x Uint128) IsZero() bool {
	return x.v.IsZero()
}

// String returns the base-10 representation of x.
func (x Uint128) String() string {
	return x.v.Dec()
}

// BigInt returns x as a new big.Int.
func (x Uint128) BigInt() *big.Int {
	return x.v.ToBig()
}

// Float64 returns the nearest float64 value of x, meant for metrics only.
func (x Uint128) Float64() float64 {
	f, _ := new(big.Float).SetInt(x.v.ToBig()).Float64()
	return f
}

// ToDecimal returns x expressed in units of an asset with the given
// precision, ie. 150000000 with precision 8 is 1.5.
func (x Uint128) ToDecimal(precision uint8) decimal.Decimal {
	return decimal.NewFromBigInt(x.v.ToBig(), -int32(precision))
}

// MarshalText implements encoding.TextMarshaler.
func (x Uint128) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Uint128) UnmarshalText(text []byte) error {
	u, err := ParseUint128(string(text))
	if err != nil {
		return err
	}
	*x = u
	return nil
}

// MarshalJSON encodes x as a quoted base-10 string so that no JSON consumer
// ever rounds it through a float64.
func (x Uint128) MarshalJSON() ([]byte, error) {
	return []byte(`"` + x.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare base-10 numbers.
func (x *Uint128) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	return x.UnmarshalText(data)
}

// GobEncode implements gob.GobEncoder, the value is serialized as its
// big-endian bytes.
func (x Uint128) GobEncode() ([]byte, error) {
	return x.v.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (x *Uint128) GobDecode(buf []byte) error {
	if len(buf) > 16 {
		return ErrOverflow
	}
	x.v.SetBytes(buf)
	return nil
}
