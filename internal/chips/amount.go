// Package chips provides arbitrary-precision chip amounts. Amounts are
// integers in the table's smallest unit and serialize as decimal strings so
// no precision is lost at the JSON boundary.
package chips

import (
	"fmt"
	"math/big"
)

// Amount is an immutable chip quantity. The zero value is zero chips.
type Amount struct {
	v *big.Int
}

// New creates an Amount from an int64
func New(v int64) Amount {
	return Amount{v: big.NewInt(v)}
}

// Zero returns the zero amount
func Zero() Amount {
	return Amount{}
}

// Parse parses a decimal string into an Amount
func Parse(s string) (Amount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("invalid chip amount %q", s)
	}
	return Amount{v: v}, nil
}

// MustParse parses a decimal string and panics on failure. Intended for
// constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) big() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return a.v
}

// Add returns a + b
func (a Amount) Add(b Amount) Amount {
	return Amount{v: new(big.Int).Add(a.big(), b.big())}
}

// Sub returns a - b
func (a Amount) Sub(b Amount) Amount {
	return Amount{v: new(big.Int).Sub(a.big(), b.big())}
}

// MulInt returns a * n
func (a Amount) MulInt(n int64) Amount {
	return Amount{v: new(big.Int).Mul(a.big(), big.NewInt(n))}
}

// DivInt returns a / n truncated toward zero
func (a Amount) DivInt(n int64) Amount {
	return Amount{v: new(big.Int).Quo(a.big(), big.NewInt(n))}
}

// ModInt returns a mod n
func (a Amount) ModInt(n int64) Amount {
	return Amount{v: new(big.Int).Rem(a.big(), big.NewInt(n))}
}

// Percent returns (a * pct) / 100 truncated toward zero
func (a Amount) Percent(pct int64) Amount {
	p := new(big.Int).Mul(a.big(), big.NewInt(pct))
	return Amount{v: p.Quo(p, big.NewInt(100))}
}

// Lsh returns a << n. Used for doubling tournament blinds per level.
func (a Amount) Lsh(n uint) Amount {
	return Amount{v: new(big.Int).Lsh(a.big(), n)}
}

// Cmp compares a and b, returning -1, 0 or 1
func (a Amount) Cmp(b Amount) int {
	return a.big().Cmp(b.big())
}

// Equal reports whether a == b
func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

// Less reports whether a < b
func (a Amount) Less(b Amount) bool {
	return a.Cmp(b) < 0
}

// Sign returns -1, 0 or 1 according to the sign of a
func (a Amount) Sign() int {
	return a.big().Sign()
}

// IsZero reports whether a is zero
func (a Amount) IsZero() bool {
	return a.big().Sign() == 0
}

// Min returns the smaller of a and b
func Min(a, b Amount) Amount {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger of a and b
func Max(a, b Amount) Amount {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Sum returns the total of all amounts
func Sum(amounts ...Amount) Amount {
	total := new(big.Int)
	for _, a := range amounts {
		total.Add(total, a.big())
	}
	return Amount{v: total}
}

// String returns the decimal representation
func (a Amount) String() string {
	return a.big().String()
}

// MarshalText implements encoding.TextMarshaler
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
