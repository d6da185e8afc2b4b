package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric tolerates the loose typing of upstream payloads: the same field may
// arrive as a JSON number, a quoted string, null, or a junk placeholder like
// "-". Decoding never fails; validity is judged when a value is read, so one
// bad cell costs a single row instead of the whole payload.
type Numeric struct {
	raw string
	set bool
}

// UnmarshalJSON accepts numbers, strings, and null.
func (n *Numeric) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = Numeric{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
		if s == "" {
			*n = Numeric{}
			return nil
		}
	}
	*n = Numeric{raw: s, set: true}
	return nil
}

// IsSet reports whether the field carried any value at all (null and missing
// both read as unset).
func (n Numeric) IsSet() bool { return n.set }

// Int64 returns the value as an integer. Unset reads as 0, following the
// upstream convention that an absent count means no contracts. Values that
// are not whole numbers, or not numbers at all, return an error.
func (n Numeric) Int64() (int64, error) {
	if !n.set {
		return 0, nil
	}
	if v, err := strconv.ParseInt(n.raw, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", n.raw)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", n.raw)
	}
	return int64(f), nil
}

// Float64 returns the value as a float. Unset reads as 0.
func (n Numeric) Float64() (float64, error) {
	if !n.set {
		return 0, nil
	}
	f, err := strconv.ParseFloat(n.raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", n.raw)
	}
	return f, nil
}

// Decimal returns the value as an exact decimal. Unlike the integer accessors,
// unset is an error here: the only decimal field is the strike, and a strike
// is never optional.
func (n Numeric) Decimal() (decimal.Decimal, error) {
	if !n.set {
		return decimal.Decimal{}, fmt.Errorf("missing value")
	}
	d, err := decimal.NewFromString(n.raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a decimal: %q", n.raw)
	}
	return d, nil
}

func (n Numeric) String() string {
	if !n.set {
		return ""
	}
	return n.raw
}
