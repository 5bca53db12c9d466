package models

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary or numeric invoice field as received on the wire.
// The frontend is not strict about types, so an Amount accepts a JSON
// number, a numeric string, null, or garbage. It remembers how the value
// arrived:
//
//   - Present: the field was set to a non-null value by the caller
//   - Defaulted: the value could not be parsed and was coerced to zero
//
// This keeps "the caller sent 0" distinguishable from "the caller sent
// garbage and we defaulted to 0".
type Amount struct {
	Value     decimal.Decimal
	Present   bool
	Defaulted bool
}

// AmountFrom builds a present, well-formed Amount. Intended for tests and
// programmatic construction.
func AmountFrom(v float64) Amount {
	return Amount{Value: decimal.NewFromFloat(v), Present: true}
}

// Float64 returns the value for formatting purposes.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

// StringFixed renders the value with the given number of decimal places.
func (a Amount) StringFixed(places int32) string {
	return a.Value.StringFixed(places)
}

// UnmarshalJSON tolerates every shape the form has been observed to send.
// Unparseable input becomes a defaulted zero rather than an error, so a
// malformed line item can never abort invoice processing.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = Amount{}
		return nil
	}

	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	raw = strings.TrimSpace(raw)
	// Polish forms occasionally use a decimal comma.
	raw = strings.ReplaceAll(raw, ",", ".")

	if raw == "" {
		*a = Amount{Present: true, Defaulted: true}
		return nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		*a = Amount{Present: true, Defaulted: true}
		return nil
	}
	*a = Amount{Value: d, Present: true}
	return nil
}

// MarshalJSON writes the value back as a plain JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Value.String()), nil
}
