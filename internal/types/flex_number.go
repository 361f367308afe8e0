// flex_number.go
//
// Bluefin CRM: contacts, opportunities, calendar and accounts for a single advisor
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of bluefin-crm.
// bluefin-crm is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// bluefin-crm is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with bluefin-crm.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OptionalFloat is a float64 that can be unmarshaled from a JSON number, a numeric
// string, a blank string or null. Blank and null leave it unset.
type OptionalFloat struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *OptionalFloat) UnmarshalJSON(data []byte) error {
	parsed, err := parseFlexJSON(data, ParseOptionalFloat)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseOptionalFloat parses form text.
func ParseOptionalFloat(s string) (OptionalFloat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return OptionalFloat{}, nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(value) {
		return OptionalFloat{}, ErrInvalidInput
	}
	return OptionalFloat{Value: value, Set: true}, nil
}

// Or returns the value when set, otherwise fallback.
func (f OptionalFloat) Or(fallback float64) float64 {
	if f.Set {
		return f.Value
	}
	return fallback
}

// Ptr returns nil when unset.
func (f OptionalFloat) Ptr() *float64 {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// OptionalInt is the integer counterpart of OptionalFloat.
type OptionalInt struct {
	Value int
	Set   bool
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *OptionalInt) UnmarshalJSON(data []byte) error {
	parsed, err := parseFlexJSON(data, ParseOptionalInt)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// ParseOptionalInt parses form text. Whole-number floats such as "50.0" are accepted.
func ParseOptionalInt(s string) (OptionalInt, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return OptionalInt{}, nil
	}
	if value, err := strconv.Atoi(s); err == nil {
		return OptionalInt{Value: value, Set: true}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) || math.Abs(f) > math.MaxInt32 || f != math.Trunc(f) {
		return OptionalInt{}, ErrInvalidInput
	}
	return OptionalInt{Value: int(f), Set: true}, nil
}

// Or returns the value when set, otherwise fallback.
func (i OptionalInt) Or(fallback int) int {
	if i.Set {
		return i.Value
	}
	return fallback
}

// finite rejects the NaN and Inf spellings strconv accepts; neither survives a JSON encode.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// parseFlexJSON accepts null, a JSON string or a bare JSON number and feeds the text to parse.
func parseFlexJSON[T any](data []byte, parse func(string) (T, error)) (T, error) {
	var zero T
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return zero, nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return zero, ErrInvalidInput
		}
		return parse(s)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return zero, ErrInvalidInput
	}
	return parse(n.String())
}
