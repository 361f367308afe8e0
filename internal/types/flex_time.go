package types

import (
	"strings"
	"time"
)

// DateLayout is the wire format of calendar days.
const DateLayout = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	DateLayout,
}

// OptionalDate is a calendar day that can be unmarshaled from "YYYY-MM-DD", a
// timestamp (the time part is dropped), a blank string or null.
type OptionalDate struct {
	Value time.Time
	Set   bool
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	parsed, err := parseFlexJSON(data, ParseOptionalDate)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseOptionalDate parses form text.
func ParseOptionalDate(s string) (OptionalDate, error) {
	dt, err := ParseOptionalDateTime(s)
	if err != nil || !dt.Set {
		return OptionalDate{}, err
	}
	y, m, day := dt.Value.Date()
	return OptionalDate{Value: time.Date(y, m, day, 0, 0, 0, 0, time.UTC), Set: true}, nil
}

// OptionalDateTime is a timestamp accepting the layouts browsers and scripts send.
type OptionalDateTime struct {
	Value time.Time
	Set   bool
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *OptionalDateTime) UnmarshalJSON(data []byte) error {
	parsed, err := parseFlexJSON(data, ParseOptionalDateTime)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseOptionalDateTime parses form text. Values without a zone are read as UTC.
func ParseOptionalDateTime(s string) (OptionalDateTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return OptionalDateTime{}, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return OptionalDateTime{Value: t, Set: true}, nil
		}
	}
	return OptionalDateTime{}, ErrInvalidInput
}

// Ptr returns nil when unset.
func (d OptionalDateTime) Ptr() *time.Time {
	if !d.Set {
		return nil
	}
	t := d.Value
	return &t
}
