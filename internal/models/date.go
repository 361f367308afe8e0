package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const dateLayout = "2006-01-02"

// Date is a nullable calendar day built on gorm.io/datatypes.Date.
// It is stored and serialized as YYYY-MM-DD.
type Date struct {
	datatypes.Date
	Valid bool
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Date: datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)), Valid: true}
}

// Time returns the day at midnight UTC.
func (d Date) Time() time.Time {
	return time.Time(d.Date)
}

// String formats the day, or returns "" for NULL.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time().Format(dateLayout)
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner. Drivers hand back either time.Time or text.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	}
	return fmt.Errorf("models.Date: unsupported scan type %T", value)
}

func (d *Date) parse(s string) error {
	if len(s) < len(dateLayout) {
		return fmt.Errorf("models.Date: invalid value %q", s)
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return fmt.Errorf("models.Date: invalid value %q: %w", s, err)
	}
	*d = NewDate(t)
	return nil
}

// MarshalJSON writes null or "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// GormDBDataType maps the column to each dialect's day type.
func (Date) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "postgres", "sqlserver":
		return "DATE"
	}
	return "date"
}

// UnmarshalJSON reads null or any value starting with YYYY-MM-DD.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	return d.parse(*s)
}
