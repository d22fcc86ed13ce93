package model

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the only accepted textual form of a Date.
const DateLayout = "2006-01-02"

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Date is a calendar date without time of day. It is stored as a DATE
// column and written as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses s strictly as YYYY-MM-DD. Out-of-range months or days
// are rejected.
func ParseDate(s string) (Date, error) {
	if !dateFormat.MatchString(s) {
		return Date{}, &InvalidFormatError{Field: "date", Value: s}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &InvalidFormatError{Field: "date", Value: s}
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("model: cannot scan %T into Date", src)
	}
}

// scanText accepts the bare date and the timestamp forms some drivers
// return for DATE columns.
func (d *Date) scanText(s string) error {
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewDate(t)
			return nil
		}
	}
	return fmt.Errorf("model: cannot parse %q as date", s)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return &InvalidFormatError{Field: "date", Value: string(b)}
	}
	return d.UnmarshalText(b[1 : len(b)-1])
}
