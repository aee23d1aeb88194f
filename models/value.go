package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ValueKind tags how a loosely typed field was encoded in the source document.
type ValueKind int

const (
	// Missing means the field was absent or null.
	Missing ValueKind = iota
	// Raw is a bare scalar: a string, number or boolean.
	Raw
	// Wrapped is an extended-JSON object holding the real value under a fixed inner key,
	// e.g. {"$oid": "..."} or {"$date": "..."}.
	Wrapped
)

func (k ValueKind) String() string {
	switch k {
	case Raw:
		return "raw"
	case Wrapped:
		return "wrapped"
	default:
		return "missing"
	}
}

// wrapperKeys are the extended-JSON inner field names recognised as a wrapped encoding.
var wrapperKeys = []string{"$oid", "$date", "$numberLong", "$numberInt", "$numberDouble", "$numberDecimal"}

// Value is an identifier, timestamp or scalar whose physical encoding varies between records.
// The zero Value is Missing.
type Value struct {
	kind    ValueKind
	s       string
	numeric bool
	wrapper string
}

// RawValue returns a bare string value.
func RawValue(s string) Value { return Value{kind: Raw, s: s} }

// WrappedValue returns an identifier stored as {"$oid": s}.
func WrappedValue(s string) Value { return Value{kind: Wrapped, s: s, wrapper: "$oid"} }

// NumberValue returns a bare numeric value.
func NumberValue(f float64) Value {
	return Value{kind: Raw, s: strconv.FormatFloat(f, 'f', -1, 64), numeric: true}
}

// TimeValue returns a timestamp stored as {"$date": ...}.
func TimeValue(t time.Time) Value {
	return Value{kind: Wrapped, s: t.Format(time.RFC3339Nano), wrapper: "$date"}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsMissing() bool { return v.kind == Missing }
func (v Value) IsNumeric() bool { return v.numeric }

// String returns the stored text exactly as found in the source, or "" when missing.
func (v Value) String() string { return v.s }

// Key is the single normalisation used for every identifier comparison.
func (v Value) Key() string {
	if v.kind == Missing {
		return ""
	}
	return strings.TrimSpace(v.s)
}

// Equal reports whether two values are the same logical identifier.
func (v Value) Equal(o Value) bool {
	return v.kind != Missing && o.kind != Missing && v.Key() == o.Key()
}

// Float returns the numeric value when the source held a JSON number.
func (v Value) Float() (float64, bool) {
	if !v.numeric {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// timeLayouts are the ISO-8601 shapes seen in exported shift documents.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Time parses the value as an ISO-8601 timestamp. It never panics; ok is false on any failure.
func (v Value) Time() (t time.Time, ok bool) {
	s := v.Key()
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortTime is the single normalisation used for every temporal ordering.
// Absent or malformed values sort lowest.
func (v Value) SortTime() time.Time {
	t, _ := v.Time()
	return t
}

// UnmarshalJSON accepts any JSON value and never fails on shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = Value{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*v = RawValue(s)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		*v = fromWrapper(obj, data)
	case '[':
		*v = RawValue(string(data))
	case 't', 'f':
		*v = RawValue(string(data))
	default:
		*v = Value{kind: Raw, s: string(data), numeric: true}
	}
	return nil
}

// MarshalJSON writes the value back in the encoding it was read with.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Raw:
		if v.numeric {
			return []byte(v.s), nil
		}
		return json.Marshal(v.s)
	case Wrapped:
		key := v.wrapper
		if key == "" {
			key = "$oid"
		}
		return json.Marshal(map[string]string{key: v.s})
	default:
		return []byte("null"), nil
	}
}

func fromWrapper(obj map[string]json.RawMessage, data []byte) Value {
	for _, key := range wrapperKeys {
		inner, ok := obj[key]
		if !ok {
			continue
		}
		numeric := key != "$oid" && key != "$date"
		var s string
		if err := json.Unmarshal(inner, &s); err == nil {
			return Value{kind: Wrapped, s: s, numeric: numeric, wrapper: key}
		}
		// {"$date": {"$numberLong": "1700000000000"}} is canonical extended JSON for a date.
		if key == "$date" {
			var nested Value
			if err := nested.UnmarshalJSON(inner); err == nil {
				if ms, err := strconv.ParseInt(nested.Key(), 10, 64); err == nil {
					return TimeValue(time.UnixMilli(ms).UTC())
				}
			}
		}
		return Value{kind: Wrapped, s: strings.TrimSpace(string(inner)), numeric: numeric, wrapper: key}
	}
	return RawValue(string(data))
}
