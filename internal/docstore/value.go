package docstore

import (
	"strconv"
	"time"
)

// Value is the wire-level tagged union for document field values. The
// encoding follows the Firestore REST convention: exactly one member set,
// 64-bit integers carried as decimal strings, timestamps as RFC 3339.
// Embedded drivers persist the same JSON shape so documents move between
// drivers without translation.
type Value struct {
	NullValue      *string     `json:"nullValue,omitempty"`
	StringValue    *string     `json:"stringValue,omitempty"`
	IntegerValue   *string     `json:"integerValue,omitempty"`
	BooleanValue   *bool       `json:"booleanValue,omitempty"`
	TimestampValue *time.Time  `json:"timestampValue,omitempty"`
	ArrayValue     *ArrayValue `json:"arrayValue,omitempty"`
}

// ArrayValue holds an ordered list of values.
type ArrayValue struct {
	Values []Value `json:"values,omitempty"`
}

func String(s string) Value { return Value{StringValue: &s} }

func Integer(n int64) Value {
	s := strconv.FormatInt(n, 10)
	return Value{IntegerValue: &s}
}

func Bool(b bool) Value { return Value{BooleanValue: &b} }

func Timestamp(t time.Time) Value {
	u := t.UTC()
	return Value{TimestampValue: &u}
}

func Strings(ss []string) Value {
	vals := make([]Value, len(ss))
	for i, s := range ss {
		vals[i] = String(s)
	}
	return Value{ArrayValue: &ArrayValue{Values: vals}}
}

func Null() Value {
	null := "NULL_VALUE"
	return Value{NullValue: &null}
}

// AsString reports the string member, if set.
func (v Value) AsString() (string, bool) {
	if v.StringValue == nil {
		return "", false
	}
	return *v.StringValue, true
}

// AsInt parses the integer member, if set.
func (v Value) AsInt() (int64, bool) {
	if v.IntegerValue == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsBool reports the boolean member, if set.
func (v Value) AsBool() (bool, bool) {
	if v.BooleanValue == nil {
		return false, false
	}
	return *v.BooleanValue, true
}

// AsTime reports the timestamp member, if set.
func (v Value) AsTime() (time.Time, bool) {
	if v.TimestampValue == nil {
		return time.Time{}, false
	}
	return *v.TimestampValue, true
}

// AsStrings flattens an array of string values, if set.
func (v Value) AsStrings() ([]string, bool) {
	if v.ArrayValue == nil {
		return nil, false
	}
	out := make([]string, 0, len(v.ArrayValue.Values))
	for _, item := range v.ArrayValue.Values {
		if s, ok := item.AsString(); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// IsNull reports whether the null member is set.
func (v Value) IsNull() bool { return v.NullValue != nil }
