package source

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// The upstream APIs are loose about scalar types: identifiers arrive as
// strings or numbers depending on endpoint and release, counts sometimes as
// quoted strings. These wrappers absorb that drift so the wire structs can
// declare every alias without decode failures.

// FlexString decodes a JSON string or number into a string.
// Any other token decodes to "".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	*f = ""
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// FlexInt decodes a JSON number or numeric string into an int.
// Non-numeric tokens decode to 0.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.Atoi(s); err == nil {
			*f = FlexInt(v)
			return nil
		}
	}

	*f = 0
	return nil
}

func (f FlexInt) Int() int {
	return int(f)
}

// FlexBool decodes a JSON bool, a 0/1 number, or the strings "0"/"1"/
// "true"/"false" into a bool.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexBool(b)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = n != 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseBool(s); err == nil {
			*f = FlexBool(v)
			return nil
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*f = v != 0
			return nil
		}
	}

	*f = false
	return nil
}

func (f FlexBool) Bool() bool {
	return bool(f)
}

// Coalesce returns the first non-zero value, or the zero value when all
// candidates are unset. It is the alias-chasing primitive: each normalized
// field probes its candidate upstream names in priority order.
func Coalesce[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}

	return zero
}

// CoalesceSlice returns the first non-empty slice.
func CoalesceSlice[T any](vals ...[]T) []T {
	for _, v := range vals {
		if len(v) > 0 {
			return v
		}
	}

	return nil
}
