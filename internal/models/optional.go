package models

import (
	"bytes"
	"encoding/json"
)

// Optional marks a JSON field that may be absent, null or of the wrong type.
// Decoding never fails: anything that does not fit T leaves the value Absent.
type Optional[T any] struct {
	value   T
	present bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// Get returns the value and whether it was present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// Present reports whether the field was supplied with a usable value.
func (o Optional[T]) Present() bool {
	return o.present
}

// Value returns the held value or the zero value of T.
func (o Optional[T]) Value() T {
	return o.value
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	*o = Optional[T]{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	o.value = v
	o.present = true
	return nil
}

// MarshalJSON implements json.Marshaler. Absent values encode as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// Text returns s when it is present and non-empty.
func Text(s Optional[string]) (string, bool) {
	v, ok := s.Get()
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
