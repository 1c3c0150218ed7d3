package passjson

import (
	"bytes"
	"encoding/json"
)

type member struct {
	key   string
	value any
}

// Object is a JSON object that encodes its keys in insertion order.
type Object struct {
	members []member
}

// Set appends key with value v. Keys are expected to be unique.
func (o *Object) Set(key string, v any) {
	o.members = append(o.members, member{key: key, value: v})
}

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o.members {
		if m.key == key {
			return m.value, true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.key
	}
	return keys
}

// MarshalJSON implements json.Marshaler.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// setOptional appends key only when v holds a value.
func setOptional[T any](o *Object, key string, v *T) {
	if v == nil {
		return
	}
	o.Set(key, *v)
}

// nonEmpty drops a set-but-empty string so that it is omitted like an unset one.
func nonEmpty[T ~string](v *T) *T {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
