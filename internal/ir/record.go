package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"unicode/utf16"

	"gopkg.in/yaml.v3"
)

// Field names read from every record.
const (
	FieldHeightCm = "HeightCm"
	FieldWeightKg = "WeightKg"
)

// Record is one height/weight observation. Only FieldHeightCm and FieldWeightKg
// are read; other fields (e.g. "Gender") are carried untouched.
// Use SortedKeys() for deterministic iteration.
type Record map[string]Scalar

// Pair is a key-value pair for typed Record construction.
type Pair struct {
	Key   string
	Value Scalar
}

// P is a shorthand for Pair.
// Example: NewRecord(171, 96, P("Gender", Text("Male")))
func P(key string, value Scalar) Pair {
	return Pair{Key: key, Value: value}
}

// NewRecord creates a Record with numeric height and weight plus any extra fields.
func NewRecord(heightCm, weightKg float64, extra ...Pair) Record {
	r := make(Record, len(extra)+2)
	for _, p := range extra {
		r[p.Key] = p.Value
	}
	r[FieldHeightCm] = Number(heightCm)
	r[FieldWeightKg] = Number(weightKg)
	return r
}

// Height returns the HeightCm field and whether it is present.
func (r Record) Height() (Scalar, bool) {
	v, ok := r[FieldHeightCm]
	return v, ok
}

// Weight returns the WeightKg field and whether it is present.
func (r Record) Weight() (Scalar, bool) {
	v, ok := r[FieldWeightKg]
	return v, ok
}

// SortedKeys returns keys ordered by UTF-16 code units, the order used by
// canonical JSON. Go's sort.Strings uses UTF-8 which produces a different order.
func (r Record) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

// compareKeysUTF16 compares strings using UTF-16 code unit ordering.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// Shorter string comes first
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}

// MarshalJSON implements json.Marshaler with sorted keys.
// NOTE: This is NOT canonical marshaling. Use MarshalCanonical for digests.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := marshalScalar(r[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalScalar marshals a Scalar to JSON bytes.
func marshalScalar(v Scalar) ([]byte, error) {
	switch val := v.(type) {
	case Null:
		return []byte("null"), nil
	case Number:
		return json.Marshal(float64(val))
	case Text:
		return json.Marshal(string(val))
	case Bool:
		return json.Marshal(bool(val))
	case Opaque:
		return json.Marshal(val.V)
	default:
		return nil, fmt.Errorf("unknown Scalar type: %T", v)
	}
}

// RecordsFromJSON decodes a JSON array of objects into records.
// Numbers are decoded without loss via json.Number before conversion.
// Any failure is a DECODE_ERROR.
func RecordsFromJSON(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, NewDecodeError("malformed JSON input", err)
	}
	// Trailing garbage after the array is malformed input too.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, NewDecodeError("malformed JSON input", fmt.Errorf("unexpected data after top-level value"))
	}
	return RecordsFromAny(raw)
}

// RecordsFromYAML decodes a YAML sequence of mappings into records.
// Any failure is a DECODE_ERROR.
func RecordsFromYAML(data []byte) ([]Record, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, NewDecodeError("malformed YAML input", err)
	}
	return RecordsFromAny(raw)
}

// RecordsFromAny converts an already-decoded value into records.
// The value must be a slice whose elements are string-keyed maps.
func RecordsFromAny(raw any) ([]Record, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, NewDecodeError(fmt.Sprintf("expected an array of records, got %s", describe(raw)), nil)
	}

	records := make([]Record, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, NewDecodeError(fmt.Sprintf("record %d: expected an object, got %s", i, describe(item)), nil)
		}
		rec := make(Record, len(obj))
		for k, v := range obj {
			s, err := FromAny(v)
			if err != nil {
				return nil, NewDecodeError(fmt.Sprintf("record %d: field %q", i, k), err)
			}
			rec[k] = s
		}
		records[i] = rec
	}
	return records, nil
}

// describe names the JSON shape of a decoded value for error messages.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}
