package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Component is implemented by every node of a query tree.
type Component interface {
	// ValidateType reports whether the node's discriminator equals the
	// literal expected for its concrete variant.
	ValidateType() bool

	// ValidateSubcomponents reports whether every component owned by the
	// node is itself Valid. Absent optional components are valid.
	ValidateSubcomponents() bool
}

// Valid reports whether c passes both validation phases.
// A nil component (or a nil pointer wrapped in the interface) is not valid.
func Valid(c Component) bool {
	if isNil(c) {
		return false
	}
	return c.ValidateType() && c.ValidateSubcomponents()
}

// validOptional treats an absent component as valid.
// Callers must pass interface-typed fields only; a nil concrete pointer
// converted to Component is not absent.
func validOptional(c Component) bool {
	if c == nil {
		return true
	}
	return Valid(c)
}

// validAll short-circuits on the first invalid element. Empty is valid.
func validAll[T Component](items []T) bool {
	for _, item := range items {
		if !Valid(item) {
			return false
		}
	}
	return true
}

func isNil(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// UnknownTypeError is returned when decoding meets a discriminator that no
// variant of the family declares.
type UnknownTypeError struct {
	Family string // e.g. "filter", "query"
	Type   string // the discriminator found on the wire
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown %s type %q", e.Family, e.Type)
}

// MissingTypeError is returned when a tagged object has no discriminator.
type MissingTypeError struct {
	Family string
	Field  string // "type" or "queryType"
}

func (e *MissingTypeError) Error() string {
	return fmt.Sprintf("%s object has no %q field", e.Family, e.Field)
}

// peekDiscriminator reads the tag of a JSON object without decoding the rest.
func peekDiscriminator(data []byte, family, field string) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", fmt.Errorf("decode %s: %w", family, err)
	}
	raw, ok := fields[field]
	if !ok {
		return "", &MissingTypeError{Family: family, Field: field}
	}
	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", fmt.Errorf("decode %s %s: %w", family, field, err)
	}
	return tag, nil
}

// decodeVariant dispatches on the discriminator and decodes data into a
// freshly allocated variant from registry.
func decodeVariant[T any](data []byte, family, field string, registry map[string]func() T) (T, error) {
	var zero T
	tag, err := peekDiscriminator(data, family, field)
	if err != nil {
		return zero, err
	}
	newVariant, ok := registry[tag]
	if !ok {
		return zero, &UnknownTypeError{Family: family, Type: tag}
	}
	v := newVariant()
	if err := json.Unmarshal(data, v); err != nil {
		return zero, fmt.Errorf("decode %s %q: %w", family, tag, err)
	}
	return v, nil
}

// isAbsent reports whether a raw field was missing or explicitly null.
func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isJSONString(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

// decodeOptional returns the zero value for an absent field.
func decodeOptional[T any](raw json.RawMessage, decode func([]byte) (T, error)) (T, error) {
	var zero T
	if isAbsent(raw) {
		return zero, nil
	}
	return decode(raw)
}

// decodeList keeps nil and empty lists distinct so round trips are exact.
func decodeList[T any](raws []json.RawMessage, decode func([]byte) (T, error)) ([]T, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]T, len(raws))
	for i, raw := range raws {
		item, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = item
	}
	return out, nil
}
