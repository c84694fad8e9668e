package query

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip encodes v, decodes it with decode and requires the result to
// equal v.
func roundTrip[T any](t *testing.T, v T, decode func([]byte) (T, error)) []byte {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	got, err := decode(data)
	require.NoError(t, err, "decode %s", data)
	assert.Equal(t, v, got)
	return data
}

// decodeInto encodes v and decodes the result into a value from alloc, for
// components that are not members of a sealed family.
func decodeInto[T any](v T, alloc func() T) (T, error) {
	out := alloc()
	data, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, out)
	return out, err
}

func TestValid_NilComponent(t *testing.T) {
	var f Filter
	assert.False(t, Valid(f))
}

func TestValid_TypedNilPointer(t *testing.T) {
	var sel *SelectorFilter
	assert.False(t, Valid(sel))

	// A typed nil in an optional slot is present, and therefore invalid.
	q := NewScan(StringDataSource("wiki"), nil)
	q.Filter = sel
	assert.False(t, Validate(q))
}

func TestValidOptional_AbsentIsValid(t *testing.T) {
	assert.True(t, validOptional(nil))
	assert.True(t, validOptional(NewTrueFilter()))
	assert.False(t, validOptional(&TrueFilter{Type: "false"}))
}

func TestValidAll(t *testing.T) {
	assert.True(t, validAll[Filter](nil))
	assert.True(t, validAll([]Filter{}))
	assert.True(t, validAll([]Filter{NewTrueFilter(), NewSelectorFilter("a", "b")}))
	assert.False(t, validAll([]Filter{NewTrueFilter(), &SelectorFilter{Type: "in"}}))
	assert.False(t, validAll([]Filter{NewTrueFilter(), nil}))
}

func TestUnknownTypeError(t *testing.T) {
	_, err := UnmarshalFilter([]byte(`{"type":"nope"}`))
	require.Error(t, err)

	var unknown *UnknownTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "filter", unknown.Family)
	assert.Equal(t, "nope", unknown.Type)
	assert.Equal(t, `unknown filter type "nope"`, unknown.Error())
}

func TestMissingTypeError(t *testing.T) {
	_, err := UnmarshalHaving([]byte(`{"aggregation":"rows","value":1}`))
	require.Error(t, err)

	var missing *MissingTypeError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "having", missing.Family)
	assert.Equal(t, "type", missing.Field)
}

func TestDecodeVariant_NonObject(t *testing.T) {
	_, err := UnmarshalAggregation([]byte(`[1,2]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode aggregation")
}

func TestDecodeVariant_NonStringDiscriminator(t *testing.T) {
	_, err := UnmarshalFilter([]byte(`{"type":7}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode filter type")
}

func TestDecodeList_KeepsNilAndEmptyDistinct(t *testing.T) {
	none, err := decodeList(nil, UnmarshalFilter)
	require.NoError(t, err)
	assert.Nil(t, none)

	empty, err := decodeList([]json.RawMessage{}, UnmarshalFilter)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDecodeList_ReportsIndex(t *testing.T) {
	raws := []json.RawMessage{
		json.RawMessage(`{"type":"true"}`),
		json.RawMessage(`{"type":"bogus"}`),
	}
	_, err := decodeList(raws, UnmarshalFilter)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[1]: ")

	var unknown *UnknownTypeError
	assert.True(t, errors.As(err, &unknown))
}

func TestIsAbsent(t *testing.T) {
	assert.True(t, isAbsent(nil))
	assert.True(t, isAbsent(json.RawMessage(`null`)))
	assert.True(t, isAbsent(json.RawMessage(` null `)))
	assert.False(t, isAbsent(json.RawMessage(`{}`)))
	assert.False(t, isAbsent(json.RawMessage(`""`)))
}
