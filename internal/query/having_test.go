package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaving_RoundTripEveryVariant(t *testing.T) {
	dimSelector := NewDimSelectorHaving("country", "IT")
	dimSelector.ExtractionFn = NewUpperExtraction()

	tests := map[string]Having{
		"filter":      NewFilterHaving(NewSelectorFilter("country", "IT")),
		"equalTo":     NewEqualToHaving("rows", 10),
		"greaterThan": NewGreaterThanHaving("rows", 1.5),
		"lessThan":    NewLessThanHaving("rows", -2),
		"dimSelector": dimSelector,
		"and":         NewAndHaving(NewEqualToHaving("a", 1), NewLessThanHaving("b", 2)),
		"or":          NewOrHaving(NewGreaterThanHaving("a", 1)),
		"not":         NewNotHaving(NewEqualToHaving("a", 0)),
	}

	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			require.True(t, Valid(h))
			data := roundTrip(t, h, UnmarshalHaving)

			tag, err := peekDiscriminator(data, "having", "type")
			require.NoError(t, err)
			assert.Equal(t, name, tag)
		})
	}
}

func TestHaving_SameShapeDifferentTag(t *testing.T) {
	// The three comparison variants share fields; only the tag tells them
	// apart, so a mismatched tag must fail validation.
	assert.False(t, Valid(&EqualToHaving{Type: HavingTypeGreaterThan, Aggregation: "rows", Value: 10}))
	assert.False(t, Valid(&GreaterThanHaving{Type: HavingTypeLessThan, Aggregation: "rows", Value: 10}))
	assert.False(t, Valid(&LessThanHaving{Type: HavingTypeEqualTo, Aggregation: "rows", Value: 10}))
	assert.True(t, Valid(&EqualToHaving{Type: HavingTypeEqualTo, Aggregation: "rows", Value: 10}))
}

func TestHaving_DecodeDispatchesOnTag(t *testing.T) {
	h, err := UnmarshalHaving([]byte(`{"type":"greaterThan","aggregation":"rows","value":10}`))
	require.NoError(t, err)

	gt, ok := h.(*GreaterThanHaving)
	require.True(t, ok, "got %T", h)
	assert.Equal(t, "rows", gt.Aggregation)
	assert.Equal(t, 10.0, gt.Value)
}

func TestHaving_RecursiveValidation(t *testing.T) {
	bad := &EqualToHaving{Type: HavingTypeLessThan}

	assert.True(t, Valid(NewAndHaving()))
	assert.False(t, Valid(NewAndHaving(NewEqualToHaving("a", 1), bad)))
	assert.False(t, Valid(NewOrHaving(NewNotHaving(bad))))
	assert.False(t, Valid(NewFilterHaving(&TrueFilter{Type: "false"})))
	assert.False(t, Valid(&FilterHaving{Type: HavingTypeFilter}))
	assert.False(t, Valid(&DimSelectorHaving{Type: HavingTypeDimSelector, ExtractionFn: &StrlenExtraction{}}))
}

func TestHaving_DecodeNestedUnknown(t *testing.T) {
	_, err := UnmarshalHaving([]byte(`{"type":"and","havingSpecs":[{"type":"between"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "havingSpecs[0]")
	assert.Contains(t, err.Error(), `unknown having type "between"`)
}
