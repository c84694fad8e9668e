package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregation_RoundTrip(t *testing.T) {
	first := StringFirst("first_page", "page")
	first.MaxStringBytes = Ptr(int64(1024))

	filtered := NewFilteredAggregation(NewSelectorFilter("country", "IT"), LongSum("added", "added"))
	filtered.Name = "italian_added"

	tests := []struct {
		name string
		agg  Aggregation
	}{
		{"count", NewCountAggregation("rows")},
		{"field", DoubleSum("delta", "delta")},
		{"string first with max bytes", first},
		{"javaScript", NewJavaScriptAggregation("js", []string{"x", "y"},
			"function(current, x, y) { return current + x + y }",
			"function(a, b) { return a + b }",
			"function() { return 0 }")},
		{"filtered", filtered},
		{"nested filtered", NewFilteredAggregation(NewTrueFilter(),
			NewFilteredAggregation(NewNotFilter(NewTrueFilter()), NewCountAggregation("c")))},
		{"grouping", NewGroupingAggregation("g", "country", "page")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, Valid(tt.agg))
			roundTrip(t, tt.agg, UnmarshalAggregation)
		})
	}
}

func TestFieldAggregation_EveryReducer(t *testing.T) {
	constructors := map[string]func(name, fieldName string) *FieldAggregation{
		AggregationTypeLongSum:     LongSum,
		AggregationTypeDoubleSum:   DoubleSum,
		AggregationTypeFloatSum:    FloatSum,
		AggregationTypeLongMin:     LongMin,
		AggregationTypeLongMax:     LongMax,
		AggregationTypeDoubleMin:   DoubleMin,
		AggregationTypeDoubleMax:   DoubleMax,
		AggregationTypeFloatMin:    FloatMin,
		AggregationTypeFloatMax:    FloatMax,
		AggregationTypeDoubleMean:  DoubleMean,
		AggregationTypeDoubleFirst: DoubleFirst,
		AggregationTypeDoubleLast:  DoubleLast,
		AggregationTypeFloatFirst:  FloatFirst,
		AggregationTypeFloatLast:   FloatLast,
		AggregationTypeLongFirst:   LongFirst,
		AggregationTypeLongLast:    LongLast,
		AggregationTypeStringFirst: StringFirst,
		AggregationTypeStringLast:  StringLast,
		AggregationTypeDoubleAny:   DoubleAny,
		AggregationTypeFloatAny:    FloatAny,
		AggregationTypeLongAny:     LongAny,
		AggregationTypeStringAny:   StringAny,
	}
	require.Len(t, constructors, len(fieldAggregationTypes))

	for typ, build := range constructors {
		t.Run(typ, func(t *testing.T) {
			agg := build("out", "in")
			assert.Equal(t, typ, agg.Type)
			assert.True(t, Valid(agg))

			var decoded Aggregation = agg
			roundTrip(t, decoded, UnmarshalAggregation)
		})
	}
}

func TestAggregation_TypeMismatchIsInvalid(t *testing.T) {
	tests := []struct {
		name string
		agg  Aggregation
	}{
		{"count tagged longSum", &CountAggregation{Type: AggregationTypeLongSum, Name: "rows"}},
		{"field with unknown reducer", NewFieldAggregation("longMedian", "m", "x")},
		{"field tagged count", NewFieldAggregation(AggregationTypeCount, "m", "x")},
		{"javascript lower case", &JavaScriptAggregation{Type: "javascript"}},
		{"longSum carrying stringFirst", func() Aggregation {
			a := LongSum("m", "x")
			a.Type = AggregationTypeStringFirst
			return a
		}()},
		{"field literal", &FieldAggregation{Type: AggregationTypeLongSum, Name: "m", FieldName: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Valid(tt.agg))
		})
	}
}

func TestFilteredAggregation_RequiresBothChildren(t *testing.T) {
	assert.False(t, Valid(&FilteredAggregation{Type: AggregationTypeFiltered, Aggregator: NewCountAggregation("c")}))
	assert.False(t, Valid(&FilteredAggregation{Type: AggregationTypeFiltered, Filter: NewTrueFilter()}))
	assert.False(t, Valid(NewFilteredAggregation(NewTrueFilter(), &CountAggregation{Type: "filtered"})))
	assert.True(t, Valid(NewFilteredAggregation(NewTrueFilter(), NewCountAggregation("c"))))
}

func TestAggregation_DecodeUnknownReducer(t *testing.T) {
	_, err := UnmarshalAggregation([]byte(`{"type":"longMedian","name":"m","fieldName":"x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown aggregation type "longMedian"`)
}

func TestPostAggregation_RoundTrip(t *testing.T) {
	arithmetic := NewArithmeticPostAggregation("ratio", "/", "added", "rows")
	arithmetic.Ordering = "numericFirst"

	tests := []struct {
		name string
		post PostAggregation
	}{
		{"arithmetic", arithmetic},
		{"fieldAccess", NewFieldAccessPostAggregation("a", "added")},
		{"finalizingFieldAccess", NewFinalizingFieldAccessPostAggregation("u", "uniques")},
		{"doubleGreatest", NewBoundPostAggregation(PostAggregationTypeDoubleGreatest, "g", "a", "b")},
		{"longLeast", NewBoundPostAggregation(PostAggregationTypeLongLeast, "l", "a", "b")},
		{"javaScript", NewJavaScriptPostAggregation("js", "function(a, b) { return a * b }", "a", "b")},
		{"hyperUniqueCardinality", NewHyperUniqueCardinalityPostAggregation("card", "uniques")},
		{"constant", NewConstantPostAggregation("pi", 3.14159)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, Valid(tt.post))
			data := roundTrip(t, tt.post, UnmarshalPostAggregation)

			tag, err := peekDiscriminator(data, "post-aggregation", "type")
			require.NoError(t, err)
			assert.Equal(t, tt.name, tag)
		})
	}
}

func TestPostAggregation_SharedShapesCheckTheirLiteral(t *testing.T) {
	assert.False(t, Valid(&FieldAccessPostAggregation{Type: PostAggregationTypeHyperUniqueCardinality}))
	assert.False(t, Valid(NewBoundPostAggregation("doubleMax", "m", "a")))
	assert.False(t, Valid(&HyperUniqueCardinalityPostAggregation{Type: PostAggregationTypeFieldAccess}))
	assert.False(t, Valid(&ConstantPostAggregation{Type: PostAggregationTypeArithmetic}))
}

func TestSharedShapes_RememberTheirVariant(t *testing.T) {
	access := NewFieldAccessPostAggregation("a", "added")
	access.Type = PostAggregationTypeFinalizingFieldAccess
	assert.False(t, Valid(access))

	greatest := NewBoundPostAggregation(PostAggregationTypeDoubleGreatest, "g", "a", "b")
	greatest.Type = PostAggregationTypeLongLeast
	assert.False(t, Valid(greatest))

	assert.False(t, Valid(&BoundPostAggregation{Type: PostAggregationTypeLongLeast}))

	// Decoding records the wire literal as the variant.
	decoded, err := UnmarshalAggregation([]byte(`{"type":"stringFirst","name":"f","fieldName":"page"}`))
	require.NoError(t, err)
	require.True(t, Valid(decoded))
	decoded.(*FieldAggregation).Type = AggregationTypeLongSum
	assert.False(t, Valid(decoded))

	post, err := UnmarshalPostAggregation([]byte(`{"type":"finalizingFieldAccess","name":"u","fieldName":"uniques"}`))
	require.NoError(t, err)
	assert.Equal(t, NewFinalizingFieldAccessPostAggregation("u", "uniques"), post)
}

func TestArithmeticPostAggregation_WireShape(t *testing.T) {
	data := roundTrip[PostAggregation](t, NewArithmeticPostAggregation("sum", "+", "a", "b"), UnmarshalPostAggregation)
	assert.JSONEq(t, `{"type":"arithmetic","name":"sum","fn":"+","fields":["a","b"]}`, string(data))
}
