package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionFunction_RoundTripEveryVariant(t *testing.T) {
	regex := NewRegexExtraction("(\\w+)", 1)
	regex.ReplaceMissingValue = true
	regex.ReplaceMissingValueWith = "none"

	substring := NewSubstringExtraction(2)
	substring.Length = Ptr(int64(3))

	timeFormat := NewTimeFormatExtraction("yyyy-MM-dd")
	timeFormat.TimeZone = "Europe/Rome"
	timeFormat.Granularity = NewPeriodGranularity("P1D")

	tests := map[string]ExtractionFunction{
		"regex":        regex,
		"partial":      NewPartialExtraction("^a"),
		"searchQuery":  NewSearchQueryExtraction(NewFragmentSearch(false, "a", "b")),
		"substring":    substring,
		"strlen":       NewStrlenExtraction(),
		"timeFormat":   timeFormat,
		"timeParsing":  NewTimeParsingExtraction("dd/MM/yyyy", "yyyy-MM-dd"),
		"javaScript":   NewJavaScriptExtraction("function(x) { return x }"),
		"cascade":      NewCascadeExtraction(NewLowerExtraction(), NewSubstringExtraction(0)),
		"stringFormat": NewStringFormatExtraction("[%s]"),
		"upper":        NewUpperExtraction(),
		"lower":        NewLowerExtraction(),
		"bucket":       NewBucketExtraction(10, 5),
	}

	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			require.True(t, Valid(fn))
			data := roundTrip(t, fn, UnmarshalExtractionFunction)

			tag, err := peekDiscriminator(data, "extraction function", "type")
			require.NoError(t, err)
			assert.Equal(t, name, tag)
		})
	}
}

func TestExtractionFunction_RecursiveValidation(t *testing.T) {
	assert.True(t, Valid(NewCascadeExtraction()))
	assert.False(t, Valid(NewCascadeExtraction(NewUpperExtraction(), &LowerExtraction{Type: "upper"})))
	assert.False(t, Valid(NewSearchQueryExtraction(&RegexSearch{Type: "regexp"})))
	assert.False(t, Valid(&TimeFormatExtraction{Type: ExtractionTypeTimeFormat, Granularity: SimpleGranularity("fortnight")}))
	assert.False(t, Valid(&JavaScriptExtraction{Type: "javascript"}))
}

func TestDimensionSpec_RoundTripEveryVariant(t *testing.T) {
	def := NewDefaultDimensionSpec("country")
	def.OutputName = "c"
	def.OutputType = OutputTypeString

	list := NewListFilteredDimensionSpec(def, "IT", "FR")
	list.IsWhitelist = Ptr(false)

	tests := map[string]DimensionSpec{
		"default":        def,
		"extraction":     NewExtractionDimensionSpec("page", NewStrlenExtraction()),
		"listFiltered":   list,
		"regexFiltered":  NewRegexFilteredDimensionSpec(NewDefaultDimensionSpec("page"), "^M"),
		"prefixFiltered": NewPrefixFilteredDimensionSpec(NewDefaultDimensionSpec("page"), "Main"),
	}

	for name, spec := range tests {
		t.Run(name, func(t *testing.T) {
			require.True(t, Valid(spec))
			data := roundTrip(t, spec, UnmarshalDimensionSpec)

			tag, err := peekDiscriminator(data, "dimension spec", "type")
			require.NoError(t, err)
			assert.Equal(t, name, tag)
		})
	}
}

func TestDimensionSpec_DelegateMustBeValid(t *testing.T) {
	bad := &DefaultDimensionSpec{Type: DimensionTypeExtraction}

	assert.False(t, Valid(NewListFilteredDimensionSpec(bad)))
	assert.False(t, Valid(NewRegexFilteredDimensionSpec(NewPrefixFilteredDimensionSpec(bad, "x"), ".")))
	assert.False(t, Valid(&ExtractionDimensionSpec{Type: DimensionTypeExtraction, Dimension: "d"}))
}

func TestGranularity_BothForms(t *testing.T) {
	tests := []struct {
		name string
		g    Granularity
		wire string
	}{
		{"simple", GranularityFifteenMinute, `"fifteen_minute"`},
		{"period", NewPeriodGranularity("PT1H"), `{"type":"period","period":"PT1H"}`},
		{"duration", NewDurationGranularity(7200000), `{"type":"duration","duration":7200000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, Valid(tt.g))
			data := roundTrip(t, tt.g, UnmarshalGranularity)
			assert.JSONEq(t, tt.wire, string(data))
		})
	}
}

func TestGranularity_UnknownSimpleName(t *testing.T) {
	g, err := UnmarshalGranularity([]byte(`"fortnight"`))
	require.Error(t, err)
	assert.Nil(t, g)

	var unknown *UnknownTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "granularity", unknown.Family)
	assert.Equal(t, "fortnight", unknown.Type)

	assert.False(t, Valid(SimpleGranularity("fortnight")))
}

func TestGranularitySpec(t *testing.T) {
	spec := NewGranularitySpec(GranularityDay, NewDurationGranularity(60000))
	spec.Rollup = Ptr(true)

	require.True(t, Valid(spec))
	decoded, err := decodeInto(spec, func() *GranularitySpec { return &GranularitySpec{} })
	require.NoError(t, err)
	assert.Equal(t, spec, decoded)

	assert.False(t, Valid(NewGranularitySpec(GranularityDay, SimpleGranularity("decade"))))
	assert.False(t, Valid(&GranularitySpec{Type: GranularitySpecType, SegmentGranularity: GranularityDay}))
}

func TestSearchQuerySpec_RoundTripEveryVariant(t *testing.T) {
	tests := map[string]SearchQuerySpec{
		"insensitive_contains": NewInsensitiveContainsSearch("ke"),
		"fragment":             NewFragmentSearch(true, "a", "b"),
		"contains":             NewContainsSearch(false, "Ke"),
		"regex":                NewRegexSearch("^K"),
	}

	for name, spec := range tests {
		t.Run(name, func(t *testing.T) {
			require.True(t, Valid(spec))
			data := roundTrip(t, spec, UnmarshalSearchQuerySpec)

			tag, err := peekDiscriminator(data, "search query spec", "type")
			require.NoError(t, err)
			assert.Equal(t, name, tag)
		})
	}
}

func TestSearchSortSpec(t *testing.T) {
	assert.True(t, Valid(NewSearchSortSpec(SortStrlen)))
	assert.False(t, Valid(NewSearchSortSpec("random")))
}

func TestTopNMetricSpec_RoundTripEveryVariant(t *testing.T) {
	dim := NewDimensionTopNMetric(SortAlphanumeric)
	dim.PreviousStop = "b"

	tests := map[string]TopNMetricSpec{
		"numeric":   NewNumericTopNMetric("added"),
		"dimension": dim,
		"inverted":  NewInvertedTopNMetric(NewInvertedTopNMetric(NewNumericTopNMetric("added"))),
	}

	for name, spec := range tests {
		t.Run(name, func(t *testing.T) {
			require.True(t, Valid(spec))
			roundTrip(t, spec, UnmarshalTopNMetricSpec)
		})
	}

	assert.False(t, Valid(NewInvertedTopNMetric(&NumericTopNMetric{Type: "dimension"})))
	assert.False(t, Valid(&InvertedTopNMetric{Type: TopNMetricTypeInverted}))
}

func TestToInclude_RoundTripEveryVariant(t *testing.T) {
	tests := map[string]ToInclude{
		"all":  NewAllToInclude(),
		"none": NewNoneToInclude(),
		"list": NewListToInclude("page", "country"),
	}

	for name, spec := range tests {
		t.Run(name, func(t *testing.T) {
			require.True(t, Valid(spec))
			roundTrip(t, spec, UnmarshalToInclude)
		})
	}

	assert.False(t, Valid(&ListToInclude{Type: ToIncludeTypeAll}))
}

func TestLimitSpec(t *testing.T) {
	spec := NewLimitSpec(5, OrderByColumnSpec{
		Dimension:      "rows",
		Direction:      DirectionDescending,
		DimensionOrder: SortNumeric,
	})
	spec.Offset = Ptr(int64(10))

	require.True(t, Valid(spec))
	decoded, err := decodeInto(spec, func() *LimitSpec { return &LimitSpec{} })
	require.NoError(t, err)
	assert.Equal(t, spec, decoded)

	assert.False(t, Valid(&LimitSpec{Type: "topN"}))
}

func TestVirtualColumn(t *testing.T) {
	vc := NewVirtualColumn("page_len", "strlen(page)", OutputTypeLong)
	assert.True(t, Valid(vc))

	decoded, err := decodeInto(&vc, func() *VirtualColumn { return &VirtualColumn{} })
	require.NoError(t, err)
	assert.Equal(t, vc, *decoded)

	assert.False(t, Valid(VirtualColumn{Type: "extraction"}))
}
