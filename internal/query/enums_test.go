package query

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnums_DecodeRejectsUnknownLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		enum  string
		value string
	}{
		{
			name:  "scan order",
			input: `{"queryType":"scan","dataSource":"wiki","intervals":[],"order":"sideways"}`,
			enum:  "order",
			value: "sideways",
		},
		{
			name:  "scan result format",
			input: `{"queryType":"scan","dataSource":"wiki","intervals":[],"resultFormat":"rows"}`,
			enum:  "result format",
			value: "rows",
		},
		{
			name:  "virtual column output type",
			input: `{"queryType":"scan","dataSource":"wiki","intervals":[],"virtualColumns":[{"type":"expression","name":"v","expression":"1","outputType":"BOGUS"}]}`,
			enum:  "output type",
			value: "BOGUS",
		},
		{
			name:  "time boundary bound",
			input: `{"queryType":"timeBoundary","dataSource":"wiki","bound":"midTime"}`,
			enum:  "bound",
			value: "midTime",
		},
		{
			name:  "analysis type",
			input: `{"queryType":"segmentMetadata","dataSource":"wiki","analysisTypes":["cardinality","colour"]}`,
			enum:  "analysis type",
			value: "colour",
		},
		{
			name:  "limit spec direction",
			input: `{"queryType":"groupBy","dataSource":"wiki","intervals":[],"granularity":"all","dimensions":[],"limitSpec":{"type":"default","columns":[{"dimension":"d","direction":"up","dimensionOrder":"numeric"}]}}`,
			enum:  "direction",
			value: "up",
		},
		{
			name:  "bound filter ordering",
			input: `{"queryType":"scan","dataSource":"wiki","intervals":[],"filter":{"type":"bound","dimension":"age","ordering":"random"}}`,
			enum:  "sort",
			value: "random",
		},
		{
			name:  "dimension output type",
			input: `{"queryType":"groupBy","dataSource":"wiki","intervals":[],"granularity":"all","dimensions":[{"type":"default","dimension":"d","outputType":"long"}]}`,
			enum:  "output type",
			value: "long",
		},
		{
			name:  "search sort",
			input: `{"queryType":"search","dataSource":"wiki","intervals":[],"query":{"type":"contains","value":"a"},"sort":{"type":"random"}}`,
			enum:  "sort",
			value: "random",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Unmarshal([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, q)

			var unknown *UnknownValueError
			require.True(t, errors.As(err, &unknown), "got %v", err)
			assert.Equal(t, tt.enum, unknown.Enum)
			assert.Equal(t, tt.value, unknown.Value)
		})
	}
}

func TestEnums_TopNDimensionMetricOrdering(t *testing.T) {
	_, err := UnmarshalTopNMetricSpec([]byte(`{"type":"dimension","ordering":"chrono"}`))
	var unknown *UnknownValueError
	require.True(t, errors.As(err, &unknown), "got %v", err)
	assert.Equal(t, "chrono", unknown.Value)
}

func TestEnums_UnknownGranularityName(t *testing.T) {
	_, err := Unmarshal([]byte(`{"queryType":"timeseries","dataSource":"wiki","intervals":[],"granularity":"fortnight"}`))
	var unknown *UnknownTypeError
	require.True(t, errors.As(err, &unknown), "got %v", err)
	assert.Equal(t, "granularity", unknown.Family)
}

func TestEnums_AbsentOptionalsDecode(t *testing.T) {
	q, err := Unmarshal([]byte(`{"queryType":"scan","dataSource":"wiki","intervals":[],"order":null}`))
	require.NoError(t, err)
	scan := q.(*Scan)
	assert.Equal(t, Order(""), scan.Order)
	assert.Equal(t, ResultFormat(""), scan.ResultFormat)
	assert.True(t, Validate(q))
}

func TestEnums_RoundTripKnownLiterals(t *testing.T) {
	for _, v := range []OutputType{OutputTypeLong, OutputTypeFloat, OutputTypeDouble, OutputTypeString, OutputTypeArray, OutputTypeComplex} {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		var got OutputType
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, v, got)
		assert.True(t, got.Known())
	}
	for _, v := range []AnalysisType{AnalysisCardinality, AnalysisMinmax, AnalysisSize, AnalysisInterval,
		AnalysisTimestampSpec, AnalysisQueryGranularity, AnalysisAggregators, AnalysisRollup} {
		assert.True(t, v.Known(), v)
	}
	assert.False(t, Sort("").Known())
	assert.False(t, Direction("sideways").Known())
}

// Values built in memory bypass the decoder, so validation checks them too.
func TestEnums_ValidationRejectsUnknownLiterals(t *testing.T) {
	tests := []struct {
		name  string
		query NativeQuery
	}{
		{"scan order", func() NativeQuery {
			q := NewScan(StringDataSource("wiki"), nil)
			q.Order = "sideways"
			return q
		}()},
		{"scan result format", func() NativeQuery {
			q := NewScan(StringDataSource("wiki"), nil)
			q.ResultFormat = "rows"
			return q
		}()},
		{"virtual column output type", func() NativeQuery {
			q := NewScan(StringDataSource("wiki"), nil)
			q.VirtualColumns = []VirtualColumn{NewVirtualColumn("v", "1", "BOGUS")}
			return q
		}()},
		{"virtual column without output type", func() NativeQuery {
			q := NewScan(StringDataSource("wiki"), nil)
			q.VirtualColumns = []VirtualColumn{NewVirtualColumn("v", "1", "")}
			return q
		}()},
		{"bound filter ordering", func() NativeQuery {
			q := NewScan(StringDataSource("wiki"), nil)
			f := NewBoundFilter("age")
			f.Ordering = "random"
			q.Filter = f
			return q
		}()},
		{"time boundary bound", func() NativeQuery {
			q := NewTimeBoundary(StringDataSource("wiki"))
			q.Bound = "midTime"
			return q
		}()},
		{"analysis type", NewSegmentMetadata(StringDataSource("wiki"), AnalysisCardinality, "colour")},
		{"limit spec direction", func() NativeQuery {
			q := NewGroupBy(StringDataSource("wiki"), nil, GranularityAll)
			q.LimitSpec = NewLimitSpec(1, OrderByColumnSpec{Dimension: "d", Direction: "up", DimensionOrder: SortNumeric})
			return q
		}()},
		{"limit spec without ordering", func() NativeQuery {
			q := NewGroupBy(StringDataSource("wiki"), nil, GranularityAll)
			q.LimitSpec = NewLimitSpec(1, OrderByColumnSpec{Dimension: "d", Direction: DirectionAscending})
			return q
		}()},
		{"dimension output type", func() NativeQuery {
			d := NewDefaultDimensionSpec("d")
			d.OutputType = "long"
			return NewGroupBy(StringDataSource("wiki"), nil, GranularityAll, d)
		}()},
		{"topN dimension ordering", NewTopN(StringDataSource("wiki"), nil, GranularityAll,
			NewDefaultDimensionSpec("d"), 5, NewDimensionTopNMetric("chrono"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.query.ValidateType())
			assert.False(t, Validate(tt.query))
		})
	}
}
