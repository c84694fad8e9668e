package query

import (
	"encoding/json"
	"fmt"
)

// UnknownValueError is returned when decoding meets a literal outside a
// closed set of values.
type UnknownValueError struct {
	Enum  string // e.g. "output type"
	Value string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Enum, e.Value)
}

// literals is the closed set of values of one string enum.
type literals[E ~string] struct {
	name string
	set  map[E]bool
}

func newLiterals[E ~string](name string, values ...E) literals[E] {
	set := make(map[E]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return literals[E]{name: name, set: set}
}

func (l literals[E]) known(v E) bool { return l.set[v] }

// optional accepts the empty value, which encodes as an absent field.
func (l literals[E]) optional(v E) bool { return v == "" || l.set[v] }

func (l literals[E]) decode(data []byte, out *E) error {
	if isAbsent(data) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode %s: %w", l.name, err)
	}
	if !l.set[E(s)] {
		return &UnknownValueError{Enum: l.name, Value: s}
	}
	*out = E(s)
	return nil
}

// OutputType is the value type of a dimension or virtual column.
type OutputType string

const (
	OutputTypeLong    OutputType = "LONG"
	OutputTypeFloat   OutputType = "FLOAT"
	OutputTypeDouble  OutputType = "DOUBLE"
	OutputTypeString  OutputType = "STRING"
	OutputTypeArray   OutputType = "ARRAY"
	OutputTypeComplex OutputType = "COMPLEX"
)

var outputTypes = newLiterals("output type",
	OutputTypeLong, OutputTypeFloat, OutputTypeDouble, OutputTypeString, OutputTypeArray, OutputTypeComplex)

func (t OutputType) Known() bool                      { return outputTypes.known(t) }
func (t *OutputType) UnmarshalJSON(data []byte) error { return outputTypes.decode(data, t) }

// ResultFormat controls the row layout of scan results.
type ResultFormat string

const (
	ResultFormatList          ResultFormat = "list"
	ResultFormatCompactedList ResultFormat = "compactedList"
)

var resultFormats = newLiterals("result format", ResultFormatList, ResultFormatCompactedList)

func (f ResultFormat) Known() bool                      { return resultFormats.known(f) }
func (f *ResultFormat) UnmarshalJSON(data []byte) error { return resultFormats.decode(data, f) }

// Order is the time ordering of scan results.
type Order string

const (
	OrderAscending  Order = "ascending"
	OrderDescending Order = "descending"
	OrderNone       Order = "none"
)

var orders = newLiterals("order", OrderAscending, OrderDescending, OrderNone)

func (o Order) Known() bool                      { return orders.known(o) }
func (o *Order) UnmarshalJSON(data []byte) error { return orders.decode(data, o) }

// Sort is a dimension value ordering.
type Sort string

const (
	SortLexicographic Sort = "lexicographic"
	SortAlphanumeric  Sort = "alphanumeric"
	SortStrlen        Sort = "strlen"
	SortNumeric       Sort = "numeric"
)

var sorts = newLiterals("sort", SortLexicographic, SortAlphanumeric, SortStrlen, SortNumeric)

func (s Sort) Known() bool                      { return sorts.known(s) }
func (s *Sort) UnmarshalJSON(data []byte) error { return sorts.decode(data, s) }

// Direction is the direction of an order-by column.
type Direction string

const (
	DirectionAscending  Direction = "ascending"
	DirectionDescending Direction = "descending"
)

var directions = newLiterals("direction", DirectionAscending, DirectionDescending)

func (d Direction) Known() bool                      { return directions.known(d) }
func (d *Direction) UnmarshalJSON(data []byte) error { return directions.decode(data, d) }

// Bound selects which side of the time boundary to return.
type Bound string

const (
	BoundMaxTime Bound = "maxTime"
	BoundMinTime Bound = "minTime"
)

var bounds = newLiterals("bound", BoundMaxTime, BoundMinTime)

func (b Bound) Known() bool                      { return bounds.known(b) }
func (b *Bound) UnmarshalJSON(data []byte) error { return bounds.decode(data, b) }

// AnalysisType is a column analysis requested by a segment metadata query.
type AnalysisType string

const (
	AnalysisCardinality      AnalysisType = "cardinality"
	AnalysisMinmax           AnalysisType = "minmax"
	AnalysisSize             AnalysisType = "size"
	AnalysisInterval         AnalysisType = "interval"
	AnalysisTimestampSpec    AnalysisType = "timestampSpec"
	AnalysisQueryGranularity AnalysisType = "queryGranularity"
	AnalysisAggregators      AnalysisType = "aggregators"
	AnalysisRollup           AnalysisType = "rollup"
)

var analysisTypes = newLiterals("analysis type",
	AnalysisCardinality, AnalysisMinmax, AnalysisSize, AnalysisInterval,
	AnalysisTimestampSpec, AnalysisQueryGranularity, AnalysisAggregators, AnalysisRollup)

func (a AnalysisType) Known() bool                      { return analysisTypes.known(a) }
func (a *AnalysisType) UnmarshalJSON(data []byte) error { return analysisTypes.decode(data, a) }

func allKnown[E interface{ Known() bool }](values []E) bool {
	for _, v := range values {
		if !v.Known() {
			return false
		}
	}
	return true
}
