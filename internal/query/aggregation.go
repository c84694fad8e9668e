package query

import (
	"encoding/json"
	"fmt"
)

// Aggregation reduces raw rows into a named metric.
// FilteredAggregation wraps another aggregation.
type Aggregation interface {
	Component
	aggregationNode()
}

// Aggregation discriminators.
const (
	AggregationTypeCount      = "count"
	AggregationTypeJavaScript = "javaScript"
	AggregationTypeFiltered   = "filtered"
	AggregationTypeGrouping   = "grouping"

	AggregationTypeLongSum     = "longSum"
	AggregationTypeDoubleSum   = "doubleSum"
	AggregationTypeFloatSum    = "floatSum"
	AggregationTypeDoubleMin   = "doubleMin"
	AggregationTypeDoubleMax   = "doubleMax"
	AggregationTypeFloatMin    = "floatMin"
	AggregationTypeFloatMax    = "floatMax"
	AggregationTypeLongMin     = "longMin"
	AggregationTypeLongMax     = "longMax"
	AggregationTypeDoubleMean  = "doubleMean"
	AggregationTypeDoubleFirst = "doubleFirst"
	AggregationTypeDoubleLast  = "doubleLast"
	AggregationTypeFloatFirst  = "floatFirst"
	AggregationTypeFloatLast   = "floatLast"
	AggregationTypeLongFirst   = "longFirst"
	AggregationTypeLongLast    = "longLast"
	AggregationTypeStringFirst = "stringFirst"
	AggregationTypeStringLast  = "stringLast"
	AggregationTypeDoubleAny   = "doubleAny"
	AggregationTypeFloatAny    = "floatAny"
	AggregationTypeLongAny     = "longAny"
	AggregationTypeStringAny   = "stringAny"
)

// fieldAggregationTypes are the reducers that share the {name, fieldName} shape.
var fieldAggregationTypes = map[string]bool{
	AggregationTypeLongSum:     true,
	AggregationTypeDoubleSum:   true,
	AggregationTypeFloatSum:    true,
	AggregationTypeDoubleMin:   true,
	AggregationTypeDoubleMax:   true,
	AggregationTypeFloatMin:    true,
	AggregationTypeFloatMax:    true,
	AggregationTypeLongMin:     true,
	AggregationTypeLongMax:     true,
	AggregationTypeDoubleMean:  true,
	AggregationTypeDoubleFirst: true,
	AggregationTypeDoubleLast:  true,
	AggregationTypeFloatFirst:  true,
	AggregationTypeFloatLast:   true,
	AggregationTypeLongFirst:   true,
	AggregationTypeLongLast:    true,
	AggregationTypeStringFirst: true,
	AggregationTypeStringLast:  true,
	AggregationTypeDoubleAny:   true,
	AggregationTypeFloatAny:    true,
	AggregationTypeLongAny:     true,
	AggregationTypeStringAny:   true,
}

// CountAggregation counts rows.
type CountAggregation struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

func NewCountAggregation(name string) *CountAggregation {
	return &CountAggregation{Type: AggregationTypeCount, Name: name}
}

func (*CountAggregation) aggregationNode()            {}
func (a *CountAggregation) ValidateType() bool        { return a.Type == AggregationTypeCount }
func (*CountAggregation) ValidateSubcomponents() bool { return true }

// FieldAggregation is a statistical reducer (sum, min, max, mean, first,
// last, any) over one column. Type selects the reducer and value type.
//
// Every reducer has the same fields, so the value remembers which reducer
// it was built or decoded as, and Type must still name that reducer.
// Values must come from a constructor or UnmarshalAggregation; a struct
// literal has no reducer and is never valid.
//
// MaxStringBytes applies to the string reducers only.
type FieldAggregation struct {
	Type           string `json:"type"`
	Name           string `json:"name"`
	FieldName      string `json:"fieldName"`
	MaxStringBytes *int64 `json:"maxStringBytes,omitempty"`

	variant string
}

// NewFieldAggregation builds a reducer of the given type. Prefer the named
// constructors (LongSum, DoubleMax, ...).
func NewFieldAggregation(typ, name, fieldName string) *FieldAggregation {
	return &FieldAggregation{Type: typ, Name: name, FieldName: fieldName, variant: typ}
}

func LongSum(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeLongSum, name, fieldName)
}

func DoubleSum(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeDoubleSum, name, fieldName)
}

func FloatSum(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeFloatSum, name, fieldName)
}

func LongMin(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeLongMin, name, fieldName)
}

func LongMax(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeLongMax, name, fieldName)
}

func DoubleMin(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeDoubleMin, name, fieldName)
}

func DoubleMax(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeDoubleMax, name, fieldName)
}

func FloatMin(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeFloatMin, name, fieldName)
}

func FloatMax(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeFloatMax, name, fieldName)
}

func DoubleMean(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeDoubleMean, name, fieldName)
}

func DoubleFirst(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeDoubleFirst, name, fieldName)
}

func DoubleLast(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeDoubleLast, name, fieldName)
}

func FloatFirst(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeFloatFirst, name, fieldName)
}

func FloatLast(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeFloatLast, name, fieldName)
}

func LongFirst(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeLongFirst, name, fieldName)
}

func LongLast(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeLongLast, name, fieldName)
}

func StringFirst(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeStringFirst, name, fieldName)
}

func StringLast(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeStringLast, name, fieldName)
}

func DoubleAny(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeDoubleAny, name, fieldName)
}

func FloatAny(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeFloatAny, name, fieldName)
}

func LongAny(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeLongAny, name, fieldName)
}

func StringAny(name, fieldName string) *FieldAggregation {
	return NewFieldAggregation(AggregationTypeStringAny, name, fieldName)
}

func (*FieldAggregation) aggregationNode()            {}
func (a *FieldAggregation) ValidateType() bool        { return fieldAggregationTypes[a.variant] && a.Type == a.variant }
func (*FieldAggregation) ValidateSubcomponents() bool { return true }

// JavaScriptAggregation computes an arbitrary aggregate from three functions.
type JavaScriptAggregation struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	FieldNames  []string `json:"fieldNames"`
	FnAggregate string   `json:"fnAggregate"`
	FnCombine   string   `json:"fnCombine"`
	FnReset     string   `json:"fnReset"`
}

func NewJavaScriptAggregation(name string, fieldNames []string, fnAggregate, fnCombine, fnReset string) *JavaScriptAggregation {
	return &JavaScriptAggregation{
		Type:        AggregationTypeJavaScript,
		Name:        name,
		FieldNames:  fieldNames,
		FnAggregate: fnAggregate,
		FnCombine:   fnCombine,
		FnReset:     fnReset,
	}
}

func (*JavaScriptAggregation) aggregationNode()            {}
func (a *JavaScriptAggregation) ValidateType() bool        { return a.Type == AggregationTypeJavaScript }
func (*JavaScriptAggregation) ValidateSubcomponents() bool { return true }

// FilteredAggregation applies Aggregator only to rows matching Filter.
type FilteredAggregation struct {
	Type       string      `json:"type"`
	Filter     Filter      `json:"filter"`
	Aggregator Aggregation `json:"aggregator"`
	Name       string      `json:"name,omitempty"`
}

func NewFilteredAggregation(filter Filter, aggregator Aggregation) *FilteredAggregation {
	return &FilteredAggregation{Type: AggregationTypeFiltered, Filter: filter, Aggregator: aggregator}
}

func (*FilteredAggregation) aggregationNode()     {}
func (a *FilteredAggregation) ValidateType() bool { return a.Type == AggregationTypeFiltered }

func (a *FilteredAggregation) ValidateSubcomponents() bool {
	return Valid(a.Filter) && Valid(a.Aggregator)
}

func (a *FilteredAggregation) UnmarshalJSON(data []byte) error {
	type plain FilteredAggregation
	aux := struct {
		*plain
		Filter     json.RawMessage `json:"filter"`
		Aggregator json.RawMessage `json:"aggregator"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if a.Filter, err = decodeOptional(aux.Filter, UnmarshalFilter); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if a.Aggregator, err = decodeOptional(aux.Aggregator, UnmarshalAggregation); err != nil {
		return fmt.Errorf("aggregator: %w", err)
	}
	return nil
}

// GroupingAggregation reports which of Groupings are part of each row's
// grouping set (subtotals).
type GroupingAggregation struct {
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Groupings []string `json:"groupings"`
}

func NewGroupingAggregation(name string, groupings ...string) *GroupingAggregation {
	return &GroupingAggregation{Type: AggregationTypeGrouping, Name: name, Groupings: groupings}
}

func (*GroupingAggregation) aggregationNode()            {}
func (a *GroupingAggregation) ValidateType() bool        { return a.Type == AggregationTypeGrouping }
func (*GroupingAggregation) ValidateSubcomponents() bool { return true }

var aggregationRegistry = func() map[string]func() Aggregation {
	reg := map[string]func() Aggregation{
		AggregationTypeCount:      func() Aggregation { return &CountAggregation{} },
		AggregationTypeJavaScript: func() Aggregation { return &JavaScriptAggregation{} },
		AggregationTypeFiltered:   func() Aggregation { return &FilteredAggregation{} },
		AggregationTypeGrouping:   func() Aggregation { return &GroupingAggregation{} },
	}
	for typ := range fieldAggregationTypes {
		typ := typ
		reg[typ] =func() Aggregation { return &FieldAggregation{variant: typ} }
	}
	return reg
}()

// UnmarshalAggregation decodes an aggregation by its "type".
func UnmarshalAggregation(data []byte) (Aggregation, error) {
	return decodeVariant(data, "aggregation", "type", aggregationRegistry)
}
