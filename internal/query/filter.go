package query

import (
	"encoding/json"
	"fmt"
)

// Filter selects the rows a query operates on.
//
// AndFilter and OrFilter own a sequence of filters, NotFilter owns one.
// Every other variant is a leaf; SearchFilter, LikeFilter, BoundFilter and
// IntervalFilter may also own an ExtractionFunction.
type Filter interface {
	Component
	filterNode()
}

// Filter discriminators. The family uses snake_case literals.
const (
	FilterTypeSelector         = "selector"
	FilterTypeColumnComparison = "column_comparison"
	FilterTypeRegex            = "regex"
	FilterTypeAnd              = "and"
	FilterTypeOr               = "or"
	FilterTypeNot              = "not"
	FilterTypeJavascript       = "javascript"
	FilterTypeSearch           = "search"
	FilterTypeIn               = "in"
	FilterTypeLike             = "like"
	FilterTypeBound            = "bound"
	FilterTypeInterval         = "interval"
	FilterTypeTrue             = "true"
	FilterTypeExpression       = "expression"
)

// SelectorFilter matches rows where Dimension equals Value.
type SelectorFilter struct {
	Type      string `json:"type"`
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
}

func NewSelectorFilter(dimension, value string) *SelectorFilter {
	return &SelectorFilter{Type: FilterTypeSelector, Dimension: dimension, Value: value}
}

func (*SelectorFilter) filterNode()                 {}
func (f *SelectorFilter) ValidateType() bool        { return f.Type == FilterTypeSelector }
func (*SelectorFilter) ValidateSubcomponents() bool { return true }

// ColumnComparisonFilter matches rows where all Dimensions hold the same value.
type ColumnComparisonFilter struct {
	Type       string   `json:"type"`
	Dimensions []string `json:"dimensions"`
}

func NewColumnComparisonFilter(dimensions ...string) *ColumnComparisonFilter {
	return &ColumnComparisonFilter{Type: FilterTypeColumnComparison, Dimensions: dimensions}
}

func (*ColumnComparisonFilter) filterNode()                 {}
func (f *ColumnComparisonFilter) ValidateType() bool        { return f.Type == FilterTypeColumnComparison }
func (*ColumnComparisonFilter) ValidateSubcomponents() bool { return true }

// RegexFilter matches Dimension against a Java regular expression.
type RegexFilter struct {
	Type      string `json:"type"`
	Dimension string `json:"dimension"`
	Pattern   string `json:"pattern"`
}

func NewRegexFilter(dimension, pattern string) *RegexFilter {
	return &RegexFilter{Type: FilterTypeRegex, Dimension: dimension, Pattern: pattern}
}

func (*RegexFilter) filterNode()                 {}
func (f *RegexFilter) ValidateType() bool        { return f.Type == FilterTypeRegex }
func (*RegexFilter) ValidateSubcomponents() bool { return true }

// AndFilter matches rows matched by every one of Fields. Empty matches all.
type AndFilter struct {
	Type   string   `json:"type"`
	Fields []Filter `json:"fields"`
}

func NewAndFilter(fields ...Filter) *AndFilter {
	return &AndFilter{Type: FilterTypeAnd, Fields: fields}
}

func (*AndFilter) filterNode()                   {}
func (f *AndFilter) ValidateType() bool          { return f.Type == FilterTypeAnd }
func (f *AndFilter) ValidateSubcomponents() bool { return validAll(f.Fields) }

func (f *AndFilter) UnmarshalJSON(data []byte) error {
	typ, fields, err := decodeFilterFields(data)
	if err != nil {
		return err
	}
	f.Type, f.Fields = typ, fields
	return nil
}

// OrFilter matches rows matched by any one of Fields.
type OrFilter struct {
	Type   string   `json:"type"`
	Fields []Filter `json:"fields"`
}

func NewOrFilter(fields ...Filter) *OrFilter {
	return &OrFilter{Type: FilterTypeOr, Fields: fields}
}

func (*OrFilter) filterNode()                   {}
func (f *OrFilter) ValidateType() bool          { return f.Type == FilterTypeOr }
func (f *OrFilter) ValidateSubcomponents() bool { return validAll(f.Fields) }

func (f *OrFilter) UnmarshalJSON(data []byte) error {
	typ, fields, err := decodeFilterFields(data)
	if err != nil {
		return err
	}
	f.Type, f.Fields = typ, fields
	return nil
}

func decodeFilterFields(data []byte) (string, []Filter, error) {
	var aux struct {
		Type   string            `json:"type"`
		Fields []json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return "", nil, err
	}
	fields, err := decodeList(aux.Fields, UnmarshalFilter)
	if err != nil {
		return "", nil, fmt.Errorf("fields%w", err)
	}
	return aux.Type, fields, nil
}

// NotFilter inverts Field.
type NotFilter struct {
	Type  string `json:"type"`
	Field Filter `json:"field"`
}

func NewNotFilter(field Filter) *NotFilter {
	return &NotFilter{Type: FilterTypeNot, Field: field}
}

func (*NotFilter) filterNode()                   {}
func (f *NotFilter) ValidateType() bool          { return f.Type == FilterTypeNot }
func (f *NotFilter) ValidateSubcomponents() bool { return Valid(f.Field) }

func (f *NotFilter) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type  string          `json:"type"`
		Field json.RawMessage `json:"field"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	field, err := decodeOptional(aux.Field, UnmarshalFilter)
	if err != nil {
		return fmt.Errorf("field: %w", err)
	}
	f.Type, f.Field = aux.Type, field
	return nil
}

// JavascriptFilter matches rows for which Function returns true.
type JavascriptFilter struct {
	Type      string `json:"type"`
	Dimension string `json:"dimension"`
	Function  string `json:"function"`
}

func NewJavascriptFilter(dimension, function string) *JavascriptFilter {
	return &JavascriptFilter{Type: FilterTypeJavascript, Dimension: dimension, Function: function}
}

func (*JavascriptFilter) filterNode()                 {}
func (f *JavascriptFilter) ValidateType() bool        { return f.Type == FilterTypeJavascript }
func (*JavascriptFilter) ValidateSubcomponents() bool { return true }

// SearchFilter matches Dimension with a search query spec.
type SearchFilter struct {
	Type         string             `json:"type"`
	Dimension    string             `json:"dimension"`
	Query        SearchQuerySpec    `json:"query"`
	ExtractionFn ExtractionFunction `json:"extractionFn,omitempty"`
}

func NewSearchFilter(dimension string, q SearchQuerySpec) *SearchFilter {
	return &SearchFilter{Type: FilterTypeSearch, Dimension: dimension, Query: q}
}

func (*SearchFilter) filterNode()          {}
func (f *SearchFilter) ValidateType() bool { return f.Type == FilterTypeSearch }

func (f *SearchFilter) ValidateSubcomponents() bool {
	return Valid(f.Query) && validOptional(f.ExtractionFn)
}

func (f *SearchFilter) UnmarshalJSON(data []byte) error {
	type plain SearchFilter
	aux := struct {
		*plain
		Query        json.RawMessage `json:"query"`
		ExtractionFn json.RawMessage `json:"extractionFn"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if f.Query, err = decodeOptional(aux.Query, UnmarshalSearchQuerySpec); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if f.ExtractionFn, err = decodeOptional(aux.ExtractionFn, UnmarshalExtractionFunction); err != nil {
		return fmt.Errorf("extractionFn: %w", err)
	}
	return nil
}

// InFilter matches rows where Dimension is one of Values.
type InFilter struct {
	Type      string   `json:"type"`
	Dimension string   `json:"dimension"`
	Values    []string `json:"values"`
}

func NewInFilter(dimension string, values ...string) *InFilter {
	return &InFilter{Type: FilterTypeIn, Dimension: dimension, Values: values}
}

func (*InFilter) filterNode()                 {}
func (f *InFilter) ValidateType() bool        { return f.Type == FilterTypeIn }
func (*InFilter) ValidateSubcomponents() bool { return true }

// LikeFilter matches Dimension against a SQL LIKE pattern.
type LikeFilter struct {
	Type         string             `json:"type"`
	Dimension    string             `json:"dimension"`
	Pattern      string             `json:"pattern"`
	Escape       string             `json:"escape,omitempty"`
	ExtractionFn ExtractionFunction `json:"extractionFn,omitempty"`
}

func NewLikeFilter(dimension, pattern string) *LikeFilter {
	return &LikeFilter{Type: FilterTypeLike, Dimension: dimension, Pattern: pattern}
}

func (*LikeFilter) filterNode()                   {}
func (f *LikeFilter) ValidateType() bool          { return f.Type == FilterTypeLike }
func (f *LikeFilter) ValidateSubcomponents() bool { return validOptional(f.ExtractionFn) }

func (f *LikeFilter) UnmarshalJSON(data []byte) error {
	type plain LikeFilter
	aux := struct {
		*plain
		ExtractionFn json.RawMessage `json:"extractionFn"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	fn, err := decodeOptional(aux.ExtractionFn, UnmarshalExtractionFunction)
	if err != nil {
		return fmt.Errorf("extractionFn: %w", err)
	}
	f.ExtractionFn = fn
	return nil
}

// BoundFilter matches Dimension within [Lower, Upper]. Either side may be
// open; strictness is per side.
type BoundFilter struct {
	Type         string             `json:"type"`
	Dimension    string             `json:"dimension"`
	Lower        *string            `json:"lower,omitempty"`
	Upper        *string            `json:"upper,omitempty"`
	LowerStrict  *bool              `json:"lowerStrict,omitempty"`
	UpperStrict  *bool              `json:"upperStrict,omitempty"`
	Ordering     Sort               `json:"ordering,omitempty"`
	ExtractionFn ExtractionFunction `json:"extractionFn,omitempty"`
}

func NewBoundFilter(dimension string) *BoundFilter {
	return &BoundFilter{Type: FilterTypeBound, Dimension: dimension}
}

func (*BoundFilter) filterNode()          {}
func (f *BoundFilter) ValidateType() bool { return f.Type == FilterTypeBound }

func (f *BoundFilter) ValidateSubcomponents() bool {
	return sorts.optional(f.Ordering) && validOptional(f.ExtractionFn)
}

func (f *BoundFilter) UnmarshalJSON(data []byte) error {
	type plain BoundFilter
	aux := struct {
		*plain
		ExtractionFn json.RawMessage `json:"extractionFn"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	fn, err := decodeOptional(aux.ExtractionFn, UnmarshalExtractionFunction)
	if err != nil {
		return fmt.Errorf("extractionFn: %w", err)
	}
	f.ExtractionFn = fn
	return nil
}

// IntervalFilter matches time-valued Dimension against ISO-8601 Intervals.
type IntervalFilter struct {
	Type         string             `json:"type"`
	Dimension    string             `json:"dimension"`
	Intervals    []string           `json:"intervals"`
	ExtractionFn ExtractionFunction `json:"extractionFn,omitempty"`
}

func NewIntervalFilter(dimension string, intervals ...string) *IntervalFilter {
	return &IntervalFilter{Type: FilterTypeInterval, Dimension: dimension, Intervals: intervals}
}

func (*IntervalFilter) filterNode()                   {}
func (f *IntervalFilter) ValidateType() bool          { return f.Type == FilterTypeInterval }
func (f *IntervalFilter) ValidateSubcomponents() bool { return validOptional(f.ExtractionFn) }

func (f *IntervalFilter) UnmarshalJSON(data []byte) error {
	type plain IntervalFilter
	aux := struct {
		*plain
		ExtractionFn json.RawMessage `json:"extractionFn"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	fn, err := decodeOptional(aux.ExtractionFn, UnmarshalExtractionFunction)
	if err != nil {
		return fmt.Errorf("extractionFn: %w", err)
	}
	f.ExtractionFn = fn
	return nil
}

// TrueFilter matches every row.
type TrueFilter struct {
	Type string `json:"type"`
}

func NewTrueFilter() *TrueFilter {
	return &TrueFilter{Type: FilterTypeTrue}
}

func (*TrueFilter) filterNode()                 {}
func (f *TrueFilter) ValidateType() bool        { return f.Type == FilterTypeTrue }
func (*TrueFilter) ValidateSubcomponents() bool { return true }

// ExpressionFilter matches rows for which a Druid expression is true.
type ExpressionFilter struct {
	Type       string `json:"type"`
	Expression string `json:"expression"`
}

func NewExpressionFilter(expression string) *ExpressionFilter {
	return &ExpressionFilter{Type: FilterTypeExpression, Expression: expression}
}

func (*ExpressionFilter) filterNode()                 {}
func (f *ExpressionFilter) ValidateType() bool        { return f.Type == FilterTypeExpression }
func (*ExpressionFilter) ValidateSubcomponents() bool { return true }

var filterRegistry = map[string]func() Filter{
	FilterTypeSelector:         func() Filter { return &SelectorFilter{} },
	FilterTypeColumnComparison: func() Filter { return &ColumnComparisonFilter{} },
	FilterTypeRegex:            func() Filter { return &RegexFilter{} },
	FilterTypeAnd:              func() Filter { return &AndFilter{} },
	FilterTypeOr:               func() Filter { return &OrFilter{} },
	FilterTypeNot:              func() Filter { return &NotFilter{} },
	FilterTypeJavascript:       func() Filter { return &JavascriptFilter{} },
	FilterTypeSearch:           func() Filter { return &SearchFilter{} },
	FilterTypeIn:               func() Filter { return &InFilter{} },
	FilterTypeLike:             func() Filter { return &LikeFilter{} },
	FilterTypeBound:            func() Filter { return &BoundFilter{} },
	FilterTypeInterval:         func() Filter { return &IntervalFilter{} },
	FilterTypeTrue:             func() Filter { return &TrueFilter{} },
	FilterTypeExpression:       func() Filter { return &ExpressionFilter{} },
}

// UnmarshalFilter decodes a filter by its "type".
func UnmarshalFilter(data []byte) (Filter, error) {
	return decodeVariant(data, "filter", "type", filterRegistry)
}
