package query

import (
	"encoding/json"
	"fmt"
)

// DimensionSpec selects a dimension and how it appears in results.
// The filtered variants wrap a delegate spec.
type DimensionSpec interface {
	Component
	dimensionSpecNode()
}

// Dimension spec discriminators.
const (
	DimensionTypeDefault        = "default"
	DimensionTypeExtraction     = "extraction"
	DimensionTypeListFiltered   = "listFiltered"
	DimensionTypeRegexFiltered  = "regexFiltered"
	DimensionTypePrefixFiltered = "prefixFiltered"
)

// DefaultDimensionSpec returns dimension values as they are stored.
type DefaultDimensionSpec struct {
	Type       string     `json:"type"`
	Dimension  string     `json:"dimension"`
	OutputName string     `json:"outputName,omitempty"`
	OutputType OutputType `json:"outputType,omitempty"`
}

func NewDefaultDimensionSpec(dimension string) *DefaultDimensionSpec {
	return &DefaultDimensionSpec{Type: DimensionTypeDefault, Dimension: dimension}
}

func (*DefaultDimensionSpec) dimensionSpecNode()   {}
func (d *DefaultDimensionSpec) ValidateType() bool { return d.Type == DimensionTypeDefault }

func (d *DefaultDimensionSpec) ValidateSubcomponents() bool {
	return outputTypes.optional(d.OutputType)
}

// ExtractionDimensionSpec returns dimension values transformed by ExtractionFn.
type ExtractionDimensionSpec struct {
	Type         string             `json:"type"`
	Dimension    string             `json:"dimension"`
	OutputName   string             `json:"outputName,omitempty"`
	OutputType   OutputType         `json:"outputType,omitempty"`
	ExtractionFn ExtractionFunction `json:"extractionFn"`
}

func NewExtractionDimensionSpec(dimension string, fn ExtractionFunction) *ExtractionDimensionSpec {
	return &ExtractionDimensionSpec{Type: DimensionTypeExtraction, Dimension: dimension, ExtractionFn: fn}
}

func (*ExtractionDimensionSpec) dimensionSpecNode()   {}
func (d *ExtractionDimensionSpec) ValidateType() bool { return d.Type == DimensionTypeExtraction }

func (d *ExtractionDimensionSpec) ValidateSubcomponents() bool {
	return outputTypes.optional(d.OutputType) && Valid(d.ExtractionFn)
}

func (d *ExtractionDimensionSpec) UnmarshalJSON(data []byte) error {
	type plain ExtractionDimensionSpec
	aux := struct {
		*plain
		ExtractionFn json.RawMessage `json:"extractionFn"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	fn, err := decodeOptional(aux.ExtractionFn, UnmarshalExtractionFunction)
	if err != nil {
		return fmt.Errorf("extractionFn: %w", err)
	}
	d.ExtractionFn = fn
	return nil
}

// ListFilteredDimensionSpec keeps (or, with IsWhitelist false, drops) the
// delegate's values that appear in Values.
type ListFilteredDimensionSpec struct {
	Type        string        `json:"type"`
	Delegate    DimensionSpec `json:"delegate"`
	Values      []string      `json:"values"`
	IsWhitelist *bool         `json:"isWhitelist,omitempty"`
}

func NewListFilteredDimensionSpec(delegate DimensionSpec, values ...string) *ListFilteredDimensionSpec {
	return &ListFilteredDimensionSpec{Type: DimensionTypeListFiltered, Delegate: delegate, Values: values}
}

func (*ListFilteredDimensionSpec) dimensionSpecNode()            {}
func (d *ListFilteredDimensionSpec) ValidateType() bool          { return d.Type == DimensionTypeListFiltered }
func (d *ListFilteredDimensionSpec) ValidateSubcomponents() bool { return Valid(d.Delegate) }

func (d *ListFilteredDimensionSpec) UnmarshalJSON(data []byte) error {
	type plain ListFilteredDimensionSpec
	aux := struct {
		*plain
		Delegate json.RawMessage `json:"delegate"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	delegate, err := decodeOptional(aux.Delegate, UnmarshalDimensionSpec)
	if err != nil {
		return fmt.Errorf("delegate: %w", err)
	}
	d.Delegate = delegate
	return nil
}

// RegexFilteredDimensionSpec keeps the delegate's values matching Pattern.
type RegexFilteredDimensionSpec struct {
	Type     string        `json:"type"`
	Delegate DimensionSpec `json:"delegate"`
	Pattern  string        `json:"pattern"`
}

func NewRegexFilteredDimensionSpec(delegate DimensionSpec, pattern string) *RegexFilteredDimensionSpec {
	return &RegexFilteredDimensionSpec{Type: DimensionTypeRegexFiltered, Delegate: delegate, Pattern: pattern}
}

func (*RegexFilteredDimensionSpec) dimensionSpecNode()            {}
func (d *RegexFilteredDimensionSpec) ValidateType() bool          { return d.Type == DimensionTypeRegexFiltered }
func (d *RegexFilteredDimensionSpec) ValidateSubcomponents() bool { return Valid(d.Delegate) }

func (d *RegexFilteredDimensionSpec) UnmarshalJSON(data []byte) error {
	type plain RegexFilteredDimensionSpec
	aux := struct {
		*plain
		Delegate json.RawMessage `json:"delegate"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	delegate, err := decodeOptional(aux.Delegate, UnmarshalDimensionSpec)
	if err != nil {
		return fmt.Errorf("delegate: %w", err)
	}
	d.Delegate = delegate
	return nil
}

// PrefixFilteredDimensionSpec keeps the delegate's values starting with Prefix.
type PrefixFilteredDimensionSpec struct {
	Type     string        `json:"type"`
	Delegate DimensionSpec `json:"delegate"`
	Prefix   string        `json:"prefix"`
}

func NewPrefixFilteredDimensionSpec(delegate DimensionSpec, prefix string) *PrefixFilteredDimensionSpec {
	return &PrefixFilteredDimensionSpec{Type: DimensionTypePrefixFiltered, Delegate: delegate, Prefix: prefix}
}

func (*PrefixFilteredDimensionSpec) dimensionSpecNode()            {}
func (d *PrefixFilteredDimensionSpec) ValidateType() bool          { return d.Type == DimensionTypePrefixFiltered }
func (d *PrefixFilteredDimensionSpec) ValidateSubcomponents() bool { return Valid(d.Delegate) }

func (d *PrefixFilteredDimensionSpec) UnmarshalJSON(data []byte) error {
	type plain PrefixFilteredDimensionSpec
	aux := struct {
		*plain
		Delegate json.RawMessage `json:"delegate"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	delegate, err := decodeOptional(aux.Delegate, UnmarshalDimensionSpec)
	if err != nil {
		return fmt.Errorf("delegate: %w", err)
	}
	d.Delegate = delegate
	return nil
}

var dimensionSpecRegistry = map[string]func() DimensionSpec{
	DimensionTypeDefault:        func() DimensionSpec { return &DefaultDimensionSpec{} },
	DimensionTypeExtraction:     func() DimensionSpec { return &ExtractionDimensionSpec{} },
	DimensionTypeListFiltered:   func() DimensionSpec { return &ListFilteredDimensionSpec{} },
	DimensionTypeRegexFiltered:  func() DimensionSpec { return &RegexFilteredDimensionSpec{} },
	DimensionTypePrefixFiltered: func() DimensionSpec { return &PrefixFilteredDimensionSpec{} },
}

// UnmarshalDimensionSpec decodes a dimension spec by its "type".
func UnmarshalDimensionSpec(data []byte) (DimensionSpec, error) {
	return decodeVariant(data, "dimension spec", "type", dimensionSpecRegistry)
}
