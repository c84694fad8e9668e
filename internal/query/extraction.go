package query

import (
	"encoding/json"
	"fmt"
)

// ExtractionFunction transforms a dimension value before it is grouped or
// filtered. CascadeExtraction chains other extraction functions.
type ExtractionFunction interface {
	Component
	extractionFunctionNode()
}

// Extraction function discriminators.
const (
	ExtractionTypeRegex        = "regex"
	ExtractionTypePartial      = "partial"
	ExtractionTypeSearchQuery  = "searchQuery"
	ExtractionTypeSubstring    = "substring"
	ExtractionTypeStrlen       = "strlen"
	ExtractionTypeTimeFormat   = "timeFormat"
	ExtractionTypeTimeParsing  = "timeParsing"
	ExtractionTypeJavaScript   = "javaScript"
	ExtractionTypeCascade      = "cascade"
	ExtractionTypeStringFormat = "stringFormat"
	ExtractionTypeUpper        = "upper"
	ExtractionTypeLower        = "lower"
	ExtractionTypeBucket       = "bucket"
)

// RegexExtraction returns the Index-th capture group of Expr.
type RegexExtraction struct {
	Type                    string `json:"type"`
	Expr                    string `json:"expr"`
	Index                   int64  `json:"index"`
	ReplaceMissingValue     bool   `json:"replaceMissingValue"`
	ReplaceMissingValueWith string `json:"replaceMissingValueWith,omitempty"`
}

func NewRegexExtraction(expr string, index int64) *RegexExtraction {
	return &RegexExtraction{Type: ExtractionTypeRegex, Expr: expr, Index: index}
}

func (*RegexExtraction) extractionFunctionNode()     {}
func (e *RegexExtraction) ValidateType() bool        { return e.Type == ExtractionTypeRegex }
func (*RegexExtraction) ValidateSubcomponents() bool { return true }

// PartialExtraction returns the value if it matches Expr, null otherwise.
type PartialExtraction struct {
	Type string `json:"type"`
	Expr string `json:"expr"`
}

func NewPartialExtraction(expr string) *PartialExtraction {
	return &PartialExtraction{Type: ExtractionTypePartial, Expr: expr}
}

func (*PartialExtraction) extractionFunctionNode()     {}
func (e *PartialExtraction) ValidateType() bool        { return e.Type == ExtractionTypePartial }
func (*PartialExtraction) ValidateSubcomponents() bool { return true }

// SearchQueryExtraction returns the value if it matches Query, null otherwise.
type SearchQueryExtraction struct {
	Type  string          `json:"type"`
	Query SearchQuerySpec `json:"query"`
}

func NewSearchQueryExtraction(q SearchQuerySpec) *SearchQueryExtraction {
	return &SearchQueryExtraction{Type: ExtractionTypeSearchQuery, Query: q}
}

func (*SearchQueryExtraction) extractionFunctionNode()       {}
func (e *SearchQueryExtraction) ValidateType() bool          { return e.Type == ExtractionTypeSearchQuery }
func (e *SearchQueryExtraction) ValidateSubcomponents() bool { return Valid(e.Query) }

func (e *SearchQueryExtraction) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type  string          `json:"type"`
		Query json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	q, err := decodeOptional(aux.Query, UnmarshalSearchQuerySpec)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	e.Type, e.Query = aux.Type, q
	return nil
}

// SubstringExtraction returns Length characters starting at Index.
type SubstringExtraction struct {
	Type   string `json:"type"`
	Index  int64  `json:"index"`
	Length *int64 `json:"length,omitempty"`
}

func NewSubstringExtraction(index int64) *SubstringExtraction {
	return &SubstringExtraction{Type: ExtractionTypeSubstring, Index: index}
}

func (*SubstringExtraction) extractionFunctionNode()     {}
func (e *SubstringExtraction) ValidateType() bool        { return e.Type == ExtractionTypeSubstring }
func (*SubstringExtraction) ValidateSubcomponents() bool { return true }

// StrlenExtraction returns the length of the value.
type StrlenExtraction struct {
	Type string `json:"type"`
}

func NewStrlenExtraction() *StrlenExtraction {
	return &StrlenExtraction{Type: ExtractionTypeStrlen}
}

func (*StrlenExtraction) extractionFunctionNode()     {}
func (e *StrlenExtraction) ValidateType() bool        { return e.Type == ExtractionTypeStrlen }
func (*StrlenExtraction) ValidateSubcomponents() bool { return true }

// TimeFormatExtraction formats a timestamp dimension with a Joda pattern.
type TimeFormatExtraction struct {
	Type        string      `json:"type"`
	Format      string      `json:"format,omitempty"`
	TimeZone    string      `json:"timeZone,omitempty"`
	Locale      string      `json:"locale,omitempty"`
	Granularity Granularity `json:"granularity,omitempty"`
	AsMillis    *bool       `json:"asMillis,omitempty"`
}

func NewTimeFormatExtraction(format string) *TimeFormatExtraction {
	return &TimeFormatExtraction{Type: ExtractionTypeTimeFormat, Format: format}
}

func (*TimeFormatExtraction) extractionFunctionNode() {}
func (e *TimeFormatExtraction) ValidateType() bool    { return e.Type == ExtractionTypeTimeFormat }

func (e *TimeFormatExtraction) ValidateSubcomponents() bool {
	return validOptional(e.Granularity)
}

func (e *TimeFormatExtraction) UnmarshalJSON(data []byte) error {
	type plain TimeFormatExtraction
	aux := struct {
		*plain
		Granularity json.RawMessage `json:"granularity"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	g, err := decodeOptional(aux.Granularity, UnmarshalGranularity)
	if err != nil {
		return fmt.Errorf("granularity: %w", err)
	}
	e.Granularity = g
	return nil
}

// TimeParsingExtraction reparses a time string from TimeFormat into ResultFormat.
type TimeParsingExtraction struct {
	Type         string `json:"type"`
	TimeFormat   string `json:"timeFormat"`
	ResultFormat string `json:"resultFormat"`
	Joda         *bool  `json:"joda,omitempty"`
}

func NewTimeParsingExtraction(timeFormat, resultFormat string) *TimeParsingExtraction {
	return &TimeParsingExtraction{Type: ExtractionTypeTimeParsing, TimeFormat: timeFormat, ResultFormat: resultFormat}
}

func (*TimeParsingExtraction) extractionFunctionNode()     {}
func (e *TimeParsingExtraction) ValidateType() bool        { return e.Type == ExtractionTypeTimeParsing }
func (*TimeParsingExtraction) ValidateSubcomponents() bool { return true }

// JavaScriptExtraction applies a JavaScript function to the value.
type JavaScriptExtraction struct {
	Type      string `json:"type"`
	Function  string `json:"function"`
	Injective *bool  `json:"injective,omitempty"`
}

func NewJavaScriptExtraction(function string) *JavaScriptExtraction {
	return &JavaScriptExtraction{Type: ExtractionTypeJavaScript, Function: function}
}

func (*JavaScriptExtraction) extractionFunctionNode()     {}
func (e *JavaScriptExtraction) ValidateType() bool        { return e.Type == ExtractionTypeJavaScript }
func (*JavaScriptExtraction) ValidateSubcomponents() bool { return true }

// CascadeExtraction applies ExtractionFns in order, feeding each output to
// the next.
type CascadeExtraction struct {
	Type          string               `json:"type"`
	ExtractionFns []ExtractionFunction `json:"extractionFns"`
}

func NewCascadeExtraction(fns ...ExtractionFunction) *CascadeExtraction {
	return &CascadeExtraction{Type: ExtractionTypeCascade, ExtractionFns: fns}
}

func (*CascadeExtraction) extractionFunctionNode() {}
func (e *CascadeExtraction) ValidateType() bool    { return e.Type == ExtractionTypeCascade }

func (e *CascadeExtraction) ValidateSubcomponents() bool {
	return validAll(e.ExtractionFns)
}

func (e *CascadeExtraction) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type          string            `json:"type"`
		ExtractionFns []json.RawMessage `json:"extractionFns"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	fns, err := decodeList(aux.ExtractionFns, UnmarshalExtractionFunction)
	if err != nil {
		return fmt.Errorf("extractionFns%w", err)
	}
	e.Type, e.ExtractionFns = aux.Type, fns
	return nil
}

// StringFormatExtraction formats the value with a printf-style Format.
type StringFormatExtraction struct {
	Type         string `json:"type"`
	Format       string `json:"format"`
	NullHandling string `json:"nullHandling,omitempty"`
}

func NewStringFormatExtraction(format string) *StringFormatExtraction {
	return &StringFormatExtraction{Type: ExtractionTypeStringFormat, Format: format}
}

func (*StringFormatExtraction) extractionFunctionNode()     {}
func (e *StringFormatExtraction) ValidateType() bool        { return e.Type == ExtractionTypeStringFormat }
func (*StringFormatExtraction) ValidateSubcomponents() bool { return true }

// UpperExtraction upper-cases the value.
type UpperExtraction struct {
	Type   string `json:"type"`
	Locale string `json:"locale,omitempty"`
}

func NewUpperExtraction() *UpperExtraction {
	return &UpperExtraction{Type: ExtractionTypeUpper}
}

func (*UpperExtraction) extractionFunctionNode()     {}
func (e *UpperExtraction) ValidateType() bool        { return e.Type == ExtractionTypeUpper }
func (*UpperExtraction) ValidateSubcomponents() bool { return true }

// LowerExtraction lower-cases the value.
type LowerExtraction struct {
	Type   string `json:"type"`
	Locale string `json:"locale,omitempty"`
}

func NewLowerExtraction() *LowerExtraction {
	return &LowerExtraction{Type: ExtractionTypeLower}
}

func (*LowerExtraction) extractionFunctionNode()     {}
func (e *LowerExtraction) ValidateType() bool        { return e.Type == ExtractionTypeLower }
func (*LowerExtraction) ValidateSubcomponents() bool { return true }

// BucketExtraction rounds numeric values down to buckets of Size starting at Offset.
type BucketExtraction struct {
	Type   string `json:"type"`
	Size   int64  `json:"size"`
	Offset int64  `json:"offset"`
}

func NewBucketExtraction(size, offset int64) *BucketExtraction {
	return &BucketExtraction{Type: ExtractionTypeBucket, Size: size, Offset: offset}
}

func (*BucketExtraction) extractionFunctionNode()     {}
func (e *BucketExtraction) ValidateType() bool        { return e.Type == ExtractionTypeBucket }
func (*BucketExtraction) ValidateSubcomponents() bool { return true }

var extractionFunctionRegistry = map[string]func() ExtractionFunction{
	ExtractionTypeRegex:        func() ExtractionFunction { return &RegexExtraction{} },
	ExtractionTypePartial:      func() ExtractionFunction { return &PartialExtraction{} },
	ExtractionTypeSearchQuery:  func() ExtractionFunction { return &SearchQueryExtraction{} },
	ExtractionTypeSubstring:    func() ExtractionFunction { return &SubstringExtraction{} },
	ExtractionTypeStrlen:       func() ExtractionFunction { return &StrlenExtraction{} },
	ExtractionTypeTimeFormat:   func() ExtractionFunction { return &TimeFormatExtraction{} },
	ExtractionTypeTimeParsing:  func() ExtractionFunction { return &TimeParsingExtraction{} },
	ExtractionTypeJavaScript:   func() ExtractionFunction { return &JavaScriptExtraction{} },
	ExtractionTypeCascade:      func() ExtractionFunction { return &CascadeExtraction{} },
	ExtractionTypeStringFormat: func() ExtractionFunction { return &StringFormatExtraction{} },
	ExtractionTypeUpper:        func() ExtractionFunction { return &UpperExtraction{} },
	ExtractionTypeLower:        func() ExtractionFunction { return &LowerExtraction{} },
	ExtractionTypeBucket:       func() ExtractionFunction { return &BucketExtraction{} },
}

// UnmarshalExtractionFunction decodes an extraction function by its "type".
func UnmarshalExtractionFunction(data []byte) (ExtractionFunction, error) {
	return decodeVariant(data, "extraction function", "type", extractionFunctionRegistry)
}
