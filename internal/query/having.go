package query

import (
	"encoding/json"
	"fmt"
)

// Having filters grouped rows after aggregation.
//
// EqualToHaving, GreaterThanHaving and LessThanHaving have identical fields
// and differ only in Type, which is why ValidateType is the only thing that
// tells them apart.
type Having interface {
	Component
	havingNode()
}

// Having discriminators.
const (
	HavingTypeFilter      = "filter"
	HavingTypeEqualTo     = "equalTo"
	HavingTypeGreaterThan = "greaterThan"
	HavingTypeLessThan    = "lessThan"
	HavingTypeDimSelector = "dimSelector"
	HavingTypeAnd         = "and"
	HavingTypeOr          = "or"
	HavingTypeNot         = "not"
)

// FilterHaving applies a row filter to grouped rows.
type FilterHaving struct {
	Type   string `json:"type"`
	Filter Filter `json:"filter"`
}

func NewFilterHaving(filter Filter) *FilterHaving {
	return &FilterHaving{Type: HavingTypeFilter, Filter: filter}
}

func (*FilterHaving) havingNode()                   {}
func (h *FilterHaving) ValidateType() bool          { return h.Type == HavingTypeFilter }
func (h *FilterHaving) ValidateSubcomponents() bool { return Valid(h.Filter) }

func (h *FilterHaving) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type   string          `json:"type"`
		Filter json.RawMessage `json:"filter"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	filter, err := decodeOptional(aux.Filter, UnmarshalFilter)
	if err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	h.Type, h.Filter = aux.Type, filter
	return nil
}

// EqualToHaving keeps rows whose Aggregation equals Value.
type EqualToHaving struct {
	Type        string  `json:"type"`
	Aggregation string  `json:"aggregation"`
	Value       float64 `json:"value"`
}

func NewEqualToHaving(aggregation string, value float64) *EqualToHaving {
	return &EqualToHaving{Type: HavingTypeEqualTo, Aggregation: aggregation, Value: value}
}

func (*EqualToHaving) havingNode()                 {}
func (h *EqualToHaving) ValidateType() bool        { return h.Type == HavingTypeEqualTo }
func (*EqualToHaving) ValidateSubcomponents() bool { return true }

// GreaterThanHaving keeps rows whose Aggregation exceeds Value.
type GreaterThanHaving struct {
	Type        string  `json:"type"`
	Aggregation string  `json:"aggregation"`
	Value       float64 `json:"value"`
}

func NewGreaterThanHaving(aggregation string, value float64) *GreaterThanHaving {
	return &GreaterThanHaving{Type: HavingTypeGreaterThan, Aggregation: aggregation, Value: value}
}

func (*GreaterThanHaving) havingNode()                 {}
func (h *GreaterThanHaving) ValidateType() bool        { return h.Type == HavingTypeGreaterThan }
func (*GreaterThanHaving) ValidateSubcomponents() bool { return true }

// LessThanHaving keeps rows whose Aggregation is below Value.
type LessThanHaving struct {
	Type        string  `json:"type"`
	Aggregation string  `json:"aggregation"`
	Value       float64 `json:"value"`
}

func NewLessThanHaving(aggregation string, value float64) *LessThanHaving {
	return &LessThanHaving{Type: HavingTypeLessThan, Aggregation: aggregation, Value: value}
}

func (*LessThanHaving) havingNode()                 {}
func (h *LessThanHaving) ValidateType() bool        { return h.Type == HavingTypeLessThan }
func (*LessThanHaving) ValidateSubcomponents() bool { return true }

// DimSelectorHaving keeps rows whose Dimension equals Value.
type DimSelectorHaving struct {
	Type         string             `json:"type"`
	Dimension    string             `json:"dimension"`
	Value        string             `json:"value"`
	ExtractionFn ExtractionFunction `json:"extractionFn,omitempty"`
}

func NewDimSelectorHaving(dimension, value string) *DimSelectorHaving {
	return &DimSelectorHaving{Type: HavingTypeDimSelector, Dimension: dimension, Value: value}
}

func (*DimSelectorHaving) havingNode()                   {}
func (h *DimSelectorHaving) ValidateType() bool          { return h.Type == HavingTypeDimSelector }
func (h *DimSelectorHaving) ValidateSubcomponents() bool { return validOptional(h.ExtractionFn) }

func (h *DimSelectorHaving) UnmarshalJSON(data []byte) error {
	type plain DimSelectorHaving
	aux := struct {
		*plain
		ExtractionFn json.RawMessage `json:"extractionFn"`
	}{plain: (*plain)(h)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	fn, err := decodeOptional(aux.ExtractionFn, UnmarshalExtractionFunction)
	if err != nil {
		return fmt.Errorf("extractionFn: %w", err)
	}
	h.ExtractionFn = fn
	return nil
}

// AndHaving keeps rows matched by every one of HavingSpecs.
type AndHaving struct {
	Type        string   `json:"type"`
	HavingSpecs []Having `json:"havingSpecs"`
}

func NewAndHaving(specs ...Having) *AndHaving {
	return &AndHaving{Type: HavingTypeAnd, HavingSpecs: specs}
}

func (*AndHaving) havingNode()                   {}
func (h *AndHaving) ValidateType() bool          { return h.Type == HavingTypeAnd }
func (h *AndHaving) ValidateSubcomponents() bool { return validAll(h.HavingSpecs) }

func (h *AndHaving) UnmarshalJSON(data []byte) error {
	typ, specs, err := decodeHavingSpecs(data)
	if err != nil {
		return err
	}
	h.Type, h.HavingSpecs = typ, specs
	return nil
}

// OrHaving keeps rows matched by any one of HavingSpecs.
type OrHaving struct {
	Type        string   `json:"type"`
	HavingSpecs []Having `json:"havingSpecs"`
}

func NewOrHaving(specs ...Having) *OrHaving {
	return &OrHaving{Type: HavingTypeOr, HavingSpecs: specs}
}

func (*OrHaving) havingNode()                   {}
func (h *OrHaving) ValidateType() bool          { return h.Type == HavingTypeOr }
func (h *OrHaving) ValidateSubcomponents() bool { return validAll(h.HavingSpecs) }

func (h *OrHaving) UnmarshalJSON(data []byte) error {
	typ, specs, err := decodeHavingSpecs(data)
	if err != nil {
		return err
	}
	h.Type, h.HavingSpecs = typ, specs
	return nil
}

// NotHaving keeps rows not matched by HavingSpecs.
type NotHaving struct {
	Type        string   `json:"type"`
	HavingSpecs []Having `json:"havingSpecs"`
}

func NewNotHaving(specs ...Having) *NotHaving {
	return &NotHaving{Type: HavingTypeNot, HavingSpecs: specs}
}

func (*NotHaving) havingNode()                   {}
func (h *NotHaving) ValidateType() bool          { return h.Type == HavingTypeNot }
func (h *NotHaving) ValidateSubcomponents() bool { return validAll(h.HavingSpecs) }

func (h *NotHaving) UnmarshalJSON(data []byte) error {
	typ, specs, err := decodeHavingSpecs(data)
	if err != nil {
		return err
	}
	h.Type, h.HavingSpecs = typ, specs
	return nil
}

func decodeHavingSpecs(data []byte) (string, []Having, error) {
	var aux struct {
		Type        string            `json:"type"`
		HavingSpecs []json.RawMessage `json:"havingSpecs"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return "", nil, err
	}
	specs, err := decodeList(aux.HavingSpecs, UnmarshalHaving)
	if err != nil {
		return "", nil, fmt.Errorf("havingSpecs%w", err)
	}
	return aux.Type, specs, nil
}

var havingRegistry = map[string]func() Having{
	HavingTypeFilter:      func() Having { return &FilterHaving{} },
	HavingTypeEqualTo:     func() Having { return &EqualToHaving{} },
	HavingTypeGreaterThan: func() Having { return &GreaterThanHaving{} },
	HavingTypeLessThan:    func() Having { return &LessThanHaving{} },
	HavingTypeDimSelector: func() Having { return &DimSelectorHaving{} },
	HavingTypeAnd:         func() Having { return &AndHaving{} },
	HavingTypeOr:          func() Having { return &OrHaving{} },
	HavingTypeNot:         func() Having { return &NotHaving{} },
}

// UnmarshalHaving decodes a having spec by its "type".
func UnmarshalHaving(data []byte) (Having, error) {
	return decodeVariant(data, "having", "type", havingRegistry)
}
