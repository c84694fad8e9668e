package query

import (
	"encoding/json"
	"fmt"
)

// TopNMetricSpec decides how a topN query ranks dimension values.
type TopNMetricSpec interface {
	Component
	topNMetricNode()
}

const (
	TopNMetricTypeNumeric   = "numeric"
	TopNMetricTypeDimension = "dimension"
	TopNMetricTypeInverted  = "inverted"
)

// NumericTopNMetric ranks by an aggregated or post-aggregated metric.
type NumericTopNMetric struct {
	Type   string `json:"type"`
	Metric string `json:"metric"`
}

func NewNumericTopNMetric(metric string) *NumericTopNMetric {
	return &NumericTopNMetric{Type: TopNMetricTypeNumeric, Metric: metric}
}

func (*NumericTopNMetric) topNMetricNode()             {}
func (m *NumericTopNMetric) ValidateType() bool        { return m.Type == TopNMetricTypeNumeric }
func (*NumericTopNMetric) ValidateSubcomponents() bool { return true }

// DimensionTopNMetric ranks by the dimension values themselves.
// PreviousStop pages through results.
type DimensionTopNMetric struct {
	Type         string `json:"type"`
	Ordering     Sort   `json:"ordering,omitempty"`
	PreviousStop string `json:"previousStop,omitempty"`
}

func NewDimensionTopNMetric(ordering Sort) *DimensionTopNMetric {
	return &DimensionTopNMetric{Type: TopNMetricTypeDimension, Ordering: ordering}
}

func (*DimensionTopNMetric) topNMetricNode()               {}
func (m *DimensionTopNMetric) ValidateType() bool          { return m.Type == TopNMetricTypeDimension }
func (m *DimensionTopNMetric) ValidateSubcomponents() bool { return sorts.optional(m.Ordering) }

// InvertedTopNMetric reverses the order of Metric.
type InvertedTopNMetric struct {
	Type   string         `json:"type"`
	Metric TopNMetricSpec `json:"metric"`
}

func NewInvertedTopNMetric(metric TopNMetricSpec) *InvertedTopNMetric {
	return &InvertedTopNMetric{Type: TopNMetricTypeInverted, Metric: metric}
}

func (*InvertedTopNMetric) topNMetricNode()               {}
func (m *InvertedTopNMetric) ValidateType() bool          { return m.Type == TopNMetricTypeInverted }
func (m *InvertedTopNMetric) ValidateSubcomponents() bool { return Valid(m.Metric) }

func (m *InvertedTopNMetric) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type   string          `json:"type"`
		Metric json.RawMessage `json:"metric"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	metric, err := decodeOptional(aux.Metric, UnmarshalTopNMetricSpec)
	if err != nil {
		return fmt.Errorf("metric: %w", err)
	}
	m.Type, m.Metric = aux.Type, metric
	return nil
}

var topNMetricRegistry = map[string]func() TopNMetricSpec{
	TopNMetricTypeNumeric:   func() TopNMetricSpec { return &NumericTopNMetric{} },
	TopNMetricTypeDimension: func() TopNMetricSpec { return &DimensionTopNMetric{} },
	TopNMetricTypeInverted:  func() TopNMetricSpec { return &InvertedTopNMetric{} },
}

// UnmarshalTopNMetricSpec decodes a topN metric spec by its "type".
func UnmarshalTopNMetricSpec(data []byte) (TopNMetricSpec, error) {
	return decodeVariant(data, "topN metric", "type", topNMetricRegistry)
}
