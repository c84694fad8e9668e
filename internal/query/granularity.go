package query

import (
	"encoding/json"
	"fmt"
)

// Granularity is the time bucketing applied to a query. It is either a bare
// string (SimpleGranularity) or a typed object (period, duration).
type Granularity interface {
	Component
	granularityNode()
}

// SimpleGranularity is one of the named granularities, encoded as a bare string.
type SimpleGranularity string

const (
	GranularityAll           SimpleGranularity = "all"
	GranularityNone          SimpleGranularity = "none"
	GranularitySecond        SimpleGranularity = "second"
	GranularityMinute        SimpleGranularity = "minute"
	GranularityFifteenMinute SimpleGranularity = "fifteen_minute"
	GranularityThirtyMinute  SimpleGranularity = "thirty_minute"
	GranularityHour          SimpleGranularity = "hour"
	GranularityDay           SimpleGranularity = "day"
	GranularityWeek          SimpleGranularity = "week"
	GranularityMonth         SimpleGranularity = "month"
	GranularityQuarter       SimpleGranularity = "quarter"
	GranularityYear          SimpleGranularity = "year"
)

var simpleGranularities = map[SimpleGranularity]bool{
	GranularityAll:           true,
	GranularityNone:          true,
	GranularitySecond:        true,
	GranularityMinute:        true,
	GranularityFifteenMinute: true,
	GranularityThirtyMinute:  true,
	GranularityHour:          true,
	GranularityDay:           true,
	GranularityWeek:          true,
	GranularityMonth:         true,
	GranularityQuarter:       true,
	GranularityYear:          true,
}

func (SimpleGranularity) granularityNode() {}

// ValidateType reports whether g names a known granularity; the name is
// the discriminator for the bare-string form.
func (g SimpleGranularity) ValidateType() bool { return simpleGranularities[g] }

func (SimpleGranularity) ValidateSubcomponents() bool { return true }

// Granularity object discriminators.
const (
	GranularityTypePeriod   = "period"
	GranularityTypeDuration = "duration"
)

// PeriodGranularity buckets by an ISO-8601 period, e.g. "P2D".
type PeriodGranularity struct {
	Type     string `json:"type"`
	Period   string `json:"period"`
	TimeZone string `json:"timeZone,omitempty"`
	Origin   string `json:"origin,omitempty"`
}

func NewPeriodGranularity(period string) *PeriodGranularity {
	return &PeriodGranularity{Type: GranularityTypePeriod, Period: period}
}

func (*PeriodGranularity) granularityNode() {}

func (g *PeriodGranularity) ValidateType() bool { return g.Type == GranularityTypePeriod }

func (*PeriodGranularity) ValidateSubcomponents() bool { return true }

// DurationGranularity buckets by a fixed number of milliseconds.
type DurationGranularity struct {
	Type     string `json:"type"`
	Duration int64  `json:"duration"`
	Origin   string `json:"origin,omitempty"`
}

func NewDurationGranularity(millis int64) *DurationGranularity {
	return &DurationGranularity{Type: GranularityTypeDuration, Duration: millis}
}

func (*DurationGranularity) granularityNode() {}

func (g *DurationGranularity) ValidateType() bool { return g.Type == GranularityTypeDuration }

func (*DurationGranularity) ValidateSubcomponents() bool { return true }

var granularityRegistry = map[string]func() Granularity{
	GranularityTypePeriod:   func() Granularity { return &PeriodGranularity{} },
	GranularityTypeDuration: func() Granularity { return &DurationGranularity{} },
}

// UnmarshalGranularity decodes either form of granularity. A bare string
// must name one of the known granularities.
func UnmarshalGranularity(data []byte) (Granularity, error) {
	if isJSONString(data) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return nil, fmt.Errorf("decode granularity: %w", err)
		}
		g := SimpleGranularity(name)
		if !simpleGranularities[g] {
			return nil, &UnknownTypeError{Family: "granularity", Type: name}
		}
		return g, nil
	}
	return decodeVariant(data, "granularity", "type", granularityRegistry)
}

// GranularitySpecType is the only GranularitySpec discriminator.
const GranularitySpecType = "granularitySpec"

// GranularitySpec pairs a segment granularity with a query granularity.
type GranularitySpec struct {
	Type               string      `json:"type"`
	SegmentGranularity Granularity `json:"segmentGranularity"`
	QueryGranularity   Granularity `json:"queryGranularity"`
	Rollup             *bool       `json:"rollup,omitempty"`
	Intervals          []string    `json:"intervals,omitempty"`
}

func NewGranularitySpec(segment, query Granularity) *GranularitySpec {
	return &GranularitySpec{Type: GranularitySpecType, SegmentGranularity: segment, QueryGranularity: query}
}

func (s *GranularitySpec) ValidateType() bool { return s.Type == GranularitySpecType }

func (s *GranularitySpec) ValidateSubcomponents() bool {
	return Valid(s.SegmentGranularity) && Valid(s.QueryGranularity)
}

func (s *GranularitySpec) UnmarshalJSON(data []byte) error {
	type plain GranularitySpec
	aux := struct {
		*plain
		SegmentGranularity json.RawMessage `json:"segmentGranularity"`
		QueryGranularity   json.RawMessage `json:"queryGranularity"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if s.SegmentGranularity, err = decodeOptional(aux.SegmentGranularity, UnmarshalGranularity); err != nil {
		return fmt.Errorf("segmentGranularity: %w", err)
	}
	if s.QueryGranularity, err = decodeOptional(aux.QueryGranularity, UnmarshalGranularity); err != nil {
		return fmt.Errorf("queryGranularity: %w", err)
	}
	return nil
}
