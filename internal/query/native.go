package query

import (
	"encoding/json"
	"errors"
	"fmt"
)

// NativeQuery is one of the eight native query shapes.
type NativeQuery interface {
	Component
	queryType() string
	contextField() **Context
}

// Query discriminators, carried in "queryType".
const (
	QueryTypeTimeseries         = "timeseries"
	QueryTypeTopN               = "topN"
	QueryTypeGroupBy            = "groupBy"
	QueryTypeTimeBoundary       = "timeBoundary"
	QueryTypeSegmentMetadata    = "segmentMetadata"
	QueryTypeDataSourceMetadata = "dataSourceMetadata"
	QueryTypeScan               = "scan"
	QueryTypeSearch             = "search"
)

// ErrNilQuery is returned when encoding a nil query.
var ErrNilQuery = errors.New("query is nil")

// Validate reports whether q passes both validation phases.
func Validate(q NativeQuery) bool {
	return Valid(q)
}

// Marshal encodes q as wire JSON. It does not validate.
func Marshal(q NativeQuery) ([]byte, error) {
	if isNil(q) {
		return nil, ErrNilQuery
	}
	return json.Marshal(q)
}

// Unmarshal decodes a query, dispatching on "queryType".
func Unmarshal(data []byte) (NativeQuery, error) {
	return decodeVariant(data, "query", "queryType", queryRegistry)
}

// TypeOf returns the discriminator q carries, or "" for a nil query.
func TypeOf(q NativeQuery) string {
	if isNil(q) {
		return ""
	}
	return q.queryType()
}

// EnsureContext returns the context of q, attaching an empty one first if
// q has none.
func EnsureContext(q NativeQuery) *Context {
	field := q.contextField()
	if *field == nil {
		*field = &Context{}
	}
	return *field
}

// Timeseries aggregates rows into time buckets.
type Timeseries struct {
	QueryType        string            `json:"queryType"`
	DataSource       DataSource        `json:"dataSource"`
	Descending       *bool             `json:"descending,omitempty"`
	Intervals        []string          `json:"intervals"`
	Granularity      Granularity       `json:"granularity"`
	Filter           Filter            `json:"filter,omitempty"`
	Aggregations     []Aggregation     `json:"aggregations,omitempty"`
	PostAggregations []PostAggregation `json:"postAggregations,omitempty"`
	VirtualColumns   []VirtualColumn   `json:"virtualColumns,omitempty"`
	Limit            *int64            `json:"limit,omitempty"`
	Context          *Context          `json:"context,omitempty"`
}

func NewTimeseries(ds DataSource, intervals []string, granularity Granularity) *Timeseries {
	return &Timeseries{QueryType: QueryTypeTimeseries, DataSource: ds, Intervals: intervals, Granularity: granularity}
}

func (q *Timeseries) queryType() string       { return q.QueryType }
func (q *Timeseries) contextField() **Context { return &q.Context }
func (q *Timeseries) ValidateType() bool      { return q.QueryType == QueryTypeTimeseries }

func (q *Timeseries) ValidateSubcomponents() bool {
	return Valid(q.DataSource) &&
		Valid(q.Granularity) &&
		validOptional(q.Filter) &&
		validAll(q.Aggregations) &&
		validAll(q.PostAggregations) &&
		validAll(q.VirtualColumns)
}

func (q *Timeseries) UnmarshalJSON(data []byte) error {
	type plain Timeseries
	aux := struct {
		*plain
		DataSource       json.RawMessage   `json:"dataSource"`
		Granularity      json.RawMessage   `json:"granularity"`
		Filter           json.RawMessage   `json:"filter"`
		Aggregations     []json.RawMessage `json:"aggregations"`
		PostAggregations []json.RawMessage `json:"postAggregations"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var fe fieldErrors
	q.DataSource = decodeField(&fe, "dataSource", aux.DataSource, UnmarshalDataSource)
	q.Granularity = decodeField(&fe, "granularity", aux.Granularity, UnmarshalGranularity)
	q.Filter = decodeField(&fe, "filter", aux.Filter, UnmarshalFilter)
	q.Aggregations = decodeFieldList(&fe, "aggregations", aux.Aggregations, UnmarshalAggregation)
	q.PostAggregations = decodeFieldList(&fe, "postAggregations", aux.PostAggregations, UnmarshalPostAggregation)
	return fe.err
}

// TopN returns the top Threshold values of one dimension ranked by Metric.
type TopN struct {
	QueryType        string            `json:"queryType"`
	DataSource       DataSource        `json:"dataSource"`
	Intervals        []string          `json:"intervals"`
	Granularity      Granularity       `json:"granularity"`
	Filter           Filter            `json:"filter,omitempty"`
	Aggregations     []Aggregation     `json:"aggregations,omitempty"`
	PostAggregations []PostAggregation `json:"postAggregations,omitempty"`
	VirtualColumns   []VirtualColumn   `json:"virtualColumns,omitempty"`
	Dimension        DimensionSpec     `json:"dimension"`
	Threshold        int64             `json:"threshold"`
	Metric           TopNMetricSpec    `json:"metric"`
	Context          *Context          `json:"context,omitempty"`
}

func NewTopN(ds DataSource, intervals []string, granularity Granularity, dimension DimensionSpec, threshold int64, metric TopNMetricSpec) *TopN {
	return &TopN{
		QueryType:   QueryTypeTopN,
		DataSource:  ds,
		Intervals:   intervals,
		Granularity: granularity,
		Dimension:   dimension,
		Threshold:   threshold,
		Metric:      metric,
	}
}

func (q *TopN) queryType() string       { return q.QueryType }
func (q *TopN) contextField() **Context { return &q.Context }
func (q *TopN) ValidateType() bool      { return q.QueryType == QueryTypeTopN }

func (q *TopN) ValidateSubcomponents() bool {
	return Valid(q.DataSource) &&
		Valid(q.Granularity) &&
		validOptional(q.Filter) &&
		validAll(q.Aggregations) &&
		validAll(q.PostAggregations) &&
		validAll(q.VirtualColumns) &&
		Valid(q.Dimension) &&
		Valid(q.Metric)
}

func (q *TopN) UnmarshalJSON(data []byte) error {
	type plain TopN
	aux := struct {
		*plain
		DataSource       json.RawMessage   `json:"dataSource"`
		Granularity      json.RawMessage   `json:"granularity"`
		Filter           json.RawMessage   `json:"filter"`
		Aggregations     []json.RawMessage `json:"aggregations"`
		PostAggregations []json.RawMessage `json:"postAggregations"`
		Dimension        json.RawMessage   `json:"dimension"`
		Metric           json.RawMessage   `json:"metric"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var fe fieldErrors
	q.DataSource = decodeField(&fe, "dataSource", aux.DataSource, UnmarshalDataSource)
	q.Granularity = decodeField(&fe, "granularity", aux.Granularity, UnmarshalGranularity)
	q.Filter = decodeField(&fe, "filter", aux.Filter, UnmarshalFilter)
	q.Aggregations = decodeFieldList(&fe, "aggregations", aux.Aggregations, UnmarshalAggregation)
	q.PostAggregations = decodeFieldList(&fe, "postAggregations", aux.PostAggregations, UnmarshalPostAggregation)
	q.Dimension = decodeField(&fe, "dimension", aux.Dimension, UnmarshalDimensionSpec)
	q.Metric = decodeField(&fe, "metric", aux.Metric, UnmarshalTopNMetricSpec)
	return fe.err
}

// GroupBy aggregates rows grouped by Dimensions.
type GroupBy struct {
	QueryType        string            `json:"queryType"`
	DataSource       DataSource        `json:"dataSource"`
	Dimensions       []DimensionSpec   `json:"dimensions"`
	LimitSpec        *LimitSpec        `json:"limitSpec,omitempty"`
	Having           Having            `json:"having,omitempty"`
	Granularity      Granularity       `json:"granularity"`
	Filter           Filter            `json:"filter,omitempty"`
	Aggregations     []Aggregation     `json:"aggregations,omitempty"`
	PostAggregations []PostAggregation `json:"postAggregations,omitempty"`
	VirtualColumns   []VirtualColumn   `json:"virtualColumns,omitempty"`
	Intervals        []string          `json:"intervals"`
	SubtotalsSpec    [][]string        `json:"subtotalsSpec,omitempty"`
	Context          *Context          `json:"context,omitempty"`
}

func NewGroupBy(ds DataSource, intervals []string, granularity Granularity, dimensions ...DimensionSpec) *GroupBy {
	return &GroupBy{
		QueryType:   QueryTypeGroupBy,
		DataSource:  ds,
		Dimensions:  dimensions,
		Granularity: granularity,
		Intervals:   intervals,
	}
}

func (q *GroupBy) queryType() string       { return q.QueryType }
func (q *GroupBy) contextField() **Context { return &q.Context }
func (q *GroupBy) ValidateType() bool      { return q.QueryType == QueryTypeGroupBy }

func (q *GroupBy) ValidateSubcomponents() bool {
	return Valid(q.DataSource) &&
		validAll(q.Dimensions) &&
		(q.LimitSpec == nil || Valid(q.LimitSpec)) &&
		validOptional(q.Having) &&
		Valid(q.Granularity) &&
		validOptional(q.Filter) &&
		validAll(q.Aggregations) &&
		validAll(q.PostAggregations) &&
		validAll(q.VirtualColumns)
}

func (q *GroupBy) UnmarshalJSON(data []byte) error {
	type plain GroupBy
	aux := struct {
		*plain
		DataSource       json.RawMessage   `json:"dataSource"`
		Dimensions       []json.RawMessage `json:"dimensions"`
		Having           json.RawMessage   `json:"having"`
		Granularity      json.RawMessage   `json:"granularity"`
		Filter           json.RawMessage   `json:"filter"`
		Aggregations     []json.RawMessage `json:"aggregations"`
		PostAggregations []json.RawMessage `json:"postAggregations"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var fe fieldErrors
	q.DataSource = decodeField(&fe, "dataSource", aux.DataSource, UnmarshalDataSource)
	q.Dimensions = decodeFieldList(&fe, "dimensions", aux.Dimensions, UnmarshalDimensionSpec)
	q.Having = decodeField(&fe, "having", aux.Having, UnmarshalHaving)
	q.Granularity = decodeField(&fe, "granularity", aux.Granularity, UnmarshalGranularity)
	q.Filter = decodeField(&fe, "filter", aux.Filter, UnmarshalFilter)
	q.Aggregations = decodeFieldList(&fe, "aggregations", aux.Aggregations, UnmarshalAggregation)
	q.PostAggregations = decodeFieldList(&fe, "postAggregations", aux.PostAggregations, UnmarshalPostAggregation)
	return fe.err
}

// TimeBoundary returns the earliest and latest timestamps of a data source.
type TimeBoundary struct {
	QueryType  string     `json:"queryType"`
	DataSource DataSource `json:"dataSource"`
	Bound      Bound      `json:"bound,omitempty"`
	Filter     Filter     `json:"filter,omitempty"`
	Context    *Context   `json:"context,omitempty"`
}

func NewTimeBoundary(ds DataSource) *TimeBoundary {
	return &TimeBoundary{QueryType: QueryTypeTimeBoundary, DataSource: ds}
}

func (q *TimeBoundary) queryType() string       { return q.QueryType }
func (q *TimeBoundary) contextField() **Context { return &q.Context }
func (q *TimeBoundary) ValidateType() bool      { return q.QueryType == QueryTypeTimeBoundary }

func (q *TimeBoundary) ValidateSubcomponents() bool {
	return Valid(q.DataSource) && validOptional(q.Filter) && bounds.optional(q.Bound)
}

func (q *TimeBoundary) UnmarshalJSON(data []byte) error {
	type plain TimeBoundary
	aux := struct {
		*plain
		DataSource json.RawMessage `json:"dataSource"`
		Filter     json.RawMessage `json:"filter"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var fe fieldErrors
	q.DataSource = decodeField(&fe, "dataSource", aux.DataSource, UnmarshalDataSource)
	q.Filter = decodeField(&fe, "filter", aux.Filter, UnmarshalFilter)
	return fe.err
}

// SegmentMetadata describes the segments of a data source.
type SegmentMetadata struct {
	QueryType              string         `json:"queryType"`
	DataSource             DataSource     `json:"dataSource"`
	Intervals              []string       `json:"intervals,omitempty"`
	ToInclude              ToInclude      `json:"toInclude,omitempty"`
	Merge                  *bool          `json:"merge,omitempty"`
	Context                *Context       `json:"context,omitempty"`
	AnalysisTypes          []AnalysisType `json:"analysisTypes"`
	LenientAggregatorMerge *bool          `json:"lenientAggregatorMerge,omitempty"`
}

func NewSegmentMetadata(ds DataSource, analysisTypes ...AnalysisType) *SegmentMetadata {
	return &SegmentMetadata{QueryType: QueryTypeSegmentMetadata, DataSource: ds, AnalysisTypes: analysisTypes}
}

func (q *SegmentMetadata) queryType() string       { return q.QueryType }
func (q *SegmentMetadata) contextField() **Context { return &q.Context }
func (q *SegmentMetadata) ValidateType() bool      { return q.QueryType == QueryTypeSegmentMetadata }

func (q *SegmentMetadata) ValidateSubcomponents() bool {
	return Valid(q.DataSource) && validOptional(q.ToInclude) && allKnown(q.AnalysisTypes)
}

func (q *SegmentMetadata) UnmarshalJSON(data []byte) error {
	type plain SegmentMetadata
	aux := struct {
		*plain
		DataSource json.RawMessage `json:"dataSource"`
		ToInclude  json.RawMessage `json:"toInclude"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var fe fieldErrors
	q.DataSource = decodeField(&fe, "dataSource", aux.DataSource, UnmarshalDataSource)
	q.ToInclude = decodeField(&fe, "toInclude", aux.ToInclude, UnmarshalToInclude)
	return fe.err
}

// DataSourceMetadata returns the last ingestion time of a data source.
type DataSourceMetadata struct {
	QueryType  string     `json:"queryType"`
	DataSource DataSource `json:"dataSource"`
	Context    *Context   `json:"context,omitempty"`
}

func NewDataSourceMetadata(ds DataSource) *DataSourceMetadata {
	return &DataSourceMetadata{QueryType: QueryTypeDataSourceMetadata, DataSource: ds}
}

func (q *DataSourceMetadata) queryType() string           { return q.QueryType }
func (q *DataSourceMetadata) contextField() **Context     { return &q.Context }
func (q *DataSourceMetadata) ValidateType() bool          { return q.QueryType == QueryTypeDataSourceMetadata }
func (q *DataSourceMetadata) ValidateSubcomponents() bool { return Valid(q.DataSource) }

func (q *DataSourceMetadata) UnmarshalJSON(data []byte) error {
	type plain DataSourceMetadata
	aux := struct {
		*plain
		DataSource json.RawMessage `json:"dataSource"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var fe fieldErrors
	q.DataSource = decodeField(&fe, "dataSource", aux.DataSource, UnmarshalDataSource)
	return fe.err
}

// Scan streams raw rows without aggregation.
type Scan struct {
	QueryType      string          `json:"queryType"`
	DataSource     DataSource      `json:"dataSource"`
	Intervals      []string        `json:"intervals"`
	Columns        []string        `json:"columns,omitempty"`
	Filter         Filter          `json:"filter,omitempty"`
	VirtualColumns []VirtualColumn `json:"virtualColumns,omitempty"`
	ResultFormat   ResultFormat    `json:"resultFormat,omitempty"`
	BatchSize      *int64          `json:"batchSize,omitempty"`
	Limit          *int64          `json:"limit,omitempty"`
	Offset         *int64          `json:"offset,omitempty"`
	Order          Order           `json:"order,omitempty"`
	Legacy         *bool           `json:"legacy,omitempty"`
	Context        *Context        `json:"context,omitempty"`
}

func NewScan(ds DataSource, intervals []string) *Scan {
	return &Scan{QueryType: QueryTypeScan, DataSource: ds, Intervals: intervals}
}

func (q *Scan) queryType() string       { return q.QueryType }
func (q *Scan) contextField() **Context { return &q.Context }
func (q *Scan) ValidateType() bool      { return q.QueryType == QueryTypeScan }

func (q *Scan) ValidateSubcomponents() bool {
	return Valid(q.DataSource) && validOptional(q.Filter) && validAll(q.VirtualColumns) &&
		resultFormats.optional(q.ResultFormat) && orders.optional(q.Order)
}

func (q *Scan) UnmarshalJSON(data []byte) error {
	type plain Scan
	aux := struct {
		*plain
		DataSource json.RawMessage `json:"dataSource"`
		Filter     json.RawMessage `json:"filter"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var fe fieldErrors
	q.DataSource = decodeField(&fe, "dataSource", aux.DataSource, UnmarshalDataSource)
	q.Filter = decodeField(&fe, "filter", aux.Filter, UnmarshalFilter)
	return fe.err
}

// Search returns dimension values matching Query.
type Search struct {
	QueryType        string          `json:"queryType"`
	DataSource       DataSource      `json:"dataSource"`
	Granularity      Granularity     `json:"granularity,omitempty"`
	Filter           Filter          `json:"filter,omitempty"`
	Limit            *int64          `json:"limit,omitempty"`
	Intervals        []string        `json:"intervals"`
	SearchDimensions []string        `json:"searchDimensions,omitempty"`
	Query            SearchQuerySpec `json:"query"`
	Sort             *SearchSortSpec `json:"sort,omitempty"`
	Context          *Context        `json:"context,omitempty"`
}

func NewSearch(ds DataSource, intervals []string, q SearchQuerySpec) *Search {
	return &Search{QueryType: QueryTypeSearch, DataSource: ds, Intervals: intervals, Query: q}
}

func (q *Search) queryType() string       { return q.QueryType }
func (q *Search) contextField() **Context { return &q.Context }
func (q *Search) ValidateType() bool      { return q.QueryType == QueryTypeSearch }

func (q *Search) ValidateSubcomponents() bool {
	return Valid(q.DataSource) &&
		validOptional(q.Granularity) &&
		validOptional(q.Filter) &&
		Valid(q.Query) &&
		(q.Sort == nil || Valid(q.Sort))
}

func (q *Search) UnmarshalJSON(data []byte) error {
	type plain Search
	aux := struct {
		*plain
		DataSource  json.RawMessage `json:"dataSource"`
		Granularity json.RawMessage `json:"granularity"`
		Filter      json.RawMessage `json:"filter"`
		Query       json.RawMessage `json:"query"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var fe fieldErrors
	q.DataSource = decodeField(&fe, "dataSource", aux.DataSource, UnmarshalDataSource)
	q.Granularity = decodeField(&fe, "granularity", aux.Granularity, UnmarshalGranularity)
	q.Filter = decodeField(&fe, "filter", aux.Filter, UnmarshalFilter)
	q.Query = decodeField(&fe, "query", aux.Query, UnmarshalSearchQuerySpec)
	return fe.err
}

var queryRegistry = map[string]func() NativeQuery{
	QueryTypeTimeseries:         func() NativeQuery { return &Timeseries{} },
	QueryTypeTopN:               func() NativeQuery { return &TopN{} },
	QueryTypeGroupBy:            func() NativeQuery { return &GroupBy{} },
	QueryTypeTimeBoundary:       func() NativeQuery { return &TimeBoundary{} },
	QueryTypeSegmentMetadata:    func() NativeQuery { return &SegmentMetadata{} },
	QueryTypeDataSourceMetadata: func() NativeQuery { return &DataSourceMetadata{} },
	QueryTypeScan:               func() NativeQuery { return &Scan{} },
	QueryTypeSearch:             func() NativeQuery { return &Search{} },
}

// fieldErrors keeps the first error met while decoding the fields of one
// object, so a run of decodeField calls needs a single check at the end.
type fieldErrors struct {
	err error
}

func decodeField[T any](fe *fieldErrors, name string, raw json.RawMessage, decode func([]byte) (T, error)) T {
	var zero T
	if fe.err != nil {
		return zero
	}
	v, err := decodeOptional(raw, decode)
	if err != nil {
		fe.err = fmt.Errorf("%s: %w", name, err)
		return zero
	}
	return v
}

func decodeFieldList[T any](fe *fieldErrors, name string, raws []json.RawMessage, decode func([]byte) (T, error)) []T {
	if fe.err != nil {
		return nil
	}
	items, err := decodeList(raws, decode)
	if err != nil {
		fe.err = fmt.Errorf("%s%w", name, err)
		return nil
	}
	return items
}
